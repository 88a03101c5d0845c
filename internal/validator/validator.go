package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

// FieldError はjsonのキー名とルール名
type FieldError struct {
	Field string
	Rule  string
}

// Error はどのフィールドがどのルールで落ちたかを持つ
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" failed on rule: "+f.Rule)
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func (e *Error) Unwrap() error {
	return ErrInvalidInput
}

// RequestValidator はecho.Validatorとして使う
type RequestValidator struct {
	validate *playground.Validate
}

func New() *RequestValidator {
	v := playground.New()

	//エラーのフィールド名はjson/formタグに合わせる
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	return &RequestValidator{validate: v}
}

func (v *RequestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	sort.Slice(out.Fields, func(a, b int) bool { return out.Fields[a].Field < out.Fields[b].Field })
	return out
}
