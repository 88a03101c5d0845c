package token

import (
	"errors"
	"strconv"
	"time"

	"shop/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid session token")

// HS256でセッショントークンを署名/検証する。
type JWTIssuer struct {
	secret []byte
}

func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret)}
}

// jwt発行
func (i *JWTIssuer) Issue(userID int64, sessionID string, expiresAt time.Time, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// 署名・アルゴリズム・期限を検証してclaimsを返す。ゲストはUserID=0
func (i *JWTIssuer) Parse(raw string) (model.SessionClaims, error) {
	if raw == "" {
		return model.SessionClaims{}, ErrInvalidToken
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return model.SessionClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.SessionClaims{}, ErrInvalidToken
	}

	userID, err := parseUserID(claims["sub"])
	if err != nil || userID < 0 {
		return model.SessionClaims{}, ErrInvalidToken
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return model.SessionClaims{}, ErrInvalidToken
	}

	//expは必須
	exp, ok := claims["exp"].(float64)
	if !ok {
		return model.SessionClaims{}, ErrInvalidToken
	}

	return model.SessionClaims{
		UserID:    userID,
		SessionID: sid,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// subをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}
