package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shop/internal/domain/model"
	"shop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestRegisterUser_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 平文は保存しない
		return u.Username == "alice" && u.PasswordHash == "hashed:CorrectPW1" && u.CreatedAt.Equal(testNow)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 1
	}).Return(nil)

	uc := NewRegisterUserUsecase(userRepo, fakeHasher{}, fixedClock{testNow})

	out, err := uc.Execute(context.Background(), RegisterUserInput{Username: "  alice ", Password: "CorrectPW1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.User.ID)
	assert.Equal(t, "alice", out.User.Username)
	assert.Empty(t, out.User.PasswordHash)
	userRepo.AssertExpectations(t)
}

func TestRegisterUser_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{name: "short username", username: "ab", password: "CorrectPW1", want: ErrInvalidUsername},
		{name: "bad chars", username: "alice bob", password: "CorrectPW1", want: ErrInvalidUsername},
		{name: "long username", username: strings.Repeat("a", 51), password: "CorrectPW1", want: ErrInvalidUsername},
		{name: "short password", username: "alice", password: "short", want: ErrPasswordTooShort},
		{name: "long password", username: "alice", password: strings.Repeat("x", 73), want: ErrPasswordTooLong},
		{name: "weak password", username: "alice", password: "Password123", want: ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			uc := NewRegisterUserUsecase(userRepo, fakeHasher{}, fixedClock{testNow})

			_, err := uc.Execute(context.Background(), RegisterUserInput{Username: tt.username, Password: tt.password})
			assert.ErrorIs(t, err, tt.want)
			userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterUser_UsernameTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)

	uc := NewRegisterUserUsecase(userRepo, fakeHasher{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), RegisterUserInput{Username: "alice", Password: "CorrectPW1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 事前チェックをすり抜けても一意制約で同じエラーになる
func TestRegisterUser_UniqueConstraint(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateUsername)

	uc := NewRegisterUserUsecase(userRepo, fakeHasher{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), RegisterUserInput{Username: "alice", Password: "CorrectPW1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterUser_RepoError(t *testing.T) {
	userRepo := new(MockUserRepository)
	dbErr := errors.New("db down")
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, dbErr)

	uc := NewRegisterUserUsecase(userRepo, fakeHasher{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), RegisterUserInput{Username: "alice", Password: "CorrectPW1"})
	assert.ErrorIs(t, err, dbErr)
}

func TestBcrypt_HashAndVerify(t *testing.T) {
	h := NewBcryptPasswordHasher(4)
	hashed, err := h.Hash("CorrectPW1")
	require.NoError(t, err)
	assert.NotEqual(t, "CorrectPW1", hashed)

	v := NewBcryptPasswordVerifier()
	assert.True(t, v.Verify("CorrectPW1", hashed))
	assert.False(t, v.Verify("WrongPW1", hashed))
}
