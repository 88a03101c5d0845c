package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"shop/internal/domain/cart"
	"shop/internal/domain/model"
	"shop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func newLoginUC(userRepo *MockUserRepository, sessions *MockSessionStore) *LoginUsecase {
	return NewLoginUsecase(userRepo, sessions, NewBcryptPasswordVerifier(), fakeIssuer{}, fixedID("new-sid"), fixedClock{testNow}, time.Hour)
}

func aliceWith(t *testing.T, pass string) *model.User {
	return &model.User{ID: 7, Username: "alice", PasswordHash: mustHash(t, pass)}
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	sessions := new(MockSessionStore)

	userRepo.On("FindByUsername", mock.Anything, "alice").Return(aliceWith(t, "CorrectPW1"), nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.LastLoginAt != nil && u.LastLoginAt.Equal(testNow)
	})).Return(nil)
	sessions.On("CreateSession", mock.Anything, model.Session{
		ID:        "new-sid",
		UserID:    7,
		Username:  "alice",
		CreatedAt: testNow,
		ExpiresAt: testNow.Add(time.Hour),
	}).Return(nil)

	out, err := newLoginUC(userRepo, sessions).Execute(context.Background(), LoginInput{Username: "alice", Password: "CorrectPW1"})
	require.NoError(t, err)
	assert.Equal(t, "user:new-sid", out.Token)
	assert.Equal(t, int64(7), out.Session.UserID)
	assert.Empty(t, out.User.PasswordHash)

	userRepo.AssertExpectations(t)
	sessions.AssertExpectations(t)
	sessions.AssertNotCalled(t, "FindSession", mock.Anything, mock.Anything)
}

// ユーザーが無い場合もパスワード違いも同じエラー。セッションは作らない
func TestLogin_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*MockUserRepository)
	}{
		{
			name: "unknown user",
			setup: func(r *MockUserRepository) {
				r.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
			},
		},
		{
			name: "wrong password",
			setup: func(r *MockUserRepository) {
				r.On("FindByUsername", mock.Anything, "alice").Return(aliceWith(t, "CorrectPW1"), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			sessions := new(MockSessionStore)
			tt.setup(userRepo)

			_, err := newLoginUC(userRepo, sessions).Execute(context.Background(), LoginInput{Username: "alice", Password: "WrongPW12"})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			sessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
			userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestLogin_AdoptsGuestCart(t *testing.T) {
	userRepo := new(MockUserRepository)
	sessions := new(MockSessionStore)
	guestLedger := cart.NewLedger(cart.Entry{ProductID: 1, Quantity: 2})

	userRepo.On("FindByUsername", mock.Anything, "alice").Return(aliceWith(t, "CorrectPW1"), nil)
	userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	sessions.On("CreateSession", mock.Anything, mock.Anything).Return(nil)
	sessions.On("FindSession", mock.Anything, "guest-sid").Return(model.Session{ID: "guest-sid"}, nil)
	sessions.On("LoadLedger", mock.Anything, "guest-sid").Return(guestLedger, nil)
	sessions.On("SaveLedger", mock.Anything, "new-sid", guestLedger).Return(nil)
	sessions.On("DeleteSession", mock.Anything, "guest-sid").Return(nil)

	_, err := newLoginUC(userRepo, sessions).Execute(context.Background(), LoginInput{
		Username:       "alice",
		Password:       "CorrectPW1",
		GuestSessionID: "guest-sid",
	})
	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestLogin_DiscardsSessionOnFailure(t *testing.T) {
	storeDown := errors.New("store down")
	tests := []struct {
		name  string
		setup func(*MockUserRepository, *MockSessionStore)
	}{
		{
			name: "guest cart load fails",
			setup: func(r *MockUserRepository, s *MockSessionStore) {
				s.On("FindSession", mock.Anything, "guest-sid").Return(model.Session{ID: "guest-sid"}, nil)
				s.On("LoadLedger", mock.Anything, "guest-sid").Return(nil, storeDown)
			},
		},
		{
			name: "last login update fails",
			setup: func(r *MockUserRepository, s *MockSessionStore) {
				s.On("FindSession", mock.Anything, "guest-sid").Return(model.Session{}, repository.ErrSessionNotFound)
				r.On("Update", mock.Anything, mock.Anything).Return(storeDown)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			sessions := new(MockSessionStore)
			userRepo.On("FindByUsername", mock.Anything, "alice").Return(aliceWith(t, "CorrectPW1"), nil)
			sessions.On("CreateSession", mock.Anything, mock.Anything).Return(nil)
			sessions.On("DeleteSession", mock.Anything, "new-sid").Return(nil)
			tt.setup(userRepo, sessions)

			_, err := newLoginUC(userRepo, sessions).Execute(context.Background(), LoginInput{
				Username:       "alice",
				Password:       "CorrectPW1",
				GuestSessionID: "guest-sid",
			})
			assert.ErrorIs(t, err, storeDown)
			sessions.AssertCalled(t, "DeleteSession", mock.Anything, "new-sid")
			sessions.AssertNotCalled(t, "DeleteSession", mock.Anything, "guest-sid")
		})
	}
}

// ログイン済みセッションのカートは移さない
func TestLogin_IgnoresNonGuestSession(t *testing.T) {
	userRepo := new(MockUserRepository)
	sessions := new(MockSessionStore)

	userRepo.On("FindByUsername", mock.Anything, "alice").Return(aliceWith(t, "CorrectPW1"), nil)
	userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	sessions.On("CreateSession", mock.Anything, mock.Anything).Return(nil)
	sessions.On("FindSession", mock.Anything, "other-sid").Return(model.Session{ID: "other-sid", UserID: 9}, nil)

	_, err := newLoginUC(userRepo, sessions).Execute(context.Background(), LoginInput{
		Username:       "alice",
		Password:       "CorrectPW1",
		GuestSessionID: "other-sid",
	})
	require.NoError(t, err)
	sessions.AssertNotCalled(t, "LoadLedger", mock.Anything, mock.Anything)
	sessions.AssertNotCalled(t, "DeleteSession", mock.Anything, mock.Anything)
}

func TestLogin_ExpiredGuestSession(t *testing.T) {
	userRepo := new(MockUserRepository)
	sessions := new(MockSessionStore)

	userRepo.On("FindByUsername", mock.Anything, "alice").Return(aliceWith(t, "CorrectPW1"), nil)
	userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	sessions.On("CreateSession", mock.Anything, mock.Anything).Return(nil)
	sessions.On("FindSession", mock.Anything, "gone").Return(model.Session{}, repository.ErrSessionNotFound)

	_, err := newLoginUC(userRepo, sessions).Execute(context.Background(), LoginInput{
		Username:       "alice",
		Password:       "CorrectPW1",
		GuestSessionID: "gone",
	})
	require.NoError(t, err)
}
