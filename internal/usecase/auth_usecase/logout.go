package auth

import (
	"context"

	"shop/internal/repository"
)

type LogoutUsecase struct {
	sessions repository.SessionStore
}

func NewLogoutUsecase(sessions repository.SessionStore) *LogoutUsecase {
	return &LogoutUsecase{sessions: sessions}
}

// セッションとカートを消す。セッションが無くても成功
func (u *LogoutUsecase) Execute(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return u.sessions.DeleteSession(ctx, sessionID)
}
