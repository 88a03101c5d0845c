package auth

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	"shop/internal/repository"
)

// トークンが不正、またはセッションが無い/期限切れ/持ち主が違う
var ErrInvalidSession = errors.New("invalid session")

type SessionOutput struct {
	Session model.Session
	Token   string
}

// StartGuestSessionUsecase はログインなしのカート用セッションを作る。
type StartGuestSessionUsecase struct {
	sessions   repository.SessionStore
	issuer     SessionTokenIssuer
	idGen      IDGenerator
	clock      Clock
	sessionTTL time.Duration
}

func NewStartGuestSessionUsecase(
	sessions repository.SessionStore,
	issuer SessionTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	sessionTTL time.Duration,
) *StartGuestSessionUsecase {
	return &StartGuestSessionUsecase{
		sessions:   sessions,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		sessionTTL: sessionTTL,
	}
}

func (u *StartGuestSessionUsecase) Execute(ctx context.Context) (SessionOutput, error) {
	now := u.clock.Now()
	sess := model.Session{
		ID:        u.idGen.NewID(),
		UserID:    0,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.CreateSession(ctx, sess); err != nil {
		return SessionOutput{}, err
	}

	token, err := u.issuer.Issue(0, sess.ID, sess.ExpiresAt, now)
	if err != nil {
		return SessionOutput{}, err
	}
	return SessionOutput{Session: sess, Token: token}, nil
}

// ResolveSessionUsecase はトークンからセッションを引く。
type ResolveSessionUsecase struct {
	sessions repository.SessionStore
	parser   SessionTokenParser
}

func NewResolveSessionUsecase(sessions repository.SessionStore, parser SessionTokenParser) *ResolveSessionUsecase {
	return &ResolveSessionUsecase{sessions: sessions, parser: parser}
}

func (u *ResolveSessionUsecase) Execute(ctx context.Context, rawToken string) (model.Session, error) {
	claims, err := u.parser.Parse(rawToken)
	if err != nil {
		return model.Session{}, ErrInvalidSession
	}

	sess, err := u.sessions.FindSession(ctx, claims.SessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return model.Session{}, ErrInvalidSession
	}
	if err != nil {
		return model.Session{}, err
	}

	//別ユーザーのセッションIDを使い回していないか
	if sess.UserID != claims.UserID {
		return model.Session{}, ErrInvalidSession
	}
	return sess, nil
}
