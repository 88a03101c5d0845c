package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop/internal/domain/model"
	"shop/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Username string
	Password string
	// ログイン前のゲストセッション。カートを引き継ぐ
	GuestSessionID string
}

// handlerがCookieとJSONにする
type LoginOutput struct {
	User    model.User
	Session model.Session
	Token   string
}

// ユーザー名またはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginUsecase struct {
	userRepo   repository.UserRepository
	sessions   repository.SessionStore
	verifier   PasswordVerifier
	issuer     SessionTokenIssuer
	idGen      IDGenerator
	clock      Clock
	sessionTTL time.Duration
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	sessions repository.SessionStore,
	verifier PasswordVerifier,
	issuer SessionTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	sessionTTL time.Duration,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:   userRepo,
		sessions:   sessions,
		verifier:   verifier,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		sessionTTL: sessionTTL,
	}
}

// ログイン処理を実行する
// 失敗時はセッションを作らない
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	//usernameでユーザー取得
	user, err := u.userRepo.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	now := u.clock.Now()
	sess := model.Session{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.CreateSession(ctx, sess); err != nil {
		return out, err
	}

	//ここから先で失敗したら作ったセッションは消す
	if err := u.adoptGuestCart(ctx, in.GuestSessionID, sess.ID); err != nil {
		return out, u.discardSession(ctx, sess.ID, err)
	}

	token, err := u.issuer.Issue(user.ID, sess.ID, sess.ExpiresAt, now)
	if err != nil {
		return out, u.discardSession(ctx, sess.ID, err)
	}

	//最終ログイン時刻更新
	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return out, u.discardSession(ctx, sess.ID, err)
	}

	safeUser := *user
	safeUser.PasswordHash = ""

	out.User = safeUser
	out.Session = sess
	out.Token = token
	return out, nil
}

func (u *LoginUsecase) discardSession(ctx context.Context, sessionID string, cause error) error {
	if err := u.sessions.DeleteSession(ctx, sessionID); err != nil {
		return errors.Join(cause, fmt.Errorf("discard session: %w", err))
	}
	return cause
}

// ゲストのカートを新しいセッションへ移し、ゲストセッションは消す
func (u *LoginUsecase) adoptGuestCart(ctx context.Context, guestSessionID, newSessionID string) error {
	if guestSessionID == "" {
		return nil
	}

	guest, err := u.sessions.FindSession(ctx, guestSessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	//ログイン済みセッションのカートは引き継がない
	if !guest.IsGuest() {
		return nil
	}

	ledger, err := u.sessions.LoadLedger(ctx, guest.ID)
	if err != nil {
		return err
	}
	if !ledger.IsEmpty() {
		if err := u.sessions.SaveLedger(ctx, newSessionID, ledger); err != nil {
			return err
		}
	}
	return u.sessions.DeleteSession(ctx, guest.ID)
}
