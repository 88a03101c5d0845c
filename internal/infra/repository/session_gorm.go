package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/cart"
	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

// SessionGormStore はセッションとカート明細をRDBに置く。
// cart_itemsはsession_idごと、idの昇順が追加順。
type SessionGormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// DI
func NewSessionGormStore(db *gorm.DB) *SessionGormStore {
	return &SessionGormStore{db: db, now: time.Now}
}

func (s *SessionGormStore) CreateSession(ctx context.Context, sess model.Session) error {
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return err
	}
	return nil
}

// 期限切れは見つからない扱い
func (s *SessionGormStore) FindSession(ctx context.Context, sessionID string) (model.Session, error) {
	var sess model.Session

	err := s.db.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&sess).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Session{}, repo.ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	if sess.Expired(s.now()) {
		return model.Session{}, repo.ErrSessionNotFound
	}
	return sess, nil
}

// セッションと明細をまとめて削除
func (s *SessionGormStore) DeleteSession(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", sessionID).Delete(&model.Session{}).Error; err != nil {
			return err
		}
		return nil
	})
}

// カート明細を追加順で読み出す
func (s *SessionGormStore) LoadLedger(ctx context.Context, sessionID string) (*cart.Ledger, error) {
	var items []model.CartItem

	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}

	entries := make([]cart.Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, cart.Entry{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return cart.NewLedger(entries...), nil
}

// 明細を全削除してから追加順で入れ直す
// セッションが無い・期限切れならErrSessionNotFound（明細は残さない）
func (s *SessionGormStore) SaveLedger(ctx context.Context, sessionID string, ledger *cart.Ledger) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var alive int64
		if err := tx.Model(&model.Session{}).
			Where("id = ? AND expires_at > ?", sessionID, s.now()).
			Count(&alive).Error; err != nil {
			return err
		}
		if alive == 0 {
			return repo.ErrSessionNotFound
		}

		if err := tx.Where("session_id = ?", sessionID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		entries := ledger.Entries()
		if len(entries) == 0 {
			return nil
		}

		items := make([]model.CartItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, model.CartItem{
				SessionID: sessionID,
				ProductID: e.ProductID,
				Quantity:  e.Quantity,
			})
		}

		//一括insertはid順＝スライス順
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return nil
	})
}

// 期限切れセッションと明細を消す。消したセッション数を返す
func (s *SessionGormStore) PurgeExpired(ctx context.Context) (int64, error) {
	var purged int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&model.Session{}).Select("id").Where("expires_at <= ?", s.now())

		if err := tx.Where("session_id IN (?)", expired).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("expires_at <= ?", s.now()).Delete(&model.Session{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

func (s *SessionGormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
