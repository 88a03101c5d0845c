package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shop/internal/domain/cart"
	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	cartKeyPrefix    = "cart:"
)

// カートはセッションの残りTTLで書く。セッションが無ければ0を返す
var saveLedgerScript = redis.NewScript(`
local ttl = redis.call('PTTL', KEYS[1])
if ttl <= 0 then
	return 0
end

redis.call('SET', KEYS[2], ARGV[1], 'PX', ttl)
return 1
`)

// RedisStore はsession:{id}とcart:{id}にJSONで保存する。
// どちらのキーもセッションの有効期限でTTLが切れる。
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (r *RedisStore) CreateSession(ctx context.Context, s model.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKeyPrefix+s.ID, b, ttl).Err()
}

func (r *RedisStore) FindSession(ctx context.Context, sessionID string) (model.Session, error) {
	b, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Session{}, repo.ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, err
	}

	var s model.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return model.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(r.now()) {
		return model.Session{}, repo.ErrSessionNotFound
	}
	return s, nil
}

func (r *RedisStore) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKeyPrefix+sessionID, cartKeyPrefix+sessionID).Err()
}

func (r *RedisStore) LoadLedger(ctx context.Context, sessionID string) (*cart.Ledger, error) {
	b, err := r.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}

	ledger := cart.NewLedger()
	if err := json.Unmarshal(b, ledger); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return ledger, nil
}

func (r *RedisStore) SaveLedger(ctx context.Context, sessionID string, ledger *cart.Ledger) error {
	b, err := json.Marshal(ledger)
	if err != nil {
		return err
	}

	keys := []string{sessionKeyPrefix + sessionID, cartKeyPrefix + sessionID}
	result, err := saveLedgerScript.Run(ctx, r.client, keys, b).Int()
	if err != nil {
		return err
	}
	if result == 0 {
		return repo.ErrSessionNotFound
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
