package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// チェックアウト中のカートのミラー。
// カート変更のたびに書き、注文成功のときだけ消す
type CartMirror struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartMirror(client *redis.Client, ttl time.Duration) *CartMirror {
	return &CartMirror{client: client, ttl: ttl}
}

func (m *CartMirror) key(customerID int64) string {
	return "cart:mirror:" + strconv.FormatInt(customerID, 10)
}

func (m *CartMirror) Save(ctx context.Context, customerID int64, payload []byte) error {
	return m.client.Set(ctx, m.key(customerID), payload, m.ttl).Err()
}

// 見つからないときは ok=false（エラーにしない）
func (m *CartMirror) Load(ctx context.Context, customerID int64) ([]byte, bool, error) {
	val, err := m.client.Get(ctx, m.key(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (m *CartMirror) Delete(ctx context.Context, customerID int64) error {
	return m.client.Del(ctx, m.key(customerID)).Err()
}
