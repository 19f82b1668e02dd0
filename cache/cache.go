package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListCache는 목록 질의 응답을 통째로 저장하는 redis 캐시다.
//
// 무효화는 키 삭제가 아니라 세대 카운터 증가로 처리한다. 모든 키에
// 현재 세대 번호가 접두사로 붙으므로, INCR 한 번이면 이전 세대의
// 모든 항목이 자연히 조회 불가능해지고 TTL로 만료된다. 페이지 병합이나
// 부분 갱신은 하지 않는다. 캐시 항목은 항상 한 페이지 전체다.
type ListCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New builds a cache namespace under the given key prefix.
func New(client *redis.Client, prefix string, ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ListCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ListCache) genKey() string {
	return c.prefix + ":generation"
}

func (c *ListCache) entryKey(gen int64, key string) string {
	return fmt.Sprintf("%s:g%d:%s", c.prefix, gen, key)
}

func (c *ListCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get은 현재 세대의 항목을 조회해 dest에 역직렬화한다.
// 두 번째 반환값이 false이면 캐시 미스다.
func (c *ListCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return false, err
	}
	data, err := c.client.Get(ctx, c.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// 역직렬화 실패는 형식이 바뀐 구세대 항목으로 간주하고 미스 처리한다.
		return false, nil
	}
	return true, nil
}

// Set stores one full page of results under the current generation.
func (c *ListCache) Set(ctx context.Context, key string, value any) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.entryKey(gen, key), data, c.ttl).Err()
}

// Invalidate bumps the generation counter, orphaning every cached entry.
func (c *ListCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.genKey()).Err()
}
