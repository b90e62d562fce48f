package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 泛型版：load 的结果 JSON 序列化后进缓存。
// c 为 nil 时直接回源（测试和 seed 不接 redis）
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	if c == nil {
		return load(ctx)
	}
	var zero T
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return zero, e
	}
	return out, nil
}
