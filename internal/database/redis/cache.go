package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/config"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"

	"github.com/redis/go-redis/v9"
)

const renderKeyPrefix = "render:"

// RenderCache stores PNG-encoded renders under a key derived from every
// render input, so an entry can never disagree with a fresh render.
type RenderCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

func NewRenderCache(client *redis.Client, ttl time.Duration) *RenderCache {
	return &RenderCache{
		client: client,
		ttl:    ttl,
	}
}

// Get reports ok=false on a miss.
func (r *RenderCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *RenderCache) Set(ctx context.Context, key string, png []byte) error {
	return r.client.Set(ctx, key, png, r.ttl).Err()
}

func (r *RenderCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type renderInputs struct {
	Font    string                `json:"font"`
	Source  string                `json:"source"`
	Filters entity.FilterSettings `json:"filters"`
	Overlay entity.TextOverlay    `json:"overlay"`
	Target  entity.Size           `json:"target"`
}

// RenderKey hashes the caption font and source digests together with all
// render parameters.
func RenderKey(fontDigest, sourceDigest string, filters entity.FilterSettings, overlay entity.TextOverlay, target entity.Size) string {
	data, _ := json.Marshal(renderInputs{
		Font:    fontDigest,
		Source:  sourceDigest,
		Filters: filters,
		Overlay: overlay,
		Target:  target,
	})
	sum := sha256.Sum256(data)
	return renderKeyPrefix + hex.EncodeToString(sum[:])
}
