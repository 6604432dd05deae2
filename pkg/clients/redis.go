package clients

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

type RedisClient struct {
	Client *r.Client
}

// NewRedisClient создает клиента по REDIS_URL, если он задан, иначе по отдельным параметрам.
func NewRedisClient(cfg *cfg.RedisCfg) (*RedisClient, error) {
	opts := &r.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Username: cfg.User,
	}

	if cfg.URL != "" {
		parsed, err := r.ParseURL(cfg.URL)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		opts = parsed
	}

	opts.MaxRetries = cfg.MaxRetries
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.Timeout
	opts.WriteTimeout = cfg.Timeout

	return &RedisClient{
		Client: r.NewClient(opts),
	}, nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}
