package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const replyPrefix = "voice:reply:"

// IRedis caches proxy replies keyed by a hash of the prompt pair.
type IRedis interface {
	GetReply(ctx context.Context, key string) (string, bool, error)
	SetReply(ctx context.Context, key string, reply string, expiration time.Duration) error
	Close() error
}

type Options struct {
	Address  string
	Password string
	DB       int
}

type redisClient struct {
	client *redis.Client
}

func New(opts Options) IRedis {
	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", opts.Address))

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

// NewFromClient wraps an existing client, mainly for tests.
func NewFromClient(client *redis.Client) IRedis {
	return &redisClient{client: client}
}

func (r *redisClient) GetReply(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, replyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("Reply cache miss for key %s", key))
		return "", false, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting cached reply for key %s: %v", key, err))
		return "", false, err
	}
	logrus.Debug(fmt.Sprintf("Reply cache hit for key %s", key))
	return val, true, nil
}

func (r *redisClient) SetReply(ctx context.Context, key string, reply string, expiration time.Duration) error {
	err := r.client.Set(ctx, replyPrefix+key, reply, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error caching reply for key %s: %v", key, err))
		return err
	}
	logrus.Debug(fmt.Sprintf("Cached reply for key %s with expiration %v", key, expiration))
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
