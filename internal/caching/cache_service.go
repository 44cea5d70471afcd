package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultTTL bounds staleness for cached reads.
const DefaultTTL = 15 * time.Minute

type CacheService interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	GetClient(ctx context.Context, clientID uuid.UUID) (*models.Client, error)
	SetClient(ctx context.Context, client *models.Client, ttl time.Duration) error
	DeleteClient(ctx context.Context, clientID uuid.UUID) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "rediss://"), "redis://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", parsedAddr).Msg("redis ping failed on initialization")
	}

	return &redisCacheService{client: client}
}

func productKey(productID uuid.UUID) string {
	return fmt.Sprintf("backoffice:product:%s", productID)
}

func clientKey(clientID uuid.UUID) string {
	return fmt.Sprintf("backoffice:client:%s", clientID)
}

func (c *redisCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	data, err := c.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		return nil, err
	}
	product := &models.Product{}
	if err := json.Unmarshal(data, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (c *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKey(product.ID), data, ttl).Err()
}

func (c *redisCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return c.client.Del(ctx, productKey(productID)).Err()
}

func (c *redisCacheService) GetClient(ctx context.Context, clientID uuid.UUID) (*models.Client, error) {
	data, err := c.client.Get(ctx, clientKey(clientID)).Bytes()
	if err != nil {
		return nil, err
	}
	client := &models.Client{}
	if err := json.Unmarshal(data, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *redisCacheService) SetClient(ctx context.Context, client *models.Client, ttl time.Duration) error {
	data, err := json.Marshal(client)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, clientKey(client.ID), data, ttl).Err()
}

func (c *redisCacheService) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	return c.client.Del(ctx, clientKey(clientID)).Err()
}

func (c *redisCacheService) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
