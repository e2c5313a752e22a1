package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CacheRepo кэширует точечные чтения товаров. Списки не кэшируются.
type CacheRepo struct {
	client r.Cmdable
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client r.Cmdable, conv converter.ProductConverter, cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProduct возвращает товар из кэша; nil, nil при промахе.
// Повреждённая или чужая запись удаляется и считается промахом.
func (c *CacheRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	key := productKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == r.Nil {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	product, err := c.decode(data)
	if err != nil || product.ID != id {
		c.logger.Warnf("Invalid cache entry %s, dropping it: %v", key, err)
		if err := c.client.Del(ctx, key).Err(); err != nil {
			c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil
	}

	return product, nil
}

// SetProduct кэширует товар с TTL из конфигурации.
func (c *CacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(c.conv.ToRedisModel(product))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Set(ctx, productKey(product.ID), data, c.cfg.ProductTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteProducts удаляет товары из кэша по ID
func (c *CacheRepo) DeleteProducts(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, buildProductCacheKeys(ids)...).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheRepo) decode(data []byte) (*domain.Product, error) {
	var model converter.ProductRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return c.conv.ToEntity(&model)
}

// buildProductCacheKeys формирует Redis-ключи из ID товаров
func buildProductCacheKeys(ids []int64) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	return keys
}

func productKey(id int64) string {
	return fmt.Sprintf("inventory:product:%d", id)
}
