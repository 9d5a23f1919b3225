package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/repository"

	"github.com/redis/go-redis/v9"
)

// CachedProductRepository decorates the real product repository with a
// read-through redis cache. Writes invalidate; reads fall back to the
// database on any cache trouble.
type CachedProductRepository struct {
	realRepo repository.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
}

func NewCachedProductRepository(realRepo repository.ProductRepository, redis *redis.Client) *CachedProductRepository {
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    redis,
		ttl:      5 * time.Minute,
	}
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	key := fmt.Sprintf("product:%d", id)

	data, err := c.redis.Get(ctx, key).Bytes()

	switch {
	case err == nil:
		if string(data) == "notfound" {
			return nil, repository.ErrNotFound
		}

		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			log.Printf("Failed to unmarshal cached product (continuing with DB): %v", err)
			break
		}

		return &product, nil

	case errors.Is(err, redis.Nil):

	default:
		log.Printf("Redis error (continuing with DB): %v", err)
	}

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, "notfound", 1*time.Minute).Err(); setErr != nil {
				log.Printf("Failed to cache notfound: %v", setErr)
			}
		}
		return nil, err
	}

	jsonData, err := json.Marshal(product)
	if err != nil {
		log.Printf("Failed to marshal product: %v", err)
		return product, nil
	}

	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		log.Printf("failed to cache product: %v", err)
	}

	return product, nil
}

// GetByIDs always hits the database: order pricing snapshots must see
// current catalog truth, and a partial cache hit would not save the query.
func (c *CachedProductRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	return c.realRepo.GetByIDs(ctx, ids)
}

func (c *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	key := "products:all"

	data, err := c.redis.Get(ctx, key).Bytes()

	if err == nil {
		var products []models.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	}

	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("Redis error: %v (continuing with DB)", err)
	}

	products, err := c.realRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(products)
	if err != nil {
		log.Printf("failed to marshal products: %v", err)
	} else {
		c.redis.Set(ctx, key, jsonData, c.ttl)
	}

	return products, nil
}

func (c *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := c.redis.Del(ctx, "products:all").Err(); err != nil {
		log.Printf("Failed to delete product cache: %v", err)
	}

	return c.realRepo.Create(ctx, product)
}

func (c *CachedProductRepository) Update(ctx context.Context, product *models.Product) error {
	c.invalidateProductCache(ctx, product.ProductID)

	return c.realRepo.Update(ctx, product)
}

func (c *CachedProductRepository) Delete(ctx context.Context, id int) error {
	c.invalidateProductCache(ctx, id)

	return c.realRepo.Delete(ctx, id)
}

func (c *CachedProductRepository) invalidateProductCache(ctx context.Context, productID int) {
	productKey := fmt.Sprintf("product:%d", productID)

	if err := c.redis.Del(ctx, productKey).Err(); err != nil {
		log.Printf("Failed to delete product cache %s: %v", productKey, err)
	}

	if err := c.redis.Del(ctx, "products:all").Err(); err != nil {
		log.Printf("Failed to delete products:all cache: %v", err)
	}
}
