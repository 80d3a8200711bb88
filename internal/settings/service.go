package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/estoque-erp/estoque-erp/internal/shared"
)

const cacheKey = "settings:singleton"

// defaultLowStockThreshold applies when the settings row is missing, so the
// low-stock listing keeps working on an unseeded database.
const defaultLowStockThreshold = 10

// Service serves the settings singleton, caching reads in Redis and
// dropping the cached copy on every update. A nil client disables caching.
type Service struct {
	repo   Repository
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewService(repo Repository, client *redis.Client, ttl time.Duration) *Service {
	return &Service{repo: repo, client: client, ttl: ttl, now: time.Now}
}

func (s *Service) Get(ctx context.Context) (*Setting, error) {
	if s.client != nil {
		payload, err := s.client.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cached Setting
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("settings: cache read: %w", err)
		}
	}

	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if s.client != nil {
		if raw, err := json.Marshal(setting); err == nil {
			_ = s.client.Set(ctx, cacheKey, raw, s.ttl).Err()
		}
	}
	return setting, nil
}

func (s *Service) Update(ctx context.Context, req UpdateSettingRequest) (*Setting, error) {
	existing, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	existing.LowStockThreshold = req.LowStockThreshold
	existing.CompanyName = req.CompanyName
	existing.CompanyPhone = req.CompanyPhone
	existing.CompanyEmail = req.CompanyEmail
	existing.CompanyAddress = req.CompanyAddress
	existing.BirthdayDiscount = req.BirthdayDiscount
	existing.JarDiscount = req.JarDiscount
	existing.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	if s.client != nil {
		if err := s.client.Del(ctx, cacheKey).Err(); err != nil {
			return nil, fmt.Errorf("settings: cache invalidate: %w", err)
		}
	}
	return existing, nil
}

// LowStockThreshold implements the product module's threshold source.
func (s *Service) LowStockThreshold(ctx context.Context) (int, error) {
	setting, err := s.Get(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return defaultLowStockThreshold, nil
		}
		return 0, err
	}
	return setting.LowStockThreshold, nil
}
