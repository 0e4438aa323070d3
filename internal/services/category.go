package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"doc-registry/internal/entities"
	"doc-registry/internal/repositories"

	"go.uber.org/zap"
)

// CategoryLookupInterface — справочник категорий; в частности, источник
// уровня конфиденциальности по умолчанию.
type CategoryLookupInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Category, error)
	GetDefaultConfidentiality(ctx context.Context, categoryID uint64) (*string, error)
}

type CategoryService struct {
	repo     repositories.CategoryRepositoryInterface
	cache    repositories.CacheRepositoryInterface
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewCategoryService(
	repo repositories.CategoryRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) CategoryLookupInterface {
	return &CategoryService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// FindByID читает категорию через кеш; недоступность кеша деградирует
// до чтения из БД.
func (s *CategoryService) FindByID(ctx context.Context, id uint64) (*entities.Category, error) {
	cacheKey := fmt.Sprintf("category:%d", id)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var category entities.Category
			if err := json.Unmarshal([]byte(cached), &category); err == nil {
				return &category, nil
			}
		}
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(category); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(payload), s.cacheTTL); err != nil {
				s.logger.Warn("не удалось записать категорию в кеш", zap.Uint64("categoryID", id), zap.Error(err))
			}
		}
	}

	return category, nil
}

func (s *CategoryService) GetDefaultConfidentiality(ctx context.Context, categoryID uint64) (*string, error) {
	category, err := s.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !category.DefaultConfidentiality.Valid {
		return nil, nil
	}
	value := category.DefaultConfidentiality.String
	return &value, nil
}
