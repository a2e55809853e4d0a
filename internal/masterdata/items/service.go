package items

import (
	"context"
	"fmt"

	"github.com/manna-erp/manna-erp/internal/platform/httpx"
	"github.com/manna-erp/manna-erp/internal/shared"
)

type Service struct {
	repo  Repository
	cache *Cache
}

// NewService constructs an item service. cache may be nil, in which case
// supplier listings go straight to the repository.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error) {
	return s.repo.List(ctx, filters)
}

// ListBySupplier serves the catalog slice for one supplier, cached.
func (s *Service) ListBySupplier(ctx context.Context, supplierID int64) ([]Item, error) {
	if s.cache != nil {
		return s.cache.SupplierItems(ctx, supplierID)
	}
	return s.repo.ListBySupplier(ctx, supplierID)
}

func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	if id <= 0 {
		return Item{}, fmt.Errorf("%w: invalid item id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, item Item) (Item, error) {
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return Item{}, err
	}
	s.invalidate(ctx, created.SupplierID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, item Item) (Item, error) {
	if id <= 0 {
		return Item{}, fmt.Errorf("%w: invalid item id", httpx.ErrValidation)
	}
	// Reassigning an item to another supplier must drop both cache entries.
	previous, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if err := s.repo.Update(ctx, id, item); err != nil {
		return Item{}, err
	}
	s.invalidate(ctx, previous.SupplierID)
	if item.SupplierID != previous.SupplierID {
		s.invalidate(ctx, item.SupplierID)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid item id", httpx.ErrValidation)
	}
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, item.SupplierID)
	return nil
}

// RebuildCatalog refreshes the cache entry of every supplier that has
// enabled items. Driven by the catalog reindex job.
func (s *Service) RebuildCatalog(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	ids, err := s.repo.DistinctSupplierIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := s.cache.Refresh(ctx, id); err != nil {
			return 0, fmt.Errorf("items: refresh supplier %d: %w", id, err)
		}
	}
	return len(ids), nil
}

func (s *Service) invalidate(ctx context.Context, supplierID int64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, supplierID)
	}
}
