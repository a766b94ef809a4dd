package item

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/costumehub/costumehub-api/internal/domain/category"
	"github.com/costumehub/costumehub-api/internal/pkg/imaging"
	"github.com/costumehub/costumehub-api/internal/pkg/storage"
)

// Service handles item business logic
type Service struct {
	repo         Repository
	categoryRepo category.Repository
	store        storage.Storage
	processor    *imaging.Processor
}

// NewService creates item service
func NewService(repo Repository, categoryRepo category.Repository, store storage.Storage, processor *imaging.Processor) *Service {
	return &Service{
		repo:         repo,
		categoryRepo: categoryRepo,
		store:        store,
		processor:    processor,
	}
}

// Create creates a new item
func (s *Service) Create(ctx context.Context, req *CreateItemRequest) (*Item, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, ErrInvalidCategory
	}

	cat, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrInvalidCategory
	}

	status := StatusAvailable
	if req.Status != "" {
		status = Status(req.Status)
	}

	now := time.Now()
	item := &Item{
		ID:           uuid.New(),
		Name:         req.Name,
		CategoryID:   categoryID,
		Size:         nullString(req.Size),
		Theme:        nullString(req.Theme),
		PricePerDay:  req.PricePerDay,
		Status:       status,
		ImageURL:     nullString(req.ImageURL),
		CreatedAt:    now,
		UpdatedAt:    now,
		CategoryName: cat.Name,
		CategoryType: cat.Type,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID returns item by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// List returns items matching the filter
func (s *Service) List(ctx context.Context, filter *Filter) ([]*Item, error) {
	return s.repo.List(ctx, filter)
}

// Update applies a partial update to an item
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateItemRequest) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, ErrInvalidCategory
		}
		cat, err := s.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, ErrInvalidCategory
		}
		item.CategoryID = categoryID
		item.CategoryName = cat.Name
		item.CategoryType = cat.Type
	}
	if req.Size != nil {
		item.Size = sql.NullString{String: *req.Size, Valid: *req.Size != ""}
	}
	if req.Theme != nil {
		item.Theme = sql.NullString{String: *req.Theme, Valid: *req.Theme != ""}
	}
	if req.PricePerDay != nil {
		item.PricePerDay = *req.PricePerDay
	}
	if req.Status != "" {
		item.Status = Status(req.Status)
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// UploadImage processes and stores an item image, then points the item at it
func (s *Service) UploadImage(ctx context.Context, id uuid.UUID, r io.Reader) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	processed, err := s.processor.Process(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedImageType, err)
	}

	key := fmt.Sprintf("items/%s%s", item.ID, processed.Ext())
	if err := s.store.Put(ctx, key, bytes.NewReader(processed.Data), processed.ContentType); err != nil {
		return nil, err
	}

	item.ImageURL = sql.NullString{String: s.store.GetURL(key), Valid: true}
	if err := s.repo.Update(ctx, item); err != nil {
		// Storage write succeeded but the row update failed; leave the
		// object in place, the next upload overwrites the same key.
		log.Error().Err(err).Str("item_id", item.ID.String()).Msg("failed to persist image URL")
		return nil, err
	}

	return item, nil
}
