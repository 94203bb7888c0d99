package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

// InMemoryGalleryRepository keeps gallery items in process. Images are kept
// as the data URL they were uploaded with.
type InMemoryGalleryRepository struct {
	mu    sync.RWMutex
	items []models.GalleryItem
	now   func() time.Time
}

func NewInMemoryGalleryRepository() *InMemoryGalleryRepository {
	return &InMemoryGalleryRepository{items: []models.GalleryItem{}, now: time.Now}
}

// List returns the newest items first.
func (r *InMemoryGalleryRepository) List(ctx context.Context) ([]models.GalleryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.GalleryItem, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}

func (r *InMemoryGalleryRepository) Create(ctx context.Context, _ string, upload models.GalleryUpload) (models.GalleryItem, error) {
	if err := ctx.Err(); err != nil {
		return models.GalleryItem{}, err
	}
	item := models.GalleryItem{
		ID:          uuid.NewString(),
		Title:       upload.Title,
		Description: upload.Description,
		Category:    upload.Category,
		Year:        upload.Year,
		ProductID:   upload.ProductID,
		Image:       upload.Image,
		CreatedAt:   r.now().UTC().Format(time.RFC3339),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	return item, nil
}

func (r *InMemoryGalleryRepository) Update(ctx context.Context, _ string, id string, upload models.GalleryUpload) (models.GalleryItem, error) {
	if err := ctx.Err(); err != nil {
		return models.GalleryItem{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID != id {
			continue
		}
		item.Title = upload.Title
		item.Description = upload.Description
		item.Category = upload.Category
		item.Year = upload.Year
		item.ProductID = upload.ProductID
		if upload.Image != "" {
			item.Image = upload.Image
		}
		r.items[i] = item
		return item, nil
	}
	return models.GalleryItem{}, ErrGalleryItemNotFound
}

func (r *InMemoryGalleryRepository) Delete(ctx context.Context, _ string, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrGalleryItemNotFound
}
