package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/frame-storefront/internal/backend"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

type GalleryClient interface {
	ListGallery(ctx context.Context) ([]models.GalleryItem, error)
	UploadGalleryItem(ctx context.Context, token string, upload models.GalleryUpload) (models.GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, token, id string, upload models.GalleryUpload) (models.GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, token, id string) error
}

// BackendGalleryRepository stores gallery items with the hosted backend, which
// also uploads the image into its storage bucket.
type BackendGalleryRepository struct {
	client GalleryClient
}

func NewBackendGalleryRepository(client GalleryClient) *BackendGalleryRepository {
	return &BackendGalleryRepository{client: client}
}

func (r *BackendGalleryRepository) List(ctx context.Context) ([]models.GalleryItem, error) {
	return r.client.ListGallery(ctx)
}

func (r *BackendGalleryRepository) Create(ctx context.Context, token string, upload models.GalleryUpload) (models.GalleryItem, error) {
	return r.client.UploadGalleryItem(ctx, token, upload)
}

func (r *BackendGalleryRepository) Update(ctx context.Context, token, id string, upload models.GalleryUpload) (models.GalleryItem, error) {
	item, err := r.client.UpdateGalleryItem(ctx, token, id, upload)
	return item, notFound(err)
}

func (r *BackendGalleryRepository) Delete(ctx context.Context, token, id string) error {
	return notFound(r.client.DeleteGalleryItem(ctx, token, id))
}

func notFound(err error) error {
	if errors.Is(err, backend.ErrNotFound) {
		return ErrGalleryItemNotFound
	}
	return err
}
