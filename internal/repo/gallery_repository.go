package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

var ErrGalleryItemNotFound = errors.New("gallery item not found")

// GalleryRepository manages the admin photo gallery. Writes act on behalf of
// the admin whose access token is passed in.
type GalleryRepository interface {
	List(ctx context.Context) ([]models.GalleryItem, error)
	Create(ctx context.Context, token string, upload models.GalleryUpload) (models.GalleryItem, error)
	Update(ctx context.Context, token, id string, upload models.GalleryUpload) (models.GalleryItem, error)
	Delete(ctx context.Context, token, id string) error
}
