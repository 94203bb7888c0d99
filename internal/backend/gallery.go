package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

type galleryEnvelope struct {
	GalleryItem *models.GalleryItem `json:"galleryItem"`
}

func (c *Client) ListGallery(ctx context.Context) ([]models.GalleryItem, error) {
	var envelope struct {
		GalleryItems []models.GalleryItem `json:"galleryItems"`
	}
	if err := c.call(ctx, http.MethodGet, "gallery", "", nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.GalleryItems == nil {
		return []models.GalleryItem{}, nil
	}
	return envelope.GalleryItems, nil
}

// UploadGalleryItem creates an item. The image travels as a base64 data URL.
func (c *Client) UploadGalleryItem(ctx context.Context, token string, upload models.GalleryUpload) (models.GalleryItem, error) {
	var envelope galleryEnvelope
	if err := c.call(ctx, http.MethodPost, "gallery/upload", token, upload, &envelope); err != nil {
		return models.GalleryItem{}, err
	}
	return itemOrEcho(envelope, "", upload), nil
}

// UpdateGalleryItem replaces the item's fields; an empty Image keeps the
// stored picture.
func (c *Client) UpdateGalleryItem(ctx context.Context, token, id string, upload models.GalleryUpload) (models.GalleryItem, error) {
	var envelope galleryEnvelope
	if err := c.call(ctx, http.MethodPut, "gallery/"+url.PathEscape(id), token, upload, &envelope); err != nil {
		return models.GalleryItem{}, err
	}
	return itemOrEcho(envelope, id, upload), nil
}

func (c *Client) DeleteGalleryItem(ctx context.Context, token, id string) error {
	return c.call(ctx, http.MethodDelete, "gallery/"+url.PathEscape(id), token, nil, nil)
}

// Older deployments answer writes with {"success": true} only.
func itemOrEcho(envelope galleryEnvelope, id string, upload models.GalleryUpload) models.GalleryItem {
	if envelope.GalleryItem != nil {
		return *envelope.GalleryItem
	}
	return models.GalleryItem{
		ID:          id,
		Title:       upload.Title,
		Description: upload.Description,
		Category:    upload.Category,
		Year:        upload.Year,
		ProductID:   upload.ProductID,
	}
}
