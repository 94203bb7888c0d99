package handlers

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/auth"
	"github.com/rogerio-castellano/frame-storefront/internal/images"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/repo"
)

// GetGalleryHandler godoc
// @Summary List gallery photos
// @Description Newest first. An optional category narrows the list.
// @Tags gallery
// @Produce json
// @Param category query string false "Events, Studio, Outdoor or Portrait"
// @Success 200 {array} models.GalleryItem
// @Router /gallery [get]
func (s *Server) GetGalleryHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.Gallery.List(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, "load gallery")
		return
	}

	category := r.URL.Query().Get("category")
	out := make([]models.GalleryItem, 0, len(items))
	for _, item := range items {
		if category == "" || strings.EqualFold(item.Category, category) {
			item.Image = images.Optimize(item.Image, 0, 0)
			out = append(out, item)
		}
	}
	s.respond(w, http.StatusOK, out)
}

// ListGalleryAdminHandler godoc
// @Summary List gallery photos for the admin panel
// @Description Unlike the public listing, images are the original uploads.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.GalleryItem
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Forbidden"
// @Router /admin/gallery [get]
func (s *Server) ListGalleryAdminHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.Gallery.List(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, "load gallery")
		return
	}
	if items == nil {
		items = []models.GalleryItem{}
	}
	s.respond(w, http.StatusOK, items)
}

// CreateGalleryItemHandler godoc
// @Summary Upload a gallery photo
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body GalleryRequest true "Photo with a base64 data URL image"
// @Success 201 {object} models.GalleryItem
// @Failure 400 {array} ValidationError
// @Failure 413 {string} string "Image too large"
// @Router /admin/gallery [post]
func (s *Server) CreateGalleryItemHandler(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readGalleryRequest(w, r, true)
	if !ok {
		return
	}

	item, err := s.Gallery.Create(r.Context(), auth.TokenFromContext(r.Context()), upload)
	if err != nil {
		s.upstreamError(w, r, err, "upload gallery item")
		return
	}
	s.logger().Info("gallery item created", zap.String("id", item.ID), zap.String("category", item.Category))
	s.respond(w, http.StatusCreated, item)
}

// UpdateGalleryItemHandler godoc
// @Summary Edit a gallery photo
// @Description An empty image keeps the current picture.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Gallery item ID"
// @Param item body GalleryRequest true "New values"
// @Success 200 {object} models.GalleryItem
// @Failure 400 {array} ValidationError
// @Failure 404 {string} string "Gallery item not found"
// @Router /admin/gallery/{id} [put]
func (s *Server) UpdateGalleryItemHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	upload, ok := s.readGalleryRequest(w, r, false)
	if !ok {
		return
	}

	item, err := s.Gallery.Update(r.Context(), auth.TokenFromContext(r.Context()), id, upload)
	if errors.Is(err, repo.ErrGalleryItemNotFound) {
		http.Error(w, "Gallery item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.upstreamError(w, r, err, "update gallery item")
		return
	}
	s.respond(w, http.StatusOK, item)
}

// DeleteGalleryItemHandler godoc
// @Summary Delete a gallery photo
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Gallery item ID"
// @Success 204
// @Failure 404 {string} string "Gallery item not found"
// @Router /admin/gallery/{id} [delete]
func (s *Server) DeleteGalleryItemHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.Gallery.Delete(r.Context(), auth.TokenFromContext(r.Context()), id)
	if errors.Is(err, repo.ErrGalleryItemNotFound) {
		http.Error(w, "Gallery item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.upstreamError(w, r, err, "delete gallery item")
		return
	}
	s.logger().Info("gallery item deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

// readGalleryRequest decodes and validates a create or update body. The JSON
// limit leaves room for base64 overhead on top of the image limit.
func (s *Server) readGalleryRequest(w http.ResponseWriter, r *http.Request, requireImage bool) (models.GalleryUpload, bool) {
	var req GalleryRequest
	if err := readJSON(w, r, &req, s.Site.MaxUploadBytes*2); err != nil {
		readError(w, err)
		return models.GalleryUpload{}, false
	}

	errs := validateRequest(req)
	if requireImage && req.Image == "" {
		errs = append(errs, ValidationError{Field: "image", Description: "image is required"})
	}
	if len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return models.GalleryUpload{}, false
	}

	upload := models.GalleryUpload{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Year:        req.Year,
		ProductID:   req.ProductID,
	}
	if req.Image == "" {
		return upload, true
	}

	img, err := images.DecodeDataURL(req.Image, s.Site.MaxUploadBytes)
	switch {
	case errors.Is(err, images.ErrTooLarge):
		http.Error(w, "image exceeds the upload limit", http.StatusRequestEntityTooLarge)
		return models.GalleryUpload{}, false
	case err != nil:
		s.respond(w, http.StatusBadRequest, []ValidationError{{Field: "image", Description: err.Error()}})
		return models.GalleryUpload{}, false
	}

	upload.Image = req.Image
	upload.MimeType = img.MimeType
	upload.FileName = galleryFileName(req.FileName, img.Extension)
	return upload, true
}

// galleryFileName keeps the base name of what the admin picked, with the
// extension of the detected type.
func galleryFileName(name, ext string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "upload"
	}
	return base + ext
}
