package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var envelope struct {
		Products []models.Product `json:"products"`
	}
	if err := c.call(ctx, http.MethodGet, "products", "", nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Products == nil {
		return []models.Product{}, nil
	}
	return envelope.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var envelope struct {
		Product *models.Product `json:"product"`
	}
	if err := c.call(ctx, http.MethodGet, "products/"+url.PathEscape(id), "", nil, &envelope); err != nil {
		return models.Product{}, err
	}
	if envelope.Product == nil {
		return models.Product{}, ErrNotFound
	}
	return *envelope.Product, nil
}

func (c *Client) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	var envelope struct {
		Testimonials []models.Testimonial `json:"testimonials"`
	}
	err := c.call(ctx, http.MethodGet, "testimonials", "", nil, &envelope)
	return envelope.Testimonials, err
}

func (c *Client) ListVideos(ctx context.Context) ([]models.Video, error) {
	var envelope struct {
		Videos []models.Video `json:"videos"`
	}
	err := c.call(ctx, http.MethodGet, "videos", "", nil, &envelope)
	return envelope.Videos, err
}

func (c *Client) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	var envelope struct {
		FAQs []models.FAQ `json:"faqs"`
	}
	err := c.call(ctx, http.MethodGet, "faqs", "", nil, &envelope)
	return envelope.FAQs, err
}

func (c *Client) ListInstagramPosts(ctx context.Context) ([]models.InstagramPost, error) {
	var envelope struct {
		Items []models.InstagramPost `json:"items"`
	}
	err := c.call(ctx, http.MethodGet, "instagram", "", nil, &envelope)
	return envelope.Items, err
}

func (c *Client) SubmitContactMessage(ctx context.Context, msg models.ContactMessage) error {
	return c.call(ctx, http.MethodPost, "contact-messages", "", msg, nil)
}
