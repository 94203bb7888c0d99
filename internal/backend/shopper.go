package backend

import (
	"context"
	"net/http"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

// Cart and wishlist calls act on behalf of the signed-in shopper whose access
// token is passed through.

func (c *Client) GetCart(ctx context.Context, token string) (models.Cart, error) {
	var envelope struct {
		Cart models.Cart `json:"cart"`
	}
	if err := c.call(ctx, http.MethodGet, "cart", token, nil, &envelope); err != nil {
		return models.Cart{}, err
	}
	return envelope.Cart, nil
}

func (c *Client) AddToCart(ctx context.Context, token string, item models.CartItem) error {
	return c.call(ctx, http.MethodPost, "cart", token, item, nil)
}

func (c *Client) GetWishlist(ctx context.Context, token string) (models.Wishlist, error) {
	var envelope struct {
		Wishlist models.Wishlist `json:"wishlist"`
	}
	if err := c.call(ctx, http.MethodGet, "wishlist", token, nil, &envelope); err != nil {
		return models.Wishlist{}, err
	}
	return envelope.Wishlist, nil
}

func (c *Client) AddToWishlist(ctx context.Context, token, productID string) error {
	return c.call(ctx, http.MethodPost, "wishlist", token, models.WishlistItem{ProductID: productID}, nil)
}

// SignInWithPassword exchanges credentials for a session at the auth API.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (models.Session, error) {
	var session models.Session
	body := map[string]string{"email": email, "password": password}
	if err := c.send(ctx, http.MethodPost, c.authURL("token?grant_type=password"), "", body, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// RefreshSession trades a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (models.Session, error) {
	var session models.Session
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.send(ctx, http.MethodPost, c.authURL("token?grant_type=refresh_token"), "", body, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}
