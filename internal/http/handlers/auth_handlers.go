package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/frame-storefront/internal/backend"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

// LoginHandler godoc
// @Summary Sign in with email and password
// @Description Credentials are checked by the hosted auth service; the returned token authorizes cart, wishlist and admin calls.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Email and password"
// @Success 200 {object} LoginResult
// @Failure 400 {array} ValidationError
// @Failure 401 {string} string "Invalid credentials"
// @Router /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req, 0); err != nil {
		readError(w, err)
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	session, err := s.Backend.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		s.sessionError(w, r, err, "sign in")
		return
	}
	s.respond(w, http.StatusOK, loginResult(session))
}

// RefreshTokenHandler godoc
// @Summary Exchange a refresh token for a new session
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} LoginResult
// @Failure 400 {array} ValidationError
// @Failure 401 {string} string "Invalid refresh token"
// @Router /login/refresh [post]
func (s *Server) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req, 0); err != nil {
		readError(w, err)
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	session, err := s.Backend.RefreshSession(r.Context(), req.RefreshToken)
	if err != nil {
		s.sessionError(w, r, err, "refresh session")
		return
	}
	s.respond(w, http.StatusOK, loginResult(session))
}

// The auth service answers bad credentials with 400 invalid_grant.
func (s *Server) sessionError(w http.ResponseWriter, r *http.Request, err error, what string) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	s.upstreamError(w, r, err, what)
}

func loginResult(session models.Session) LoginResult {
	return LoginResult{
		Token:        session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		User:         session.User,
	}
}
