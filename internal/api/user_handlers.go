package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/aura-store/internal/auth"
	"github.com/MikeMC777/aura-store/internal/httpx"
	"github.com/MikeMC777/aura-store/internal/user"
)

// RegisterRequest payload of sign up.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required"          example:"Ana"`
	Email    string `json:"email"    binding:"required,email"    example:"ana@example.com"`
	Password string `json:"password" binding:"required,min=8"    example:"password123"`
}

// LoginRequest payload of user and admin login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    binding:"required" example:"ana@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// registerHandler godoc
//
//	@Summary	Register a storefront user
//	@Tags		user
//	@Accept		json
//	@Produce	json
//	@Param		body	body		RegisterRequest	true	"account"
//	@Success	201		{object}	map[string]any
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse
//	@Router		/user/register [post]
func registerHandler(users *user.Service, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "name, a valid email and a password of at least 8 characters are required")
			return
		}
		u, err := users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				httpx.Fail(c, http.StatusConflict, "User already exists")
				return
			}
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not register user")
			return
		}
		tok, err := tokens.Issue(u.ID, auth.RoleUser)
		if err != nil {
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not issue token")
			return
		}
		log.Info().Str("user_id", u.ID).Msg("user registered")
		httpx.OK(c, http.StatusCreated, gin.H{"token": tok})
	}
}

// loginHandler godoc
//
//	@Summary	Log a storefront user in
//	@Tags		user
//	@Accept		json
//	@Produce	json
//	@Param		body	body		LoginRequest	true	"credentials"
//	@Success	200		{object}	map[string]any
//	@Failure	401		{object}	httpx.ErrorResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/user/login [post]
func loginHandler(users *user.Service, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "email and password are required")
			return
		}
		u, err := users.Login(c.Request.Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, user.ErrNotFound):
			httpx.Fail(c, http.StatusNotFound, "User doesn't exist")
			return
		case errors.Is(err, user.ErrInvalidCredentials):
			httpx.Fail(c, http.StatusUnauthorized, "Invalid credentials")
			return
		case err != nil:
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not log in")
			return
		}
		tok, err := tokens.Issue(u.ID, auth.RoleUser)
		if err != nil {
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not issue token")
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"token": tok})
	}
}

// adminLoginHandler godoc
//
//	@Summary	Log the admin dashboard in
//	@Tags		user
//	@Accept		json
//	@Produce	json
//	@Param		body	body		LoginRequest	true	"admin credentials"
//	@Success	200		{object}	map[string]any
//	@Failure	401		{object}	httpx.ErrorResponse
//	@Router		/user/admin [post]
func adminLoginHandler(users *user.Service, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "email and password are required")
			return
		}
		if err := users.AdminLogin(req.Email, req.Password); err != nil {
			log.Warn().Str("ip", c.ClientIP()).Msg("admin login rejected")
			httpx.Fail(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		tok, err := tokens.Issue(user.NormalizeEmail(req.Email), auth.RoleAdmin)
		if err != nil {
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not issue token")
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"token": tok})
	}
}

// profileHandler godoc
//
//	@Summary	Current user profile
//	@Tags		user
//	@Produce	json
//	@Security	TokenAuth
//	@Success	200	{object}	map[string]any
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Router		/user/profile [get]
func profileHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.Get(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "User doesn't exist")
				return
			}
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not load profile")
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"user": u.Profile()})
	}
}
