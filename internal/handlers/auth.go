package handlers

import (
	"errors"
	"net/http"

	"github.com/go-ticklist/ticklist/internal/middleware"
	"github.com/go-ticklist/ticklist/internal/revocation"
	"github.com/go-ticklist/ticklist/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes the account endpoints: registration, login with token
// issuance, logout by revocation, and the current-user profile.
type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(as *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create an account with name, email, and password. Emails are case-insensitive.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest									true	"Registration payload"
//	@Success		201		{object}	object{msg=string,user_id=string}				"User registered"
//	@Failure		400		{object}	object{error=string,error_description=string}	"Invalid payload or email already registered (invalid_request, email_taken)"
//	@Failure		500		{object}	object{error=string,error_description=string}	"Registration failed"
//	@Router			/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "name, email, and password are required",
		})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "email_taken",
				"error_description": "Email already registered",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": "Registration failed",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":     "User registered successfully",
		"user_id": user.ID,
	})
}

// Login godoc
//
//	@Summary		Login an existing user
//	@Description	Verify credentials and issue a bearer token valid for the configured lifetime.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest																	true	"Login payload"
//	@Success		200		{object}	object{msg=string,access_token=string,token_type=string,user=object{name=string,email=string}}	"Login successful"
//	@Failure		400		{object}	object{error=string,error_description=string}									"Invalid payload (invalid_request)"
//	@Failure		401		{object}	object{error=string,error_description=string}									"Unknown email or wrong password (invalid_credentials)"
//	@Failure		500		{object}	object{error=string,error_description=string}									"Login failed"
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "email and password are required",
		})
		return
	}

	issued, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "invalid_credentials",
				"error_description": "Invalid email or password",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": "Login failed",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":          "Login successful",
		"access_token": issued.Token,
		"token_type":   "bearer",
		"user": gin.H{
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// Logout godoc
//
//	@Summary		Logout
//	@Description	Revoke the presented bearer token. The token is rejected immediately afterwards, even though it has not expired.
//	@Tags			Authentication
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	object{msg=string}								"Logout successful"
//	@Failure		401	{object}	object{error=string,error_description=string}	"Missing or invalid bearer token"
//	@Failure		503	{object}	object{error=string,error_description=string}	"Revocation registry unreachable (registry_unavailable)"
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":             "invalid_token",
			"error_description": "Authentication required",
		})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		// A logout that cannot reach the registry has not revoked anything
		// and must not report success.
		switch {
		case errors.Is(err, revocation.ErrRegistryUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":             "registry_unavailable",
				"error_description": "Logout could not be completed, try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": "Logout failed",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Logout successful"})
}

// Me godoc
//
//	@Summary		Current user profile
//	@Description	Return the account that owns the presented bearer token.
//	@Tags			Authentication
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	object{user=object{id=string,name=string,email=string}}	"Authenticated user"
//	@Failure		401	{object}	object{error=string,error_description=string}			"Missing or invalid bearer token"
//	@Failure		404	{object}	object{error=string,error_description=string}			"Account no longer exists (user_not_found)"
//	@Router			/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":             "invalid_token",
			"error_description": "Authentication required",
		})
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":             "user_not_found",
				"error_description": "User not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": "Profile lookup failed",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
