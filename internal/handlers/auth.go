package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
)

// AuthHandler serves registration, login and the current-user endpoint.
type AuthHandler struct {
	users *services.UserService
	jwt   *auth.JWTService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *services.UserService, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new account and returns it with an access token.
func (h *AuthHandler) Register(c *gin.Context) {
	input, err := bindAndValidate[services.RegisterInput](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":  user,
		"token": tokenResponse{AccessToken: token, TokenType: "Bearer"},
	})
}

// Login verifies credentials and issues an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	input, err := bindAndValidate[loginRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), input.Identifier, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  user,
		"token": tokenResponse{AccessToken: token, TokenType: "Bearer"},
	})
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
