package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Domenick1991/cruisebooking/internal/auth"
	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/Domenick1991/cruisebooking/internal/service/users"
	"github.com/gin-gonic/gin"
)

type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
	Revoke(ctx context.Context, caller auth.Caller) error
}

type UserHandler struct {
	service users.UserUseCase
	tokens  TokenIssuer
	limiter *RateLimiter
}

type registerRequest struct {
	Username        string  `json:"username" binding:"required,min=3"`
	Email           string  `json:"email" binding:"required,email"`
	Password        string  `json:"password" binding:"required,min=6"`
	ConfirmPassword string  `json:"confirmPassword" binding:"required,eqfield=Password"`
	FirstName       string  `json:"firstName" binding:"required"`
	LastName        string  `json:"lastName" binding:"required"`
	PhoneNumber     *string `json:"phoneNumber"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// NewUserHandler serves account and session endpoints. limiter throttles
// login and registration and may be nil.
func NewUserHandler(service users.UserUseCase, tokens TokenIssuer, limiter *RateLimiter) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, limiter: limiter}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.POST("/register", h.limiter.Middleware(), h.register)
	router.POST("/login", h.limiter.Middleware(), h.login)
	router.POST("/logout", RequireAuth(), h.logout)
	router.GET("/user", RequireAuth(), h.current)
	router.GET("/admin/users", RequireAdmin(), h.list)
}

func (h *UserHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid registration data")
		return
	}

	user, err := h.service.Register(c.Request.Context(), users.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		respondError(c, err, "User not found", "Error registering user")
		return
	}
	h.startSession(c, http.StatusCreated, user)
}

func (h *UserHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid login data")
		return
	}

	user, err := h.service.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "User not found", "Error logging in")
		return
	}
	h.startSession(c, http.StatusOK, user)
}

func (h *UserHandler) startSession(c *gin.Context, status int, user *domain.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		respondError(c, err, "User not found", "Error creating session")
		return
	}
	c.JSON(status, sessionResponse{User: user, Token: token})
}

func (h *UserHandler) logout(c *gin.Context) {
	if err := h.tokens.Revoke(c.Request.Context(), callerFrom(c)); err != nil {
		respondError(c, err, "User not found", "Error logging out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *UserHandler) current(c *gin.Context) {
	user, err := h.service.GetByID(c.Request.Context(), callerFrom(c).UserID)
	if errors.Is(err, domain.ErrNotFound) {
		// the account behind a still-valid token is gone
		c.JSON(http.StatusUnauthorized, errorResponse{Message: msgUnauthorized})
		return
	}
	if err != nil {
		respondError(c, err, msgUnauthorized, "Error fetching user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) list(c *gin.Context) {
	all, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "User not found", "Error fetching users")
		return
	}
	c.JSON(http.StatusOK, all)
}
