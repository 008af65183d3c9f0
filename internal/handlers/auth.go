package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/appdex-dev/appdex/internal/auth"
	"github.com/appdex-dev/appdex/internal/models"
	"github.com/appdex-dev/appdex/internal/types"
	"github.com/appdex-dev/appdex/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{DB: db}
}

// Login is the email allow-list path: no password, just a pre-provisioned
// email mapped to a role.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Valid email is required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	err := h.DB.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Email not authorized"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error during login"})
		return
	}

	h.respondWithToken(ctx, user)
}

// LoginPassword is the legacy secondary path for admin-created accounts
// that carry a username and password hash.
func (h *AuthHandler) LoginPassword(ctx *gin.Context) {
	var req PasswordLoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username and password are required"})
		return
	}

	var user models.User

	err := h.DB.Where("username = ?", req.Username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid username or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error during login"})
		return
	}

	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid username or password"})
		return
	}

	h.respondWithToken(ctx, user)
}

// Profile serves both GET /verify-token and GET /profile: it re-reads the
// identity behind the presented token so a deleted account stops verifying
// immediately.
func (h *AuthHandler) Profile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := h.DB.First(&user, currentUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *AuthHandler) respondWithToken(ctx *gin.Context, user models.User) {
	token, err := auth.GenerateJWT(user.ID, user.Email, user.Role)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error during login"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    userResponse(user),
	})
}

func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Role:          user.Role,
		Username:      user.Username,
		ProfilePicURL: user.ProfilePicURL,
		CreatedAt:     user.CreatedAt,
	}
}
