package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/appdex-dev/appdex/internal/models"
	"github.com/appdex-dev/appdex/internal/types"
	"github.com/appdex-dev/appdex/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role" binding:"omitempty,oneof=viewer user admin"`
	Username  string `json:"username"`
	Password  string `json:"password" binding:"omitempty,min=8"`
}

type UpdateUserRequest struct {
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role" binding:"omitempty,oneof=viewer user admin"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// List is admin-only; the role gate runs in the router.
func (h *UserHandler) List(ctx *gin.Context) {
	var users []models.User

	if err := h.DB.Order("id").Find(&users).Error; err != nil {
		log.Printf("Failed to list users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching users."})
		return
	}

	responses := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		responses = append(responses, userResponse(user))
	}

	ctx.JSON(http.StatusOK, responses)
}

func (h *UserHandler) Create(ctx *gin.Context) {
	var req CreateUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User

	err := h.DB.Where("email = ?", email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered."})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding user."})
		return
	}

	role := req.Role
	if role == "" {
		role = types.RoleViewer
	}

	user := models.User{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		Username:  strings.TrimSpace(req.Username),
	}

	// Optional legacy credentials for the password login path.
	if req.Password != "" {
		if user.Username == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Username is required when setting a password."})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding user."})
			return
		}

		user.PasswordHash = string(hash)
	}

	if err := h.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding user."})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "User added successfully.", "user": userResponse(user)})
}

func (h *UserHandler) UpdateByID(ctx *gin.Context) {
	id, ok := userID(ctx)
	if !ok {
		return
	}

	var req UpdateUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var user models.User

	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		log.Printf("Failed to fetch user %d: %v", id, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating user."})
		return
	}

	updates := make(map[string]interface{})

	if req.FirstName != "" {
		updates["first_name"] = strings.TrimSpace(req.FirstName)
	}

	if req.LastName != "" {
		updates["last_name"] = strings.TrimSpace(req.LastName)
	}

	if req.Role != "" {
		updates["role"] = req.Role
	}

	if req.Email != "" {
		newEmail := strings.ToLower(strings.TrimSpace(req.Email))

		if newEmail != user.Email {
			var existing models.User
			err := h.DB.Where("email = ? AND id != ?", newEmail, user.ID).First(&existing).Error
			if err == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered."})
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Database error when checking existing email: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating user."})
				return
			}
		}

		updates["email"] = newEmail
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No valid fields to update."})
		return
	}

	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to update user %d: %v", id, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating user."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User updated successfully."})
}

func (h *UserHandler) DeleteByID(ctx *gin.Context) {
	id, ok := userID(ctx)
	if !ok {
		return
	}

	var user models.User

	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		log.Printf("Failed to fetch user %d: %v", id, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting user."})
		return
	}

	// The seed admin identity must always remain.
	if user.Email == types.SeedAdminEmail {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "The default admin account cannot be deleted."})
		return
	}

	if err := h.DB.Delete(&user).Error; err != nil {
		log.Printf("Failed to delete user %d: %v", id, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting user."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
}

func (h *UserHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := h.DB.First(&user, currentUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("Failed to fetch user %d: %v", currentUser.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error fetching user data."})
		return
	}

	ctx.JSON(http.StatusOK, userResponse(user))
}

// UpdateProfile only ever touches the acting identity's own record.
func (h *UserHandler) UpdateProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateProfileRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Both names required."})
		return
	}

	updates := map[string]interface{}{
		"first_name": strings.TrimSpace(req.FirstName),
		"last_name":  strings.TrimSpace(req.LastName),
	}

	result := h.DB.Model(&models.User{}).Where("id = ?", currentUser.ID).Updates(updates)

	if result.Error != nil {
		log.Printf("Failed to update profile for user %d: %v", currentUser.ID, result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating profile."})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated!", "firstName": req.FirstName, "lastName": req.LastName})
}

// ChangePassword requires the owning identity's current password; there is
// no path for changing anyone else's.
func (h *UserHandler) ChangePassword(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ChangePasswordRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var user models.User

	if err := h.DB.First(&user, currentUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("Failed to fetch user %d: %v", currentUser.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error changing password."})
		return
	}

	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Incorrect old password."})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash new password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error changing password."})
		return
	}

	if err := h.DB.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		log.Printf("Failed to update password for user %d: %v", user.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error changing password."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password changed successfully."})
}

// UpdateProfilePicture stores a reference string only; file uploads are
// handled elsewhere.
func (h *UserHandler) UpdateProfilePicture(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		ProfilePicURL string `json:"profilePicUrl" binding:"required"`
	}

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Profile picture URL is required."})
		return
	}

	if err := h.DB.Model(&models.User{}).
		Where("id = ?", currentUser.ID).
		Update("profile_pic_url", req.ProfilePicURL).Error; err != nil {
		log.Printf("Failed to update profile picture for user %d: %v", currentUser.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating profile picture."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Profile picture updated!", "profilePicUrl": req.ProfilePicURL})
}

func userID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID format"})
		return 0, false
	}

	return uint(id), true
}
