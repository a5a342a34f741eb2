package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alexzhelyapov1/LifeControl/config"
	"github.com/alexzhelyapov1/LifeControl/internal/middleware"
	"github.com/alexzhelyapov1/LifeControl/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput defines the payload for self-registration.
type RegisterInput struct {
	Login       string `json:"login" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

// RegisterHandler creates a new user. Logins are unique: registering an
// existing login is a domain error, not a schema one.
func RegisterHandler(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := config.DB.Where("login = ?", input.Login).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The user with this login already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Login:          input.Login,
		HashedPassword: string(hashedPassword),
		Description:    input.Description,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		slog.Error("Failed to create user", "error", err, "login", input.Login)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// MeHandler returns the authenticated user's own profile.
func MeHandler(c *gin.Context) {
	current, ok := CurrentUser(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, current.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UserUpdateInput allows changing the profile description and the password.
// Logins are permanent.
type UserUpdateInput struct {
	Description *string `json:"description" binding:"omitempty,max=255"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
}

// UpdateMeHandler updates the authenticated user's own profile and drops the
// cached identity so the next request sees the new state.
func UpdateMeHandler(c *gin.Context) {
	current, ok := CurrentUser(c)
	if !ok {
		return
	}

	var input UserUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, current.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Description != nil {
		user.Description = *input.Description
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.HashedPassword = string(hashed)
	}

	if err := config.DB.Save(&user).Error; err != nil {
		slog.Error("Failed to update user", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	middleware.InvalidateIdentityCache(user.Login)

	c.JSON(http.StatusOK, user)
}

// ListUsersHandler returns a paginated list of all users. Admin only.
func ListUsersHandler(c *gin.Context) {
	current, ok := CurrentUser(c)
	if !ok {
		return
	}
	if !current.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var totalRows int64
	config.DB.Model(&models.User{}).Count(&totalRows)

	var users []models.User
	if err := config.DB.Order("id asc").Scopes(Paginate(c)).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch users"})
		return
	}
	if users == nil {
		users = make([]models.User, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, users, totalRows))
}
