package handlers

import (
	"net/http"
	"time"

	"github.com/alexzhelyapov1/LifeControl/config"
	"github.com/alexzhelyapov1/LifeControl/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenInput accepts both the JSON body and the OAuth2-style form encoding.
type TokenInput struct {
	Login    string `json:"login" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginHandler checks credentials and issues a signed bearer token whose
// subject is the user's login.
func LoginHandler(c *gin.Context) {
	var input TokenInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("login = ?", input.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect login or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect login or password"})
		return
	}

	tokenStr, err := IssueToken(user.Login, config.App.AccessTokenTTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": tokenStr, "token_type": "bearer"})
}

// IssueToken signs an HS256 token for the given login.
func IssueToken(login string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": login,
		"exp": time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(config.JwtKey)
}
