package handlers

import (
	"net/http"

	"github.com/alexzhelyapov1/LifeControl/config"
	"github.com/alexzhelyapov1/LifeControl/models"

	"github.com/gin-gonic/gin"
)

// AccessLevel is the permission required on a shared resource.
type AccessLevel int

const (
	LevelRead AccessLevel = iota
	LevelEdit
)

// SharedResource is anything with an owner and reader/editor sets.
// Sphere and Location both qualify.
type SharedResource interface {
	GetOwnerID() uint
	GetReaders() []models.User
	GetEditors() []models.User
}

// HasAccess decides whether user may act on res at the given level.
// First match wins: platform admin, then owner, then the explicit sets.
// Editors imply readers; readers never imply editors.
func HasAccess(user models.User, res SharedResource, level AccessLevel) bool {
	if user.IsAdmin {
		return true
	}
	if res.GetOwnerID() == user.ID {
		return true
	}
	if level == LevelRead {
		for _, r := range res.GetReaders() {
			if r.ID == user.ID {
				return true
			}
		}
	}
	for _, e := range res.GetEditors() {
		if e.ID == user.ID {
			return true
		}
	}
	return false
}

// CanDelete is stricter than edit: only the owner or an admin may delete a
// shared resource. Editors can change it but not remove it.
func CanDelete(user models.User, res SharedResource) bool {
	return user.IsAdmin || res.GetOwnerID() == user.ID
}

// CurrentUser returns the authenticated identity placed by the auth middleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get("current_user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return models.User{}, false
	}
	user, ok := v.(models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid identity in context"})
		return models.User{}, false
	}
	return user, true
}

// EffectiveUser resolves the identity all downstream checks and queries run
// as. An admin may pass as_user_id to view another user's data; the switch is
// explicit and happens only here, every permission check afterwards sees the
// effective user.
func EffectiveUser(c *gin.Context) (models.User, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		return models.User{}, false
	}

	asUserID := c.Query("as_user_id")
	if asUserID == "" {
		return user, true
	}
	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can view data as another user"})
		return models.User{}, false
	}

	var target models.User
	if err := config.DB.First(&target, asUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		return models.User{}, false
	}
	return target, true
}
