package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alexzhelyapov1/LifeControl/config"
	"github.com/alexzhelyapov1/LifeControl/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SphereInput defines the payload for creating a sphere.
type SphereInput struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=255"`
	ReaderIDs   []uint `json:"reader_ids"`
	EditorIDs   []uint `json:"editor_ids"`
}

// SphereUpdateInput uses pointers so an absent field leaves the current value
// (and the current reader/editor sets) untouched, while a present empty list
// clears the set.
type SphereUpdateInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	ReaderIDs   *[]uint `json:"reader_ids"`
	EditorIDs   *[]uint `json:"editor_ids"`
}

// sharedUsers loads the users for a reader/editor id set. The owner is
// implicitly reader and editor and is never stored in the sets.
func sharedUsers(tx *gorm.DB, ids []uint, ownerID uint) ([]models.User, error) {
	filtered := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != ownerID {
			filtered = append(filtered, id)
		}
	}
	users := make([]models.User, 0, len(filtered))
	if len(filtered) == 0 {
		return users, nil
	}
	err := tx.Where("id IN ?", filtered).Find(&users).Error
	return users, err
}

// findSphere loads a sphere with its owner and sharing sets, or answers 404.
func findSphere(c *gin.Context, id string) (*models.Sphere, bool) {
	var sphere models.Sphere
	err := config.DB.Preload("Owner").Preload("Readers").Preload("Editors").First(&sphere, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sphere not found"})
		return nil, false
	}
	return &sphere, true
}

// ListSpheresHandler returns every sphere the effective user can at least read:
// owned ones plus those shared as reader or editor.
func ListSpheresHandler(c *gin.Context) {
	user, ok := EffectiveUser(c)
	if !ok {
		return
	}

	var spheres []models.Sphere
	err := config.DB.Preload("Owner").
		Where("owner_id = ?", user.ID).
		Or("id IN (SELECT sphere_id FROM sphere_readers WHERE user_id = ?)", user.ID).
		Or("id IN (SELECT sphere_id FROM sphere_editors WHERE user_id = ?)", user.ID).
		Order("name").
		Find(&spheres).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch spheres"})
		return
	}
	if spheres == nil {
		spheres = make([]models.Sphere, 0)
	}

	c.JSON(http.StatusOK, spheres)
}

// CreateSphereHandler creates a sphere owned by the current user.
func CreateSphereHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}

	var input SphereInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	sphere := models.Sphere{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     user.ID,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sphere).Error; err != nil {
			return err
		}
		readers, err := sharedUsers(tx, input.ReaderIDs, user.ID)
		if err != nil {
			return err
		}
		if err := tx.Model(&sphere).Association("Readers").Replace(readers); err != nil {
			return err
		}
		editors, err := sharedUsers(tx, input.EditorIDs, user.ID)
		if err != nil {
			return err
		}
		return tx.Model(&sphere).Association("Editors").Replace(editors)
	})
	if err != nil {
		slog.Error("Failed to create sphere", "error", err, "owner_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sphere"})
		return
	}

	config.DB.Preload("Owner").First(&sphere, sphere.ID)
	c.JSON(http.StatusCreated, sphere)
}

// GetSphereHandler returns one sphere if the user can read it.
func GetSphereHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}
	sphere, ok := findSphere(c, c.Param("id"))
	if !ok {
		return
	}
	if !HasAccess(user, sphere, LevelRead) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have read permissions for this sphere"})
		return
	}
	c.JSON(http.StatusOK, sphere)
}

// UpdateSphereHandler changes a sphere for owner, admin or editor.
func UpdateSphereHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}
	sphere, ok := findSphere(c, c.Param("id"))
	if !ok {
		return
	}
	if !HasAccess(user, sphere, LevelEdit) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have edit permissions for this sphere"})
		return
	}

	var input SphereUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if input.Name != nil {
			sphere.Name = *input.Name
		}
		if input.Description != nil {
			sphere.Description = *input.Description
		}
		if err := tx.Save(sphere).Error; err != nil {
			return err
		}
		if input.ReaderIDs != nil {
			readers, err := sharedUsers(tx, *input.ReaderIDs, sphere.OwnerID)
			if err != nil {
				return err
			}
			if err := tx.Model(sphere).Association("Readers").Replace(readers); err != nil {
				return err
			}
		}
		if input.EditorIDs != nil {
			editors, err := sharedUsers(tx, *input.EditorIDs, sphere.OwnerID)
			if err != nil {
				return err
			}
			if err := tx.Model(sphere).Association("Editors").Replace(editors); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("Failed to update sphere", "error", err, "sphere_id", sphere.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sphere"})
		return
	}

	config.DB.Preload("Owner").First(sphere, sphere.ID)
	c.JSON(http.StatusOK, sphere)
}

// DeleteSphereHandler removes a sphere. Editors cannot delete, only the owner
// or an admin.
func DeleteSphereHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}
	sphere, ok := findSphere(c, c.Param("id"))
	if !ok {
		return
	}
	if !CanDelete(user, sphere) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete a sphere"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// Records survive the sphere with their sphere reference cleared.
		if err := tx.Model(&models.AccountingRecord{}).
			Where("sphere_id = ?", sphere.ID).
			Update("sphere_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sphere{}, sphere.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sphere"})
		return
	}
	c.Status(http.StatusNoContent)
}
