package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alexzhelyapov1/LifeControl/config"
	"github.com/alexzhelyapov1/LifeControl/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LocationInput defines the payload for creating a location.
type LocationInput struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=255"`
	ReaderIDs   []uint `json:"reader_ids"`
	EditorIDs   []uint `json:"editor_ids"`
}

// LocationUpdateInput mirrors SphereUpdateInput: absent fields stay untouched,
// present id lists replace the whole set.
type LocationUpdateInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	ReaderIDs   *[]uint `json:"reader_ids"`
	EditorIDs   *[]uint `json:"editor_ids"`
}

func findLocation(c *gin.Context, id string) (*models.Location, bool) {
	var location models.Location
	err := config.DB.Preload("Owner").Preload("Readers").Preload("Editors").First(&location, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return nil, false
	}
	return &location, true
}

// ListLocationsHandler returns every location the effective user can read.
func ListLocationsHandler(c *gin.Context) {
	user, ok := EffectiveUser(c)
	if !ok {
		return
	}

	var locations []models.Location
	err := config.DB.Preload("Owner").
		Where("owner_id = ?", user.ID).
		Or("id IN (SELECT location_id FROM location_readers WHERE user_id = ?)", user.ID).
		Or("id IN (SELECT location_id FROM location_editors WHERE user_id = ?)", user.ID).
		Order("name").
		Find(&locations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch locations"})
		return
	}
	if locations == nil {
		locations = make([]models.Location, 0)
	}

	c.JSON(http.StatusOK, locations)
}

// CreateLocationHandler creates a location owned by the current user.
func CreateLocationHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}

	var input LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	location := models.Location{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     user.ID,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&location).Error; err != nil {
			return err
		}
		readers, err := sharedUsers(tx, input.ReaderIDs, user.ID)
		if err != nil {
			return err
		}
		if err := tx.Model(&location).Association("Readers").Replace(readers); err != nil {
			return err
		}
		editors, err := sharedUsers(tx, input.EditorIDs, user.ID)
		if err != nil {
			return err
		}
		return tx.Model(&location).Association("Editors").Replace(editors)
	})
	if err != nil {
		slog.Error("Failed to create location", "error", err, "owner_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create location"})
		return
	}

	config.DB.Preload("Owner").First(&location, location.ID)
	c.JSON(http.StatusCreated, location)
}

// GetLocationHandler returns one location if the user can read it.
func GetLocationHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}
	location, ok := findLocation(c, c.Param("id"))
	if !ok {
		return
	}
	if !HasAccess(user, location, LevelRead) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have read permissions for this location"})
		return
	}
	c.JSON(http.StatusOK, location)
}

// UpdateLocationHandler changes a location for owner, admin or editor.
func UpdateLocationHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}
	location, ok := findLocation(c, c.Param("id"))
	if !ok {
		return
	}
	if !HasAccess(user, location, LevelEdit) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have edit permissions for this location"})
		return
	}

	var input LocationUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if input.Name != nil {
			location.Name = *input.Name
		}
		if input.Description != nil {
			location.Description = *input.Description
		}
		if err := tx.Save(location).Error; err != nil {
			return err
		}
		if input.ReaderIDs != nil {
			readers, err := sharedUsers(tx, *input.ReaderIDs, location.OwnerID)
			if err != nil {
				return err
			}
			if err := tx.Model(location).Association("Readers").Replace(readers); err != nil {
				return err
			}
		}
		if input.EditorIDs != nil {
			editors, err := sharedUsers(tx, *input.EditorIDs, location.OwnerID)
			if err != nil {
				return err
			}
			if err := tx.Model(location).Association("Editors").Replace(editors); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("Failed to update location", "error", err, "location_id", location.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}

	config.DB.Preload("Owner").First(location, location.ID)
	c.JSON(http.StatusOK, location)
}

// DeleteLocationHandler removes a location. Owner or admin only.
func DeleteLocationHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}
	location, ok := findLocation(c, c.Param("id"))
	if !ok {
		return
	}
	if !CanDelete(user, location) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete a location"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// Records survive the location with their location reference cleared.
		if err := tx.Model(&models.AccountingRecord{}).
			Where("location_id = ?", location.ID).
			Update("location_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Location{}, location.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location"})
		return
	}
	c.Status(http.StatusNoContent)
}
