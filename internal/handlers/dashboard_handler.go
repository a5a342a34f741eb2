package handlers

import (
	"net/http"

	"github.com/alexzhelyapov1/LifeControl/config"
	"github.com/alexzhelyapov1/LifeControl/models"

	"github.com/gin-gonic/gin"
)

// BalanceItem is one grouped balance row. Groups without records never appear.
type BalanceItem struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// DashboardData aggregates the effective user's ledger: income counts
// positive, spend negative.
type DashboardData struct {
	TotalBalance     float64       `json:"total_balance"`
	LocationsBalance []BalanceItem `json:"locations_balance"`
	SpheresBalance   []BalanceItem `json:"spheres_balance"`
}

const signedSum = "SUM(CASE WHEN operation_type = 'Income' THEN sum ELSE -sum END)"

// DashboardHandler computes the overall balance, the balance per location
// (transfers included) and the net per sphere. Transfer rows are excluded from
// the sphere grouping: moving money between spheres or locations is not income
// or spend of any sphere.
func DashboardHandler(c *gin.Context) {
	user, ok := EffectiveUser(c)
	if !ok {
		return
	}

	var total float64
	err := config.DB.Model(&models.AccountingRecord{}).
		Select("COALESCE(" + signedSum + ", 0)").
		Where("owner_id = ?", user.ID).
		Scan(&total).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not compute total balance"})
		return
	}

	var locations []BalanceItem
	err = config.DB.Model(&models.AccountingRecord{}).
		Select("locations.id as id, locations.name as name, "+signedSum+" as balance").
		Joins("JOIN locations ON locations.id = accounting_records.location_id AND locations.deleted_at IS NULL").
		Where("accounting_records.owner_id = ?", user.ID).
		Group("locations.id, locations.name").
		Order("locations.name").
		Scan(&locations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not compute location balances"})
		return
	}

	var spheres []BalanceItem
	err = config.DB.Model(&models.AccountingRecord{}).
		Select("spheres.id as id, spheres.name as name, "+signedSum+" as balance").
		Joins("JOIN spheres ON spheres.id = accounting_records.sphere_id AND spheres.deleted_at IS NULL").
		Where("accounting_records.owner_id = ? AND accounting_records.is_transfer = ?", user.ID, false).
		Group("spheres.id, spheres.name").
		Order("spheres.name").
		Scan(&spheres).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not compute sphere balances"})
		return
	}

	data := DashboardData{
		TotalBalance:     total,
		LocationsBalance: locations,
		SpheresBalance:   spheres,
	}
	if data.LocationsBalance == nil {
		data.LocationsBalance = make([]BalanceItem, 0)
	}
	if data.SpheresBalance == nil {
		data.SpheresBalance = make([]BalanceItem, 0)
	}

	c.JSON(http.StatusOK, data)
}
