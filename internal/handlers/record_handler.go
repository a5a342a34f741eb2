package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexzhelyapov1/LifeControl/config"
	"github.com/alexzhelyapov1/LifeControl/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// RecordInput is the creation request for all three operation kinds,
// discriminated by Type. It is dispatched once, right here at the boundary.
type RecordInput struct {
	Type        string          `json:"type" binding:"required,oneof=Income Spend Transfer"`
	Sum         decimal.Decimal `json:"sum"`
	Description string          `json:"description" binding:"omitempty,max=255"`
	Date        *time.Time      `json:"date"`

	// Income / Spend
	SphereID   *uint `json:"sphere_id"`
	LocationID *uint `json:"location_id"`

	// Transfer
	TransferType   string `json:"transfer_type" binding:"omitempty,oneof=location sphere"`
	FromLocationID *uint  `json:"from_location_id"`
	ToLocationID   *uint  `json:"to_location_id"`
	FromSphereID   *uint  `json:"from_sphere_id"`
	ToSphereID     *uint  `json:"to_sphere_id"`
}

// Validate applies the domain rules that run before any persistence or
// permission check.
func (in *RecordInput) Validate() error {
	if !in.Sum.IsPositive() {
		return errors.New("sum must be positive")
	}

	switch in.Type {
	case "Income", "Spend":
		if in.LocationID == nil || in.SphereID == nil {
			return errors.New("location_id and sphere_id are required")
		}
	case "Transfer":
		switch in.TransferType {
		case "location":
			if in.FromLocationID == nil || in.ToLocationID == nil || in.SphereID == nil {
				return errors.New("for location transfer, from_location_id, to_location_id and sphere_id are required")
			}
			if *in.FromLocationID == *in.ToLocationID {
				return errors.New("source and destination locations cannot be the same")
			}
		case "sphere":
			if in.FromSphereID == nil || in.ToSphereID == nil || in.LocationID == nil {
				return errors.New("for sphere transfer, from_sphere_id, to_sphere_id and location_id are required")
			}
			if *in.FromSphereID == *in.ToSphereID {
				return errors.New("source and destination spheres cannot be the same")
			}
		default:
			return errors.New("transfer_type must be 'location' or 'sphere'")
		}
	}
	return nil
}

// referencedResources collects the deduplicated sphere and location ids a
// request touches. The acting user must hold edit permission on all of them.
func (in *RecordInput) referencedResources() (sphereIDs, locationIDs []uint) {
	appendUnique := func(ids []uint, v *uint) []uint {
		if v == nil {
			return ids
		}
		for _, id := range ids {
			if id == *v {
				return ids
			}
		}
		return append(ids, *v)
	}

	switch {
	case in.Type != "Transfer":
		sphereIDs = appendUnique(sphereIDs, in.SphereID)
		locationIDs = appendUnique(locationIDs, in.LocationID)
	case in.TransferType == "location":
		sphereIDs = appendUnique(sphereIDs, in.SphereID)
		locationIDs = appendUnique(locationIDs, in.FromLocationID)
		locationIDs = appendUnique(locationIDs, in.ToLocationID)
	default:
		sphereIDs = appendUnique(sphereIDs, in.FromSphereID)
		sphereIDs = appendUnique(sphereIDs, in.ToSphereID)
		locationIDs = appendUnique(locationIDs, in.LocationID)
	}
	return sphereIDs, locationIDs
}

// requireEditableResources answers the authorization gate: every referenced
// sphere and location must be editable by the user before anything is written.
// Responds 404 for an unknown resource, 403 naming the offending one.
func requireEditableResources(c *gin.Context, user models.User, sphereIDs, locationIDs []uint) bool {
	for _, id := range sphereIDs {
		var sphere models.Sphere
		if err := config.DB.Preload("Editors").First(&sphere, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Sphere with id %d not found", id)})
			return false
		}
		if !HasAccess(user, &sphere, LevelEdit) {
			c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("You don't have edit permissions for sphere '%s'", sphere.Name)})
			return false
		}
	}
	for _, id := range locationIDs {
		var location models.Location
		if err := config.DB.Preload("Editors").First(&location, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Location with id %d not found", id)})
			return false
		}
		if !HasAccess(user, &location, LevelEdit) {
			c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("You don't have edit permissions for location '%s'", location.Name)})
			return false
		}
	}
	return true
}

// nextAccountingID allocates the correlation id for one logical operation:
// 1 + the highest id in the table, 1 when the table is empty. Must run inside
// the same transaction that inserts the rows.
func nextAccountingID(tx *gorm.DB) (uint, error) {
	var maxID uint
	err := tx.Model(&models.AccountingRecord{}).
		Select("COALESCE(MAX(accounting_id), 0)").
		Scan(&maxID).Error
	return maxID + 1, err
}

// buildRecords expands a validated request into its ledger rows: one row for
// an income/spend, a spend+income pair sharing accountingID for a transfer.
func buildRecords(in *RecordInput, ownerID, accountingID uint) []models.AccountingRecord {
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	base := models.AccountingRecord{
		AccountingID: accountingID,
		OwnerID:      ownerID,
		Sum:          in.Sum,
		Description:  in.Description,
		Date:         date,
	}

	if in.Type != "Transfer" {
		rec := base
		rec.OperationType = models.OperationIncome
		if in.Type == "Spend" {
			rec.OperationType = models.OperationSpend
		}
		rec.SphereID = in.SphereID
		rec.LocationID = in.LocationID
		return []models.AccountingRecord{rec}
	}

	spend, income := base, base
	spend.OperationType = models.OperationSpend
	income.OperationType = models.OperationIncome
	spend.IsTransfer = true
	income.IsTransfer = true

	if in.TransferType == "location" {
		spend.LocationID = in.FromLocationID
		income.LocationID = in.ToLocationID
		spend.SphereID = in.SphereID
		income.SphereID = in.SphereID
	} else {
		spend.SphereID = in.FromSphereID
		income.SphereID = in.ToSphereID
		spend.LocationID = in.LocationID
		income.LocationID = in.LocationID
	}
	return []models.AccountingRecord{spend, income}
}

// CreateRecordHandler creates one income/spend row or a linked transfer pair.
// All rows of one logical operation are committed together or not at all.
func CreateRecordHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}

	var input RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sphereIDs, locationIDs := input.referencedResources()
	if !requireEditableResources(c, user, sphereIDs, locationIDs) {
		return
	}

	var records []models.AccountingRecord
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		accountingID, err := nextAccountingID(tx)
		if err != nil {
			return err
		}
		records = buildRecords(&input, user.ID, accountingID)
		return tx.Create(&records).Error
	})
	if err != nil {
		slog.Error("Failed to create records", "error", err, "owner_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create records"})
		return
	}

	c.JSON(http.StatusCreated, loadRecords(records))
}

// loadRecords re-reads rows with their sphere/location relations for the
// response body.
func loadRecords(records []models.AccountingRecord) []models.AccountingRecord {
	ids := make([]uint, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	var out []models.AccountingRecord
	config.DB.Preload("Sphere.Owner").Preload("Location.Owner").
		Where("id IN ?", ids).
		Order("id asc").
		Find(&out)
	return out
}

// ListRecordsHandler returns the effective user's records, newest first, with
// a stable id tie-break for rows sharing a timestamp.
func ListRecordsHandler(c *gin.Context) {
	user, ok := EffectiveUser(c)
	if !ok {
		return
	}

	var totalRows int64
	config.DB.Model(&models.AccountingRecord{}).Where("owner_id = ?", user.ID).Count(&totalRows)

	var records []models.AccountingRecord
	err := config.DB.Preload("Sphere.Owner").Preload("Location.Owner").
		Where("owner_id = ?", user.ID).
		Order("date desc").Order("id desc").
		Scopes(Paginate(c)).
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch records"})
		return
	}
	if records == nil {
		records = make([]models.AccountingRecord, 0)
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, records, totalRows))
}

// findOwnRecord loads a record the user may modify: their own, or anyone's for
// an admin.
func findOwnRecord(c *gin.Context, user models.User) (*models.AccountingRecord, bool) {
	var record models.AccountingRecord
	if err := config.DB.First(&record, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return nil, false
	}
	if record.OwnerID != user.ID && !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permissions for this record"})
		return nil, false
	}
	return &record, true
}

// UpdateRecordHandler rewrites one logical operation. A plain income/spend is
// updated in place; anything touching a transfer discards every row of the
// accounting id and rebuilds the operation under the same id, so a transfer
// can never lose a single leg.
func UpdateRecordHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}
	record, ok := findOwnRecord(c, user)
	if !ok {
		return
	}

	var input RecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sphereIDs, locationIDs := input.referencedResources()
	if !requireEditableResources(c, user, sphereIDs, locationIDs) {
		return
	}

	var records []models.AccountingRecord
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if input.Type != "Transfer" && !record.IsTransfer {
			record.OperationType = models.OperationIncome
			if input.Type == "Spend" {
				record.OperationType = models.OperationSpend
			}
			record.Sum = input.Sum
			record.SphereID = input.SphereID
			record.LocationID = input.LocationID
			record.Description = input.Description
			if input.Date != nil {
				record.Date = *input.Date
			}
			records = []models.AccountingRecord{*record}
			return tx.Save(record).Error
		}

		// Operation shape changes: replace every row of the correlation id,
		// keeping the id itself stable across edits.
		err := tx.Where("accounting_id = ? AND owner_id = ?", record.AccountingID, record.OwnerID).
			Delete(&models.AccountingRecord{}).Error
		if err != nil {
			return err
		}
		records = buildRecords(&input, record.OwnerID, record.AccountingID)
		return tx.Create(&records).Error
	})
	if err != nil {
		slog.Error("Failed to update record", "error", err, "record_id", record.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record"})
		return
	}

	c.JSON(http.StatusOK, loadRecords(records))
}

// DeleteRecordHandler removes one logical operation: every row sharing the
// record's accounting id.
func DeleteRecordHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		return
	}
	record, ok := findOwnRecord(c, user)
	if !ok {
		return
	}

	err := config.DB.Where("accounting_id = ? AND owner_id = ?", record.AccountingID, record.OwnerID).
		Delete(&models.AccountingRecord{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportRecordsHandler streams the effective user's ledger as an xlsx file.
func ExportRecordsHandler(c *gin.Context) {
	user, ok := EffectiveUser(c)
	if !ok {
		return
	}

	var records []models.AccountingRecord
	err := config.DB.Preload("Sphere").Preload("Location").
		Where("owner_id = ?", user.ID).
		Order("date desc").Order("id desc").
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch records"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Records"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Operation", "Transfer", "Sum", "Sphere", "Location", "Description"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range records {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Date.Format("02.01.2006 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), string(r.OperationType))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.IsTransfer)
		sum, _ := r.Sum.Float64()
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), sum)
		if r.Sphere != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Sphere.Name)
		}
		if r.Location != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Location.Name)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Description)
	}

	fileName := fmt.Sprintf("records_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		slog.Error("Failed to write xlsx export", "error", err, "owner_id", user.ID)
	}
}
