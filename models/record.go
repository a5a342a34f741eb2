package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OperationType string

const (
	OperationIncome OperationType = "Income"
	OperationSpend  OperationType = "Spend"
)

// AccountingRecord is one ledger line. AccountingID correlates the two rows of
// a transfer; for a plain income/spend it is unique to the single row.
// SphereID and LocationID are both nullable columns: the foreign keys clear
// them when the referenced resource is deleted, while the API still requires a
// location on every creation request.
type AccountingRecord struct {
	gorm.Model
	AccountingID uint `json:"accounting_id" gorm:"index;not null"`
	OwnerID      uint `json:"owner_id" gorm:"not null"`
	Owner        User `json:"-" gorm:"foreignKey:OwnerID"`

	OperationType OperationType `json:"operation_type" gorm:"size:10;not null"`
	IsTransfer    bool          `json:"is_transfer" gorm:"not null;default:false"`

	SphereID *uint   `json:"sphere_id" gorm:"index"`
	Sphere   *Sphere `json:"sphere,omitempty" gorm:"foreignKey:SphereID;constraint:OnDelete:SET NULL"`

	LocationID *uint     `json:"location_id" gorm:"index"`
	Location   *Location `json:"location,omitempty" gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL"`

	Sum         decimal.Decimal `json:"sum" gorm:"type:numeric(12,2);not null"`
	Description string          `json:"description" gorm:"size:255"`
	Date        time.Time       `json:"date" gorm:"not null"`
}

// Signed returns the record's contribution to a balance: income counts
// positive, spend negative.
func (r *AccountingRecord) Signed() decimal.Decimal {
	if r.OperationType == OperationSpend {
		return r.Sum.Neg()
	}
	return r.Sum
}
