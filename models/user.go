package models

import "gorm.io/gorm"

// User is an account holder. HashedPassword never leaves the API.
type User struct {
	gorm.Model
	Login          string `json:"login" gorm:"size:50;uniqueIndex;not null"`
	HashedPassword string `json:"-" gorm:"not null"`
	Description    string `json:"description" gorm:"size:255"`
	IsAdmin        bool   `json:"is_admin" gorm:"not null;default:false"`

	Friends []*User `json:"-" gorm:"many2many:user_friends"`

	// Owned resources, removed together with the user.
	Spheres   []Sphere           `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Locations []Location         `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Records   []AccountingRecord `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}
