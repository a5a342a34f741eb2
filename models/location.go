package models

import "gorm.io/gorm"

// Location is a monetary account or wallet, shareable like a Sphere.
type Location struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:100;index;not null"`
	Description string `json:"description" gorm:"size:255"`
	OwnerID     uint   `json:"owner_id" gorm:"not null"`
	Owner       User   `json:"owner" gorm:"foreignKey:OwnerID"`

	Readers []User `json:"readers,omitempty" gorm:"many2many:location_readers"`
	Editors []User `json:"editors,omitempty" gorm:"many2many:location_editors"`
}

func (l *Location) GetOwnerID() uint   { return l.OwnerID }
func (l *Location) GetReaders() []User { return l.Readers }
func (l *Location) GetEditors() []User { return l.Editors }
