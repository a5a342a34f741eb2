package models

import "gorm.io/gorm"

// Sphere is a budget category. The owner is implicitly reader and editor and
// is never stored in the Readers/Editors sets.
type Sphere struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:100;index;not null"`
	Description string `json:"description" gorm:"size:255"`
	OwnerID     uint   `json:"owner_id" gorm:"not null"`
	Owner       User   `json:"owner" gorm:"foreignKey:OwnerID"`

	Readers []User `json:"readers,omitempty" gorm:"many2many:sphere_readers"`
	Editors []User `json:"editors,omitempty" gorm:"many2many:sphere_editors"`
}

func (s *Sphere) GetOwnerID() uint   { return s.OwnerID }
func (s *Sphere) GetReaders() []User { return s.Readers }
func (s *Sphere) GetEditors() []User { return s.Editors }
