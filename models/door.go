package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DoorStatusOpen   = "open"
	DoorStatusClosed = "closed"
	DoorStatusLocked = "locked"
	DoorStatusAlarm  = "alarm"
)

const (
	DoorTypeMain      = "main"
	DoorTypeGarage    = "garage"
	DoorTypeInterior  = "interior"
	DoorTypeEmergency = "emergency"
)

const (
	AccessPublic     = "public"
	AccessRestricted = "restricted"
	AccessPrivate    = "private"
)

type Door struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"type:varchar(80);not null" json:"name"`
	Location    string    `gorm:"type:varchar(120)" json:"location"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	AccessLevel string    `gorm:"type:varchar(20);not null" json:"accessLevel"`
	Status      string    `gorm:"type:varchar(20);not null" json:"status"`

	AccessUsers []User `gorm:"many2many:door_access_users;" json:"accessUsers"`

	LastChangedByUserID *uuid.UUID `gorm:"type:uuid" json:"lastChangedBy,omitempty"`
	LastChangedAt       *time.Time `json:"lastChangedAt,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Door) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DoorStatusClosed
	}
	if d.AccessLevel == "" {
		d.AccessLevel = AccessRestricted
	}
	return
}

// HasAccess reports whether the user is on the door's access list.
func (d *Door) HasAccess(userID uuid.UUID) bool {
	for _, u := range d.AccessUsers {
		if u.ID == userID {
			return true
		}
	}
	return false
}

func ValidDoorStatus(s string) bool {
	switch s {
	case DoorStatusOpen, DoorStatusClosed, DoorStatusLocked, DoorStatusAlarm:
		return true
	}
	return false
}

func ValidDoorType(s string) bool {
	switch s {
	case DoorTypeMain, DoorTypeGarage, DoorTypeInterior, DoorTypeEmergency:
		return true
	}
	return false
}

func ValidAccessLevel(s string) bool {
	switch s {
	case AccessPublic, AccessRestricted, AccessPrivate:
		return true
	}
	return false
}
