package models

import (
	"time"

	"github.com/google/uuid"
)

// Pickup location sentinels used when an order has no location assigned
const (
	UnknownPickupLocationKey  = "unknown"
	UnknownPickupLocationName = "Unknown"
)

// PickupLocation is a physical distribution point orders are collected from
type PickupLocation struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	DistributorName string    `gorm:"size:255;not null" json:"distributor_name"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (PickupLocation) TableName() string {
	return "pickup_locations"
}
