package models

import (
	"time"

	"github.com/amirphl/meal-campaign-stats/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is a customer's meal order within a campaign. A customer has at most one order per campaign.
type Order struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_orders_campaign_customer;index:idx_orders_campaign_id" json:"campaign_id"`
	CustomerID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_orders_campaign_customer" json:"customer_id"`
	PickupLocationID *uuid.UUID `gorm:"type:uuid;index:idx_orders_pickup_location_id" json:"pickup_location_id,omitempty"`

	Chicken int `gorm:"not null;default:0" json:"chicken"`
	Fish    int `gorm:"not null;default:0" json:"fish"`
	Veg     int `gorm:"not null;default:0" json:"veg"`
	Egg     int `gorm:"not null;default:0" json:"egg"`
	Other   int `gorm:"not null;default:0" json:"other"`

	Note      *string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_orders_created_at" json:"created_at"`
	UpdatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index:idx_orders_deleted_at" json:"deleted_at,omitempty"`

	// Relations
	Customer       *Customer       `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	PickupLocation *PickupLocation `gorm:"foreignKey:PickupLocationID;references:ID" json:"pickup_location,omitempty"`
}

// TableName returns the table name for the model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate is called before creating a new record
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := utils.UTCNow()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	return nil
}

// Meals returns the order's quantities
func (o *Order) Meals() MealQuantities {
	return MealQuantities{
		Chicken: o.Chicken,
		Fish:    o.Fish,
		Veg:     o.Veg,
		Egg:     o.Egg,
		Other:   o.Other,
	}
}

// TotalMeals is the sum of the five meal quantities
func (o *Order) TotalMeals() int {
	return o.Meals().Total()
}

// IsDeleted reports whether the order has been soft-deleted
func (o *Order) IsDeleted() bool {
	return o.DeletedAt != nil
}

// HasPickupLocation reports whether a pickup location is assigned
func (o *Order) HasPickupLocation() bool {
	return o.PickupLocationID != nil && *o.PickupLocationID != uuid.Nil
}

// OrderFilter represents filter criteria for orders
type OrderFilter struct {
	ID             *uuid.UUID  `json:"id,omitempty"`
	CampaignIDs    []uuid.UUID `json:"campaign_ids,omitempty"`
	CustomerID     *uuid.UUID  `json:"customer_id,omitempty"`
	ExcludeDeleted bool        `json:"exclude_deleted,omitempty"`
	CreatedAfter   *time.Time  `json:"created_after,omitempty"`
	CreatedBefore  *time.Time  `json:"created_before,omitempty"`
}
