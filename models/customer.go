// Package models contains domain entities for meal campaigns, orders and SMS records
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer is the person an order belongs to
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Mobile    string    `gorm:"size:20;not null;uniqueIndex:uk_customers_mobile" json:"mobile"`
	FirstName string    `gorm:"size:255;not null" json:"first_name"`
	LastName  string    `gorm:"size:255;not null" json:"last_name"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// HasAddress reports whether the customer has a non-blank address
func (c *Customer) HasAddress() bool {
	return c.Address != nil && strings.TrimSpace(*c.Address) != ""
}

