package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/amirphl/meal-campaign-stats/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CampaignState represents the lifecycle state of a meal campaign
type CampaignState string

const (
	CampaignStateStarted CampaignState = "STARTED"
	CampaignStateFrozen  CampaignState = "FROZEN"
	CampaignStateEnded   CampaignState = "ENDED"
)

// String returns the string representation of the state
func (s CampaignState) String() string {
	return string(s)
}

// Valid checks if the state is valid
func (s CampaignState) Valid() bool {
	switch s {
	case CampaignStateStarted, CampaignStateFrozen, CampaignStateEnded:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CampaignState
func (s *CampaignState) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CampaignState(v)
	case []byte:
		*s = CampaignState(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignState", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignState
func (s CampaignState) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CampaignState: %s", s)
	}
	return string(s), nil
}

// Campaign represents a time-bounded meal-ordering cycle
type Campaign struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string        `gorm:"size:255;not null" json:"name"`
	State     CampaignState `gorm:"size:16;not null;default:'STARTED';index:idx_campaigns_state" json:"state"`
	StartedAt time.Time     `gorm:"not null;index:idx_campaigns_started_at" json:"started_at"`
	FrozenAt  *time.Time    `json:"frozen_at,omitempty"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`

	// Per-meal unit costs, all optional
	ChickenCost decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"chicken_cost"`
	FishCost    decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"fish_cost"`
	VegCost     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"veg_cost"`
	EggCost     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"egg_cost"`
	OtherCost   decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"other_cost"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.State == "" {
		c.State = CampaignStateStarted
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// EffectiveEnd is the campaign end, or now while the campaign is still running
func (c *Campaign) EffectiveEnd(now time.Time) time.Time {
	if c.EndedAt != nil {
		return *c.EndedAt
	}
	return now
}

// UnitCost returns the configured unit cost of a meal type
func (c *Campaign) UnitCost(m MealType) decimal.NullDecimal {
	switch m {
	case MealTypeChicken:
		return c.ChickenCost
	case MealTypeFish:
		return c.FishCost
	case MealTypeVeg:
		return c.VegCost
	case MealTypeEgg:
		return c.EggCost
	case MealTypeOther:
		return c.OtherCost
	default:
		return decimal.NullDecimal{}
	}
}

// HasUnitCosts reports whether any meal type has a unit cost configured
func (c *Campaign) HasUnitCosts() bool {
	for _, m := range MealTypes {
		if c.UnitCost(m).Valid {
			return true
		}
	}
	return false
}

// CampaignFilter represents filter criteria for campaigns
type CampaignFilter struct {
	ID            *uuid.UUID     `json:"id,omitempty"`
	IDs           []uuid.UUID    `json:"ids,omitempty"`
	State         *CampaignState `json:"state,omitempty"`
	StartedAfter  *time.Time     `json:"started_after,omitempty"`
	StartedBefore *time.Time     `json:"started_before,omitempty"`
}
