package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/amirphl/meal-campaign-stats/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampaignOption customises a campaign built by NewCampaign
type CampaignOption func(*models.Campaign)

// NewCampaign builds a started campaign
func NewCampaign(name string, startedAt time.Time, opts ...CampaignOption) *models.Campaign {
	c := &models.Campaign{
		ID:        uuid.New(),
		Name:      name,
		State:     models.CampaignStateStarted,
		StartedAt: startedAt,
		CreatedAt: startedAt,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithFrozenAt(t time.Time) CampaignOption {
	return func(c *models.Campaign) {
		c.FrozenAt = &t
		c.State = models.CampaignStateFrozen
	}
}

func WithEndedAt(t time.Time) CampaignOption {
	return func(c *models.Campaign) {
		c.EndedAt = &t
		c.State = models.CampaignStateEnded
	}
}

// WithUnitCost sets the unit cost of one meal type from a decimal string such as "4.50"
func WithUnitCost(m models.MealType, cost string) CampaignOption {
	return func(c *models.Campaign) {
		v := decimal.NullDecimal{Decimal: decimal.RequireFromString(cost), Valid: true}
		switch m {
		case models.MealTypeChicken:
			c.ChickenCost = v
		case models.MealTypeFish:
			c.FishCost = v
		case models.MealTypeVeg:
			c.VegCost = v
		case models.MealTypeEgg:
			c.EggCost = v
		case models.MealTypeOther:
			c.OtherCost = v
		}
	}
}

// NewCustomer builds a customer with a random mobile number; address may be nil
func NewCustomer(firstName, lastName string, address *string) *models.Customer {
	return &models.Customer{
		ID:        uuid.New(),
		Mobile:    fmt.Sprintf("+614%08d", rand.Intn(100000000)),
		FirstName: firstName,
		LastName:  lastName,
		Address:   address,
	}
}

// NewCustomerWithID builds a customer with a fixed id, useful when row order depends on ids
func NewCustomerWithID(id string, firstName, lastName string) *models.Customer {
	c := NewCustomer(firstName, lastName, utils.ToPtr("1 Test St"))
	c.ID = uuid.MustParse(id)
	return c
}

func NewPickupLocation(name, distributorName string) *models.PickupLocation {
	return &models.PickupLocation{
		ID:              uuid.New(),
		Name:            name,
		DistributorName: distributorName,
	}
}

// NewOrder builds an order with its relations attached the way the order repository returns them.
// location may be nil for an unassigned order.
func NewOrder(c *models.Campaign, customer *models.Customer, location *models.PickupLocation, meals models.MealQuantities, createdAt time.Time) *models.Order {
	o := &models.Order{
		ID:         uuid.New(),
		CampaignID: c.ID,
		CustomerID: customer.ID,
		Chicken:    meals.Chicken,
		Fish:       meals.Fish,
		Veg:        meals.Veg,
		Egg:        meals.Egg,
		Other:      meals.Other,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
		Customer:   customer,
	}
	if location != nil {
		o.PickupLocationID = &location.ID
		o.PickupLocation = location
	}
	return o
}

// NewSMS builds an SMS message belonging to campaign c
func NewSMS(c *models.Campaign, status models.SMSStatus, body string, lastError *string, createdAt time.Time) *models.SMSMessage {
	return &models.SMSMessage{
		ID:         uuid.New(),
		CampaignID: &c.ID,
		Status:     status,
		Body:       body,
		LastError:  lastError,
		CreatedAt:  createdAt,
	}
}

// TestFixtures persists fixtures into a test database
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// Insert creates each record in order. Relations attached to orders are not re-inserted.
func (tf *TestFixtures) Insert(records ...any) error {
	for _, r := range records {
		if err := tf.DB.DB.Omit("Customer", "PickupLocation").Create(r).Error; err != nil {
			return fmt.Errorf("failed to insert %T: %w", r, err)
		}
	}
	return nil
}

// CreateTestAdmin inserts an active admin with the given role
func (tf *TestFixtures) CreateTestAdmin(role models.AdminRole) (*models.Admin, error) {
	admin := &models.Admin{
		Username: fmt.Sprintf("admin_%d", rand.Intn(1000000)),
		Role:     role,
		IsActive: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}
