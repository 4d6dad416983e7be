// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id any) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
}

// CampaignRepository defines read operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Campaign, error)
}

// OrderRepository defines read operations for orders; results carry Customer and PickupLocation
type OrderRepository interface {
	Repository[models.Order, models.OrderFilter]
	ByCampaignIDs(ctx context.Context, campaignIDs []uuid.UUID) ([]*models.Order, error)
}

// SMSMessageRepository defines read operations for SMS message records
type SMSMessageRepository interface {
	Repository[models.SMSMessage, models.SMSMessageFilter]
	ByCampaignIDs(ctx context.Context, campaignIDs []uuid.UUID) ([]*models.SMSMessage, error)
}

// AdminRepository defines operations for dashboard principals
type AdminRepository interface {
	ByID(ctx context.Context, id any) (*models.Admin, error)
}
