package repository

import (
	"context"

	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepositoryImpl implements the OrderRepository interface
type OrderRepositoryImpl struct {
	*BaseRepository[models.Order, models.OrderFilter]
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Order, models.OrderFilter](db),
	}
}

// ByCampaignIDs retrieves the non-deleted orders of the given campaigns in one query
func (r *OrderRepositoryImpl) ByCampaignIDs(ctx context.Context, campaignIDs []uuid.UUID) ([]*models.Order, error) {
	if len(campaignIDs) == 0 {
		return []*models.Order{}, nil
	}
	filter := models.OrderFilter{CampaignIDs: campaignIDs, ExcludeDeleted: true}
	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// ByFilter retrieves orders with their customer and pickup location attached
func (r *OrderRepositoryImpl) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.Order, error) {
	db := r.getDB(ctx)

	var orders []*models.Order
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	query = query.Preload("Customer").
		Preload("PickupLocation")

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepositoryImpl) applyFilter(db *gorm.DB, f models.OrderFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if len(f.CampaignIDs) > 0 {
		db = db.Where("campaign_id IN ?", f.CampaignIDs)
	}
	if f.CustomerID != nil {
		db = db.Where("customer_id = ?", *f.CustomerID)
	}
	if f.ExcludeDeleted {
		db = db.Where("deleted_at IS NULL")
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}
