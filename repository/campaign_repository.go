package repository

import (
	"context"

	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignRepositoryImpl implements the CampaignRepository interface
type CampaignRepositoryImpl struct {
	*BaseRepository[models.Campaign, models.CampaignFilter]
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &CampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Campaign, models.CampaignFilter](db),
	}
}

// ByIDs retrieves every campaign whose id is in ids; unknown ids are simply absent from the result
func (r *CampaignRepositoryImpl) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Campaign, error) {
	if len(ids) == 0 {
		return []*models.Campaign{}, nil
	}
	return r.ByFilter(ctx, models.CampaignFilter{IDs: ids}, "started_at ASC", 0, 0)
}

// ByFilter retrieves campaigns based on filter criteria
func (r *CampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	db := r.getDB(ctx)

	var campaigns []*models.Campaign
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

	if err := query.Find(&campaigns).Error; err != nil {
		return nil, err
	}

	return campaigns, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CampaignRepositoryImpl) applyFilter(db *gorm.DB, filter models.CampaignFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if len(filter.IDs) > 0 {
		db = db.Where("id IN ?", filter.IDs)
	}
	if filter.State != nil {
		db = db.Where("state = ?", *filter.State)
	}
	if filter.StartedAfter != nil {
		db = db.Where("started_at >= ?", *filter.StartedAfter)
	}
	if filter.StartedBefore != nil {
		db = db.Where("started_at < ?", *filter.StartedBefore)
	}
	return db
}
