package repository

import (
	"context"

	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SMSMessageRepositoryImpl implements SMSMessageRepository
type SMSMessageRepositoryImpl struct {
	*BaseRepository[models.SMSMessage, models.SMSMessageFilter]
}

func NewSMSMessageRepository(db *gorm.DB) SMSMessageRepository {
	return &SMSMessageRepositoryImpl{BaseRepository: NewBaseRepository[models.SMSMessage, models.SMSMessageFilter](db)}
}

func (r *SMSMessageRepositoryImpl) ByCampaignIDs(ctx context.Context, campaignIDs []uuid.UUID) ([]*models.SMSMessage, error) {
	if len(campaignIDs) == 0 {
		return []*models.SMSMessage{}, nil
	}
	return r.ByFilter(ctx, models.SMSMessageFilter{CampaignIDs: campaignIDs}, "created_at ASC", 0, 0)
}

func (r *SMSMessageRepositoryImpl) applyFilter(db *gorm.DB, f models.SMSMessageFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if len(f.CampaignIDs) > 0 {
		db = db.Where("campaign_id IN ?", f.CampaignIDs)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *SMSMessageRepositoryImpl) ByFilter(ctx context.Context, filter models.SMSMessageFilter, orderBy string, limit, offset int) ([]*models.SMSMessage, error) {
	db := r.getDB(ctx)
	var rows []*models.SMSMessage
	q := r.applyFilter(db, filter)
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
