package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amirphl/meal-campaign-stats/app/dto"
	"github.com/amirphl/meal-campaign-stats/config"
	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/amirphl/meal-campaign-stats/repository"
	"github.com/amirphl/meal-campaign-stats/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatsFlow computes campaign reports and cross-campaign comparisons
type StatsFlow interface {
	ComputeCampaignStats(ctx context.Context, campaignIDs []string) (*dto.CampaignStatsResponse, error)
	CompareCampaigns(ctx context.Context, baselineID string, compareIDs []string) (*dto.CompareCampaignsResponse, error)
	ExportComparison(ctx context.Context, baselineID string, compareIDs []string) (string, []byte, error)
}

// StatsFlowImpl implements StatsFlow on top of the read repositories
type StatsFlowImpl struct {
	campaignRepo repository.CampaignRepository
	orderRepo    repository.OrderRepository
	smsRepo      repository.SMSMessageRepository
	db           *gorm.DB
	cfg          config.StatsConfig
	loc          *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

// NewStatsFlow creates a new stats flow. db may be nil, in which case reads are not wrapped in a transaction.
func NewStatsFlow(
	campaignRepo repository.CampaignRepository,
	orderRepo repository.OrderRepository,
	smsRepo repository.SMSMessageRepository,
	db *gorm.DB,
	cfg config.StatsConfig,
	logger *zap.Logger,
) StatsFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := config.DefaultStatsConfig()
	if cfg.TimelineDays < 1 {
		cfg.TimelineDays = defaults.TimelineDays
	}
	if cfg.TopN < 1 {
		cfg.TopN = defaults.TopN
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("Falling back to business timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = utils.MustBusinessLocation()
	}

	return &StatsFlowImpl{
		campaignRepo: campaignRepo,
		orderRepo:    orderRepo,
		smsRepo:      smsRepo,
		db:           db,
		cfg:          cfg,
		loc:          loc,
		logger:       logger.Named("stats"),
		now:          utils.UTCNow,
	}
}

// ComputeCampaignStats aggregates orders and SMS messages of the given campaigns.
// Ids that do not resolve are skipped as long as at least one campaign is found.
func (f *StatsFlowImpl) ComputeCampaignStats(ctx context.Context, campaignIDs []string) (result *dto.CampaignStatsResponse, err error) {
	started := time.Now()
	defer func() { observeStatsComputation(operationComputeStats, started, err) }()

	ids, err := parseCampaignIDs(utils.UniqueTrimmed(campaignIDs))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, NewBusinessError(ErrCodeValidation, "At least one campaign id is required", ErrCampaignIDsRequired)
	}
	observeCampaignsRequested(operationComputeStats, len(ids))

	ctx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
	defer cancel()

	var (
		campaigns []*models.Campaign
		orders    []*models.Order
		messages  []*models.SMSMessage
	)
	err = f.read(ctx, func(txCtx context.Context) error {
		var err error
		campaigns, err = f.campaignRepo.ByIDs(txCtx, ids)
		if err != nil {
			return NewBusinessError(ErrCodeStatsFailed, "Failed to load campaigns", err)
		}
		if len(campaigns) == 0 {
			return NewBusinessError(ErrCodeCampaignNotFound, "No campaign matched the requested ids", ErrCampaignNotFound)
		}
		found := campaignIDsOf(campaigns)
		orders, err = f.orderRepo.ByCampaignIDs(txCtx, found)
		if err != nil {
			return NewBusinessError(ErrCodeStatsFailed, "Failed to load orders", err)
		}
		messages, err = f.smsRepo.ByCampaignIDs(txCtx, found)
		if err != nil {
			return NewBusinessError(ErrCodeStatsFailed, "Failed to load SMS messages", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ordered, missing := orderCampaigns(ids, campaigns)
	if len(missing) > 0 {
		f.logger.Warn("Some requested campaigns were not found",
			zap.Strings("campaign_ids", uuidStrings(ids)),
			zap.Strings("missing_ids", uuidStrings(missing)),
		)
	}

	result = aggregateCampaignStats(statsInput{
		campaigns:    ordered,
		orders:       orders,
		messages:     messages,
		now:          f.now(),
		loc:          f.loc,
		timelineDays: f.cfg.TimelineDays,
		topN:         f.cfg.TopN,
	})

	f.logger.Debug("Campaign stats computed",
		zap.Strings("campaign_ids", result.Combined.CampaignIDs),
		zap.Int("orders", len(orders)),
		zap.Int("sms_messages", len(messages)),
		zap.Duration("duration", time.Since(started)),
	)
	return result, nil
}

// CompareCampaigns diffs customers and meal totals of each compare campaign against the baseline.
// Every requested campaign must exist.
func (f *StatsFlowImpl) CompareCampaigns(ctx context.Context, baselineID string, compareIDs []string) (result *dto.CompareCampaignsResponse, err error) {
	started := time.Now()
	defer func() { observeStatsComputation(operationCompare, started, err) }()

	return f.compare(ctx, baselineID, compareIDs)
}

func (f *StatsFlowImpl) compare(ctx context.Context, baselineID string, compareIDs []string) (*dto.CompareCampaignsResponse, error) {
	baseline, compares, err := parseComparisonIDs(baselineID, compareIDs)
	if err != nil {
		return nil, err
	}
	all := append([]uuid.UUID{baseline}, compares...)
	observeCampaignsRequested(operationCompare, len(all))

	ctx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
	defer cancel()

	var (
		campaigns []*models.Campaign
		orders    []*models.Order
	)
	err = f.read(ctx, func(txCtx context.Context) error {
		var err error
		campaigns, err = f.campaignRepo.ByIDs(txCtx, all)
		if err != nil {
			return NewBusinessError(ErrCodeCompareFailed, "Failed to load campaigns", err)
		}
		if _, missing := orderCampaigns(all, campaigns); len(missing) > 0 || len(campaigns) != len(all) {
			return NewBusinessErrorf(ErrCodeCampaignNotFound, "Campaigns not found: %s", ErrCampaignNotFound, strings.Join(uuidStrings(missing), ", "))
		}
		orders, err = f.orderRepo.ByCampaignIDs(txCtx, all)
		if err != nil {
			return NewBusinessError(ErrCodeCompareFailed, "Failed to load orders", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ordered, _ := orderCampaigns(all, campaigns)
	return buildComparison(ordered[0], ordered[1:], orders), nil
}

// read runs fn inside one read transaction when a database handle is available
func (f *StatsFlowImpl) read(ctx context.Context, fn func(context.Context) error) error {
	if f.db == nil {
		return fn(ctx)
	}
	return repository.WithTransaction(ctx, f.db, fn)
}

// parseCampaignIDs parses already trimmed, deduplicated ids
func parseCampaignIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]struct{}, len(raw))
	for _, s := range raw {
		id, err := utils.ParseUUID(s)
		if err != nil {
			return nil, NewBusinessErrorf(ErrCodeValidation, "Invalid campaign id %q", fmt.Errorf("%w: %v", ErrInvalidCampaignID, err), s)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseComparisonIDs validates the baseline and returns the compare ids without blanks, duplicates or the baseline
func parseComparisonIDs(baselineID string, compareIDs []string) (uuid.UUID, []uuid.UUID, error) {
	if utils.IsBlank(baselineID) {
		return uuid.Nil, nil, NewBusinessError(ErrCodeValidation, "Baseline campaign id is required", ErrBaselineCampaignRequired)
	}
	baseline, err := utils.ParseUUID(baselineID)
	if err != nil {
		return uuid.Nil, nil, NewBusinessErrorf(ErrCodeValidation, "Invalid campaign id %q", fmt.Errorf("%w: %v", ErrInvalidCampaignID, err), strings.TrimSpace(baselineID))
	}

	parsed, err := parseCampaignIDs(utils.UniqueTrimmed(compareIDs))
	if err != nil {
		return uuid.Nil, nil, err
	}
	compares := make([]uuid.UUID, 0, len(parsed))
	for _, id := range parsed {
		if id != baseline {
			compares = append(compares, id)
		}
	}
	if len(compares) == 0 {
		return uuid.Nil, nil, NewBusinessError(ErrCodeValidation, "At least one compare campaign other than the baseline is required", ErrCompareCampaignsRequired)
	}
	return baseline, compares, nil
}

// orderCampaigns returns the found campaigns in requested order plus the ids that did not resolve
func orderCampaigns(requested []uuid.UUID, found []*models.Campaign) ([]*models.Campaign, []uuid.UUID) {
	byID := make(map[uuid.UUID]*models.Campaign, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	ordered := make([]*models.Campaign, 0, len(found))
	var missing []uuid.UUID
	for _, id := range requested {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		} else {
			missing = append(missing, id)
		}
	}
	return ordered, missing
}

func campaignIDsOf(campaigns []*models.Campaign) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}
	return ids
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
