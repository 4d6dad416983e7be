package handlers

import (
	"context"
	"time"

	"github.com/amirphl/meal-campaign-stats/app/dto"
	businessflow "github.com/amirphl/meal-campaign-stats/business_flow"
	"github.com/amirphl/meal-campaign-stats/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StatsAdminHandlerInterface defines the campaign statistics endpoints of the admin dashboard
type StatsAdminHandlerInterface interface {
	CampaignStats(c fiber.Ctx) error
	CompareCampaigns(c fiber.Ctx) error
	ExportComparison(c fiber.Ctx) error
}

// StatsAdminHandler serves campaign statistics and comparisons
type StatsAdminHandler struct {
	statsFlow businessflow.StatsFlow
	validator *validator.Validate
	logger    *zap.Logger
	timeout   time.Duration
}

func NewStatsAdminHandler(statsFlow businessflow.StatsFlow, timeout time.Duration, logger *zap.Logger) StatsAdminHandlerInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = utils.StatsRequestTimeout
	}
	return &StatsAdminHandler{
		statsFlow: statsFlow,
		validator: validator.New(),
		logger:    logger.Named("stats_handler"),
		timeout:   timeout,
	}
}

// CampaignStats aggregates orders and SMS messages for one or more campaigns
// @Summary Campaign Statistics
// @Description Per-campaign and combined order, meal, pickup location, SMS, data quality and cost statistics
// @Tags Admin Stats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CampaignStatsRequest true "Campaign ids"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignStatsResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/stats/campaigns [post]
func (h *StatsAdminHandler) CampaignStats(c fiber.Ctx) error {
	var req dto.CampaignStatsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.ErrCodeValidation, validationDetails(err))
	}

	ctx, cancel := createRequestContext(c, "/api/v1/stats/campaigns", h.timeout)
	defer cancel()

	result, err := h.statsFlow.ComputeCampaignStats(ctx, req.CampaignIDs)
	if err != nil {
		return h.flowError(ctx, c, err, "Failed to compute campaign statistics", businessflow.ErrCodeStatsFailed)
	}
	return successResponse(c, fiber.StatusOK, "Campaign statistics computed", result)
}

// CompareCampaigns diffs customers and meal totals of compare campaigns against a baseline
// @Summary Compare Campaigns
// @Description Presence diff and per-customer meal deltas of each compare campaign against the baseline
// @Tags Admin Stats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CompareCampaignsRequest true "Baseline and compare campaign ids"
// @Success 200 {object} dto.APIResponse{data=dto.CompareCampaignsResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/stats/compare-campaigns [post]
func (h *StatsAdminHandler) CompareCampaigns(c fiber.Ctx) error {
	req, ok, err := h.bindCompare(c)
	if !ok {
		return err
	}

	ctx, cancel := createRequestContext(c, "/api/v1/stats/compare-campaigns", h.timeout)
	defer cancel()

	result, err := h.statsFlow.CompareCampaigns(ctx, req.BaselineCampaignID, req.CompareCampaignIDs)
	if err != nil {
		return h.flowError(ctx, c, err, "Failed to compare campaigns", businessflow.ErrCodeCompareFailed)
	}
	return successResponse(c, fiber.StatusOK, "Campaigns compared", result)
}

// ExportComparison returns the campaign comparison as an Excel workbook
// @Summary Export Campaign Comparison (Excel)
// @Tags Admin Stats
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param request body dto.CompareCampaignsRequest true "Baseline and compare campaign ids"
// @Success 200 {string} string "Excel file"
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/stats/compare-campaigns/export [post]
func (h *StatsAdminHandler) ExportComparison(c fiber.Ctx) error {
	req, ok, err := h.bindCompare(c)
	if !ok {
		return err
	}

	ctx, cancel := createRequestContext(c, "/api/v1/stats/compare-campaigns/export", h.timeout)
	defer cancel()

	filename, data, err := h.statsFlow.ExportComparison(ctx, req.BaselineCampaignID, req.CompareCampaignIDs)
	if err != nil {
		return h.flowError(ctx, c, err, "Failed to generate Excel", businessflow.ErrCodeExportFailed)
	}
	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// bindCompare parses and validates a comparison body; when ok is false the response is already written
func (h *StatsAdminHandler) bindCompare(c fiber.Ctx) (dto.CompareCampaignsRequest, bool, error) {
	var req dto.CompareCampaignsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return req, false, errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return req, false, errorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.ErrCodeValidation, validationDetails(err))
	}
	return req, true, nil
}

// flowError maps flow errors to responses: validation is 400, unknown campaigns 404, the rest 500
func (h *StatsAdminHandler) flowError(ctx context.Context, c fiber.Ctx, err error, message, fallbackCode string) error {
	switch {
	case businessflow.IsValidationError(err):
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", businessflow.ErrCodeValidation, err.Error())
	case businessflow.IsCampaignNotFound(err):
		return errorResponse(c, fiber.StatusNotFound, "Campaign not found", businessflow.ErrCodeCampaignNotFound, err.Error())
	default:
		h.logger.Error(message,
			zap.Any("request_id", ctx.Value(utils.RequestIDKey)),
			zap.Any("endpoint", ctx.Value(utils.EndpointKey)),
			zap.Error(err),
		)
		return errorResponse(c, fiber.StatusInternalServerError, message, businessflow.ErrorCode(err, fallbackCode), nil)
	}
}
