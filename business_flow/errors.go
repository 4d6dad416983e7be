// Package businessflow contains the campaign statistics and comparison use cases
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Request validation errors
	ErrCampaignIDsRequired      = errors.New("at least one campaign id is required")
	ErrInvalidCampaignID        = errors.New("campaign id is not a valid UUID")
	ErrBaselineCampaignRequired = errors.New("baseline campaign id is required")
	ErrCompareCampaignsRequired = errors.New("at least one compare campaign id other than the baseline is required")

	// Lookup errors
	ErrCampaignNotFound = errors.New("campaign not found")
)

// Error codes surfaced to API clients
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeCampaignNotFound = "CAMPAIGN_NOT_FOUND"
	ErrCodeStatsFailed      = "CAMPAIGN_STATS_FAILED"
	ErrCodeCompareFailed    = "COMPARE_CAMPAIGNS_FAILED"
	ErrCodeExportFailed     = "COMPARE_EXPORT_FAILED"
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsCampaignIDsRequired(err error) bool {
	return errors.Is(err, ErrCampaignIDsRequired)
}

func IsInvalidCampaignID(err error) bool {
	return errors.Is(err, ErrInvalidCampaignID)
}

func IsBaselineCampaignRequired(err error) bool {
	return errors.Is(err, ErrBaselineCampaignRequired)
}

func IsCompareCampaignsRequired(err error) bool {
	return errors.Is(err, ErrCompareCampaignsRequired)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

// IsValidationError reports whether err is caused by a request the client can fix
func IsValidationError(err error) bool {
	return IsCampaignIDsRequired(err) ||
		IsInvalidCampaignID(err) ||
		IsBaselineCampaignRequired(err) ||
		IsCompareCampaignsRequired(err)
}

// ErrorCode returns the code of the outermost BusinessError in err's chain, or fallback
func ErrorCode(err error, fallback string) string {
	var be *BusinessError
	if errors.As(err, &be) && be.Code != "" {
		return be.Code
	}
	return fallback
}
