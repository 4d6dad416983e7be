package businessflow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		notFound   bool
	}{
		{"ids required", NewBusinessError(ErrCodeValidation, "x", ErrCampaignIDsRequired), true, false},
		{"invalid id", NewBusinessError(ErrCodeValidation, "x", fmt.Errorf("%w: abc", ErrInvalidCampaignID)), true, false},
		{"baseline required", ErrBaselineCampaignRequired, true, false},
		{"compare required", ErrCompareCampaignsRequired, true, false},
		{"not found", NewBusinessError(ErrCodeCampaignNotFound, "x", ErrCampaignNotFound), false, true},
		{"fatal", NewBusinessError(ErrCodeStatsFailed, "x", errors.New("connection refused")), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.validation, IsValidationError(tt.err))
			assert.Equal(t, tt.notFound, IsCampaignNotFound(tt.err))
		})
	}
}

func TestBusinessErrorMessageAndCode(t *testing.T) {
	err := NewBusinessError(ErrCodeStatsFailed, "Failed to load orders", errors.New("boom"))
	assert.Equal(t, "Failed to load orders: boom", err.Error())
	assert.Equal(t, ErrCodeStatsFailed, ErrorCode(err, "fallback"))
	assert.Equal(t, "fallback", ErrorCode(errors.New("plain"), "fallback"))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, ErrCodeStatsFailed, ErrorCode(wrapped, "fallback"))
}
