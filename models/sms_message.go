package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMSStatus enumerates the delivery status of an SMS message
type SMSStatus string

const (
	SMSStatusQueued    SMSStatus = "QUEUED"
	SMSStatusSent      SMSStatus = "SENT"
	SMSStatusDelivered SMSStatus = "DELIVERED"
	SMSStatusFailed    SMSStatus = "FAILED"
)

// UnknownFailureReason is reported for failed messages without a recorded error
const UnknownFailureReason = "Unknown"

// Valid checks if the status is valid
func (s SMSStatus) Valid() bool {
	switch s {
	case SMSStatusQueued, SMSStatusSent, SMSStatusDelivered, SMSStatusFailed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for SMSStatus
func (s *SMSStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = SMSStatus(v)
	case []byte:
		*s = SMSStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SMSStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for SMSStatus
func (s SMSStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid SMSStatus: %s", s)
	}
	return string(s), nil
}

// SMSMessage records a single outbound SMS
type SMSMessage struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CampaignID *uuid.UUID `gorm:"type:uuid;index:idx_sms_messages_campaign_id" json:"campaign_id,omitempty"`
	Status     SMSStatus  `gorm:"size:16;not null;default:'QUEUED';index:idx_sms_messages_status" json:"status"`
	Body       string     `gorm:"type:text;not null" json:"body"`
	LastError  *string    `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt  time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sms_messages_created_at" json:"created_at"`
}

func (SMSMessage) TableName() string { return "sms_messages" }

// FailureReason is the trimmed last error, or UnknownFailureReason when blank
func (m *SMSMessage) FailureReason() string {
	if m.LastError == nil {
		return UnknownFailureReason
	}
	if reason := strings.TrimSpace(*m.LastError); reason != "" {
		return reason
	}
	return UnknownFailureReason
}

// SMSMessageFilter provides filter fields for repository queries
type SMSMessageFilter struct {
	ID            *uuid.UUID
	CampaignIDs   []uuid.UUID
	Status        *SMSStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// SMSCategory is the coarse purpose of a message, derived from its body
type SMSCategory string

const (
	SMSCategoryOTP               SMSCategory = "otp"
	SMSCategoryOrderConfirmation SMSCategory = "orderConfirmation"
	SMSCategoryBulk              SMSCategory = "bulk"
)
