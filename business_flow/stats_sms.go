package businessflow

import (
	"regexp"
	"sort"
	"strings"

	"github.com/amirphl/meal-campaign-stats/app/dto"
	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/amirphl/meal-campaign-stats/utils"
)

// A run of exactly four to six digits, as used by one-time login codes
var otpDigitsPattern = regexp.MustCompile(`(?:^|\D)\d{4,6}(?:\D|$)`)

// ClassifySMS derives a message's purpose from its body, case-insensitively
func ClassifySMS(body string) models.SMSCategory {
	text := strings.ToLower(body)
	switch {
	case strings.Contains(text, "otp"),
		strings.Contains(text, "code") && otpDigitsPattern.MatchString(text):
		return models.SMSCategoryOTP
	case strings.Contains(text, "order"), strings.Contains(text, "pickup"):
		return models.SMSCategoryOrderConfirmation
	default:
		return models.SMSCategoryBulk
	}
}

type smsAccumulator struct {
	total    int
	byStatus dto.SMSStatusTally
	byType   dto.SMSTypeTally
	timeline *smsTimeline
	reasons  map[string]*dto.SMSFailureReason
}

func newSMSAccumulator(w timelineWindow) *smsAccumulator {
	return &smsAccumulator{
		timeline: newSMSTimeline(w),
		reasons:  make(map[string]*dto.SMSFailureReason),
	}
}

func (a *smsAccumulator) add(m *models.SMSMessage) {
	a.total++

	switch m.Status {
	case models.SMSStatusQueued:
		a.byStatus.Queued++
	case models.SMSStatusSent:
		a.byStatus.Sent++
	case models.SMSStatusDelivered:
		a.byStatus.Delivered++
	case models.SMSStatusFailed:
		a.byStatus.Failed++
	}

	switch ClassifySMS(m.Body) {
	case models.SMSCategoryOTP:
		a.byType.OTP++
	case models.SMSCategoryOrderConfirmation:
		a.byType.OrderConfirmation++
	case models.SMSCategoryBulk:
		a.byType.Bulk++
	}

	failed := m.Status == models.SMSStatusFailed
	a.timeline.add(m.CreatedAt, m.Status == models.SMSStatusDelivered, failed)

	if failed {
		reason := m.FailureReason()
		r, ok := a.reasons[reason]
		if !ok {
			r = &dto.SMSFailureReason{Reason: reason, SampleIDs: []string{}}
			a.reasons[reason] = r
		}
		r.Count++
		if len(r.SampleIDs) < utils.FailureReasonSamples {
			r.SampleIDs = append(r.SampleIDs, m.ID.String())
		}
	}
}

func (a *smsAccumulator) result() dto.SMSBlock {
	reasons := make([]dto.SMSFailureReason, 0, len(a.reasons))
	for _, r := range a.reasons {
		reasons = append(reasons, *r)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if reasons[i].Count != reasons[j].Count {
			return reasons[i].Count > reasons[j].Count
		}
		return reasons[i].Reason < reasons[j].Reason
	})

	return dto.SMSBlock{
		Total:          a.total,
		ByStatus:       a.byStatus,
		DeliveryRate:   utils.Ratio(a.byStatus.Delivered, a.total),
		FailureRate:    utils.Ratio(a.byStatus.Failed, a.total),
		ByType:         a.byType,
		Timeline:       a.timeline.result(),
		FailureReasons: reasons,
	}
}
