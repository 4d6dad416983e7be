package businessflow

import (
	"time"

	"github.com/amirphl/meal-campaign-stats/app/dto"
	"github.com/amirphl/meal-campaign-stats/utils"
)

// timelineWindow is the span of calendar days a report buckets orders and messages into.
// Records stamped before start are not bucketed; dates lists every local day from start to end.
type timelineWindow struct {
	start time.Time
	end   time.Time
	dates []string
	loc   *time.Location
}

// newTimelineWindow covers the whole campaign when it spans at most maxDays days,
// otherwise the last maxDays local calendar days up to end.
func newTimelineWindow(startedAt, end time.Time, maxDays int, loc *time.Location) timelineWindow {
	start := startedAt
	if utils.CeilDays(end.Sub(startedAt)) > maxDays {
		start = end.In(loc).AddDate(0, 0, -(maxDays - 1))
	}
	return timelineWindow{
		start: start,
		end:   end,
		dates: utils.DateRange(start, end, loc),
		loc:   loc,
	}
}

// bucketKey returns the local date of t and whether t falls inside the window
func (w timelineWindow) bucketKey(t time.Time) (string, bool) {
	if t.Before(w.start) {
		return "", false
	}
	key := utils.LocalDate(t, w.loc)
	if len(w.dates) == 0 || key > w.dates[len(w.dates)-1] {
		return "", false
	}
	return key, true
}

type orderTimeline struct {
	window  timelineWindow
	buckets map[string]*dto.TimelineBucket
}

func newOrderTimeline(w timelineWindow) *orderTimeline {
	buckets := make(map[string]*dto.TimelineBucket, len(w.dates))
	for _, d := range w.dates {
		buckets[d] = &dto.TimelineBucket{Date: d}
	}
	return &orderTimeline{window: w, buckets: buckets}
}

func (t *orderTimeline) add(createdAt time.Time, meals int) {
	key, ok := t.window.bucketKey(createdAt)
	if !ok {
		return
	}
	b := t.buckets[key]
	b.Orders++
	b.Meals += meals
}

// result returns the buckets in ascending date order
func (t *orderTimeline) result() []dto.TimelineBucket {
	out := make([]dto.TimelineBucket, 0, len(t.window.dates))
	for _, d := range t.window.dates {
		out = append(out, *t.buckets[d])
	}
	return out
}

// peakOrderDay returns the first bucket holding the highest order count, or nil without buckets
func peakOrderDay(buckets []dto.TimelineBucket) *dto.TimelineBucket {
	if len(buckets) == 0 {
		return nil
	}
	peak := buckets[0]
	for _, b := range buckets[1:] {
		if b.Orders > peak.Orders {
			peak = b
		}
	}
	return &peak
}

type smsTimeline struct {
	window  timelineWindow
	buckets map[string]*dto.SMSTimelineBucket
}

func newSMSTimeline(w timelineWindow) *smsTimeline {
	buckets := make(map[string]*dto.SMSTimelineBucket, len(w.dates))
	for _, d := range w.dates {
		buckets[d] = &dto.SMSTimelineBucket{Date: d}
	}
	return &smsTimeline{window: w, buckets: buckets}
}

func (t *smsTimeline) add(createdAt time.Time, delivered, failed bool) {
	key, ok := t.window.bucketKey(createdAt)
	if !ok {
		return
	}
	b := t.buckets[key]
	b.Total++
	if delivered {
		b.Delivered++
	}
	if failed {
		b.Failed++
	}
}

func (t *smsTimeline) result() []dto.SMSTimelineBucket {
	out := make([]dto.SMSTimelineBucket, 0, len(t.window.dates))
	for _, d := range t.window.dates {
		out = append(out, *t.buckets[d])
	}
	return out
}
