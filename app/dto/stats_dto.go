package dto

import (
	"time"
)

// CampaignStatsRequest represents the request to compute statistics for a set of campaigns
type CampaignStatsRequest struct {
	CampaignIDs []string `json:"campaignIds" validate:"required,min=1,max=50"`
}

// CompareCampaignsRequest represents the request to compare campaigns against a baseline
type CompareCampaignsRequest struct {
	BaselineCampaignID string   `json:"baselineCampaignId" validate:"required,max=64"`
	CompareCampaignIDs []string `json:"compareCampaignIds" validate:"required,min=1,max=50"`
}

// CampaignStatsResponse is the aggregation report for the requested campaigns
type CampaignStatsResponse struct {
	Campaigns []CampaignStat `json:"campaigns"`
	Combined  CombinedStat   `json:"combined"`
}

// CampaignSummary identifies a campaign inside a report
type CampaignSummary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	State     string     `json:"state"`
	StartedAt time.Time  `json:"startedAt"`
	FrozenAt  *time.Time `json:"frozenAt"`
	EndedAt   *time.Time `json:"endedAt"`
}

// CampaignStat is the report of a single campaign
type CampaignStat struct {
	Campaign        CampaignSummary      `json:"campaign"`
	Orders          OrdersBlock          `json:"orders"`
	Meals           MealsBlock           `json:"meals"`
	PickupLocations PickupLocationsBlock `json:"pickupLocations"`
	SMS             SMSBlock             `json:"sms"`
	DataQuality     DataQualityBlock     `json:"dataQuality"`
	Compare         CompareBlock         `json:"compare"`
	Costs           CostsBlock           `json:"costs"`
}

// CombinedStat mirrors CampaignStat aggregated across every requested campaign
type CombinedStat struct {
	CampaignIDs     []string             `json:"campaignIds"`
	Orders          OrdersBlock          `json:"orders"`
	Meals           MealsBlock           `json:"meals"`
	PickupLocations PickupLocationsBlock `json:"pickupLocations"`
	SMS             SMSBlock             `json:"sms"`
	DataQuality     DataQualityBlock     `json:"dataQuality"`
	Compare         CompareBlock         `json:"compare"`
	Costs           CostsBlock           `json:"costs"`
}

// OrdersBlock holds order totals, per-order statistics and the daily timeline
type OrdersBlock struct {
	TotalOrders         int              `json:"totalOrders"`
	TotalMeals          int              `json:"totalMeals"`
	AvgMealsPerOrder    float64          `json:"avgMealsPerOrder"`
	MedianMealsPerOrder float64          `json:"medianMealsPerOrder"`
	MaxMealsInOrder     int              `json:"maxMealsInOrder"`
	PeakOrderDay        *TimelineBucket  `json:"peakOrderDay"`
	Timeline            []TimelineBucket `json:"timeline"`
}

// TimelineBucket is one calendar day of orders
type TimelineBucket struct {
	Date   string `json:"date"`
	Orders int    `json:"orders"`
	Meals  int    `json:"meals"`
}

// MealTotals carries a quantity per meal type plus their sum
type MealTotals struct {
	Chicken    int `json:"chicken"`
	Fish       int `json:"fish"`
	Veg        int `json:"veg"`
	Egg        int `json:"egg"`
	Other      int `json:"other"`
	TotalMeals int `json:"totalMeals"`
}

type MealsBlock struct {
	Totals MealTotals `json:"totals"`
}

// PickupLocationRow is the rollup of one pickup location
type PickupLocationRow struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DistributorName string `json:"distributorName"`
	Orders          int    `json:"orders"`
	Meals           int    `json:"meals"`
}

type PickupLocationsBlock struct {
	Rows        []PickupLocationRow `json:"rows"`
	TopByOrders []PickupLocationRow `json:"topByOrders"`
	TopByMeals  []PickupLocationRow `json:"topByMeals"`
}

// SMSStatusTally counts messages per delivery status
type SMSStatusTally struct {
	Queued    int `json:"QUEUED"`
	Sent      int `json:"SENT"`
	Delivered int `json:"DELIVERED"`
	Failed    int `json:"FAILED"`
}

// SMSTypeTally counts messages per purpose
type SMSTypeTally struct {
	OTP               int `json:"otp"`
	OrderConfirmation int `json:"orderConfirmation"`
	Bulk              int `json:"bulk"`
}

// SMSTimelineBucket is one calendar day of SMS traffic
type SMSTimelineBucket struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Delivered int    `json:"delivered"`
	Failed    int    `json:"failed"`
}

// SMSFailureReason groups failed messages sharing the same error
type SMSFailureReason struct {
	Reason    string   `json:"reason"`
	Count     int      `json:"count"`
	SampleIDs []string `json:"sampleIds"`
}

type SMSBlock struct {
	Total          int                 `json:"total"`
	ByStatus       SMSStatusTally      `json:"byStatus"`
	DeliveryRate   float64             `json:"deliveryRate"`
	FailureRate    float64             `json:"failureRate"`
	ByType         SMSTypeTally        `json:"byType"`
	Timeline       []SMSTimelineBucket `json:"timeline"`
	FailureReasons []SMSFailureReason  `json:"failureReasons"`
}

// DataQualityBlock counts records that need operator attention
type DataQualityBlock struct {
	MissingPickup   int `json:"missingPickup"`
	MissingAddress  int `json:"missingAddress"`
	InvalidMeals    int `json:"invalidMeals"`
	PostFreezeEdits int `json:"postFreezeEdits"`
}

// CompareBlock holds headline figures used to compare campaigns side by side
type CompareBlock struct {
	DurationDays      int    `json:"durationDays"`
	TopMealType       string `json:"topMealType"`
	TopPickupLocation string `json:"topPickupLocation"`
}

// CostLine is the estimated cost of one meal type. Money values are decimal strings with two places.
type CostLine struct {
	MealType      string  `json:"mealType"`
	Quantity      int     `json:"quantity"`
	UnitCost      *string `json:"unitCost"`
	EstimatedCost *string `json:"estimatedCost"`
}

type CostsBlock struct {
	Configured bool       `json:"configured"`
	Lines      []CostLine `json:"lines"`
	Total      *string    `json:"total"`
}

// CompareCampaignsResponse is the comparison of a baseline campaign against each compare campaign
type CompareCampaignsResponse struct {
	Baseline         CampaignSummary       `json:"baseline"`
	Compares         []CampaignSummary     `json:"compares"`
	PresenceDiff     []PresenceDiff        `json:"presenceDiff"`
	PerCustomerDelta []CustomerDeltaReport `json:"perCustomerDelta"`
}

// CustomerRef is the customer as shown in comparison lists
type CustomerRef struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Mobile    string  `json:"mobile"`
	Address   *string `json:"address"`
}

type PresenceCounts struct {
	BaselineCustomers int `json:"baselineCustomers"`
	CompareCustomers  int `json:"compareCustomers"`
	NewlyAdded        int `json:"newlyAdded"`
	DidNotOrder       int `json:"didNotOrder"`
}

// PresenceDiff lists customers gained and lost between the baseline and one compare campaign
type PresenceDiff struct {
	CompareCampaignID string         `json:"compareCampaignId"`
	NewlyAdded        []CustomerRef  `json:"newlyAdded"`
	DidNotOrder       []CustomerRef  `json:"didNotOrder"`
	Counts            PresenceCounts `json:"counts"`
}

type DeltaPct struct {
	TotalMealsPct *float64 `json:"totalMealsPct"`
}

// CustomerDeltaRow is one customer's meal change between the baseline and a compare campaign
type CustomerDeltaRow struct {
	Customer       CustomerRef `json:"customer"`
	Baseline       *MealTotals `json:"baseline"`
	Compare        *MealTotals `json:"compare"`
	Delta          MealTotals  `json:"delta"`
	DeltaPct       DeltaPct    `json:"deltaPct"`
	Classification string      `json:"classification"`
}

// DeltaSummary aggregates a delta report
type DeltaSummary struct {
	New                int `json:"NEW"`
	Dropped            int `json:"DROPPED"`
	Increased          int `json:"INCREASED"`
	Decreased          int `json:"DECREASED"`
	Unchanged          int `json:"UNCHANGED"`
	NetMealChange      int `json:"netMealChange"`
	BaselineTotalMeals int `json:"baselineTotalMeals"`
	CompareTotalMeals  int `json:"compareTotalMeals"`
}

type CustomerDeltaReport struct {
	CompareCampaignID string             `json:"compareCampaignId"`
	Rows              []CustomerDeltaRow `json:"rows"`
	Summary           DeltaSummary       `json:"summary"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}
