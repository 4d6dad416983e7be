package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirphl/meal-campaign-stats/app/dto"
	"github.com/amirphl/meal-campaign-stats/config"
	"github.com/amirphl/meal-campaign-stats/models"
	testingutil "github.com/amirphl/meal-campaign-stats/testing"
	"github.com/amirphl/meal-campaign-stats/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// 12:00 on 20 May 2025 in Sydney (AEST, UTC+10)
var testNow = time.Date(2025, time.May, 20, 2, 0, 0, 0, time.UTC)

func newTestStatsFlow(t *testing.T, store *testingutil.FakeStore, cfg config.StatsConfig) *StatsFlowImpl {
	t.Helper()
	campaignRepo, orderRepo, smsRepo := store.Repositories()
	flow := NewStatsFlow(campaignRepo, orderRepo, smsRepo, nil, cfg, zaptest.NewLogger(t)).(*StatsFlowImpl)
	flow.now = func() time.Time { return testNow }
	return flow
}

func meals(chicken, fish, veg, egg, other int) models.MealQuantities {
	return models.MealQuantities{Chicken: chicken, Fish: fish, Veg: veg, Egg: egg, Other: other}
}

func TestComputeCampaignStatsLaunchWeek(t *testing.T) {
	store := testingutil.NewFakeStore()
	campaign := testingutil.NewCampaign("Launch Week", testNow.Add(-72*time.Hour))
	alice := testingutil.NewCustomer("Alice", "Nguyen", utils.ToPtr("3 George St"))
	bob := testingutil.NewCustomer("Bob", "Smith", utils.ToPtr("9 Pitt St"))
	carol := testingutil.NewCustomer("Carol", "Jones", utils.ToPtr("1 Market St"))
	hall := testingutil.NewPickupLocation("Town Hall", "Northside Pantry")

	order1 := testingutil.NewOrder(campaign, alice, hall, meals(2, 0, 1, 0, 0), testNow.Add(-48*time.Hour))
	order2 := testingutil.NewOrder(campaign, bob, hall, meals(0, 1, 0, 0, 0), testNow.Add(-24*time.Hour))
	order3 := testingutil.NewOrder(campaign, carol, hall, meals(1, 0, 0, 0, 0), testNow.Add(-2*time.Hour))
	order3.DeletedAt = utils.ToPtr(testNow.Add(-time.Hour))
	store.AddCampaigns(campaign).AddOrders(order1, order2, order3)

	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
	resp, err := flow.ComputeCampaignStats(context.Background(), []string{campaign.ID.String()})
	require.NoError(t, err)
	require.Len(t, resp.Campaigns, 1)

	stat := resp.Campaigns[0]
	assert.Equal(t, "Launch Week", stat.Campaign.Name)
	assert.Equal(t, 2, stat.Orders.TotalOrders)
	assert.Equal(t, 4, stat.Orders.TotalMeals)
	assert.Equal(t, 2, stat.Meals.Totals.Chicken)
	assert.Equal(t, 1, stat.Meals.Totals.Fish)
	assert.Equal(t, 1, stat.Meals.Totals.Veg)
	assert.Equal(t, 2.0, stat.Orders.AvgMealsPerOrder)
	assert.Equal(t, 2.0, stat.Orders.MedianMealsPerOrder)
	assert.Equal(t, 3, stat.Orders.MaxMealsInOrder)
	assert.Equal(t, "chicken", stat.Compare.TopMealType)
	assert.Equal(t, "Town Hall", stat.Compare.TopPickupLocation)
	assert.Equal(t, 3, stat.Compare.DurationDays)

	assert.Equal(t, []string{campaign.ID.String()}, resp.Combined.CampaignIDs)
	assert.Equal(t, 2, resp.Combined.Orders.TotalOrders)
	assert.Equal(t, 4, resp.Combined.Orders.TotalMeals)
}

func TestAggregationSkipsSoftDeletedOrders(t *testing.T) {
	campaign := testingutil.NewCampaign("Launch Week", testNow.Add(-72*time.Hour))
	customer := testingutil.NewCustomer("Dana", "Lee", nil)
	live := testingutil.NewOrder(campaign, customer, nil, meals(1, 0, 0, 0, 0), testNow.Add(-time.Hour))
	deleted := testingutil.NewOrder(campaign, customer, nil, meals(5, 0, 0, 0, 0), testNow.Add(-time.Hour))
	deleted.DeletedAt = utils.ToPtr(testNow)

	resp := aggregateCampaignStats(statsInput{
		campaigns:    []*models.Campaign{campaign},
		orders:       []*models.Order{live, deleted},
		now:          testNow,
		loc:          utils.MustBusinessLocation(),
		timelineDays: utils.TimelineMaxDays,
		topN:         utils.TopPickupLocations,
	})

	assert.Equal(t, 1, resp.Campaigns[0].Orders.TotalOrders)
	assert.Equal(t, 1, resp.Campaigns[0].Orders.TotalMeals)
}

func TestComputeCampaignStatsIsIdempotent(t *testing.T) {
	store := seededStore(t)
	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
	ids := campaignIDStrings(store.Campaigns)

	first, err := flow.ComputeCampaignStats(context.Background(), ids)
	require.NoError(t, err)
	second, err := flow.ComputeCampaignStats(context.Background(), ids)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeCampaignStatsConservationAndCombinedTotals(t *testing.T) {
	store := seededStore(t)
	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())

	resp, err := flow.ComputeCampaignStats(context.Background(), campaignIDStrings(store.Campaigns))
	require.NoError(t, err)
	require.Len(t, resp.Campaigns, 2)

	sumOrders, sumMeals := 0, 0
	for _, stat := range resp.Campaigns {
		totals := stat.Meals.Totals
		assert.Equal(t, stat.Orders.TotalMeals, totals.Chicken+totals.Fish+totals.Veg+totals.Egg+totals.Other)
		assert.Equal(t, stat.Orders.TotalMeals, totals.TotalMeals)

		timelineMeals := 0
		for _, b := range stat.Orders.Timeline {
			timelineMeals += b.Meals
		}
		assert.Equal(t, stat.Orders.TotalMeals, timelineMeals)

		sumOrders += stat.Orders.TotalOrders
		sumMeals += stat.Orders.TotalMeals
	}
	assert.Equal(t, sumOrders, resp.Combined.Orders.TotalOrders)
	assert.Equal(t, sumMeals, resp.Combined.Orders.TotalMeals)
	assert.Equal(t, sumMeals, resp.Combined.Meals.Totals.TotalMeals)
}

func TestComputeCampaignStatsKeepsRequestOrder(t *testing.T) {
	store := seededStore(t)
	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
	first, second := store.Campaigns[0], store.Campaigns[1]

	resp, err := flow.ComputeCampaignStats(context.Background(), []string{
		" " + second.ID.String() + " ", "", first.ID.String(), second.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, resp.Campaigns, 2)
	assert.Equal(t, second.ID.String(), resp.Campaigns[0].Campaign.ID)
	assert.Equal(t, first.ID.String(), resp.Campaigns[1].Campaign.ID)
	assert.Equal(t, []string{second.ID.String(), first.ID.String()}, resp.Combined.CampaignIDs)
}

func TestComputeCampaignStatsTimelineWindow(t *testing.T) {
	loc := utils.MustBusinessLocation()

	t.Run("LongRunningCampaignShowsLastThirtyDays", func(t *testing.T) {
		store := testingutil.NewFakeStore()
		campaign := testingutil.NewCampaign("Winter Appeal", testNow.AddDate(0, 0, -40))
		customer := testingutil.NewCustomer("Eve", "Brown", utils.ToPtr("5 Oxford St"))
		old := testingutil.NewOrder(campaign, customer, nil, meals(1, 0, 0, 0, 0), testNow.AddDate(0, 0, -35))
		recent := testingutil.NewOrder(campaign, testingutil.NewCustomer("Finn", "Hall", nil), nil, meals(2, 0, 0, 0, 0), testNow.AddDate(0, 0, -1))
		store.AddCampaigns(campaign).AddOrders(old, recent)

		flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
		resp, err := flow.ComputeCampaignStats(context.Background(), []string{campaign.ID.String()})
		require.NoError(t, err)

		timeline := resp.Campaigns[0].Orders.Timeline
		require.Len(t, timeline, 30)
		assert.Equal(t, "2025-04-21", timeline[0].Date)
		assert.Equal(t, "2025-05-20", timeline[29].Date)
		assert.Equal(t, utils.LocalDate(testNow, loc), timeline[29].Date)

		bucketed := 0
		for _, b := range timeline {
			bucketed += b.Orders
		}
		assert.Equal(t, 1, bucketed, "orders before the window are counted but not bucketed")
		assert.Equal(t, 2, resp.Campaigns[0].Orders.TotalOrders)
		assert.Equal(t, 40, resp.Campaigns[0].Compare.DurationDays)
	})

	t.Run("ShortCampaignCoversWholeSpan", func(t *testing.T) {
		store := testingutil.NewFakeStore()
		started := time.Date(2025, time.May, 17, 9, 0, 0, 0, loc)
		campaign := testingutil.NewCampaign("Long Weekend", started)
		customer := testingutil.NewCustomer("Gus", "King", utils.ToPtr("2 Elizabeth St"))
		// 23:30 UTC on 17 May is 09:30 on 18 May in Sydney
		order := testingutil.NewOrder(campaign, customer, nil, meals(0, 2, 0, 0, 0), time.Date(2025, time.May, 17, 23, 30, 0, 0, time.UTC))
		store.AddCampaigns(campaign).AddOrders(order)

		flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
		resp, err := flow.ComputeCampaignStats(context.Background(), []string{campaign.ID.String()})
		require.NoError(t, err)

		timeline := resp.Campaigns[0].Orders.Timeline
		require.Len(t, timeline, 4)
		assert.Equal(t, []string{"2025-05-17", "2025-05-18", "2025-05-19", "2025-05-20"},
			[]string{timeline[0].Date, timeline[1].Date, timeline[2].Date, timeline[3].Date})
		assert.Equal(t, 1, timeline[1].Orders)
		assert.Equal(t, 2, timeline[1].Meals)
		require.NotNil(t, resp.Campaigns[0].Orders.PeakOrderDay)
		assert.Equal(t, "2025-05-18", resp.Campaigns[0].Orders.PeakOrderDay.Date)
	})

	t.Run("EndedCampaignStopsAtEndDate", func(t *testing.T) {
		store := testingutil.NewFakeStore()
		started := time.Date(2025, time.March, 1, 9, 0, 0, 0, loc)
		ended := time.Date(2025, time.March, 5, 17, 0, 0, 0, loc)
		campaign := testingutil.NewCampaign("Autumn Drive", started, testingutil.WithEndedAt(ended))
		store.AddCampaigns(campaign)

		flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
		resp, err := flow.ComputeCampaignStats(context.Background(), []string{campaign.ID.String()})
		require.NoError(t, err)

		timeline := resp.Campaigns[0].Orders.Timeline
		require.Len(t, timeline, 5)
		assert.Equal(t, "2025-03-01", timeline[0].Date)
		assert.Equal(t, "2025-03-05", timeline[4].Date)
		assert.Equal(t, 5, resp.Campaigns[0].Compare.DurationDays)
		assert.Equal(t, utils.NotAvailable, resp.Campaigns[0].Compare.TopMealType)
		assert.Equal(t, utils.NotAvailable, resp.Campaigns[0].Compare.TopPickupLocation)
	})

	t.Run("CombinedWindowSpansEarliestStartToLatestEnd", func(t *testing.T) {
		store := testingutil.NewFakeStore()
		a := testingutil.NewCampaign("A", time.Date(2025, time.May, 10, 9, 0, 0, 0, loc),
			testingutil.WithEndedAt(time.Date(2025, time.May, 12, 9, 0, 0, 0, loc)))
		b := testingutil.NewCampaign("B", time.Date(2025, time.May, 15, 9, 0, 0, 0, loc))
		store.AddCampaigns(a, b)

		flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
		resp, err := flow.ComputeCampaignStats(context.Background(), []string{a.ID.String(), b.ID.String()})
		require.NoError(t, err)

		combined := resp.Combined.Orders.Timeline
		require.Len(t, combined, 11)
		assert.Equal(t, "2025-05-10", combined[0].Date)
		assert.Equal(t, "2025-05-20", combined[10].Date)
		assert.Len(t, resp.Combined.SMS.Timeline, 11)
	})
}

func TestPeakOrderDayPrefersEarliestTie(t *testing.T) {
	assert.Nil(t, peakOrderDay(nil))

	peak := peakOrderDay([]dto.TimelineBucket{
		{Date: "2025-05-01", Orders: 1},
		{Date: "2025-05-02", Orders: 3},
		{Date: "2025-05-03", Orders: 3},
		{Date: "2025-05-04", Orders: 2},
	})
	require.NotNil(t, peak)
	assert.Equal(t, "2025-05-02", peak.Date)
}

func TestComputeCampaignStatsPickupLocations(t *testing.T) {
	store := testingutil.NewFakeStore()
	campaign := testingutil.NewCampaign("Spring Meals", testNow.Add(-96*time.Hour))
	hall := testingutil.NewPickupLocation("Town Hall", "Northside Pantry")
	library := testingutil.NewPickupLocation("Library", "Westside Kitchen")
	store.AddCampaigns(campaign)

	for i := 0; i < 3; i++ {
		store.AddOrders(testingutil.NewOrder(campaign, testingutil.NewCustomer("H", "Hall", nil), hall, meals(1, 0, 0, 0, 0), testNow.Add(-time.Hour)))
	}
	store.AddOrders(
		testingutil.NewOrder(campaign, testingutil.NewCustomer("L", "Lib", nil), library, meals(5, 0, 0, 0, 0), testNow.Add(-time.Hour)),
		testingutil.NewOrder(campaign, testingutil.NewCustomer("L", "Lib", nil), library, meals(0, 5, 0, 0, 0), testNow.Add(-time.Hour)),
		testingutil.NewOrder(campaign, testingutil.NewCustomer("U", "Unset", nil), nil, meals(0, 0, 1, 0, 0), testNow.Add(-time.Hour)),
	)

	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
	resp, err := flow.ComputeCampaignStats(context.Background(), []string{campaign.ID.String()})
	require.NoError(t, err)

	pickups := resp.Campaigns[0].PickupLocations
	require.Len(t, pickups.Rows, 3)
	assert.Equal(t, []string{"Town Hall", "Library", models.UnknownPickupLocationName},
		[]string{pickups.TopByOrders[0].Name, pickups.TopByOrders[1].Name, pickups.TopByOrders[2].Name})
	assert.Equal(t, []string{"Library", "Town Hall", models.UnknownPickupLocationName},
		[]string{pickups.TopByMeals[0].Name, pickups.TopByMeals[1].Name, pickups.TopByMeals[2].Name})

	unknown := pickups.TopByOrders[2]
	assert.Equal(t, models.UnknownPickupLocationKey, unknown.ID)
	assert.Equal(t, models.UnknownPickupLocationName, unknown.DistributorName)
	assert.Equal(t, 1, unknown.Orders)

	assert.Equal(t, 1, resp.Campaigns[0].DataQuality.MissingPickup)
	assert.Equal(t, "Town Hall", resp.Campaigns[0].Compare.TopPickupLocation)

	t.Run("TopListsRespectLimit", func(t *testing.T) {
		cfg := config.DefaultStatsConfig()
		cfg.TopN = 2
		flow := newTestStatsFlow(t, store, cfg)
		resp, err := flow.ComputeCampaignStats(context.Background(), []string{campaign.ID.String()})
		require.NoError(t, err)

		pickups := resp.Campaigns[0].PickupLocations
		assert.Len(t, pickups.Rows, 3)
		assert.Len(t, pickups.TopByOrders, 2)
		assert.Len(t, pickups.TopByMeals, 2)
	})
}

func TestComputeCampaignStatsDataQuality(t *testing.T) {
	store := testingutil.NewFakeStore()
	frozenAt := testNow.Add(-24 * time.Hour)
	first := testingutil.NewCampaign("First", testNow.Add(-72*time.Hour), testingutil.WithFrozenAt(frozenAt))
	second := testingutil.NewCampaign("Second", testNow.Add(-72*time.Hour))
	store.AddCampaigns(first, second)

	noAddress := testingutil.NewCustomer("Ivy", "Park", nil)
	blankAddress := testingutil.NewCustomer("Jack", "Reed", utils.ToPtr("   "))
	withAddress := testingutil.NewCustomer("Kim", "Shaw", utils.ToPtr("7 Bay Rd"))

	editedAfterFreeze := testingutil.NewOrder(first, noAddress, nil, meals(1, 0, 0, 0, 0), frozenAt.Add(-time.Hour))
	editedAfterFreeze.UpdatedAt = frozenAt.Add(time.Hour)
	createdAfterFreeze := testingutil.NewOrder(first, blankAddress, nil, meals(-1, 0, 0, 0, 0), frozenAt.Add(time.Minute))
	beforeFreeze := testingutil.NewOrder(first, withAddress, nil, meals(0, 1001, 0, 0, 0), frozenAt.Add(-2*time.Hour))
	atFreeze := testingutil.NewOrder(first, testingutil.NewCustomer("Lou", "Tran", utils.ToPtr("8 Bay Rd")), nil, meals(1, 0, 0, 0, 0), frozenAt)
	secondOrder := testingutil.NewOrder(second, noAddress, nil, meals(2, 0, 0, 0, 0), testNow.Add(-time.Hour))
	store.AddOrders(editedAfterFreeze, createdAfterFreeze, beforeFreeze, atFreeze, secondOrder)

	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
	resp, err := flow.ComputeCampaignStats(context.Background(), []string{first.ID.String(), second.ID.String()})
	require.NoError(t, err)

	dq := resp.Campaigns[0].DataQuality
	assert.Equal(t, 2, dq.MissingAddress)
	assert.Equal(t, 2, dq.InvalidMeals)
	assert.Equal(t, 2, dq.PostFreezeEdits)
	assert.Equal(t, 4, dq.MissingPickup)

	assert.Equal(t, 1, resp.Campaigns[1].DataQuality.MissingAddress)
	assert.Equal(t, 0, resp.Campaigns[1].DataQuality.PostFreezeEdits)

	combined := resp.Combined.DataQuality
	assert.Equal(t, 2, combined.MissingAddress, "a customer missing an address in both campaigns counts once")
	assert.Equal(t, 2, combined.InvalidMeals)
	assert.Equal(t, 2, combined.PostFreezeEdits)
	assert.Equal(t, 5, combined.MissingPickup)
}

func TestComputeCampaignStatsSMS(t *testing.T) {
	store := testingutil.NewFakeStore()
	campaign := testingutil.NewCampaign("SMS Week", testNow.Add(-72*time.Hour))
	at := testNow.Add(-time.Hour)

	m1 := testingutil.NewSMS(campaign, models.SMSStatusDelivered, "Your OTP is 123456", nil, at)
	m2 := testingutil.NewSMS(campaign, models.SMSStatusDelivered, "Your code: 4821", nil, at)
	m3 := testingutil.NewSMS(campaign, models.SMSStatusFailed, "Your order is ready for pickup", utils.ToPtr(" Invalid number "), at)
	m4 := testingutil.NewSMS(campaign, models.SMSStatusFailed, "Community lunch this Friday!", nil, at)
	m5 := testingutil.NewSMS(campaign, models.SMSStatusFailed, "Order update", utils.ToPtr("Invalid number"), at)
	m6 := testingutil.NewSMS(campaign, models.SMSStatusSent, "code 1234567", nil, at)
	m7 := testingutil.NewSMS(campaign, models.SMSStatusQueued, "Pickup reminder", nil, at)
	store.AddCampaigns(campaign).AddMessages(m1, m2, m3, m4, m5, m6, m7)

	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
	resp, err := flow.ComputeCampaignStats(context.Background(), []string{campaign.ID.String()})
	require.NoError(t, err)

	sms := resp.Campaigns[0].SMS
	assert.Equal(t, 7, sms.Total)
	assert.Equal(t, dto.SMSStatusTally{Queued: 1, Sent: 1, Delivered: 2, Failed: 3}, sms.ByStatus)
	assert.Equal(t, dto.SMSTypeTally{OTP: 2, OrderConfirmation: 3, Bulk: 2}, sms.ByType)
	assert.InDelta(t, 2.0/7.0, sms.DeliveryRate, 1e-9)
	assert.InDelta(t, 3.0/7.0, sms.FailureRate, 1e-9)

	require.Len(t, sms.FailureReasons, 2)
	assert.Equal(t, "Invalid number", sms.FailureReasons[0].Reason)
	assert.Equal(t, 2, sms.FailureReasons[0].Count)
	assert.Equal(t, []string{m3.ID.String(), m5.ID.String()}, sms.FailureReasons[0].SampleIDs)
	assert.Equal(t, models.UnknownFailureReason, sms.FailureReasons[1].Reason)
	assert.Equal(t, []string{m4.ID.String()}, sms.FailureReasons[1].SampleIDs)

	last := sms.Timeline[len(sms.Timeline)-1]
	assert.Equal(t, dto.SMSTimelineBucket{Date: "2025-05-20", Total: 7, Delivered: 2, Failed: 3}, last)

	assert.Equal(t, sms, resp.Combined.SMS)
}

func TestSMSFailureReasonSamplesAreCapped(t *testing.T) {
	campaign := testingutil.NewCampaign("Outage", testNow.Add(-time.Hour))
	acc := newSMSAccumulator(newTimelineWindow(campaign.StartedAt, testNow, utils.TimelineMaxDays, utils.MustBusinessLocation()))
	for i := 0; i < 5; i++ {
		acc.add(testingutil.NewSMS(campaign, models.SMSStatusFailed, "hello", utils.ToPtr("Carrier timeout"), testNow))
	}
	acc.add(testingutil.NewSMS(campaign, models.SMSStatusFailed, "hello", utils.ToPtr("Blocked"), testNow))
	acc.add(testingutil.NewSMS(campaign, models.SMSStatusFailed, "hello", utils.ToPtr("Absent"), testNow))

	block := acc.result()
	require.Len(t, block.FailureReasons, 3)
	assert.Equal(t, 5, block.FailureReasons[0].Count)
	assert.Len(t, block.FailureReasons[0].SampleIDs, utils.FailureReasonSamples)
	assert.Equal(t, "Absent", block.FailureReasons[1].Reason)
	assert.Equal(t, "Blocked", block.FailureReasons[2].Reason)
	assert.Equal(t, 1.0, block.FailureRate)
}

func TestSMSRatesWithoutMessages(t *testing.T) {
	store := testingutil.NewFakeStore()
	campaign := testingutil.NewCampaign("Quiet", testNow.Add(-time.Hour))
	store.AddCampaigns(campaign)

	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
	resp, err := flow.ComputeCampaignStats(context.Background(), []string{campaign.ID.String()})
	require.NoError(t, err)

	sms := resp.Campaigns[0].SMS
	assert.Equal(t, 0, sms.Total)
	assert.Equal(t, 0.0, sms.DeliveryRate)
	assert.Equal(t, 0.0, sms.FailureRate)
	assert.Empty(t, sms.FailureReasons)
	assert.Equal(t, 0.0, resp.Campaigns[0].Orders.AvgMealsPerOrder)
	assert.Equal(t, 0.0, resp.Campaigns[0].Orders.MedianMealsPerOrder)
	assert.Equal(t, 0, resp.Campaigns[0].Orders.MaxMealsInOrder)
}

func TestClassifySMS(t *testing.T) {
	tests := []struct {
		body string
		want models.SMSCategory
	}{
		{"Your OTP is 998877", models.SMSCategoryOTP},
		{"otp", models.SMSCategoryOTP},
		{"Your verification CODE is 4821", models.SMSCategoryOTP},
		{"Use code 123456 to sign in", models.SMSCategoryOTP},
		{"Use code 123 to sign in", models.SMSCategoryBulk},
		{"Use code 1234567 to sign in", models.SMSCategoryBulk},
		{"4821 is not a code for your order", models.SMSCategoryOTP},
		{"Your ORDER has been received", models.SMSCategoryOrderConfirmation},
		{"Pickup opens at 10am", models.SMSCategoryOrderConfirmation},
		{"Order 12345 confirmed", models.SMSCategoryOrderConfirmation},
		{"Thanks for volunteering!", models.SMSCategoryBulk},
		{"", models.SMSCategoryBulk},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySMS(tt.body))
		})
	}
}

func TestComputeCampaignStatsCosts(t *testing.T) {
	store := testingutil.NewFakeStore()
	priced := testingutil.NewCampaign("Priced", testNow.Add(-48*time.Hour),
		testingutil.WithUnitCost(models.MealTypeChicken, "4.50"),
		testingutil.WithUnitCost(models.MealTypeVeg, "3.25"))
	unpriced := testingutil.NewCampaign("Unpriced", testNow.Add(-48*time.Hour))
	store.AddCampaigns(priced, unpriced)
	store.AddOrders(
		testingutil.NewOrder(priced, testingutil.NewCustomer("M", "One", nil), nil, meals(3, 1, 2, 0, 0), testNow.Add(-time.Hour)),
		testingutil.NewOrder(unpriced, testingutil.NewCustomer("N", "Two", nil), nil, meals(4, 0, 0, 0, 0), testNow.Add(-time.Hour)),
	)

	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())
	resp, err := flow.ComputeCampaignStats(context.Background(), []string{priced.ID.String(), unpriced.ID.String()})
	require.NoError(t, err)

	costs := resp.Campaigns[0].Costs
	assert.True(t, costs.Configured)
	require.NotNil(t, costs.Total)
	assert.Equal(t, "20.00", *costs.Total)
	require.Len(t, costs.Lines, 5)
	assert.Equal(t, "chicken", costs.Lines[0].MealType)
	assert.Equal(t, "4.50", *costs.Lines[0].UnitCost)
	assert.Equal(t, "13.50", *costs.Lines[0].EstimatedCost)
	assert.Nil(t, costs.Lines[1].UnitCost)
	assert.Nil(t, costs.Lines[1].EstimatedCost)
	assert.Equal(t, "6.50", *costs.Lines[2].EstimatedCost)

	none := resp.Campaigns[1].Costs
	assert.False(t, none.Configured)
	assert.Nil(t, none.Total)
	assert.Equal(t, 4, none.Lines[0].Quantity)

	combined := resp.Combined.Costs
	assert.True(t, combined.Configured)
	assert.Equal(t, "20.00", *combined.Total)
	assert.Equal(t, 7, combined.Lines[0].Quantity)
	assert.Nil(t, combined.Lines[0].UnitCost)
	assert.Equal(t, "13.50", *combined.Lines[0].EstimatedCost)
}

func TestComputeCampaignStatsErrors(t *testing.T) {
	store := seededStore(t)
	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())

	t.Run("EmptyIDs", func(t *testing.T) {
		_, err := flow.ComputeCampaignStats(context.Background(), nil)
		require.Error(t, err)
		assert.True(t, IsCampaignIDsRequired(err))
		assert.True(t, IsValidationError(err))
	})

	t.Run("BlankIDs", func(t *testing.T) {
		_, err := flow.ComputeCampaignStats(context.Background(), []string{"", "   "})
		assert.True(t, IsCampaignIDsRequired(err))
	})

	t.Run("MalformedID", func(t *testing.T) {
		_, err := flow.ComputeCampaignStats(context.Background(), []string{"campaign-1"})
		assert.True(t, IsInvalidCampaignID(err))
		assert.Equal(t, ErrCodeValidation, ErrorCode(err, ""))
	})

	t.Run("NoneFound", func(t *testing.T) {
		_, err := flow.ComputeCampaignStats(context.Background(), []string{uuid.NewString()})
		assert.True(t, IsCampaignNotFound(err))
		assert.False(t, IsValidationError(err))
	})

	t.Run("RepositoryFailureIsFatal", func(t *testing.T) {
		failing := testingutil.NewFakeStore()
		failing.Err = errors.New("connection refused")
		flow := newTestStatsFlow(t, failing, config.DefaultStatsConfig())

		_, err := flow.ComputeCampaignStats(context.Background(), []string{uuid.NewString()})
		require.Error(t, err)
		assert.False(t, IsValidationError(err))
		assert.False(t, IsCampaignNotFound(err))
		assert.Equal(t, ErrCodeStatsFailed, ErrorCode(err, ""))
		assert.ErrorIs(t, err, failing.Err)
	})
}

func TestComputeCampaignStatsPartialResolution(t *testing.T) {
	store := seededStore(t)
	core, logs := observer.New(zap.WarnLevel)
	campaignRepo, orderRepo, smsRepo := store.Repositories()
	flow := NewStatsFlow(campaignRepo, orderRepo, smsRepo, nil, config.DefaultStatsConfig(), zap.New(core)).(*StatsFlowImpl)
	flow.now = func() time.Time { return testNow }

	missing := uuid.NewString()
	resp, err := flow.ComputeCampaignStats(context.Background(), []string{store.Campaigns[0].ID.String(), missing})
	require.NoError(t, err)
	require.Len(t, resp.Campaigns, 1)
	assert.Equal(t, store.Campaigns[0].ID.String(), resp.Campaigns[0].Campaign.ID)

	entries := logs.FilterMessage("Some requested campaigns were not found").All()
	require.Len(t, entries, 1)
	assert.Equal(t, []any{missing}, entries[0].ContextMap()["missing_ids"])
}

func TestComputeCampaignStatsLoadsEachTableOnce(t *testing.T) {
	store := seededStore(t)
	flow := newTestStatsFlow(t, store, config.DefaultStatsConfig())

	_, err := flow.ComputeCampaignStats(context.Background(), campaignIDStrings(store.Campaigns))
	require.NoError(t, err)

	assert.Equal(t, 1, store.CallCount("CampaignRepository.ByIDs"))
	assert.Equal(t, 1, store.CallCount("OrderRepository.ByFilter"))
	assert.Equal(t, 1, store.CallCount("SMSMessageRepository.ByFilter"))
}

// seededStore holds two campaigns with a handful of orders and messages each
func seededStore(t *testing.T) *testingutil.FakeStore {
	t.Helper()
	store := testingutil.NewFakeStore()
	hall := testingutil.NewPickupLocation("Town Hall", "Northside Pantry")
	church := testingutil.NewPickupLocation("St Mary's", "Parish Kitchen")

	first := testingutil.NewCampaign("Easter", testNow.AddDate(0, 0, -10), testingutil.WithEndedAt(testNow.AddDate(0, 0, -3)))
	second := testingutil.NewCampaign("Mother's Day", testNow.AddDate(0, 0, -4))
	store.AddCampaigns(first, second)

	shared := testingutil.NewCustomer("Ann", "Able", utils.ToPtr("1 First Ave"))
	store.AddOrders(
		testingutil.NewOrder(first, shared, hall, meals(2, 1, 0, 0, 0), testNow.AddDate(0, 0, -9)),
		testingutil.NewOrder(first, testingutil.NewCustomer("Ben", "Baker", nil), church, meals(0, 0, 3, 1, 0), testNow.AddDate(0, 0, -8)),
		testingutil.NewOrder(first, testingutil.NewCustomer("Cat", "Cole", utils.ToPtr("3 Third Ave")), nil, meals(1, 0, 0, 0, 2), testNow.AddDate(0, 0, -5)),
		testingutil.NewOrder(second, shared, hall, meals(1, 1, 1, 1, 1), testNow.AddDate(0, 0, -2)),
		testingutil.NewOrder(second, testingutil.NewCustomer("Dan", "Dole", utils.ToPtr("4 Fourth Ave")), church, meals(0, 4, 0, 0, 0), testNow.AddDate(0, 0, -1)),
	)
	store.AddMessages(
		testingutil.NewSMS(first, models.SMSStatusDelivered, "Your order is confirmed", nil, testNow.AddDate(0, 0, -9)),
		testingutil.NewSMS(second, models.SMSStatusFailed, "Pickup tomorrow", utils.ToPtr("Unreachable"), testNow.AddDate(0, 0, -1)),
	)
	return store
}

func campaignIDStrings(campaigns []*models.Campaign) []string {
	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID.String())
	}
	return ids
}
