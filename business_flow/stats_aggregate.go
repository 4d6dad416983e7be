package businessflow

import (
	"sort"
	"time"

	"github.com/amirphl/meal-campaign-stats/app/dto"
	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/amirphl/meal-campaign-stats/utils"
	"github.com/google/uuid"
)

// statsInput is one point-in-time snapshot to aggregate
type statsInput struct {
	campaigns    []*models.Campaign // in report order
	orders       []*models.Order
	messages     []*models.SMSMessage
	now          time.Time
	loc          *time.Location
	timelineDays int
	topN         int
}

// statsAccumulator collects everything one report block needs. Each request owns its accumulators.
type statsAccumulator struct {
	meals           models.MealQuantities
	mealsPerOrder   []int
	missingAddress  map[uuid.UUID]struct{}
	invalidMeals    int
	postFreezeEdits int
	missingPickup   int
	pickups         map[string]*dto.PickupLocationRow
	timeline        *orderTimeline
	sms             *smsAccumulator
	start           time.Time
	end             time.Time
}

func newStatsAccumulator(start, end time.Time, w timelineWindow) *statsAccumulator {
	return &statsAccumulator{
		mealsPerOrder:  []int{},
		missingAddress: make(map[uuid.UUID]struct{}),
		pickups:        make(map[string]*dto.PickupLocationRow),
		timeline:       newOrderTimeline(w),
		sms:            newSMSAccumulator(w),
		start:          start,
		end:            end,
	}
}

func (a *statsAccumulator) addOrder(o *models.Order, c *models.Campaign) {
	meals := o.Meals()
	total := meals.Total()

	a.meals = a.meals.Add(meals)
	a.mealsPerOrder = append(a.mealsPerOrder, total)

	if o.Customer == nil || !o.Customer.HasAddress() {
		a.missingAddress[o.CustomerID] = struct{}{}
	}
	if meals.HasInvalid() {
		a.invalidMeals++
	}
	if c.FrozenAt != nil && (o.CreatedAt.After(*c.FrozenAt) || o.UpdatedAt.After(*c.FrozenAt)) {
		a.postFreezeEdits++
	}
	if !o.HasPickupLocation() {
		a.missingPickup++
	}

	key, name, distributor := models.UnknownPickupLocationKey, models.UnknownPickupLocationName, models.UnknownPickupLocationName
	if o.PickupLocation != nil {
		key = o.PickupLocation.ID.String()
		name = o.PickupLocation.Name
		distributor = o.PickupLocation.DistributorName
	}
	row, ok := a.pickups[key]
	if !ok {
		row = &dto.PickupLocationRow{ID: key, Name: name, DistributorName: distributor}
		a.pickups[key] = row
	}
	row.Orders++
	row.Meals += total

	a.timeline.add(o.CreatedAt, total)
}

func (a *statsAccumulator) addSMS(m *models.SMSMessage) {
	a.sms.add(m)
}

func (a *statsAccumulator) ordersBlock() dto.OrdersBlock {
	timeline := a.timeline.result()
	totalMeals := a.meals.Total()
	return dto.OrdersBlock{
		TotalOrders:         len(a.mealsPerOrder),
		TotalMeals:          totalMeals,
		AvgMealsPerOrder:    utils.Mean(totalMeals, len(a.mealsPerOrder)),
		MedianMealsPerOrder: utils.Median(a.mealsPerOrder),
		MaxMealsInOrder:     utils.MaxInt(a.mealsPerOrder),
		PeakOrderDay:        peakOrderDay(timeline),
		Timeline:            timeline,
	}
}

func (a *statsAccumulator) mealsBlock() dto.MealsBlock {
	return dto.MealsBlock{Totals: toMealTotals(a.meals)}
}

// pickupBlock ranks rows by orders then meals; ties fall back to the location key
func (a *statsAccumulator) pickupBlock(topN int) dto.PickupLocationsBlock {
	rows := make([]dto.PickupLocationRow, 0, len(a.pickups))
	for _, r := range a.pickups {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Orders != rows[j].Orders {
			return rows[i].Orders > rows[j].Orders
		}
		if rows[i].Meals != rows[j].Meals {
			return rows[i].Meals > rows[j].Meals
		}
		return rows[i].ID < rows[j].ID
	})
	topByOrders := append([]dto.PickupLocationRow{}, rows[:min(topN, len(rows))]...)

	byMeals := append([]dto.PickupLocationRow{}, rows...)
	sort.SliceStable(byMeals, func(i, j int) bool {
		if byMeals[i].Meals != byMeals[j].Meals {
			return byMeals[i].Meals > byMeals[j].Meals
		}
		return byMeals[i].Orders > byMeals[j].Orders
	})
	topByMeals := byMeals[:min(topN, len(byMeals))]

	return dto.PickupLocationsBlock{
		Rows:        rows,
		TopByOrders: topByOrders,
		TopByMeals:  topByMeals,
	}
}

func (a *statsAccumulator) dataQualityBlock() dto.DataQualityBlock {
	return dto.DataQualityBlock{
		MissingPickup:   a.missingPickup,
		MissingAddress:  len(a.missingAddress),
		InvalidMeals:    a.invalidMeals,
		PostFreezeEdits: a.postFreezeEdits,
	}
}

func (a *statsAccumulator) compareBlock(pickups dto.PickupLocationsBlock) dto.CompareBlock {
	block := dto.CompareBlock{
		DurationDays:      utils.CeilDays((a.end.Sub(a.start)).Abs()),
		TopMealType:       utils.NotAvailable,
		TopPickupLocation: utils.NotAvailable,
	}
	if a.meals.Total() > 0 {
		top := models.MealTypes[0]
		for _, m := range models.MealTypes[1:] {
			if a.meals.Get(m) > a.meals.Get(top) {
				top = m
			}
		}
		block.TopMealType = top.String()
	}
	if len(pickups.TopByOrders) > 0 {
		block.TopPickupLocation = pickups.TopByOrders[0].Name
	}
	return block
}

func toMealTotals(q models.MealQuantities) dto.MealTotals {
	return dto.MealTotals{
		Chicken:    q.Chicken,
		Fish:       q.Fish,
		Veg:        q.Veg,
		Egg:        q.Egg,
		Other:      q.Other,
		TotalMeals: q.Total(),
	}
}

func toCampaignSummary(c *models.Campaign) dto.CampaignSummary {
	return dto.CampaignSummary{
		ID:        c.ID.String(),
		Name:      c.Name,
		State:     c.State.String(),
		StartedAt: c.StartedAt,
		FrozenAt:  c.FrozenAt,
		EndedAt:   c.EndedAt,
	}
}

// aggregateCampaignStats builds per-campaign and combined reports in a single pass over the rows
func aggregateCampaignStats(in statsInput) *dto.CampaignStatsResponse {
	resp := &dto.CampaignStatsResponse{
		Campaigns: make([]dto.CampaignStat, 0, len(in.campaigns)),
		Combined:  dto.CombinedStat{CampaignIDs: make([]string, 0, len(in.campaigns))},
	}
	if len(in.campaigns) == 0 {
		return resp
	}

	// Combined window runs from the earliest start to the latest end
	combinedStart := in.campaigns[0].StartedAt
	combinedEnd := in.campaigns[0].EffectiveEnd(in.now)
	for _, c := range in.campaigns[1:] {
		if c.StartedAt.Before(combinedStart) {
			combinedStart = c.StartedAt
		}
		if end := c.EffectiveEnd(in.now); end.After(combinedEnd) {
			combinedEnd = end
		}
	}
	combined := newStatsAccumulator(combinedStart, combinedEnd,
		newTimelineWindow(combinedStart, combinedEnd, in.timelineDays, in.loc))

	ordersByCampaign := make(map[uuid.UUID][]*models.Order, len(in.campaigns))
	for _, o := range in.orders {
		ordersByCampaign[o.CampaignID] = append(ordersByCampaign[o.CampaignID], o)
	}
	messagesByCampaign := make(map[uuid.UUID][]*models.SMSMessage, len(in.campaigns))
	for _, m := range in.messages {
		if m.CampaignID == nil {
			continue
		}
		messagesByCampaign[*m.CampaignID] = append(messagesByCampaign[*m.CampaignID], m)
	}

	costs := make([]costEstimate, 0, len(in.campaigns))
	for _, c := range in.campaigns {
		end := c.EffectiveEnd(in.now)
		acc := newStatsAccumulator(c.StartedAt, end, newTimelineWindow(c.StartedAt, end, in.timelineDays, in.loc))

		for _, o := range ordersByCampaign[c.ID] {
			if o.IsDeleted() {
				continue
			}
			acc.addOrder(o, c)
			combined.addOrder(o, c)
		}
		for _, m := range messagesByCampaign[c.ID] {
			acc.addSMS(m)
			combined.addSMS(m)
		}

		pickups := acc.pickupBlock(in.topN)
		cost := estimateCampaignCost(c, acc.meals)
		costs = append(costs, cost)

		resp.Campaigns = append(resp.Campaigns, dto.CampaignStat{
			Campaign:        toCampaignSummary(c),
			Orders:          acc.ordersBlock(),
			Meals:           acc.mealsBlock(),
			PickupLocations: pickups,
			SMS:             acc.sms.result(),
			DataQuality:     acc.dataQualityBlock(),
			Compare:         acc.compareBlock(pickups),
			Costs:           cost.result(),
		})
		resp.Combined.CampaignIDs = append(resp.Combined.CampaignIDs, c.ID.String())
	}

	pickups := combined.pickupBlock(in.topN)
	resp.Combined.Orders = combined.ordersBlock()
	resp.Combined.Meals = combined.mealsBlock()
	resp.Combined.PickupLocations = pickups
	resp.Combined.SMS = combined.sms.result()
	resp.Combined.DataQuality = combined.dataQualityBlock()
	resp.Combined.Compare = combined.compareBlock(pickups)
	resp.Combined.Costs = mergeCostEstimates(costs).result()

	return resp
}
