package businessflow

import (
	"sort"

	"github.com/amirphl/meal-campaign-stats/app/dto"
	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/google/uuid"
)

// customerMeals is what one customer ordered in one campaign
type customerMeals struct {
	customerID uuid.UUID
	customer   *models.Customer
	meals      models.MealQuantities
}

type customerMealsMap map[uuid.UUID]*customerMeals

// customerMealsByCampaign groups non-deleted orders into a customer map per campaign
func customerMealsByCampaign(orders []*models.Order) map[uuid.UUID]customerMealsMap {
	out := make(map[uuid.UUID]customerMealsMap)
	for _, o := range orders {
		if o.IsDeleted() {
			continue
		}
		byCustomer, ok := out[o.CampaignID]
		if !ok {
			byCustomer = make(customerMealsMap)
			out[o.CampaignID] = byCustomer
		}
		entry, ok := byCustomer[o.CustomerID]
		if !ok {
			entry = &customerMeals{customerID: o.CustomerID, customer: o.Customer}
			byCustomer[o.CustomerID] = entry
		}
		if entry.customer == nil {
			entry.customer = o.Customer
		}
		entry.meals = entry.meals.Add(o.Meals())
	}
	return out
}

func toCustomerRef(e *customerMeals) dto.CustomerRef {
	ref := dto.CustomerRef{ID: e.customerID.String()}
	if e.customer != nil {
		ref.FirstName = e.customer.FirstName
		ref.LastName = e.customer.LastName
		ref.Mobile = e.customer.Mobile
		ref.Address = e.customer.Address
	}
	return ref
}

// sortCustomerRefs orders by last name, first name, then id
func sortCustomerRefs(refs []dto.CustomerRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].LastName != refs[j].LastName {
			return refs[i].LastName < refs[j].LastName
		}
		if refs[i].FirstName != refs[j].FirstName {
			return refs[i].FirstName < refs[j].FirstName
		}
		return refs[i].ID < refs[j].ID
	})
}

// diffPresence lists customers only in compare (newly added) and only in baseline (did not order)
func diffPresence(compareID uuid.UUID, baseline, compare customerMealsMap) dto.PresenceDiff {
	newlyAdded := []dto.CustomerRef{}
	for id, e := range compare {
		if _, ok := baseline[id]; !ok {
			newlyAdded = append(newlyAdded, toCustomerRef(e))
		}
	}
	didNotOrder := []dto.CustomerRef{}
	for id, e := range baseline {
		if _, ok := compare[id]; !ok {
			didNotOrder = append(didNotOrder, toCustomerRef(e))
		}
	}
	sortCustomerRefs(newlyAdded)
	sortCustomerRefs(didNotOrder)

	return dto.PresenceDiff{
		CompareCampaignID: compareID.String(),
		NewlyAdded:        newlyAdded,
		DidNotOrder:       didNotOrder,
		Counts: dto.PresenceCounts{
			BaselineCustomers: len(baseline),
			CompareCustomers:  len(compare),
			NewlyAdded:        len(newlyAdded),
			DidNotOrder:       len(didNotOrder),
		},
	}
}

// diffCustomerMeals computes compare minus baseline for every customer in either campaign
func diffCustomerMeals(compareID uuid.UUID, baseline, compare customerMealsMap) dto.CustomerDeltaReport {
	union := make(map[uuid.UUID]*customerMeals, len(baseline)+len(compare))
	for id, e := range baseline {
		union[id] = e
	}
	for id, e := range compare {
		if existing, ok := union[id]; !ok || existing.customer == nil {
			union[id] = e
		}
	}

	report := dto.CustomerDeltaReport{
		CompareCampaignID: compareID.String(),
		Rows:              make([]dto.CustomerDeltaRow, 0, len(union)),
	}

	for id, who := range union {
		b, inBaseline := baseline[id]
		c, inCompare := compare[id]

		var baseMeals, compMeals models.MealQuantities
		row := dto.CustomerDeltaRow{Customer: toCustomerRef(who)}
		if inBaseline {
			baseMeals = b.meals
			totals := toMealTotals(baseMeals)
			row.Baseline = &totals
		}
		if inCompare {
			compMeals = c.meals
			totals := toMealTotals(compMeals)
			row.Compare = &totals
		}
		row.Delta = toMealTotals(compMeals.Sub(baseMeals))
		if baseTotal := baseMeals.Total(); baseTotal != 0 {
			pct := float64(row.Delta.TotalMeals) / float64(baseTotal) * 100
			row.DeltaPct.TotalMealsPct = &pct
		}

		class := models.ClassifyDelta(inBaseline, inCompare, baseMeals.Total(), compMeals.Total())
		row.Classification = class.String()

		switch class {
		case models.DeltaClassificationNew:
			report.Summary.New++
		case models.DeltaClassificationDropped:
			report.Summary.Dropped++
		case models.DeltaClassificationIncreased:
			report.Summary.Increased++
		case models.DeltaClassificationDecreased:
			report.Summary.Decreased++
		case models.DeltaClassificationUnchanged:
			report.Summary.Unchanged++
		}
		report.Summary.NetMealChange += row.Delta.TotalMeals
		report.Summary.BaselineTotalMeals += baseMeals.Total()
		report.Summary.CompareTotalMeals += compMeals.Total()

		report.Rows = append(report.Rows, row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		di, dj := absInt(report.Rows[i].Delta.TotalMeals), absInt(report.Rows[j].Delta.TotalMeals)
		if di != dj {
			return di > dj
		}
		return report.Rows[i].Customer.ID < report.Rows[j].Customer.ID
	})

	return report
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// buildComparison diffs the baseline against each compare campaign independently
func buildComparison(baseline *models.Campaign, compares []*models.Campaign, orders []*models.Order) *dto.CompareCampaignsResponse {
	byCampaign := customerMealsByCampaign(orders)
	baseMap := byCampaign[baseline.ID]
	if baseMap == nil {
		baseMap = customerMealsMap{}
	}

	resp := &dto.CompareCampaignsResponse{
		Baseline:         toCampaignSummary(baseline),
		Compares:         make([]dto.CampaignSummary, 0, len(compares)),
		PresenceDiff:     make([]dto.PresenceDiff, 0, len(compares)),
		PerCustomerDelta: make([]dto.CustomerDeltaReport, 0, len(compares)),
	}
	for _, c := range compares {
		compMap := byCampaign[c.ID]
		if compMap == nil {
			compMap = customerMealsMap{}
		}
		resp.Compares = append(resp.Compares, toCampaignSummary(c))
		resp.PresenceDiff = append(resp.PresenceDiff, diffPresence(c.ID, baseMap, compMap))
		resp.PerCustomerDelta = append(resp.PerCustomerDelta, diffCustomerMeals(c.ID, baseMap, compMap))
	}
	return resp
}
