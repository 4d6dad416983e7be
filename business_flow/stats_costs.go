package businessflow

import (
	"github.com/amirphl/meal-campaign-stats/app/dto"
	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

func formatMoney(d decimal.Decimal) *string {
	s := d.StringFixed(moneyPlaces)
	return &s
}

// costEstimate is the estimated spend per meal type; an absent key means no unit cost is set
type costEstimate struct {
	configured bool
	quantities models.MealQuantities
	unitCosts  map[models.MealType]decimal.Decimal
	estimated  map[models.MealType]decimal.Decimal
}

// estimateCampaignCost prices a campaign's meal totals with its unit costs
func estimateCampaignCost(c *models.Campaign, meals models.MealQuantities) costEstimate {
	est := costEstimate{
		configured: c.HasUnitCosts(),
		quantities: meals,
		unitCosts:  make(map[models.MealType]decimal.Decimal),
		estimated:  make(map[models.MealType]decimal.Decimal),
	}
	for _, m := range models.MealTypes {
		unit := c.UnitCost(m)
		if !unit.Valid {
			continue
		}
		est.unitCosts[m] = unit.Decimal
		est.estimated[m] = unit.Decimal.Mul(decimal.NewFromInt(int64(meals.Get(m))))
	}
	return est
}

// mergeCostEstimates sums estimates across campaigns. Unit costs differ per campaign so the sum carries none.
func mergeCostEstimates(parts []costEstimate) costEstimate {
	merged := costEstimate{
		unitCosts: make(map[models.MealType]decimal.Decimal),
		estimated: make(map[models.MealType]decimal.Decimal),
	}
	for _, p := range parts {
		merged.quantities = merged.quantities.Add(p.quantities)
		if !p.configured {
			continue
		}
		merged.configured = true
		for m, v := range p.estimated {
			merged.estimated[m] = merged.estimated[m].Add(v)
		}
	}
	return merged
}

func (e costEstimate) result() dto.CostsBlock {
	block := dto.CostsBlock{
		Configured: e.configured,
		Lines:      make([]dto.CostLine, 0, len(models.MealTypes)),
	}
	total := decimal.Zero
	for _, m := range models.MealTypes {
		line := dto.CostLine{MealType: m.String(), Quantity: e.quantities.Get(m)}
		if unit, ok := e.unitCosts[m]; ok {
			line.UnitCost = formatMoney(unit)
		}
		if est, ok := e.estimated[m]; ok {
			line.EstimatedCost = formatMoney(est)
			total = total.Add(est)
		}
		block.Lines = append(block.Lines, line)
	}
	if e.configured {
		block.Total = formatMoney(total)
	}
	return block
}
