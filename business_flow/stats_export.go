package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/meal-campaign-stats/app/dto"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// ExportComparison renders the comparison as an XLSX workbook: a summary sheet plus one delta sheet per compare campaign
func (f *StatsFlowImpl) ExportComparison(ctx context.Context, baselineID string, compareIDs []string) (filename string, data []byte, err error) {
	started := time.Now()
	defer func() { observeStatsComputation(operationExport, started, err) }()

	report, err := f.compare(ctx, baselineID, compareIDs)
	if err != nil {
		return "", nil, err
	}

	data, err = renderComparisonWorkbook(report)
	if err != nil {
		return "", nil, NewBusinessError(ErrCodeExportFailed, "Failed to write Excel file", err)
	}

	filename = fmt.Sprintf("campaign_comparison_%s_%s.xlsx", report.Baseline.ID, f.now().In(f.loc).Format("20060102"))
	return filename, data, nil
}

func renderComparisonWorkbook(report *dto.CompareCampaignsResponse) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	// Rename default sheet
	if err := xl.SetSheetName(xl.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}

	header := []any{
		"compare_campaign_id", "compare_campaign_name",
		"baseline_customers", "compare_customers", "newly_added", "did_not_order",
		"new", "dropped", "increased", "decreased", "unchanged",
		"baseline_total_meals", "compare_total_meals", "net_meal_change",
	}
	if err := xl.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return nil, err
	}

	// Sheet names are case-insensitive in Excel
	usedNames := map[string]bool{strings.ToLower(summarySheet): true}
	for i, c := range report.Compares {
		presence := report.PresenceDiff[i]
		delta := report.PerCustomerDelta[i]

		record := []any{
			c.ID, c.Name,
			presence.Counts.BaselineCustomers, presence.Counts.CompareCustomers,
			presence.Counts.NewlyAdded, presence.Counts.DidNotOrder,
			delta.Summary.New, delta.Summary.Dropped, delta.Summary.Increased,
			delta.Summary.Decreased, delta.Summary.Unchanged,
			delta.Summary.BaselineTotalMeals, delta.Summary.CompareTotalMeals, delta.Summary.NetMealChange,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(summarySheet, cellRef, &record); err != nil {
			return nil, err
		}

		baseName := sanitizeSheetName(c.Name)
		name := baseName
		idx := 1
		for usedNames[strings.ToLower(name)] {
			idx++
			suffix := fmt.Sprintf("_%d", idx)
			name = truncateRunes(baseName, maxSheetNameLen-len(suffix)) + suffix
		}
		usedNames[strings.ToLower(name)] = true
		if _, err := xl.NewSheet(name); err != nil {
			return nil, err
		}
		if err := writeDeltaSheet(xl, name, delta); err != nil {
			return nil, err
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeDeltaSheet(xl *excelize.File, sheet string, report dto.CustomerDeltaReport) error {
	header := []any{
		"customer_id", "first_name", "last_name", "mobile", "classification",
		"baseline_total_meals", "compare_total_meals",
		"delta_chicken", "delta_fish", "delta_veg", "delta_egg", "delta_other", "delta_total_meals",
		"delta_total_meals_pct",
	}
	if err := xl.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for ri, r := range report.Rows {
		baselineTotal, compareTotal := 0, 0
		if r.Baseline != nil {
			baselineTotal = r.Baseline.TotalMeals
		}
		if r.Compare != nil {
			compareTotal = r.Compare.TotalMeals
		}
		pct := ""
		if r.DeltaPct.TotalMealsPct != nil {
			pct = strconv.FormatFloat(*r.DeltaPct.TotalMealsPct, 'f', 2, 64)
		}
		record := []any{
			r.Customer.ID, r.Customer.FirstName, r.Customer.LastName, r.Customer.Mobile, r.Classification,
			baselineTotal, compareTotal,
			r.Delta.Chicken, r.Delta.Fish, r.Delta.Veg, r.Delta.Egg, r.Delta.Other, r.Delta.TotalMeals,
			pct,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		if err := xl.SetSheetRow(sheet, cellRef, &record); err != nil {
			return err
		}
	}
	return nil
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \\ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := replacer.Replace(name)
	return truncateSheetName(strings.TrimSpace(safe))
}

const maxSheetNameLen = 31

func truncateSheetName(name string) string {
	if name == "" {
		return "Sheet"
	}
	return truncateRunes(name, maxSheetNameLen)
}

func truncateRunes(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}
