package models

// DeltaClassification labels a customer's meal-total change between two campaigns
type DeltaClassification string

const (
	DeltaClassificationNew       DeltaClassification = "NEW"
	DeltaClassificationDropped   DeltaClassification = "DROPPED"
	DeltaClassificationIncreased DeltaClassification = "INCREASED"
	DeltaClassificationDecreased DeltaClassification = "DECREASED"
	DeltaClassificationUnchanged DeltaClassification = "UNCHANGED"
)

// String returns the string representation of the classification
func (c DeltaClassification) String() string {
	return string(c)
}

// ClassifyDelta labels a customer given whether they ordered in each campaign and their totals
func ClassifyDelta(inBaseline, inCompare bool, baselineTotal, compareTotal int) DeltaClassification {
	switch {
	case !inBaseline && inCompare:
		return DeltaClassificationNew
	case inBaseline && !inCompare:
		return DeltaClassificationDropped
	case compareTotal > baselineTotal:
		return DeltaClassificationIncreased
	case compareTotal < baselineTotal:
		return DeltaClassificationDecreased
	default:
		return DeltaClassificationUnchanged
	}
}
