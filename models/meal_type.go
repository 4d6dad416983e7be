package models

// MealType is one of the five fixed order-quantity dimensions
type MealType string

const (
	MealTypeChicken MealType = "chicken"
	MealTypeFish    MealType = "fish"
	MealTypeVeg     MealType = "veg"
	MealTypeEgg     MealType = "egg"
	MealTypeOther   MealType = "other"
)

// MealTypes lists every meal type in report order
var MealTypes = []MealType{
	MealTypeChicken,
	MealTypeFish,
	MealTypeVeg,
	MealTypeEgg,
	MealTypeOther,
}

// MaxMealQuantity is the largest per-type quantity considered valid on an order
const MaxMealQuantity = 1000

// String returns the string representation of the meal type
func (m MealType) String() string {
	return string(m)
}

// MealQuantities holds one count per meal type
type MealQuantities struct {
	Chicken int `json:"chicken"`
	Fish    int `json:"fish"`
	Veg     int `json:"veg"`
	Egg     int `json:"egg"`
	Other   int `json:"other"`
}

// Get returns the quantity of a meal type
func (q MealQuantities) Get(m MealType) int {
	switch m {
	case MealTypeChicken:
		return q.Chicken
	case MealTypeFish:
		return q.Fish
	case MealTypeVeg:
		return q.Veg
	case MealTypeEgg:
		return q.Egg
	case MealTypeOther:
		return q.Other
	default:
		return 0
	}
}

// Total is the sum of all five quantities
func (q MealQuantities) Total() int {
	return q.Chicken + q.Fish + q.Veg + q.Egg + q.Other
}

// Add returns the element-wise sum of q and o
func (q MealQuantities) Add(o MealQuantities) MealQuantities {
	return MealQuantities{
		Chicken: q.Chicken + o.Chicken,
		Fish:    q.Fish + o.Fish,
		Veg:     q.Veg + o.Veg,
		Egg:     q.Egg + o.Egg,
		Other:   q.Other + o.Other,
	}
}

// Sub returns the element-wise difference q - o
func (q MealQuantities) Sub(o MealQuantities) MealQuantities {
	return MealQuantities{
		Chicken: q.Chicken - o.Chicken,
		Fish:    q.Fish - o.Fish,
		Veg:     q.Veg - o.Veg,
		Egg:     q.Egg - o.Egg,
		Other:   q.Other - o.Other,
	}
}

// HasInvalid reports whether any quantity is negative or above MaxMealQuantity
func (q MealQuantities) HasInvalid() bool {
	for _, m := range MealTypes {
		v := q.Get(m)
		if v < 0 || v > MaxMealQuantity {
			return true
		}
	}
	return false
}
