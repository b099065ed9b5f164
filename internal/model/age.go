package model

// AgeCategory classifies a guest for seating and catering purposes.
type AgeCategory string

const (
	AgeAdult        AgeCategory = "adult"
	AgeChildUnder3  AgeCategory = "child_under_3"
	AgeChildUnder10 AgeCategory = "child_under_10"
)

// AllAgeCategories is the fixed set of age categories.
var AllAgeCategories = []AgeCategory{AgeAdult, AgeChildUnder3, AgeChildUnder10}

// ValidAgeCategory reports whether a is a known category.
func ValidAgeCategory(a AgeCategory) bool {
	for _, known := range AllAgeCategories {
		if a == known {
			return true
		}
	}
	return false
}
