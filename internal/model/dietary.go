package model

import (
	"bytes"
	"encoding/json"
)

// Bounds for the dietary record, enforced by Validate.
const (
	MaxDietaryOtherLen      = 500
	MaxDietarySerializedLen = 1000
)

// DietaryPreferences is the fixed-schema dietary record attached to a guest.
// Only the allow-listed keys below are accepted; anything else is rejected at
// decode time rather than coerced.
type DietaryPreferences struct {
	Vegetarian bool   `json:"vegetarian"`
	Vegan      bool   `json:"vegan"`
	Halal      bool   `json:"halal"`
	NoPork     bool   `json:"no_pork"`
	GlutenFree bool   `json:"gluten_free"`
	Other      string `json:"other"`
}

// UnmarshalJSON decodes strictly: unknown keys or wrongly typed values are
// an error, never silently dropped.
func (d *DietaryPreferences) UnmarshalJSON(data []byte) error {
	type plain DietaryPreferences
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var p plain
	if err := dec.Decode(&p); err != nil {
		return err
	}
	*d = DietaryPreferences(p)
	return nil
}

// Validate checks the size bounds of the record.
func (d DietaryPreferences) Validate() error {
	if len(d.Other) > MaxDietaryOtherLen {
		return NewValidationError(FieldDietary, "dietary note exceeds 500 characters")
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return NewValidationError(FieldDietary, "dietary record is not serializable")
	}
	if len(raw) > MaxDietarySerializedLen {
		return NewValidationError(FieldDietary, "dietary record is too large")
	}
	return nil
}

// HasAny reports whether any preference is set.
func (d DietaryPreferences) HasAny() bool {
	return d.Vegetarian || d.Vegan || d.Halal || d.NoPork || d.GlutenFree || d.Other != ""
}
