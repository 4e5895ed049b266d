// Package entity extracts structured booking fields from free-form
// logistics queries using deterministic rules: a location gazetteer with an
// optional NER service in front of it, and ordered regex and keyword tables
// for the scalar fields.
package entity

import "encoding/json"

// Set holds every extractable field of a query. Pointer fields are nil when
// the query gave no evidence for them; the JSON form always carries all
// keys so downstream consumers see explicit nulls.
type Set struct {
	PickupLocation *string  `json:"pickup_location"`
	DropLocation   *string  `json:"drop_location"`
	WeightKg       *float64 `json:"weight_kg"`
	Packages       *int     `json:"packages"`
	PickupTime     *string  `json:"pickup_time"`
	Fragile        bool     `json:"fragile"`
	PaymentMode    *string  `json:"payment_mode"`
	PhoneNumber    *string  `json:"phone_number"`
}

// Has reports whether the named field carries a value. Fragile is a plain
// flag and is always considered present.
func (s *Set) Has(field string) bool {
	switch field {
	case "pickup_location":
		return s.PickupLocation != nil
	case "drop_location":
		return s.DropLocation != nil
	case "weight_kg":
		return s.WeightKg != nil
	case "packages":
		return s.Packages != nil
	case "pickup_time":
		return s.PickupTime != nil
	case "fragile":
		return true
	case "payment_mode":
		return s.PaymentMode != nil
	case "phone_number":
		return s.PhoneNumber != nil
	}
	return false
}

// AsMap returns the JSON representation of the set as a generic map, used
// when the full entity set is forwarded as API call parameters.
func (s *Set) AsMap() map[string]interface{} {
	data, err := json.Marshal(s)
	if err != nil {
		return map[string]interface{}{}
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}
