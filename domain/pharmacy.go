package domain

import (
	"math"
	"strconv"
	"strings"
)

// Pharmacy is a row of the hosted pharmacies table. Columns are passed through
// under their store names; NULL columns stay null in JSON.
type Pharmacy struct {
	KendraCode   *string  `db:"Kendra Code" json:"Kendra Code"`
	Name         *string  `db:"Name" json:"Name"`
	Contact      *string  `db:"Contact" json:"Contact"`
	StateName    *string  `db:"State Name" json:"State Name"`
	DistrictName *string  `db:"District Name" json:"District Name"`
	PinCode      *string  `db:"Pin Code" json:"Pin Code"`
	Address      *string  `db:"Address" json:"Address"`
	Latitude     *string  `db:"Latitude" json:"Latitude"`
	Longitude    *string  `db:"Longitude" json:"Longitude"`
	Distance     *float64 `db:"-" json:"distance,omitempty"`
}

// Position parses the stored latitude and longitude. ok is false when either
// value is missing or not a finite number.
func (p Pharmacy) Position() (lat, lon float64, ok bool) {
	lat, ok = parseCoordinate(p.Latitude)
	if !ok {
		return 0, 0, false
	}
	lon, ok = parseCoordinate(p.Longitude)
	if !ok {
		return 0, 0, false
	}
	return lat, lon, true
}

func parseCoordinate(val *string) (float64, bool) {
	if val == nil {
		return 0, false
	}
	trimmed := strings.TrimSpace(*val)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
