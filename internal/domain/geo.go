package domain

import "errors"

// ErrPostcodeNotFound is returned by the geo resolver when the upstream
// geocoder reports no match for the postcode.
var ErrPostcodeNotFound = errors.New("postcode not found")

// ErrPostcodeRequired is returned when a query arrives without a postcode.
var ErrPostcodeRequired = errors.New("postcode is required")

// GeoLocation is the resolved geography for one query. It is built once per
// request and read-only afterwards; every adapter depends on it.
type GeoLocation struct {
	Postcode      string  `json:"postcode"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	LSOA          string  `json:"lsoa,omitempty"`
	MSOA          string  `json:"msoa,omitempty"`
	AdminDistrict string  `json:"admin_district,omitempty"`
	AdminWard     string  `json:"admin_ward,omitempty"`
	Country       string  `json:"country,omitempty"`
}
