package domain

// Panel keys. Renderers key off these names; they are part of the output
// contract and must not change.
const (
	PanelCrime     = "crime"
	PanelCrimeYear = "crimeYear"
	PanelFlood     = "flood"
	PanelBroadband = "broadband"
	PanelMobile    = "mobile"
	PanelEPC       = "epc"
	PanelSchools   = "schools"
	PanelIso       = "isochrones"
	PanelAir       = "air"
	PanelRiver     = "river"
	PanelRiverYear = "riverYear"
	PanelIncome    = "income"
	PanelFloodBase = "floodBase"
	PanelBathing   = "bathing"
	PanelCatchment = "catchment"
	PanelMapImage  = "mapImageUrl"
)

// PanelSet maps panel keys to their settled values: a normalized panel
// struct, an ErrorMarker, or nil. Immutable once assembled.
type PanelSet map[string]any

// ErrorMarker is the shape a panel takes when a configured upstream call was
// attempted and failed. It is data, not an error: aggregation never fails
// because a panel did.
type ErrorMarker struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Insights is the full result of one query: resolved geography plus every
// panel. This is what the JSON API returns and what renderers consume.
type Insights struct {
	Postcode string      `json:"postcode"`
	Number   string      `json:"number,omitempty"`
	Geo      GeoLocation `json:"geo"`
	Panels   PanelSet    `json:"panels"`
}

// CategoryCount is one crime category with its occurrence count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CrimeSummary summarises street-level crime for the last complete month.
type CrimeSummary struct {
	Month         string          `json:"month"` // YYYY-MM
	Total         int             `json:"total"`
	TopCategories []CategoryCount `json:"topCategories"`
}

// MonthCount is one month's total in a year series.
type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Total int    `json:"total"`
}

// CrimeYearSeries holds per-month crime totals for the last twelve complete
// months, oldest first.
type CrimeYearSeries struct {
	Months []MonthCount `json:"months"`
}

// FloodSnapshot reports currently active Environment Agency flood alerts and
// warnings.
type FloodSnapshot struct {
	ActiveWarnings int    `json:"activeWarnings"`
	Note           string `json:"note,omitempty"`
}

// BroadbandSnapshot reports available broadband technologies and headline
// speeds. Speeds are pointers so "unknown" serializes as null rather than 0.
type BroadbandSnapshot struct {
	Available   []string `json:"available"`
	MaxDownMbps *float64 `json:"maxDownMbps"`
	MaxUpMbps   *float64 `json:"maxUpMbps"`
	Note        string   `json:"note,omitempty"`
}

// OperatorCoverage is one mobile network operator's indoor/outdoor coverage.
type OperatorCoverage struct {
	Name      string `json:"name"`
	Indoor4G  string `json:"indoor4G,omitempty"`
	Outdoor5G string `json:"outdoor5G,omitempty"`
}

// MobileSnapshot reports per-operator mobile coverage.
type MobileSnapshot struct {
	Operators []OperatorCoverage `json:"mnos"`
	Note      string             `json:"note,omitempty"`
}

// EPC summary modes.
const (
	EPCModeProperty = "property"
	EPCModePostcode = "postcode"
)

// EPCSummary carries one of two mutually exclusive shapes selected by Mode:
// a single property's latest certificate, or an aggregate over every
// deduplicated property in the postcode.
type EPCSummary struct {
	Mode string `json:"mode"`

	// Property mode.
	Rating         string `json:"rating,omitempty"`
	AssessmentDate string `json:"assessmentDate,omitempty"`

	// Postcode mode.
	PropertiesAnalysed int            `json:"propertiesAnalysed,omitempty"`
	AverageRating      string         `json:"averageRating,omitempty"`
	Distribution       map[string]int `json:"distribution,omitempty"`
	LatestYear         string         `json:"latestYear,omitempty"`

	Note string `json:"note,omitempty"`
}

// School is one nearby school entry.
type School struct {
	Name       string  `json:"name"`
	Ofsted     string  `json:"ofsted,omitempty"`
	DistanceKm float64 `json:"distanceKm"`
}

// SchoolsSummary lists the nearest schools.
type SchoolsSummary struct {
	Nearest []School `json:"nearest"`
	Note    string   `json:"note,omitempty"`
}

// IsochroneItem reports whether one travel-time band could be computed.
type IsochroneItem struct {
	Label string `json:"label"` // e.g. "walk_15", "drive_30"
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// IsochroneAvailability reports which travel-time isochrones are available.
type IsochroneAvailability struct {
	Available bool            `json:"available"`
	Items     []IsochroneItem `json:"items,omitempty"`
	Note      string          `json:"note,omitempty"`
}

// AirMeasurement is one pollutant reading from the nearest monitoring site.
type AirMeasurement struct {
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	LastUpdated string  `json:"lastUpdated,omitempty"`
}

// AirQuality reports the nearest PM2.5 and NO2 readings, when any site
// within range measures them.
type AirQuality struct {
	PM25   *AirMeasurement `json:"pm25"`
	NO2    *AirMeasurement `json:"no2"`
	Source string          `json:"source"`
}

// RiverTrend summarises the last seven days of level readings at the nearest
// river monitoring station.
type RiverTrend struct {
	Available bool    `json:"available"`
	Station   string  `json:"station,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	First     float64 `json:"first,omitempty"`
	Last      float64 `json:"last,omitempty"`
	Change    float64 `json:"change,omitempty"`
	Count     int     `json:"count,omitempty"`
	Note      string  `json:"note,omitempty"`
}

// MonthLevel is one month's mean river level.
type MonthLevel struct {
	Month string  `json:"month"` // YYYY-MM
	Mean  float64 `json:"mean"`
}

// RiverYear holds monthly mean river levels over the past year, oldest first.
type RiverYear struct {
	Available bool         `json:"available"`
	Station   string       `json:"station,omitempty"`
	Unit      string       `json:"unit,omitempty"`
	Months    []MonthLevel `json:"months,omitempty"`
	Note      string       `json:"note,omitempty"`
}

// IncomeEstimate is the average household income over small-area centroids
// within RadiusKm of the query point.
type IncomeEstimate struct {
	Available     bool    `json:"available"`
	RadiusKm      float64 `json:"radiusKm,omitempty"`
	AverageIncome int     `json:"averageIncome,omitempty"`
	PointsUsed    int     `json:"pointsUsed,omitempty"`
	Weighted      bool    `json:"weighted,omitempty"`
	Source        string  `json:"source,omitempty"`
	Freshness     string  `json:"freshness,omitempty"`
	Note          string  `json:"note,omitempty"`
}

// Flood risk levels, in precedence order.
const (
	RiskUnknown = "Unknown"
	RiskLow     = "Low"
	RiskMedium  = "Medium"
	RiskHigh    = "High"
)

// BaselineFloodRisk is the long-term flood risk classification plus the map
// overlay polygons it was derived from. On failure Overlays holds a single
// synthetic vicinity circle so the map still shows something.
type BaselineFloodRisk struct {
	Level    string    `json:"level"`
	Overlays []Feature `json:"overlays"`
	Note     string    `json:"note,omitempty"`
}

// BathingWater reports the nearest designated bathing water and its latest
// classification.
type BathingWater struct {
	Available      bool     `json:"available"`
	Name           string   `json:"name,omitempty"`
	Classification string   `json:"classification,omitempty"`
	DistanceKm     *float64 `json:"distanceKm,omitempty"`
	Note           string   `json:"note,omitempty"`
}

// CatchmentStatus reports the nearest water body's overall classification
// from the Catchment Data Explorer.
type CatchmentStatus struct {
	Available bool   `json:"available"`
	Name      string `json:"name,omitempty"`
	Status    string `json:"status,omitempty"`
	Cycle     string `json:"cycle,omitempty"`
	Note      string `json:"note,omitempty"`
}
