// Package domain models the normalized "panel" data produced for a single
// UK address or postcode query.
//
// # Data Sources
//
// Each panel corresponds to one public open-data or third-party API:
//
//	postcodes.io                    postcode → coordinates + LSOA/MSOA codes
//	data.police.uk                  street-level crime, monthly buckets
//	environment.data.gov.uk         flood warnings, river level stations and
//	                                readings, bathing waters, catchment status,
//	                                baseline flood-risk layers (ArcGIS query)
//	api.openaq.org                  air quality measurements (PM2.5, NO2)
//	Ofcom Connected Nations         broadband and mobile coverage (key required)
//	epc.opendatacommunities.org     Energy Performance Certificates (key required)
//	api.openrouteservice.org        travel-time isochrones (key required)
//	Mapbox Static Images            report map imagery (token required)
//	local CSV (ONS estimates)       small-area household income by MSOA centroid
//
// Upstream availability is the exception, not the rule: several sources need
// credentials that may be absent, and all of them fail independently. Every
// panel therefore settles into one of three shapes — live normalized data, a
// placeholder with an explanatory note when configuration is missing, or an
// [ErrorMarker] when a configured call failed. Adapters never let a failure
// escape past their own boundary; only postcode resolution is fatal to a query.
//
// # Panel Set
//
// A [PanelSet] maps stable panel keys (see the Panel* constants) to panel
// values. The set always carries one entry per invoked adapter, so renderers
// never distinguish "key absent" from "key degraded".
package domain
