// Package render turns a panel set into report output. The HTML renderer
// here is deliberately plain; layout and styling live downstream.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/couchcryptid/local-insights/internal/domain"
)

// PDFRenderer produces a PDF report, typically by printing the HTML through
// a headless browser. The service runs without one; the PDF endpoint then
// reports the capability as unavailable.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, insights domain.Insights) ([]byte, error)
}

// Panel display order and headings.
var sections = []struct {
	Key   string
	Title string
}{
	{domain.PanelCrime, "Crime (last month)"},
	{domain.PanelCrimeYear, "Crime (12 months)"},
	{domain.PanelFlood, "Flood warnings"},
	{domain.PanelFloodBase, "Baseline flood risk"},
	{domain.PanelBroadband, "Broadband"},
	{domain.PanelMobile, "Mobile coverage"},
	{domain.PanelEPC, "Energy performance"},
	{domain.PanelSchools, "Schools"},
	{domain.PanelIso, "Travel times"},
	{domain.PanelAir, "Air quality"},
	{domain.PanelRiver, "River levels (7 days)"},
	{domain.PanelRiverYear, "River levels (year)"},
	{domain.PanelIncome, "Household income"},
	{domain.PanelBathing, "Bathing water"},
	{domain.PanelCatchment, "Catchment status"},
}

var reportTmpl = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Local Insights — {{.Postcode}}</title>
</head>
<body>
<h1>Local Insights</h1>
<p>{{.Postcode}}{{if .Number}} (No. {{.Number}}){{end}} — {{.Geo.AdminDistrict}}, {{.Geo.Country}}</p>
<p>Lat {{printf "%.5f" .Geo.Latitude}}, Lon {{printf "%.5f" .Geo.Longitude}} · LSOA {{.Geo.LSOA}} · MSOA {{.Geo.MSOA}}</p>
{{if .MapURL}}<img src="{{.MapURL}}" alt="Location map" width="800">{{end}}
{{range .Sections}}
<section>
<h2>{{.Title}}</h2>
{{if .Failed}}<p>Data unavailable: {{.Message}}</p>{{else}}<pre>{{.Body}}</pre>{{end}}
</section>
{{end}}
</body>
</html>
`))

type sectionView struct {
	Title   string
	Body    string
	Failed  bool
	Message string
}

type reportView struct {
	Postcode string
	Number   string
	Geo      domain.GeoLocation
	MapURL   string
	Sections []sectionView
}

// HTML renders the insights as a standalone HTML report.
func HTML(insights domain.Insights) ([]byte, error) {
	view := reportView{
		Postcode: insights.Postcode,
		Number:   insights.Number,
		Geo:      insights.Geo,
	}
	if u, ok := insights.Panels[domain.PanelMapImage].(string); ok {
		view.MapURL = u
	}

	for _, s := range sections {
		panel, ok := insights.Panels[s.Key]
		if !ok || panel == nil {
			continue
		}
		if marker, ok := panel.(*domain.ErrorMarker); ok {
			view.Sections = append(view.Sections, sectionView{Title: s.Title, Failed: true, Message: marker.Message})
			continue
		}
		body, err := json.MarshalIndent(panel, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", s.Key, err)
		}
		view.Sections = append(view.Sections, sectionView{Title: s.Title, Body: string(body)})
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}
