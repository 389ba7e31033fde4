// Package income loads the local small-area income reference dataset: a CSV
// of MSOA centroids with median household income and, optionally, household
// counts. The service tolerates its absence.
package income

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/couchcryptid/local-insights/internal/domain"
)

// defaultRadiusKm is the initial search radius around the query point.
const defaultRadiusKm = 5

// Source estimates local income from the reference dataset. The file is
// loaded once on first use and kept in memory.
type Source struct {
	path   string
	logger *slog.Logger

	once    sync.Once
	points  []domain.IncomePoint
	modTime string
	loadErr error
}

// NewSource creates an income source reading from path.
func NewSource(path string, logger *slog.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// Estimate averages household income over centroids within 5 km of the
// point, widening once before giving up. A missing dataset yields an
// unavailable panel with a pointer to the expected file, not an error.
func (s *Source) Estimate(_ context.Context, lat, lon float64) (*domain.IncomeEstimate, error) {
	s.once.Do(s.load)
	if s.loadErr != nil {
		if os.IsNotExist(s.loadErr) {
			return &domain.IncomeEstimate{
				Available: false,
				Note:      fmt.Sprintf("Provide %s (ONS small area income estimates).", s.path),
			}, nil
		}
		return nil, fmt.Errorf("income dataset: %w", s.loadErr)
	}

	est := domain.EstimateIncome(s.points, lat, lon, defaultRadiusKm)
	est.Freshness = s.modTime
	return &est, nil
}

// load parses the CSV. Expected columns: area code, lat, lng, median income,
// and optionally a household count. Malformed rows are skipped.
func (s *Source) load() {
	f, err := os.Open(s.path)
	if err != nil {
		s.loadErr = err
		return
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		s.modTime = info.ModTime().UTC().Format("2006-01-02")
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		s.loadErr = fmt.Errorf("parse %s: %w", s.path, err)
		return
	}

	for i, row := range rows {
		if i == 0 || len(row) < 4 {
			// Header or short row.
			continue
		}
		lat, errLat := strconv.ParseFloat(row[1], 64)
		lon, errLon := strconv.ParseFloat(row[2], 64)
		inc, errInc := strconv.ParseFloat(row[3], 64)
		if errLat != nil || errLon != nil || errInc != nil {
			continue
		}

		p := domain.IncomePoint{Area: row[0], Lat: lat, Lon: lon, Income: inc}
		if len(row) >= 5 {
			if hh, err := strconv.ParseFloat(row[4], 64); err == nil {
				p.Households = hh
			}
		}
		s.points = append(s.points, p)
	}

	s.logger.Info("income dataset loaded", "path", s.path, "points", len(s.points))
}
