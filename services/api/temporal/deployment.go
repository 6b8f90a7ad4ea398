package temporal

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

// ErrAlreadyClosed is returned when closing a deployment that already has an extraction.
var ErrAlreadyClosed = errors.New("deployment is already closed")

// Interval is a deployment with its endpoint visits resolved to dates.
type Interval struct {
	Deployment  models.LoggerDeployment
	DeployedAt  *time.Time
	ExtractedAt *time.Time
}

// NewIntervals resolves the endpoint visits of each deployment through visitDates.
// Endpoints whose visit is missing from the map stay nil.
func NewIntervals(deployments []models.LoggerDeployment, visitDates map[int64]time.Time) []Interval {
	out := make([]Interval, 0, len(deployments))
	for _, d := range deployments {
		iv := Interval{Deployment: d}
		if d.DeploymentVisitID != nil {
			if at, ok := visitDates[*d.DeploymentVisitID]; ok {
				iv.DeployedAt = &at
			}
		}
		if d.ExtractionVisitID != nil {
			if at, ok := visitDates[*d.ExtractionVisitID]; ok {
				iv.ExtractedAt = &at
			}
		}
		out = append(out, iv)
	}
	return out
}

// startKnown reports whether the interval has a deployment visit.
func (i Interval) startKnown() bool {
	return i.Deployment.DeploymentVisitID != nil
}

// definingDate is the deployment date, or the extraction date when the start is unknown.
func (i Interval) definingDate() (time.Time, bool) {
	if i.startKnown() {
		if i.DeployedAt == nil {
			return time.Time{}, false
		}
		return *i.DeployedAt, true
	}
	if i.ExtractedAt == nil {
		return time.Time{}, false
	}
	return *i.ExtractedAt, true
}

// MostRecentDeployment returns the interval whose defining event is latest. When two
// intervals resolve to the same instant the one with a known start wins, since a logger is
// not removed and redeployed in the same instant.
func MostRecentDeployment(intervals []Interval) (Interval, bool) {
	var best Interval
	var bestAt time.Time
	found := false
	for _, iv := range intervals {
		at, ok := iv.definingDate()
		if !ok {
			continue
		}
		switch {
		case !found || at.After(bestAt):
			best, bestAt, found = iv, at, true
		case at.Equal(bestAt) && !best.startKnown() && iv.startKnown():
			best = iv
		}
	}
	return best, found
}

// OpenDeploymentsAt returns the open intervals with a known start, optionally restricted to
// those deployed within a tolerance of asOf. A single match is returned as is. Several
// matches are narrowed to the closest one when returnClosest is set, otherwise all of them
// are returned in deployment order for the caller to disambiguate.
func OpenDeploymentsAt(intervals []Interval, asOf time.Time, returnClosest bool, opts ...Option) []Interval {
	cands := make([]Candidate[Interval], 0, len(intervals))
	for _, iv := range intervals {
		if !iv.startKnown() || iv.DeployedAt == nil || !iv.Deployment.IsOpen() {
			continue
		}
		cands = append(cands, Candidate[Interval]{ID: iv.Deployment.ID, At: iv.DeployedAt, Value: iv})
	}

	o := buildOptions(opts)
	matching := make([]Interval, 0, len(cands))
	for _, c := range cands {
		if o.withinTolerance(asOf.Sub(c.Time())) {
			matching = append(matching, c.Value)
		}
	}

	switch {
	case len(matching) <= 1:
		return matching
	case returnClosest:
		c, _ := Closest(cands, asOf, opts...)
		return []Interval{c.Value}
	}
	slices.SortStableFunc(matching, func(a, b Interval) int {
		if c := compareOptionalTime(a.DeployedAt, b.DeployedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Deployment.ID, b.Deployment.ID)
	})
	return matching
}

// CurrentlyDeployed returns the open interval that started most recently. Intervals with an
// unknown start sort after every dated one.
func CurrentlyDeployed(intervals []Interval) (Interval, bool) {
	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, func(a, b Interval) int {
		switch {
		case a.DeployedAt == nil && b.DeployedAt == nil:
			return 0
		case a.DeployedAt == nil:
			return 1
		case b.DeployedAt == nil:
			return -1
		}
		return b.DeployedAt.Compare(*a.DeployedAt)
	})
	for _, iv := range sorted {
		if iv.Deployment.IsOpen() {
			return iv, true
		}
	}
	return Interval{}, false
}

// CloseDeployment sets the extraction visit of an open deployment.
func CloseDeployment(d *models.LoggerDeployment, extractionVisitID int64) error {
	if !d.IsOpen() {
		return ErrAlreadyClosed
	}
	d.ExtractionVisitID = &extractionVisitID
	return nil
}
