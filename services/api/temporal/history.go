package temporal

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

// visitIndex maps a visit to the deployments that start and end at it.
type visitIndex struct {
	starting map[int64][]models.LoggerDeployment
	ending   map[int64][]models.LoggerDeployment
}

func indexDeployments(deployments []models.LoggerDeployment) visitIndex {
	idx := visitIndex{
		starting: make(map[int64][]models.LoggerDeployment),
		ending:   make(map[int64][]models.LoggerDeployment),
	}
	sorted := slices.Clone(deployments)
	slices.SortFunc(sorted, func(a, b models.LoggerDeployment) int { return cmp.Compare(a.ID, b.ID) })
	for _, d := range sorted {
		if d.DeploymentVisitID != nil {
			idx.starting[*d.DeploymentVisitID] = append(idx.starting[*d.DeploymentVisitID], d)
		}
		if d.ExtractionVisitID != nil {
			idx.ending[*d.ExtractionVisitID] = append(idx.ending[*d.ExtractionVisitID], d)
		}
	}
	return idx
}

// swaps returns every (logger in, logger out) pairing at a visit. A visit with neither yields
// a single empty pairing so that it still appears in the history.
func (idx visitIndex) swaps(visitID int64) [][2]*models.LoggerDeployment {
	ins := pointers(idx.starting[visitID])
	outs := pointers(idx.ending[visitID])
	out := make([][2]*models.LoggerDeployment, 0, len(ins)*len(outs))
	for _, in := range ins {
		for _, o := range outs {
			out = append(out, [2]*models.LoggerDeployment{in, o})
		}
	}
	return out
}

func pointers(ds []models.LoggerDeployment) []*models.LoggerDeployment {
	if len(ds) == 0 {
		return []*models.LoggerDeployment{nil}
	}
	out := make([]*models.LoggerDeployment, len(ds))
	for i := range ds {
		out[i] = &ds[i]
	}
	return out
}

func loggerFields(d *models.LoggerDeployment, loggers map[int64]models.Logger) (sn, typ *string, battery *int) {
	if d == nil {
		return nil, nil, nil
	}
	l, ok := loggers[d.LoggerID]
	if !ok {
		return nil, nil, nil
	}
	return &l.LoggerSerialNumber, &l.LoggerType, l.BatteryYear
}

// LoggerHistory lists every visit with the loggers deployed and extracted at it, ordered by
// visit date. stickUps is keyed by visit and only consulted when non-nil.
func LoggerHistory(
	visits []models.InstallationVisit,
	deployments []models.LoggerDeployment,
	loggers map[int64]models.Logger,
	stickUps map[int64]models.StickUp,
) []models.LoggerHistoryRow {
	idx := indexDeployments(deployments)

	ordered := slices.Clone(visits)
	slices.SortStableFunc(ordered, func(a, b models.InstallationVisit) int {
		if c := a.VisitDate.Compare(b.VisitDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	rows := make([]models.LoggerHistoryRow, 0, len(ordered))
	for _, v := range ordered {
		var stickUp *float64
		if su, ok := stickUps[v.ID]; ok {
			m := su.Measurement
			stickUp = &m
		}
		for _, pair := range idx.swaps(v.ID) {
			row := models.LoggerHistoryRow{
				VisitID:    v.ID,
				DateTime:   v.VisitDate,
				RecordedBy: v.FieldParty,
				Activity:   v.RecordOfActivities,
				Notes:      v.Notes,
				StickUp:    stickUp,
			}
			row.LoggerIn, row.LoggerInType, _ = loggerFields(pair[0], loggers)
			row.LoggerOut, row.LoggerOutType, _ = loggerFields(pair[1], loggers)
			rows = append(rows, row)
		}
	}
	return rows
}

// MissingReferencePolicy decides what happens to a thaw tube reading that needs a reference
// measurement and has none dated before it.
type MissingReferencePolicy string

const (
	FailOnMissingReference MissingReferencePolicy = "fail"
	SkipOnMissingReference MissingReferencePolicy = "skip"
)

// ParseMissingReferencePolicy accepts fail or skip.
func ParseMissingReferencePolicy(s string) (MissingReferencePolicy, error) {
	switch p := MissingReferencePolicy(s); p {
	case FailOnMissingReference, SkipOnMissingReference:
		return p, nil
	}
	return "", fmt.Errorf("unknown missing reference policy %q", s)
}

// ErrMissingReference is returned under FailOnMissingReference.
var ErrMissingReference = errors.New("no reference measurement before reading")

// ThawTubeHistory derives the active-layer values of each reading from the bead of the
// previous year and the latest reference measured strictly before the reading:
//
//	thaw_penetration = bead_depth - reference
//	max_active_layer = bead_depth - (tube_height - (scribe_min - scribe_curr))
//	surface_change   = thaw_penetration - max_active_layer
//
// Readings without a previous-year bead keep the derived values empty. A reading with such a
// bead but no reference is handled according to policy.
func ThawTubeHistory(
	readings []models.ThawTubeVisitReading,
	references []models.ThawTubeReference,
	beadsByReading map[int64][]models.ThawTubeBeadMeasurement,
	policy MissingReferencePolicy,
) ([]models.ThawTubeHistoryRow, error) {
	refs := make([]Candidate[float64], 0, len(references))
	for _, r := range references {
		at := r.Date
		refs = append(refs, Candidate[float64]{ID: r.ID, At: &at, Value: r.ReferenceMeasurement})
	}

	ordered := slices.Clone(readings)
	slices.SortStableFunc(ordered, func(a, b models.ThawTubeVisitReading) int {
		if c := a.DateTime.Compare(b.DateTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ReadingID, b.ReadingID)
	})

	rows := make([]models.ThawTubeHistoryRow, 0, len(ordered))
	for _, r := range ordered {
		row := models.ThawTubeHistoryRow{ThawTubeVisitReading: r}

		ref, hasRef := MostRecentPrior(refs, r.DateTime, StrictlyBefore())
		if hasRef {
			v := ref.Value
			row.ReferenceMeasurement = &v
		}

		bead, hasBead := beadForYear(beadsByReading[r.ReadingID], r.DateTime.UTC().Year()-1)
		if hasBead {
			if !hasRef {
				if policy == SkipOnMissingReference {
					continue
				}
				return nil, fmt.Errorf("%w: reading at %s", ErrMissingReference, r.DateTime.Format(time.RFC3339))
			}
			depth := bead.Depth
			row.PreviousYearBeadDepth = &depth
			tp := depth - ref.Value
			row.ThawPenetration = &tp
			if r.TubeHeight != nil && r.ScribeMin != nil && r.ScribeCurr != nil {
				mal := depth - (*r.TubeHeight - (*r.ScribeMin - *r.ScribeCurr))
				sc := tp - mal
				row.MaxActiveLayer = &mal
				row.SurfaceChange = &sc
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func beadForYear(beads []models.ThawTubeBeadMeasurement, year int) (models.ThawTubeBeadMeasurement, bool) {
	for _, b := range beads {
		if b.Year == year {
			return b, true
		}
	}
	return models.ThawTubeBeadMeasurement{}, false
}

// DumpQuery selects either every visit of a year or the latest visit per installation in
// each region. When Year is set Regions only narrows the year's visits.
type DumpQuery struct {
	Year    *int
	Regions []string
}

// Dump builds the field summary rows of src.
func Dump(src models.DumpSource, q DumpQuery) []models.DumpRow {
	idx := indexDeployments(src.Deployments)

	loggers := make(map[int64]models.Logger, len(src.Loggers))
	for _, l := range src.Loggers {
		loggers[l.ID] = l
	}
	connectors := make(map[int64]string, len(src.Cables))
	for _, c := range src.Cables {
		if _, ok := connectors[c.InstallationID]; !ok {
			connectors[c.InstallationID] = c.ConnectorType
		}
	}
	stickUps := make(map[int64]float64, len(src.StickUps))
	for _, s := range src.StickUps {
		stickUps[s.VisitID] = s.Measurement
	}

	visits := slices.Clone(src.Visits)
	slices.SortStableFunc(visits, func(a, b models.DumpVisit) int {
		if c := a.VisitDate.Compare(b.VisitDate); c != 0 {
			return c
		}
		return cmp.Compare(a.VisitID, b.VisitID)
	})

	var rows []models.DumpRow
	for _, v := range visits {
		if q.Year != nil && v.VisitDate.UTC().Year() != *q.Year {
			continue
		}
		if len(q.Regions) > 0 && !slices.Contains(q.Regions, v.Region) {
			continue
		}
		for _, pair := range idx.swaps(v.VisitID) {
			row := models.DumpRow{
				RecordedBy:         v.RecordedBy,
				VisitDate:          v.VisitDate,
				RecordOfActivities: v.Activity,
				Notes:              v.Notes,
				InstallationName:   v.InstallationName,
				InstallationCode:   v.InstallationCode,
				InstallationType:   v.InstallationType,
				Latitude:           v.Latitude,
				Longitude:          v.Longitude,
				Region:             v.Region,
			}
			row.LoggerDeployed, row.LoggerTypeDeployed, row.LoggerDeployedBatteryYear = loggerFields(pair[0], loggers)
			row.LoggerExtracted, row.LoggerTypeExtracted, _ = loggerFields(pair[1], loggers)
			if c, ok := connectors[v.InstallationID]; ok {
				row.ConnectorType = &c
			}
			if s, ok := stickUps[v.VisitID]; ok {
				row.StickUp = &s
			}
			rows = append(rows, row)
		}
	}

	if q.Year != nil {
		return rows
	}
	return latestPerInstallation(rows, q.Regions)
}

// latestPerInstallation keeps, for each installation code, the first row of its latest visit.
// Regions are emitted in the requested order, installations by code within a region.
func latestPerInstallation(rows []models.DumpRow, regions []string) []models.DumpRow {
	latest := make(map[string]models.DumpRow)
	for _, r := range rows {
		cur, ok := latest[r.InstallationCode]
		if !ok || r.VisitDate.After(cur.VisitDate) {
			latest[r.InstallationCode] = r
		}
	}

	out := make([]models.DumpRow, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	regionRank := func(region string) int {
		if i := slices.Index(regions, region); i >= 0 {
			return i
		}
		return len(regions)
	}
	slices.SortFunc(out, func(a, b models.DumpRow) int {
		if c := cmp.Compare(regionRank(a.Region), regionRank(b.Region)); c != 0 {
			return c
		}
		return cmp.Compare(a.InstallationCode, b.InstallationCode)
	})
	return out
}
