package thermal

import (
	"context"
	"errors"
	"slices"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/catalog"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

// LoggerHistory lists every visit to an installation with the loggers put in and taken out.
// Cable installations also carry the stick-up measured at each visit.
func (s *Service) LoggerHistory(ctx context.Context, installationID int64) ([]models.LoggerHistoryRow, error) {
	inst, err := s.GetInstallation(ctx, installationID)
	if err != nil {
		return nil, err
	}
	visits, err := s.store.ListVisits(ctx, installationID)
	if err != nil {
		return nil, err
	}
	deployments, err := s.store.ListDeployments(ctx, installationID)
	if err != nil {
		return nil, err
	}

	loggerIDs := make([]int64, 0, len(deployments))
	for _, d := range deployments {
		loggerIDs = append(loggerIDs, d.LoggerID)
	}
	slices.Sort(loggerIDs)
	loggerList, err := s.store.ListLoggers(ctx, slices.Compact(loggerIDs))
	if err != nil {
		return nil, err
	}
	loggers := make(map[int64]models.Logger, len(loggerList))
	for _, l := range loggerList {
		loggers[l.ID] = l
	}

	var stickUps map[int64]models.StickUp
	if inst.InstallationType == TypeCable {
		visitIDs := make([]int64, 0, len(visits))
		for _, v := range visits {
			visitIDs = append(visitIDs, v.ID)
		}
		list, err := s.store.ListStickUps(ctx, visitIDs)
		if err != nil {
			return nil, err
		}
		stickUps = make(map[int64]models.StickUp, len(list))
		for _, su := range list {
			stickUps[su.VisitID] = su
		}
	}
	return temporal.LoggerHistory(visits, deployments, loggers, stickUps), nil
}

// ThawTubeHistory lists the readings of the tube at an installation with the derived
// active-layer values.
func (s *Service) ThawTubeHistory(ctx context.Context, installationID int64) ([]models.ThawTubeHistoryRow, error) {
	tube, err := s.GetThawTubeByInstallation(ctx, installationID)
	if err != nil {
		return nil, err
	}
	readings, err := s.store.ThawTubeVisitReadings(ctx, installationID)
	if err != nil {
		return nil, err
	}
	references, err := s.store.ListThawTubeReferences(ctx, tube.ID)
	if err != nil {
		return nil, err
	}
	readingIDs := make([]int64, 0, len(readings))
	for _, r := range readings {
		readingIDs = append(readingIDs, r.ReadingID)
	}
	beads, err := s.store.ListBeadMeasurements(ctx, readingIDs)
	if err != nil {
		return nil, err
	}
	beadsByReading := make(map[int64][]models.ThawTubeBeadMeasurement)
	for _, b := range beads {
		beadsByReading[b.ReadingID] = append(beadsByReading[b.ReadingID], b)
	}

	rows, err := temporal.ThawTubeHistory(readings, references, beadsByReading, s.opts.MissingReference)
	if errors.Is(err, temporal.ErrMissingReference) {
		return nil, apperr.Validationf("thaw tube %d: %v", tube.ID, err).Wrap(err)
	}
	return rows, err
}

// Dump builds the field summary for a year or for a list of regions.
func (s *Service) Dump(ctx context.Context, q temporal.DumpQuery) ([]models.DumpRow, error) {
	if q.Year == nil && len(q.Regions) == 0 {
		return nil, apperr.Validation("year or region must be specified")
	}
	for _, r := range q.Regions {
		if !s.catalog.Contains(catalog.Regions, r) {
			return nil, apperr.Validationf("%s is not a known region", r)
		}
	}
	src, err := s.store.DumpSource(ctx, q)
	if err != nil {
		return nil, err
	}
	return temporal.Dump(src, q), nil
}
