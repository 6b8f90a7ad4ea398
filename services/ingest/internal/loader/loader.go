// Package loader turns parsed exports into bulk inserts against the thermal service.
package loader

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
	"github.com/02loveslollipop/permafrost-field-api/services/ingest/internal/config"
	"github.com/02loveslollipop/permafrost-field-api/services/ingest/internal/export"
)

// Service is the part of the thermal service an ingest run needs.
type Service interface {
	GetDownload(ctx context.Context, id int64) (models.LoggerDownload, error)
	GetDeployment(ctx context.Context, id int64) (models.LoggerDeployment, error)
	GetCableByInstallation(ctx context.Context, installationID int64) (models.Cable, error)
	SensorsAtPosition(ctx context.Context, cableID int64, number int) ([]models.CableSensor, error)
	BulkCableLoggerData(ctx context.Context, items []thermal.CableLoggerDataInput, opts thermal.BulkOptions) []thermal.BulkResult[models.CableLoggerData]
	BulkAirGroundData(ctx context.Context, items []thermal.AirGroundDataInput, opts thermal.BulkOptions) []thermal.BulkResult[models.AirGroundTemperatureData]
	BulkFourChannelData(ctx context.Context, items []thermal.FourChannelDataInput, opts thermal.BulkOptions) []thermal.BulkResult[models.FourChannelData]
}

// Target identifies where an export is loaded.
type Target struct {
	InstallationID   int64
	LoggerDownloadID int64
	Kind             config.Kind
	DryRun           bool
}

// Summary counts readings by outcome.
type Summary struct {
	Read             int
	Unresolved       int
	Prepared         int
	Success          int
	SkippedDuplicate int
	Failed           int
}

// Loader resolves readings and submits them.
type Loader struct {
	svc Service
	log zerolog.Logger
}

// New builds a Loader.
func New(svc Service, log zerolog.Logger) *Loader {
	return &Loader{svc: svc, log: log}
}

// Load submits every reading of an export with duplicate silencing. In dry-run mode the
// readings are resolved but nothing is written.
func (l *Loader) Load(ctx context.Context, target Target, readings []export.Reading) (Summary, error) {
	sum := Summary{Read: len(readings)}

	loggerID, err := l.downloadLogger(ctx, target)
	if err != nil {
		return sum, err
	}

	opts := thermal.BulkOptions{SilenceDuplicates: true}
	switch target.Kind {
	case config.KindCable:
		items, lines, err := l.cableItems(ctx, target, loggerID, readings, &sum)
		if err != nil {
			return sum, err
		}
		sum.Prepared = len(items)
		if target.DryRun || len(items) == 0 {
			return sum, nil
		}
		tally(l.log, &sum, lines, l.svc.BulkCableLoggerData(ctx, items, opts))

	case config.KindAirGround:
		items := make([]thermal.AirGroundDataInput, 0, len(readings))
		for _, r := range readings {
			items = append(items, thermal.AirGroundDataInput{
				LoggerID:         loggerID,
				LoggerDownloadID: target.LoggerDownloadID,
				InstallationID:   target.InstallationID,
				DateTime:         r.DateTime,
				ChannelNumber:    r.Channel,
				Temperature:      r.Value,
			})
		}
		sum.Prepared = len(items)
		if target.DryRun || len(items) == 0 {
			return sum, nil
		}
		tally(l.log, &sum, lineNumbers(readings), l.svc.BulkAirGroundData(ctx, items, opts))

	case config.KindFourChannel:
		items := make([]thermal.FourChannelDataInput, 0, len(readings))
		for _, r := range readings {
			items = append(items, thermal.FourChannelDataInput{
				LoggerID:         loggerID,
				LoggerDownloadID: target.LoggerDownloadID,
				InstallationID:   target.InstallationID,
				ChannelNumber:    r.Channel,
				DateTime:         r.DateTime,
				Temperature:      r.Value,
			})
		}
		sum.Prepared = len(items)
		if target.DryRun || len(items) == 0 {
			return sum, nil
		}
		tally(l.log, &sum, lineNumbers(readings), l.svc.BulkFourChannelData(ctx, items, opts))

	default:
		return sum, fmt.Errorf("unknown kind %q", target.Kind)
	}
	return sum, nil
}

// downloadLogger returns the logger that produced the download, after checking the download
// belongs to a deployment at the target installation.
func (l *Loader) downloadLogger(ctx context.Context, target Target) (int64, error) {
	dl, err := l.svc.GetDownload(ctx, target.LoggerDownloadID)
	if err != nil {
		return 0, err
	}
	dep, err := l.svc.GetDeployment(ctx, dl.DeploymentID)
	if err != nil {
		return 0, err
	}
	if dep.InstallationID != target.InstallationID {
		return 0, fmt.Errorf("download %d belongs to installation %d, not %d",
			dl.ID, dep.InstallationID, target.InstallationID)
	}
	return dl.LoggerID, nil
}

// cableItems maps each reading's channel to the sensor that occupied that chain position at
// the reading time. Readings with no such sensor are counted and left out.
func (l *Loader) cableItems(
	ctx context.Context,
	target Target,
	loggerID int64,
	readings []export.Reading,
	sum *Summary,
) ([]thermal.CableLoggerDataInput, []int, error) {
	cable, err := l.svc.GetCableByInstallation(ctx, target.InstallationID)
	if err != nil {
		return nil, nil, err
	}

	positions := make(map[int][]temporal.Candidate[models.CableSensor])
	items := make([]thermal.CableLoggerDataInput, 0, len(readings))
	lines := make([]int, 0, len(readings))
	for _, r := range readings {
		cands, ok := positions[r.Channel]
		if !ok {
			sensors, err := l.svc.SensorsAtPosition(ctx, cable.ID, r.Channel)
			if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
				return nil, nil, err
			}
			for _, sn := range sensors {
				cands = append(cands, temporal.Candidate[models.CableSensor]{ID: sn.ID, At: sn.DateInstalled, Value: sn})
			}
			positions[r.Channel] = cands
		}

		at := r.DateTime.Instant()
		sensor, ok := temporal.MostRecentPrior(cands, at)
		if !ok {
			sum.Unresolved++
			l.log.Warn().
				Int("line", r.Line).
				Int("channel", r.Channel).
				Time("date_time", at).
				Msg("no cable sensor at that position and time")
			continue
		}
		items = append(items, thermal.CableLoggerDataInput{
			LoggerID:         loggerID,
			LoggerDownloadID: target.LoggerDownloadID,
			CableSensorID:    sensor.Value.ID,
			InstallationID:   target.InstallationID,
			DateTime:         r.DateTime,
			Temperature:      r.Value,
		})
		lines = append(lines, r.Line)
	}
	return items, lines, nil
}

func lineNumbers(readings []export.Reading) []int {
	out := make([]int, len(readings))
	for i, r := range readings {
		out[i] = r.Line
	}
	return out
}

// tally folds bulk results into the summary, logging each failure by export line.
func tally[T any](log zerolog.Logger, sum *Summary, lines []int, results []thermal.BulkResult[T]) {
	for _, res := range results {
		switch res.Status {
		case thermal.BulkSuccess:
			sum.Success++
		case thermal.BulkSkippedDuplicate:
			sum.SkippedDuplicate++
		case thermal.BulkFailed:
			sum.Failed++
			log.Warn().Int("line", lines[res.Index]).Str("error", res.Error).Msg("reading rejected")
		}
	}
}
