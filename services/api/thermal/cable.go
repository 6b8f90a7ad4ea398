package thermal

import (
	"context"
	"errors"
	"time"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/catalog"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

// CreateCable adds the cable of an installation. An installation holds at most one cable.
func (s *Service) CreateCable(ctx context.Context, in CableInput) (models.Cable, error) {
	if err := s.check(in); err != nil {
		return models.Cable{}, err
	}
	if _, err := s.GetInstallation(ctx, in.InstallationID); err != nil {
		return models.Cable{}, err
	}
	existing, err := s.store.GetCableByInstallation(ctx, in.InstallationID)
	if err := conflictIf(existing, err, "a cable is already associated with installation %d", in.InstallationID); err != nil {
		return models.Cable{}, err
	}
	c, err := s.store.InsertCable(ctx, models.Cable{
		InstallationID: in.InstallationID,
		ConnectorType:  in.ConnectorType,
		Length:         in.Length,
		NumSensors:     in.NumSensors,
		BoreholeDepth:  in.BoreholeDepth,
	})
	return c, wrapStore("insert cable", err)
}

// GetCableByInstallation returns the cable installed at an installation.
func (s *Service) GetCableByInstallation(ctx context.Context, installationID int64) (models.Cable, error) {
	c, err := s.store.GetCableByInstallation(ctx, installationID)
	return found(c, err, "no cable associated with installation %d", installationID)
}

// UpdateCable applies the non-null fields of patch.
func (s *Service) UpdateCable(ctx context.Context, id int64, patch models.CablePatch) (models.Cable, error) {
	if err := s.check(patch); err != nil {
		return models.Cable{}, err
	}
	c, err := s.store.GetCable(ctx, id)
	if err := exists(c, err, "cable %d does not exist", id); err != nil {
		return models.Cable{}, err
	}
	updated, err := s.store.UpdateCable(ctx, id, patch)
	return updated, wrapStore("update cable", err)
}

// CreateCableSensor adds a sensor at a chain position. A sensor without an install date
// counts as installed since the sentinel date when matched.
func (s *Service) CreateCableSensor(ctx context.Context, in CableSensorInput) (models.CableSensor, error) {
	if err := s.check(in); err != nil {
		return models.CableSensor{}, err
	}
	c, err := s.store.GetCable(ctx, in.CableID)
	if err := exists(c, err, "cable %d does not exist", in.CableID); err != nil {
		return models.CableSensor{}, err
	}
	installed := in.DateInstalled.InstantPtr()
	existing, err := s.store.GetCableSensorByInstallDate(ctx, in.CableID, in.NumberInChain, installed)
	if err := conflictIf(existing, err, "sensor %d of cable %d already exists for that install date",
		in.NumberInChain, in.CableID); err != nil {
		return models.CableSensor{}, err
	}
	sensor, err := s.store.InsertCableSensor(ctx, models.CableSensor{
		CableID:       in.CableID,
		DateInstalled: installed,
		Depth:         in.Depth,
		SensorType:    in.SensorType,
		NumberInChain: in.NumberInChain,
	})
	return sensor, wrapStore("insert cable sensor", err)
}

// GetCableSensor returns a cable sensor by id.
func (s *Service) GetCableSensor(ctx context.Context, id int64) (models.CableSensor, error) {
	sensor, err := s.store.GetCableSensor(ctx, id)
	return found(sensor, err, "cable sensor %d does not exist", id)
}

// ListCableSensors returns every sensor of a cable, replaced ones included.
func (s *Service) ListCableSensors(ctx context.Context, cableID int64) ([]models.CableSensor, error) {
	sensors, err := s.store.ListCableSensors(ctx, cableID)
	if err != nil {
		return nil, err
	}
	if len(sensors) == 0 {
		return nil, apperr.NotFoundf("no sensors recorded for cable %d", cableID)
	}
	return sensors, nil
}

// SensorsAtPosition lists every sensor ever installed at a chain position.
func (s *Service) SensorsAtPosition(ctx context.Context, cableID int64, number int) ([]models.CableSensor, error) {
	sensors, err := s.store.ListCableSensorsAtPosition(ctx, cableID, number)
	if err != nil {
		return nil, err
	}
	if len(sensors) == 0 {
		return nil, apperr.NotFoundf("sensor %d does not exist in cable %d", number, cableID)
	}
	return sensors, nil
}

// SensorAsOf returns the sensor that occupied a chain position at a date: the one installed
// most recently on or before it. Sensors without an install date date from cable creation.
func (s *Service) SensorAsOf(ctx context.Context, cableID int64, number int, at models.AwareTime) (models.CableSensor, error) {
	if err := s.checkValue("date", at, "required,aware"); err != nil {
		return models.CableSensor{}, err
	}
	return s.sensorAsOf(ctx, cableID, number, at.Instant())
}

func (s *Service) sensorAsOf(ctx context.Context, cableID int64, number int, at time.Time) (models.CableSensor, error) {
	sensors, err := s.store.ListCableSensorsAtPosition(ctx, cableID, number)
	if err != nil {
		return models.CableSensor{}, err
	}
	cands := make([]temporal.Candidate[models.CableSensor], 0, len(sensors))
	for _, sn := range sensors {
		cands = append(cands, temporal.Candidate[models.CableSensor]{ID: sn.ID, At: sn.DateInstalled, Value: sn})
	}
	c, ok := temporal.MostRecentPrior(cands, at)
	if !ok {
		return models.CableSensor{}, apperr.NotFoundf("no sensor %d in cable %d on %s", number, cableID, at.Format(time.RFC3339))
	}
	return c.Value, nil
}

// CableSensorsAtInstallation lists the sensors of the cable at an installation.
func (s *Service) CableSensorsAtInstallation(ctx context.Context, installationID int64) ([]models.CableSensor, error) {
	c, err := s.GetCableByInstallation(ctx, installationID)
	if err != nil {
		return nil, err
	}
	return s.ListCableSensors(ctx, c.ID)
}

// UpdateCableSensor applies the non-null fields of patch.
func (s *Service) UpdateCableSensor(ctx context.Context, id int64, patch models.CableSensorPatch) (models.CableSensor, error) {
	if err := s.check(patch); err != nil {
		return models.CableSensor{}, err
	}
	if patch.DateInstalled != nil {
		if err := s.checkValue("date_installed", *patch.DateInstalled, "aware"); err != nil {
			return models.CableSensor{}, err
		}
	}
	if _, err := s.GetCableSensor(ctx, id); err != nil {
		return models.CableSensor{}, err
	}
	sensor, err := s.store.UpdateCableSensor(ctx, id, patch)
	return sensor, wrapStore("update cable sensor", err)
}

// CreateManualRead stores a hand-held reading. A resistance reading is converted to a
// temperature with the formula of the sensor's type.
func (s *Service) CreateManualRead(ctx context.Context, in ManualReadInput) (models.CableManualRead, error) {
	if err := s.check(in); err != nil {
		return models.CableManualRead{}, err
	}
	if (in.Temperature == nil) == (in.Resistance == nil) {
		return models.CableManualRead{}, apperr.Validation("either temperature or resistance must be specified but not both")
	}
	sensor, err := s.GetCableSensor(ctx, in.CableSensorID)
	if err != nil {
		return models.CableManualRead{}, err
	}
	if _, err := s.GetVisit(ctx, in.VisitID); err != nil {
		return models.CableManualRead{}, err
	}
	existing, err := s.store.GetManualRead(ctx, in.CableSensorID, in.VisitID)
	if err := conflictIf(existing, err, "sensor %d already has a manual read from visit %d", in.CableSensorID, in.VisitID); err != nil {
		return models.CableManualRead{}, err
	}

	read := models.CableManualRead{
		CableSensorID:  in.CableSensorID,
		InstallationID: in.InstallationID,
		VisitID:        in.VisitID,
		Temperature:    in.Temperature,
		Resistance:     in.Resistance,
		OL:             in.OL,
		DriftUp:        in.DriftUp,
		DriftDown:      in.DriftDown,
	}
	if in.Resistance != nil {
		t, err := s.convertResistance(sensor.SensorType, *in.Resistance)
		if err != nil {
			return models.CableManualRead{}, err
		}
		read.Temperature = &t
	}
	stored, err := s.store.InsertManualRead(ctx, read)
	return stored, wrapStore("insert manual read", err)
}

func (s *Service) convertResistance(sensorType string, resistance float64) (float64, error) {
	st, ok := s.catalog.SensorType(sensorType)
	if !ok {
		return 0, apperr.UnsupportedConversionf("sensor type %s is not in the catalog", sensorType)
	}
	t, err := st.ResistanceToTemperature(resistance)
	if errors.Is(err, catalog.ErrNoFormula) {
		return 0, apperr.UnsupportedConversionf(
			"sensor type %s does not have a formula for converting resistance to temperature", sensorType).Wrap(err)
	}
	if err != nil {
		return 0, apperr.Validation(err.Error())
	}
	return t, nil
}

// GetManualRead returns the manual read of a sensor during a visit.
func (s *Service) GetManualRead(ctx context.Context, sensorID, visitID int64) (models.CableManualRead, error) {
	r, err := s.store.GetManualRead(ctx, sensorID, visitID)
	return found(r, err, "no manual read of sensor %d from visit %d", sensorID, visitID)
}

// ListManualReads returns the manual reads of an installation with their visit dates.
func (s *Service) ListManualReads(ctx context.Context, installationID int64) ([]models.ManualReadRow, error) {
	rows, err := s.store.ListManualReads(ctx, installationID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFoundf("no manual cable readings associated with installation %d", installationID)
	}
	return rows, nil
}

// insertCableLoggerData stores one reading unless the logger already logged that sensor at
// that instant, or any logger did.
func (s *Service) insertCableLoggerData(ctx context.Context, in CableLoggerDataInput) (models.CableLoggerData, error) {
	if err := s.check(in); err != nil {
		return models.CableLoggerData{}, err
	}
	d := in.model()
	dup, err := s.store.CableLoggerDataExists(ctx, d.LoggerID, d.CableSensorID, d.DateTime)
	if err != nil {
		return models.CableLoggerData{}, err
	}
	if dup {
		return models.CableLoggerData{}, apperr.Conflictf("data already exists for logger %d and cable sensor %d at %s",
			d.LoggerID, d.CableSensorID, d.DateTime.Format(time.RFC3339))
	}
	dup, err = s.store.CableSensorDataExists(ctx, d.CableSensorID, d.DateTime)
	if err != nil {
		return models.CableLoggerData{}, err
	}
	if dup {
		return models.CableLoggerData{}, apperr.Conflictf("data already exists for installation %d at %s",
			d.InstallationID, d.DateTime.Format(time.RFC3339))
	}
	stored, err := s.store.InsertCableLoggerData(ctx, d)
	return stored, wrapStore("insert cable logger data", err)
}

// CreateCableLoggerData stores one reading. With silence set a duplicate is skipped and
// reported as a nil record.
func (s *Service) CreateCableLoggerData(ctx context.Context, in CableLoggerDataInput, silence bool) (*models.CableLoggerData, error) {
	d, err := s.insertCableLoggerData(ctx, in)
	if err != nil {
		if silence && apperr.IsKind(err, apperr.KindConflict) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// BulkCableLoggerData inserts items concurrently and reports one result per item, in input order.
func (s *Service) BulkCableLoggerData(ctx context.Context, items []CableLoggerDataInput, opts BulkOptions) []BulkResult[models.CableLoggerData] {
	results := runBulk(ctx, "cable_logger_data", s.opts.BulkConcurrency, items, opts, s.insertCableLoggerData)
	s.logBulk("cable_logger_data", BulkSummary(results))
	return results
}

// ListCableLoggerData returns the logged cable temperatures of an installation.
func (s *Service) ListCableLoggerData(ctx context.Context, installationID int64) ([]models.CableLoggerDataRow, error) {
	rows, err := s.store.ListCableLoggerData(ctx, installationID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFoundf("no cable logger data associated with installation %d", installationID)
	}
	return rows, nil
}

// CableMeans averages the logged temperatures of each chain position per period.
func (s *Service) CableMeans(ctx context.Context, installationID int64, frequency string) ([]temporal.ChannelRow, error) {
	f, err := s.frequency(frequency)
	if err != nil {
		return nil, err
	}
	rows, err := s.ListCableLoggerData(ctx, installationID)
	if err != nil {
		return nil, err
	}
	readings := make([]temporal.Reading, 0, len(rows))
	for _, r := range rows {
		depth := r.SensorDepth
		readings = append(readings, temporal.Reading{At: r.DateTime, Channel: r.SensorNumber, Value: r.Temperature, Depth: &depth})
	}
	return s.aggregateChannels(readings, f)
}

func (s *Service) frequency(raw string) (temporal.Frequency, error) {
	if raw == "" {
		return temporal.Daily, nil
	}
	f, err := temporal.ParseFrequency(raw)
	if err != nil || !s.catalog.Contains(catalog.Frequencies, raw) {
		return "", apperr.Validationf("frequency %s not in %v", raw, s.catalog.Values(catalog.Frequencies))
	}
	return f, nil
}

func (s *Service) aggregateChannels(readings []temporal.Reading, f temporal.Frequency) ([]temporal.ChannelRow, error) {
	rows, err := temporal.AggregateChannels(readings, f, s.catalog.MaxChannels)
	if errors.Is(err, temporal.ErrTooManyChannels) {
		return nil, apperr.Validation(err.Error())
	}
	return rows, err
}

// CreateStickUp records the stick-up of a visit. A visit has at most one.
func (s *Service) CreateStickUp(ctx context.Context, in StickUpInput) (models.StickUp, error) {
	if err := s.check(in); err != nil {
		return models.StickUp{}, err
	}
	if _, err := s.GetVisit(ctx, in.VisitID); err != nil {
		return models.StickUp{}, err
	}
	existing, err := s.store.GetStickUp(ctx, in.VisitID)
	if err := conflictIf(existing, err, "stick up already recorded during visit %d", in.VisitID); err != nil {
		return models.StickUp{}, err
	}
	su, err := s.store.InsertStickUp(ctx, models.StickUp{VisitID: in.VisitID, Measurement: in.Measurement, Reference: in.Reference})
	return su, wrapStore("insert stick up", err)
}

// GetStickUp returns the stick-up measured during a visit.
func (s *Service) GetStickUp(ctx context.Context, visitID int64) (models.StickUp, error) {
	su, err := s.store.GetStickUp(ctx, visitID)
	return found(su, err, "no stick up recorded during visit %d", visitID)
}

// CreateSensorMapping maps a cable sensor to its connector wires.
func (s *Service) CreateSensorMapping(ctx context.Context, in SensorMappingInput) (models.CableSensorMapping, error) {
	if err := s.check(in); err != nil {
		return models.CableSensorMapping{}, err
	}
	sensor, err := s.GetCableSensor(ctx, in.CableSensorID)
	if err != nil {
		return models.CableSensorMapping{}, err
	}
	if sensor.CableID != in.CableID {
		return models.CableSensorMapping{}, apperr.Validationf("cable sensor %d is not part of cable %d", in.CableSensorID, in.CableID)
	}
	existing, err := s.store.GetSensorMapping(ctx, in.CableSensorID)
	if err := conflictIf(existing, err, "cable sensor %d is already mapped", in.CableSensorID); err != nil {
		return models.CableSensorMapping{}, err
	}
	m, err := s.store.InsertSensorMapping(ctx, models.CableSensorMapping{
		CableID:       in.CableID,
		CableSensorID: in.CableSensorID,
		Mapping1:      in.Mapping1,
		Mapping2:      in.Mapping2,
		NumberInChain: sensor.NumberInChain,
	})
	return m, wrapStore("insert cable sensor mapping", err)
}

func (s *Service) logBulk(kind string, summary map[BulkStatus]int) {
	s.log.Info().
		Str("kind", kind).
		Int("success", summary[BulkSuccess]).
		Int("skipped_duplicate", summary[BulkSkippedDuplicate]).
		Int("failed", summary[BulkFailed]).
		Msg("bulk insert finished")
}
