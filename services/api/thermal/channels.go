package thermal

import (
	"context"
	"time"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

func (s *Service) insertAirGroundData(ctx context.Context, in AirGroundDataInput) (models.AirGroundTemperatureData, error) {
	if err := s.check(in); err != nil {
		return models.AirGroundTemperatureData{}, err
	}
	at := in.DateTime.Instant()
	dup, err := s.store.AirGroundChannelDataExists(ctx, in.LoggerID, in.ChannelNumber, at)
	if err != nil {
		return models.AirGroundTemperatureData{}, err
	}
	if dup {
		return models.AirGroundTemperatureData{}, apperr.Conflictf("data already exists for logger %d channel %d at %s",
			in.LoggerID, in.ChannelNumber, at.Format(time.RFC3339))
	}
	dup, err = s.store.AirGroundInstallationDataExists(ctx, in.InstallationID, at)
	if err != nil {
		return models.AirGroundTemperatureData{}, err
	}
	if dup {
		return models.AirGroundTemperatureData{}, apperr.Conflictf("data already exists for installation %d at %s",
			in.InstallationID, at.Format(time.RFC3339))
	}
	d, err := s.store.InsertAirGroundData(ctx, models.AirGroundTemperatureData{
		LoggerID:         in.LoggerID,
		LoggerDownloadID: in.LoggerDownloadID,
		InstallationID:   in.InstallationID,
		DateTime:         at,
		ChannelNumber:    in.ChannelNumber,
		Temperature:      in.Temperature,
	})
	return d, wrapStore("insert air/ground data", err)
}

// CreateAirGroundData stores one reading; a silenced duplicate comes back as nil.
func (s *Service) CreateAirGroundData(ctx context.Context, in AirGroundDataInput, silence bool) (*models.AirGroundTemperatureData, error) {
	d, err := s.insertAirGroundData(ctx, in)
	if err != nil {
		if silence && apperr.IsKind(err, apperr.KindConflict) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// BulkAirGroundData is the bulk form of CreateAirGroundData.
func (s *Service) BulkAirGroundData(ctx context.Context, items []AirGroundDataInput, opts BulkOptions) []BulkResult[models.AirGroundTemperatureData] {
	results := runBulk(ctx, "air_ground_data", s.opts.BulkConcurrency, items, opts, s.insertAirGroundData)
	s.logBulk("air_ground_data", BulkSummary(results))
	return results
}

// ListAirGroundData returns the air and ground temperatures of an installation.
func (s *Service) ListAirGroundData(ctx context.Context, installationID int64) ([]models.ChannelDataRow, error) {
	rows, err := s.store.ListAirGroundData(ctx, installationID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFoundf("no air/ground data associated with installation %d", installationID)
	}
	return rows, nil
}

// AirGroundMeans averages every reading of an installation per period into one column.
func (s *Service) AirGroundMeans(ctx context.Context, installationID int64, frequency string) ([]temporal.MeanRow, error) {
	f, err := s.frequency(frequency)
	if err != nil {
		return nil, err
	}
	rows, err := s.ListAirGroundData(ctx, installationID)
	if err != nil {
		return nil, err
	}
	readings := make([]temporal.Reading, 0, len(rows))
	for _, r := range rows {
		readings = append(readings, temporal.Reading{At: r.DateTime, Channel: r.SensorNumber, Value: r.Temperature})
	}
	return temporal.AggregateSingle(readings, f)
}

// CreateFourChannelSensor registers the sensor wired to a channel from its install date on.
func (s *Service) CreateFourChannelSensor(ctx context.Context, in FourChannelSensorInput) (models.FourChannelSensor, error) {
	if err := s.check(in); err != nil {
		return models.FourChannelSensor{}, err
	}
	if _, err := s.GetInstallation(ctx, in.InstallationID); err != nil {
		return models.FourChannelSensor{}, err
	}
	installed := in.DateInstalled.Instant()
	sensors, err := s.store.ListFourChannelSensors(ctx, in.InstallationID)
	if err != nil {
		return models.FourChannelSensor{}, err
	}
	for _, sn := range sensors {
		if sn.ChannelNumber == in.ChannelNumber && sn.DateInstalled.Equal(installed) {
			return models.FourChannelSensor{}, apperr.Conflictf("channel %d of installation %d already has a sensor installed on %s",
				in.ChannelNumber, in.InstallationID, installed.Format(time.RFC3339))
		}
	}
	sensor, err := s.store.InsertFourChannelSensor(ctx, models.FourChannelSensor{
		InstallationID: in.InstallationID,
		DateInstalled:  installed,
		Depth:          in.Depth,
		ChannelNumber:  in.ChannelNumber,
	})
	return sensor, wrapStore("insert four channel sensor", err)
}

// ListFourChannelSensors returns every sensor of an installation, replaced ones included.
func (s *Service) ListFourChannelSensors(ctx context.Context, installationID int64) ([]models.FourChannelSensor, error) {
	return s.store.ListFourChannelSensors(ctx, installationID)
}

// fourChannelSensorAsOf picks the sensor wired to a channel at a given instant.
func fourChannelSensorAsOf(sensors []models.FourChannelSensor, channel int, at time.Time) (models.FourChannelSensor, bool) {
	cands := make([]temporal.Candidate[models.FourChannelSensor], 0, len(sensors))
	for _, sn := range sensors {
		if sn.ChannelNumber != channel {
			continue
		}
		installed := sn.DateInstalled
		cands = append(cands, temporal.Candidate[models.FourChannelSensor]{ID: sn.ID, At: &installed, Value: sn})
	}
	c, ok := temporal.MostRecentPrior(cands, at)
	return c.Value, ok
}

func (s *Service) insertFourChannelData(ctx context.Context, in FourChannelDataInput) (models.FourChannelData, error) {
	if err := s.check(in); err != nil {
		return models.FourChannelData{}, err
	}
	at := in.DateTime.Instant()
	sensors, err := s.store.ListFourChannelSensors(ctx, in.InstallationID)
	if err != nil {
		return models.FourChannelData{}, err
	}
	sensor, ok := fourChannelSensorAsOf(sensors, in.ChannelNumber, at)
	if !ok {
		return models.FourChannelData{}, apperr.NotFoundf("no sensor on channel %d of installation %d at %s",
			in.ChannelNumber, in.InstallationID, at.Format(time.RFC3339))
	}
	dup, err := s.store.FourChannelDataExists(ctx, sensor.ID, at)
	if err != nil {
		return models.FourChannelData{}, err
	}
	if dup {
		return models.FourChannelData{}, apperr.Conflictf("data already exists for four channel sensor %d at %s",
			sensor.ID, at.Format(time.RFC3339))
	}
	d, err := s.store.InsertFourChannelData(ctx, models.FourChannelData{
		LoggerID:            in.LoggerID,
		LoggerDownloadID:    in.LoggerDownloadID,
		InstallationID:      in.InstallationID,
		FourChannelSensorID: sensor.ID,
		DateTime:            at,
		Temperature:         in.Temperature,
	})
	return d, wrapStore("insert four channel data", err)
}

// CreateFourChannelData stores one reading against the sensor on its channel at that time.
func (s *Service) CreateFourChannelData(ctx context.Context, in FourChannelDataInput, silence bool) (*models.FourChannelData, error) {
	d, err := s.insertFourChannelData(ctx, in)
	if err != nil {
		if silence && apperr.IsKind(err, apperr.KindConflict) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// BulkFourChannelData is the bulk form of CreateFourChannelData.
func (s *Service) BulkFourChannelData(ctx context.Context, items []FourChannelDataInput, opts BulkOptions) []BulkResult[models.FourChannelData] {
	results := runBulk(ctx, "four_channel_data", s.opts.BulkConcurrency, items, opts, s.insertFourChannelData)
	s.logBulk("four_channel_data", BulkSummary(results))
	return results
}

// FourChannelMeans averages each channel per period, keyed by channel number.
func (s *Service) FourChannelMeans(ctx context.Context, installationID int64, frequency string) ([]temporal.ChannelRow, error) {
	f, err := s.frequency(frequency)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListFourChannelData(ctx, installationID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFoundf("no four channel data associated with installation %d", installationID)
	}
	readings := make([]temporal.Reading, 0, len(rows))
	for _, r := range rows {
		readings = append(readings, temporal.Reading{At: r.DateTime, Channel: r.SensorNumber, Value: r.Temperature, Depth: r.SensorDepth})
	}
	return s.aggregateChannels(readings, f)
}
