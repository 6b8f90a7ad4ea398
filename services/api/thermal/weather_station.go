package thermal

import (
	"context"
	"time"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

// CreateWeatherStation adds the weather station of an installation.
func (s *Service) CreateWeatherStation(ctx context.Context, in WeatherStationInput) (models.WeatherStation, error) {
	if err := s.check(in); err != nil {
		return models.WeatherStation{}, err
	}
	if _, err := s.GetInstallation(ctx, in.InstallationID); err != nil {
		return models.WeatherStation{}, err
	}
	existing, err := s.store.GetWeatherStationByInstallation(ctx, in.InstallationID)
	if err := conflictIf(existing, err, "a weather station is already associated with installation %d", in.InstallationID); err != nil {
		return models.WeatherStation{}, err
	}
	w, err := s.store.InsertWeatherStation(ctx, models.WeatherStation{
		InstallationID:     in.InstallationID,
		LoggerSerialNumber: in.LoggerSerialNumber,
		DateInstalled:      in.DateInstalled.Instant(),
		BatteryYear:        in.BatteryYear,
		ATStatus:           in.ATStatus,
		AnemoStatus:        in.AnemoStatus,
		SnowStatus:         in.SnowStatus,
	})
	return w, wrapStore("insert weather station", err)
}

// GetWeatherStationByInstallation returns the weather station of an installation.
func (s *Service) GetWeatherStationByInstallation(ctx context.Context, installationID int64) (models.WeatherStation, error) {
	w, err := s.store.GetWeatherStationByInstallation(ctx, installationID)
	return found(w, err, "no weather station associated with installation %d", installationID)
}

// UpdateWeatherStationStatus applies the non-null statuses of patch.
func (s *Service) UpdateWeatherStationStatus(ctx context.Context, id int64, patch models.StationStatusPatch) (models.WeatherStation, error) {
	if err := s.check(patch); err != nil {
		return models.WeatherStation{}, err
	}
	w, err := s.store.GetWeatherStation(ctx, id)
	if err := exists(w, err, "weather station %d does not exist", id); err != nil {
		return models.WeatherStation{}, err
	}
	updated, err := s.store.UpdateWeatherStationStatus(ctx, id, patch)
	return updated, wrapStore("update weather station status", err)
}

// CreateStationDownload records the station download of a visit. A visit has at most one.
func (s *Service) CreateStationDownload(ctx context.Context, in StationDownloadInput) (models.WeatherStationDownload, error) {
	if err := s.check(in); err != nil {
		return models.WeatherStationDownload{}, err
	}
	w, err := s.store.GetWeatherStation(ctx, in.WeatherStationID)
	if err := exists(w, err, "weather station %d does not exist", in.WeatherStationID); err != nil {
		return models.WeatherStationDownload{}, err
	}
	if _, err := s.GetVisit(ctx, in.VisitID); err != nil {
		return models.WeatherStationDownload{}, err
	}
	existing, err := s.store.GetStationDownloadByVisit(ctx, in.VisitID)
	if err := conflictIf(existing, err, "a weather station download is already associated with visit %d", in.VisitID); err != nil {
		return models.WeatherStationDownload{}, err
	}
	d, err := s.store.InsertStationDownload(ctx, models.WeatherStationDownload{
		VisitID:          in.VisitID,
		WeatherStationID: in.WeatherStationID,
		DownloadDate:     in.DownloadDate.Instant(),
		DownloadQuality:  in.DownloadQuality,
		ClockReset:       in.ClockReset,
		PublicTblGood:    in.PublicTblGood,
		StatusTblGood:    in.StatusTblGood,
		DailyTblGood:     in.DailyTblGood,
		HourlyTblGood:    in.HourlyTblGood,
		Notes:            in.Notes,
	})
	return d, wrapStore("insert weather station download", err)
}

// GetStationDownloadByVisit returns the station download of a visit.
func (s *Service) GetStationDownloadByVisit(ctx context.Context, visitID int64) (models.WeatherStationDownload, error) {
	d, err := s.store.GetStationDownloadByVisit(ctx, visitID)
	return found(d, err, "no weather station download associated with visit %d", visitID)
}

func (s *Service) checkStationDownload(ctx context.Context, stationID, downloadID int64) error {
	d, err := s.store.GetStationDownload(ctx, downloadID)
	if err := exists(d, err, "weather station download %d does not exist", downloadID); err != nil {
		return err
	}
	if d.WeatherStationID != stationID {
		return apperr.Validationf("download %d belongs to weather station %d, not %d", downloadID, d.WeatherStationID, stationID)
	}
	return nil
}

// CreateHourlyData stores one hourly record. Its download must belong to the same station.
func (s *Service) CreateHourlyData(ctx context.Context, in HourlyDataInput) (models.WeatherStationHourlyData, error) {
	if err := s.check(in); err != nil {
		return models.WeatherStationHourlyData{}, err
	}
	if err := s.checkStationDownload(ctx, in.WeatherStationID, in.DownloadID); err != nil {
		return models.WeatherStationHourlyData{}, err
	}
	at := in.DateTime.Instant()
	existing, err := s.store.GetHourlyData(ctx, in.WeatherStationID, at)
	if err := conflictIf(existing, err, "hourly data already exists for weather station %d at %s",
		in.WeatherStationID, at.Format(time.RFC3339)); err != nil {
		return models.WeatherStationHourlyData{}, err
	}
	d, err := s.store.InsertHourlyData(ctx, models.WeatherStationHourlyData{
		WeatherStationID: in.WeatherStationID,
		DownloadID:       in.DownloadID,
		DateTime:         at,
		InternalTempAvg:  in.InternalTempAvg,
		AirTempAvg:       in.AirTempAvg,
		WindSpeedAvg:     in.WindSpeedAvg,
		WindSpeedStd:     in.WindSpeedStd,
		SnowDepth:        in.SnowDepth,
	})
	return d, wrapStore("insert hourly data", err)
}

// GetHourlyData returns the hourly record of a station at an instant.
func (s *Service) GetHourlyData(ctx context.Context, stationID int64, at models.AwareTime) (models.WeatherStationHourlyData, error) {
	if err := s.checkValue("date", at, "required,aware"); err != nil {
		return models.WeatherStationHourlyData{}, err
	}
	d, err := s.store.GetHourlyData(ctx, stationID, at.Instant())
	return found(d, err, "no hourly data for weather station %d at %s", stationID, at)
}

// CreateDailyData stores one daily record. Its download must belong to the same station.
func (s *Service) CreateDailyData(ctx context.Context, in DailyDataInput) (models.WeatherStationDailyData, error) {
	if err := s.check(in); err != nil {
		return models.WeatherStationDailyData{}, err
	}
	if err := s.checkStationDownload(ctx, in.WeatherStationID, in.DownloadID); err != nil {
		return models.WeatherStationDailyData{}, err
	}
	at := in.DateTime.Instant()
	existing, err := s.store.GetDailyData(ctx, in.WeatherStationID, at)
	if err := conflictIf(existing, err, "daily data already exists for weather station %d at %s",
		in.WeatherStationID, at.Format(time.RFC3339)); err != nil {
		return models.WeatherStationDailyData{}, err
	}
	d, err := s.store.InsertDailyData(ctx, models.WeatherStationDailyData{
		WeatherStationID: in.WeatherStationID,
		DownloadID:       in.DownloadID,
		DateTime:         at,
		InternalTempMin:  in.InternalTempMin,
		InternalTempMax:  in.InternalTempMax,
		AirTempAvg:       in.AirTempAvg,
		AirTempMax:       in.AirTempMax,
		TimeAirTempMax:   in.TimeAirTempMax.InstantPtr(),
		AirTempMin:       in.AirTempMin,
		TimeAirTempMin:   in.TimeAirTempMin.InstantPtr(),
		WindSpeedAvg:     in.WindSpeedAvg,
		WindSpeedMax:     in.WindSpeedMax,
		TimeWindSpeedMax: in.TimeWindSpeedMax.InstantPtr(),
		SnowDepth:        in.SnowDepth,
	})
	return d, wrapStore("insert daily data", err)
}

// GetDailyData returns the daily record of a station at an instant.
func (s *Service) GetDailyData(ctx context.Context, stationID int64, at models.AwareTime) (models.WeatherStationDailyData, error) {
	if err := s.checkValue("date", at, "required,aware"); err != nil {
		return models.WeatherStationDailyData{}, err
	}
	d, err := s.store.GetDailyData(ctx, stationID, at.Instant())
	return found(d, err, "no daily data for weather station %d at %s", stationID, at)
}
