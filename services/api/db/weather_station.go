package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

const stationCols = `id, installation_id, logger_serial_number, date_installed, battery_year, at_status, anemo_status, snow_status`

func scanStation(row pgx.CollectableRow) (models.WeatherStation, error) {
	var w models.WeatherStation
	err := row.Scan(&w.ID, &w.InstallationID, &w.LoggerSerialNumber, &w.DateInstalled, &w.BatteryYear,
		&w.ATStatus, &w.AnemoStatus, &w.SnowStatus)
	w.DateInstalled = utc(w.DateInstalled)
	return w, err
}

// InsertWeatherStation inserts a weather station and returns the stored row.
func (s *Store) InsertWeatherStation(ctx context.Context, w models.WeatherStation) (models.WeatherStation, error) {
	return insertOne(ctx, s, scanStation, `
    INSERT INTO thermal.weather_stations
        (installation_id, logger_serial_number, date_installed, battery_year, at_status, anemo_status, snow_status)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING `+stationCols,
		w.InstallationID, w.LoggerSerialNumber, w.DateInstalled, w.BatteryYear, w.ATStatus, w.AnemoStatus, w.SnowStatus)
}

// GetWeatherStation returns the station with id, or nil.
func (s *Store) GetWeatherStation(ctx context.Context, id int64) (*models.WeatherStation, error) {
	return queryOne(ctx, s, scanStation, `SELECT `+stationCols+` FROM thermal.weather_stations WHERE id = $1`, id)
}

// GetWeatherStationByInstallation returns the station of an installation, or nil.
func (s *Store) GetWeatherStationByInstallation(ctx context.Context, installationID int64) (*models.WeatherStation, error) {
	return queryOne(ctx, s, scanStation,
		`SELECT `+stationCols+` FROM thermal.weather_stations WHERE installation_id = $1`, installationID)
}

// UpdateWeatherStationStatus writes the non-null statuses of p.
func (s *Store) UpdateWeatherStationStatus(ctx context.Context, id int64, p models.StationStatusPatch) (models.WeatherStation, error) {
	up := newPatch("thermal.weather_stations")
	setIf(up, "at_status", p.ATStatus)
	setIf(up, "anemo_status", p.AnemoStatus)
	setIf(up, "snow_status", p.SnowStatus)
	sql, args, ok := up.build(id, stationCols)
	if !ok {
		cur, err := s.GetWeatherStation(ctx, id)
		return present(cur, err, "weather station", id)
	}
	return insertOne(ctx, s, scanStation, sql, args...)
}

const stationDownloadCols = `id, visit_id, weather_station_id, download_date, download_quality, clock_reset,
    public_tbl_good, status_tbl_good, daily_tbl_good, hourly_tbl_good, notes`

func scanStationDownload(row pgx.CollectableRow) (models.WeatherStationDownload, error) {
	var d models.WeatherStationDownload
	err := row.Scan(&d.ID, &d.VisitID, &d.WeatherStationID, &d.DownloadDate, &d.DownloadQuality, &d.ClockReset,
		&d.PublicTblGood, &d.StatusTblGood, &d.DailyTblGood, &d.HourlyTblGood, &d.Notes)
	d.DownloadDate = utc(d.DownloadDate)
	return d, err
}

// InsertStationDownload inserts a station download and returns the stored row.
func (s *Store) InsertStationDownload(ctx context.Context, d models.WeatherStationDownload) (models.WeatherStationDownload, error) {
	return insertOne(ctx, s, scanStationDownload, `
    INSERT INTO thermal.weather_station_downloads
        (visit_id, weather_station_id, download_date, download_quality, clock_reset,
         public_tbl_good, status_tbl_good, daily_tbl_good, hourly_tbl_good, notes)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING `+stationDownloadCols,
		d.VisitID, d.WeatherStationID, d.DownloadDate, d.DownloadQuality, d.ClockReset,
		d.PublicTblGood, d.StatusTblGood, d.DailyTblGood, d.HourlyTblGood, d.Notes)
}

// GetStationDownload returns the station download with id, or nil.
func (s *Store) GetStationDownload(ctx context.Context, id int64) (*models.WeatherStationDownload, error) {
	return queryOne(ctx, s, scanStationDownload,
		`SELECT `+stationDownloadCols+` FROM thermal.weather_station_downloads WHERE id = $1`, id)
}

// GetStationDownloadByVisit returns the station download of a visit, or nil.
func (s *Store) GetStationDownloadByVisit(ctx context.Context, visitID int64) (*models.WeatherStationDownload, error) {
	return queryOne(ctx, s, scanStationDownload,
		`SELECT `+stationDownloadCols+` FROM thermal.weather_station_downloads WHERE visit_id = $1`, visitID)
}

const hourlyCols = `id, weather_station_id, download_id, date_time, internal_temp_avg, air_temp_avg,
    wind_speed_avg, wind_speed_std, snow_depth`

func scanHourly(row pgx.CollectableRow) (models.WeatherStationHourlyData, error) {
	var d models.WeatherStationHourlyData
	err := row.Scan(&d.ID, &d.WeatherStationID, &d.DownloadID, &d.DateTime, &d.InternalTempAvg, &d.AirTempAvg,
		&d.WindSpeedAvg, &d.WindSpeedStd, &d.SnowDepth)
	d.DateTime = utc(d.DateTime)
	return d, err
}

// InsertHourlyData inserts one hourly record.
func (s *Store) InsertHourlyData(ctx context.Context, d models.WeatherStationHourlyData) (models.WeatherStationHourlyData, error) {
	return insertOne(ctx, s, scanHourly, `
    INSERT INTO thermal.weather_station_hourly_data
        (weather_station_id, download_id, date_time, internal_temp_avg, air_temp_avg,
         wind_speed_avg, wind_speed_std, snow_depth)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING `+hourlyCols,
		d.WeatherStationID, d.DownloadID, d.DateTime, d.InternalTempAvg, d.AirTempAvg,
		d.WindSpeedAvg, d.WindSpeedStd, d.SnowDepth)
}

// GetHourlyData returns the hourly record of a station at an instant, or nil.
func (s *Store) GetHourlyData(ctx context.Context, stationID int64, at time.Time) (*models.WeatherStationHourlyData, error) {
	return queryOne(ctx, s, scanHourly,
		`SELECT `+hourlyCols+` FROM thermal.weather_station_hourly_data WHERE weather_station_id = $1 AND date_time = $2`,
		stationID, at)
}

const dailyCols = `id, weather_station_id, download_id, date_time, internal_temp_min, internal_temp_max,
    air_temp_avg, air_temp_max, time_air_temp_max, air_temp_min, time_air_temp_min,
    wind_speed_avg, wind_speed_max, time_wind_speed_max, snow_depth`

func scanDaily(row pgx.CollectableRow) (models.WeatherStationDailyData, error) {
	var d models.WeatherStationDailyData
	err := row.Scan(&d.ID, &d.WeatherStationID, &d.DownloadID, &d.DateTime, &d.InternalTempMin, &d.InternalTempMax,
		&d.AirTempAvg, &d.AirTempMax, &d.TimeAirTempMax, &d.AirTempMin, &d.TimeAirTempMin,
		&d.WindSpeedAvg, &d.WindSpeedMax, &d.TimeWindSpeedMax, &d.SnowDepth)
	d.DateTime = utc(d.DateTime)
	d.TimeAirTempMax = utcPtr(d.TimeAirTempMax)
	d.TimeAirTempMin = utcPtr(d.TimeAirTempMin)
	d.TimeWindSpeedMax = utcPtr(d.TimeWindSpeedMax)
	return d, err
}

// InsertDailyData inserts one daily record.
func (s *Store) InsertDailyData(ctx context.Context, d models.WeatherStationDailyData) (models.WeatherStationDailyData, error) {
	return insertOne(ctx, s, scanDaily, `
    INSERT INTO thermal.weather_station_daily_data
        (weather_station_id, download_id, date_time, internal_temp_min, internal_temp_max,
         air_temp_avg, air_temp_max, time_air_temp_max, air_temp_min, time_air_temp_min,
         wind_speed_avg, wind_speed_max, time_wind_speed_max, snow_depth)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    RETURNING `+dailyCols,
		d.WeatherStationID, d.DownloadID, d.DateTime, d.InternalTempMin, d.InternalTempMax,
		d.AirTempAvg, d.AirTempMax, d.TimeAirTempMax, d.AirTempMin, d.TimeAirTempMin,
		d.WindSpeedAvg, d.WindSpeedMax, d.TimeWindSpeedMax, d.SnowDepth)
}

// GetDailyData returns the daily record of a station at an instant, or nil.
func (s *Store) GetDailyData(ctx context.Context, stationID int64, at time.Time) (*models.WeatherStationDailyData, error) {
	return queryOne(ctx, s, scanDaily,
		`SELECT `+dailyCols+` FROM thermal.weather_station_daily_data WHERE weather_station_id = $1 AND date_time = $2`,
		stationID, at)
}
