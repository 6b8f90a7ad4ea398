package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

const airGroundCols = `id, logger_id, logger_download_id, installation_id, date_time, channel_number, temperature`

func scanAirGround(row pgx.CollectableRow) (models.AirGroundTemperatureData, error) {
	var d models.AirGroundTemperatureData
	err := row.Scan(&d.ID, &d.LoggerID, &d.LoggerDownloadID, &d.InstallationID, &d.DateTime, &d.ChannelNumber, &d.Temperature)
	d.DateTime = utc(d.DateTime)
	return d, err
}

// InsertAirGroundData inserts one air or ground temperature.
func (s *Store) InsertAirGroundData(ctx context.Context, d models.AirGroundTemperatureData) (models.AirGroundTemperatureData, error) {
	return insertOne(ctx, s, scanAirGround, `
    INSERT INTO thermal.air_ground_temperature_data
        (logger_id, logger_download_id, installation_id, date_time, channel_number, temperature)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING `+airGroundCols,
		d.LoggerID, d.LoggerDownloadID, d.InstallationID, d.DateTime, d.ChannelNumber, d.Temperature)
}

// AirGroundChannelDataExists reports whether a logger channel already has a value at an instant.
func (s *Store) AirGroundChannelDataExists(ctx context.Context, loggerID int64, channel int, at time.Time) (bool, error) {
	return s.exists(ctx, `
    SELECT 1 FROM thermal.air_ground_temperature_data
    WHERE logger_id = $1 AND channel_number = $2 AND date_time = $3`, loggerID, channel, at)
}

// AirGroundInstallationDataExists reports whether an installation already has a value at an instant.
func (s *Store) AirGroundInstallationDataExists(ctx context.Context, installationID int64, at time.Time) (bool, error) {
	return s.exists(ctx,
		`SELECT 1 FROM thermal.air_ground_temperature_data WHERE installation_id = $1 AND date_time = $2`,
		installationID, at)
}

func scanChannelRow(row pgx.CollectableRow) (models.ChannelDataRow, error) {
	var r models.ChannelDataRow
	err := row.Scan(&r.DateTime, &r.Temperature, &r.LoggerSN, &r.SensorNumber, &r.SensorDepth)
	r.DateTime = utc(r.DateTime)
	return r, err
}

const airGroundRowsSQL = `
    SELECT d.date_time, d.temperature, l.logger_serial_number, d.channel_number, NULL::double precision
    FROM thermal.air_ground_temperature_data d
    JOIN thermal.loggers l ON l.id = d.logger_id
    WHERE d.installation_id = $1
    ORDER BY d.date_time, d.channel_number
`

// ListAirGroundData returns the air and ground temperatures of an installation.
func (s *Store) ListAirGroundData(ctx context.Context, installationID int64) ([]models.ChannelDataRow, error) {
	return queryAll(ctx, s, scanChannelRow, airGroundRowsSQL, installationID)
}

const fourSensorCols = `id, installation_id, date_installed, depth, channel_number`

func scanFourSensor(row pgx.CollectableRow) (models.FourChannelSensor, error) {
	var fs models.FourChannelSensor
	err := row.Scan(&fs.ID, &fs.InstallationID, &fs.DateInstalled, &fs.Depth, &fs.ChannelNumber)
	fs.DateInstalled = utc(fs.DateInstalled)
	return fs, err
}

// InsertFourChannelSensor inserts a channel sensor and returns the stored row.
func (s *Store) InsertFourChannelSensor(ctx context.Context, fs models.FourChannelSensor) (models.FourChannelSensor, error) {
	return insertOne(ctx, s, scanFourSensor, `
    INSERT INTO thermal.four_channel_sensors (installation_id, date_installed, depth, channel_number)
    VALUES ($1, $2, $3, $4)
    RETURNING `+fourSensorCols, fs.InstallationID, fs.DateInstalled, fs.Depth, fs.ChannelNumber)
}

// ListFourChannelSensors returns the channel sensors of an installation.
func (s *Store) ListFourChannelSensors(ctx context.Context, installationID int64) ([]models.FourChannelSensor, error) {
	return queryAll(ctx, s, scanFourSensor, `
    SELECT `+fourSensorCols+` FROM thermal.four_channel_sensors
    WHERE installation_id = $1
    ORDER BY channel_number, date_installed, id`, installationID)
}

const fourDataCols = `id, logger_id, logger_download_id, installation_id, four_channel_sensor_id, date_time, temperature`

func scanFourData(row pgx.CollectableRow) (models.FourChannelData, error) {
	var d models.FourChannelData
	err := row.Scan(&d.ID, &d.LoggerID, &d.LoggerDownloadID, &d.InstallationID, &d.FourChannelSensorID,
		&d.DateTime, &d.Temperature)
	d.DateTime = utc(d.DateTime)
	return d, err
}

// InsertFourChannelData inserts one four-channel temperature.
func (s *Store) InsertFourChannelData(ctx context.Context, d models.FourChannelData) (models.FourChannelData, error) {
	return insertOne(ctx, s, scanFourData, `
    INSERT INTO thermal.four_channel_data
        (logger_id, logger_download_id, installation_id, four_channel_sensor_id, date_time, temperature)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING `+fourDataCols,
		d.LoggerID, d.LoggerDownloadID, d.InstallationID, d.FourChannelSensorID, d.DateTime, d.Temperature)
}

// FourChannelDataExists reports whether a sensor already has a value at an instant.
func (s *Store) FourChannelDataExists(ctx context.Context, sensorID int64, at time.Time) (bool, error) {
	return s.exists(ctx,
		`SELECT 1 FROM thermal.four_channel_data WHERE four_channel_sensor_id = $1 AND date_time = $2`, sensorID, at)
}

const fourDataRowsSQL = `
    SELECT d.date_time, d.temperature, l.logger_serial_number, fs.channel_number, fs.depth
    FROM thermal.four_channel_data d
    JOIN thermal.four_channel_sensors fs ON fs.id = d.four_channel_sensor_id
    JOIN thermal.loggers l ON l.id = d.logger_id
    WHERE d.installation_id = $1
    ORDER BY d.date_time, fs.channel_number
`

// ListFourChannelData returns the four-channel temperatures of an installation with channel and depth.
func (s *Store) ListFourChannelData(ctx context.Context, installationID int64) ([]models.ChannelDataRow, error) {
	return queryAll(ctx, s, scanChannelRow, fourDataRowsSQL, installationID)
}
