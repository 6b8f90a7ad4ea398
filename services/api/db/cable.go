package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

const cableCols = `id, installation_id, connector_type, length, num_sensors, borehole_depth`

func scanCable(row pgx.CollectableRow) (models.Cable, error) {
	var c models.Cable
	err := row.Scan(&c.ID, &c.InstallationID, &c.ConnectorType, &c.Length, &c.NumSensors, &c.BoreholeDepth)
	return c, err
}

// InsertCable inserts a cable and returns the stored row.
func (s *Store) InsertCable(ctx context.Context, c models.Cable) (models.Cable, error) {
	return insertOne(ctx, s, scanCable, `
    INSERT INTO thermal.cables (installation_id, connector_type, length, num_sensors, borehole_depth)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+cableCols, c.InstallationID, c.ConnectorType, c.Length, c.NumSensors, c.BoreholeDepth)
}

// GetCable returns the cable with id, or nil.
func (s *Store) GetCable(ctx context.Context, id int64) (*models.Cable, error) {
	return queryOne(ctx, s, scanCable, `SELECT `+cableCols+` FROM thermal.cables WHERE id = $1`, id)
}

// GetCableByInstallation returns the cable of an installation, or nil.
func (s *Store) GetCableByInstallation(ctx context.Context, installationID int64) (*models.Cable, error) {
	return queryOne(ctx, s, scanCable, `SELECT `+cableCols+` FROM thermal.cables WHERE installation_id = $1`, installationID)
}

// UpdateCable writes the non-null fields of p and returns the updated row.
func (s *Store) UpdateCable(ctx context.Context, id int64, p models.CablePatch) (models.Cable, error) {
	up := newPatch("thermal.cables")
	setIf(up, "connector_type", p.ConnectorType)
	setIf(up, "length", p.Length)
	setIf(up, "num_sensors", p.NumSensors)
	setIf(up, "borehole_depth", p.BoreholeDepth)
	sql, args, ok := up.build(id, cableCols)
	if !ok {
		cur, err := s.GetCable(ctx, id)
		return present(cur, err, "cable", id)
	}
	return insertOne(ctx, s, scanCable, sql, args...)
}

const sensorCols = `id, cable_id, date_installed, depth, sensor_type, number_in_chain`

func scanSensor(row pgx.CollectableRow) (models.CableSensor, error) {
	var c models.CableSensor
	err := row.Scan(&c.ID, &c.CableID, &c.DateInstalled, &c.Depth, &c.SensorType, &c.NumberInChain)
	c.DateInstalled = utcPtr(c.DateInstalled)
	return c, err
}

// InsertCableSensor inserts a cable sensor and returns the stored row.
func (s *Store) InsertCableSensor(ctx context.Context, c models.CableSensor) (models.CableSensor, error) {
	return insertOne(ctx, s, scanSensor, `
    INSERT INTO thermal.cable_sensors (cable_id, date_installed, depth, sensor_type, number_in_chain)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+sensorCols, c.CableID, c.DateInstalled, c.Depth, c.SensorType, c.NumberInChain)
}

// GetCableSensor returns the cable sensor with id, or nil.
func (s *Store) GetCableSensor(ctx context.Context, id int64) (*models.CableSensor, error) {
	return queryOne(ctx, s, scanSensor, `SELECT `+sensorCols+` FROM thermal.cable_sensors WHERE id = $1`, id)
}

// GetCableSensorByInstallDate matches a nil install date against sensors that have none.
func (s *Store) GetCableSensorByInstallDate(ctx context.Context, cableID int64, number int, installed *time.Time) (*models.CableSensor, error) {
	return queryOne(ctx, s, scanSensor, `
    SELECT `+sensorCols+` FROM thermal.cable_sensors
    WHERE cable_id = $1 AND number_in_chain = $2 AND date_installed IS NOT DISTINCT FROM $3::timestamptz`,
		cableID, number, installed)
}

// ListCableSensors returns the sensors of a cable ordered by chain position.
func (s *Store) ListCableSensors(ctx context.Context, cableID int64) ([]models.CableSensor, error) {
	return queryAll(ctx, s, scanSensor, `
    SELECT `+sensorCols+` FROM thermal.cable_sensors
    WHERE cable_id = $1
    ORDER BY number_in_chain, date_installed NULLS FIRST, id`, cableID)
}

// ListCableSensorsAtPosition returns every sensor that has occupied a chain position.
func (s *Store) ListCableSensorsAtPosition(ctx context.Context, cableID int64, number int) ([]models.CableSensor, error) {
	return queryAll(ctx, s, scanSensor, `
    SELECT `+sensorCols+` FROM thermal.cable_sensors
    WHERE cable_id = $1 AND number_in_chain = $2
    ORDER BY date_installed NULLS FIRST, id`, cableID, number)
}

// ListCableSensorsAtInstallation joins through the cable of an installation.
func (s *Store) ListCableSensorsAtInstallation(ctx context.Context, installationID int64) ([]models.CableSensor, error) {
	return queryAll(ctx, s, scanSensor, `
    SELECT cs.id, cs.cable_id, cs.date_installed, cs.depth, cs.sensor_type, cs.number_in_chain
    FROM thermal.cable_sensors cs
    JOIN thermal.cables c ON c.id = cs.cable_id
    WHERE c.installation_id = $1
    ORDER BY cs.number_in_chain, cs.date_installed NULLS FIRST, cs.id`, installationID)
}

// UpdateCableSensor writes the non-null fields of p and returns the updated row.
func (s *Store) UpdateCableSensor(ctx context.Context, id int64, p models.CableSensorPatch) (models.CableSensor, error) {
	up := newPatch("thermal.cable_sensors")
	setIf(up, "date_installed", p.DateInstalled.InstantPtr())
	setIf(up, "depth", p.Depth)
	setIf(up, "sensor_type", p.SensorType)
	setIf(up, "number_in_chain", p.NumberInChain)
	sql, args, ok := up.build(id, sensorCols)
	if !ok {
		cur, err := s.GetCableSensor(ctx, id)
		return present(cur, err, "cable sensor", id)
	}
	return insertOne(ctx, s, scanSensor, sql, args...)
}

const manualReadCols = `id, cable_sensor_id, installation_id, visit_id, temperature, resistance, ol, drift_up, drift_down`

func scanManualRead(row pgx.CollectableRow) (models.CableManualRead, error) {
	var r models.CableManualRead
	err := row.Scan(&r.ID, &r.CableSensorID, &r.InstallationID, &r.VisitID,
		&r.Temperature, &r.Resistance, &r.OL, &r.DriftUp, &r.DriftDown)
	return r, err
}

// InsertManualRead inserts a manual read and returns the stored row.
func (s *Store) InsertManualRead(ctx context.Context, r models.CableManualRead) (models.CableManualRead, error) {
	return insertOne(ctx, s, scanManualRead, `
    INSERT INTO thermal.cable_manual_reads
        (cable_sensor_id, installation_id, visit_id, temperature, resistance, ol, drift_up, drift_down)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING `+manualReadCols,
		r.CableSensorID, r.InstallationID, r.VisitID, r.Temperature, r.Resistance, r.OL, r.DriftUp, r.DriftDown)
}

// GetManualRead returns the read of a sensor during a visit, or nil.
func (s *Store) GetManualRead(ctx context.Context, sensorID, visitID int64) (*models.CableManualRead, error) {
	return queryOne(ctx, s, scanManualRead,
		`SELECT `+manualReadCols+` FROM thermal.cable_manual_reads WHERE cable_sensor_id = $1 AND visit_id = $2`,
		sensorID, visitID)
}

const manualReadRowsSQL = `
    SELECT r.temperature, r.resistance, r.ol, r.drift_up, r.drift_down,
           cs.number_in_chain, cs.depth, cs.sensor_type, v.visit_date
    FROM thermal.cable_manual_reads r
    JOIN thermal.cable_sensors cs ON cs.id = r.cable_sensor_id
    JOIN thermal.installation_visits v ON v.id = r.visit_id
    WHERE r.installation_id = $1
    ORDER BY v.visit_date, cs.number_in_chain
`

// ListManualReads returns the manual reads of an installation with visit dates.
func (s *Store) ListManualReads(ctx context.Context, installationID int64) ([]models.ManualReadRow, error) {
	return queryAll(ctx, s, func(row pgx.CollectableRow) (models.ManualReadRow, error) {
		var r models.ManualReadRow
		err := row.Scan(&r.Temperature, &r.Resistance, &r.OL, &r.DriftUp, &r.DriftDown,
			&r.SensorNumber, &r.SensorDepth, &r.SensorType, &r.VisitDate)
		r.VisitDate = utc(r.VisitDate)
		return r, err
	}, manualReadRowsSQL, installationID)
}

const cableDataCols = `id, logger_id, logger_download_id, cable_sensor_id, installation_id, date_time, temperature`

func scanCableData(row pgx.CollectableRow) (models.CableLoggerData, error) {
	var d models.CableLoggerData
	err := row.Scan(&d.ID, &d.LoggerID, &d.LoggerDownloadID, &d.CableSensorID, &d.InstallationID, &d.DateTime, &d.Temperature)
	d.DateTime = utc(d.DateTime)
	return d, err
}

// InsertCableLoggerData inserts one logged cable temperature.
func (s *Store) InsertCableLoggerData(ctx context.Context, d models.CableLoggerData) (models.CableLoggerData, error) {
	return insertOne(ctx, s, scanCableData, `
    INSERT INTO thermal.cable_logger_data
        (logger_id, logger_download_id, cable_sensor_id, installation_id, date_time, temperature)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING `+cableDataCols,
		d.LoggerID, d.LoggerDownloadID, d.CableSensorID, d.InstallationID, d.DateTime, d.Temperature)
}

// CableLoggerDataExists reports whether a logger already recorded the sensor at an instant.
func (s *Store) CableLoggerDataExists(ctx context.Context, loggerID, sensorID int64, at time.Time) (bool, error) {
	return s.exists(ctx, `
    SELECT 1 FROM thermal.cable_logger_data
    WHERE logger_id = $1 AND cable_sensor_id = $2 AND date_time = $3`, loggerID, sensorID, at)
}

// CableSensorDataExists reports whether any logger recorded the sensor at an instant.
func (s *Store) CableSensorDataExists(ctx context.Context, sensorID int64, at time.Time) (bool, error) {
	return s.exists(ctx,
		`SELECT 1 FROM thermal.cable_logger_data WHERE cable_sensor_id = $1 AND date_time = $2`, sensorID, at)
}

const cableDataRowsSQL = `
    SELECT d.date_time, d.temperature, l.logger_serial_number, cs.number_in_chain, cs.depth
    FROM thermal.cable_logger_data d
    JOIN thermal.cable_sensors cs ON cs.id = d.cable_sensor_id
    JOIN thermal.loggers l ON l.id = d.logger_id
    WHERE d.installation_id = $1
    ORDER BY d.date_time, cs.number_in_chain
`

// ListCableLoggerData returns the logged temperatures of an installation with sensor position and depth.
func (s *Store) ListCableLoggerData(ctx context.Context, installationID int64) ([]models.CableLoggerDataRow, error) {
	return queryAll(ctx, s, func(row pgx.CollectableRow) (models.CableLoggerDataRow, error) {
		var r models.CableLoggerDataRow
		err := row.Scan(&r.DateTime, &r.Temperature, &r.LoggerSN, &r.SensorNumber, &r.SensorDepth)
		r.DateTime = utc(r.DateTime)
		return r, err
	}, cableDataRowsSQL, installationID)
}

const stickUpCols = `id, visit_id, measurement, reference`

func scanStickUp(row pgx.CollectableRow) (models.StickUp, error) {
	var su models.StickUp
	err := row.Scan(&su.ID, &su.VisitID, &su.Measurement, &su.Reference)
	return su, err
}

// InsertStickUp inserts a stick-up and returns the stored row.
func (s *Store) InsertStickUp(ctx context.Context, su models.StickUp) (models.StickUp, error) {
	return insertOne(ctx, s, scanStickUp, `
    INSERT INTO thermal.stick_ups (visit_id, measurement, reference)
    VALUES ($1, $2, $3)
    RETURNING `+stickUpCols, su.VisitID, su.Measurement, su.Reference)
}

// GetStickUp returns the stick-up of a visit, or nil.
func (s *Store) GetStickUp(ctx context.Context, visitID int64) (*models.StickUp, error) {
	return queryOne(ctx, s, scanStickUp, `SELECT `+stickUpCols+` FROM thermal.stick_ups WHERE visit_id = $1`, visitID)
}

// ListStickUps returns the stick-ups of the given visits.
func (s *Store) ListStickUps(ctx context.Context, visitIDs []int64) ([]models.StickUp, error) {
	if len(visitIDs) == 0 {
		return nil, nil
	}
	return queryAll(ctx, s, scanStickUp,
		`SELECT `+stickUpCols+` FROM thermal.stick_ups WHERE visit_id = ANY($1) ORDER BY visit_id`, visitIDs)
}

// mappingCols reads the chain position through the sensor.
const mappingCols = `id, cable_id, cable_sensor_id, mapping_1, mapping_2,
    (SELECT cs.number_in_chain FROM thermal.cable_sensors cs WHERE cs.id = cable_sensor_id)`

func scanMapping(row pgx.CollectableRow) (models.CableSensorMapping, error) {
	var m models.CableSensorMapping
	err := row.Scan(&m.ID, &m.CableID, &m.CableSensorID, &m.Mapping1, &m.Mapping2, &m.NumberInChain)
	return m, err
}

// InsertSensorMapping inserts a wire mapping and returns the stored row.
func (s *Store) InsertSensorMapping(ctx context.Context, m models.CableSensorMapping) (models.CableSensorMapping, error) {
	return insertOne(ctx, s, scanMapping, `
    INSERT INTO thermal.cable_sensor_mappings (cable_id, cable_sensor_id, mapping_1, mapping_2)
    VALUES ($1, $2, $3, $4)
    RETURNING `+mappingCols, m.CableID, m.CableSensorID, m.Mapping1, m.Mapping2)
}

// GetSensorMapping returns the mapping of a sensor, or nil.
func (s *Store) GetSensorMapping(ctx context.Context, sensorID int64) (*models.CableSensorMapping, error) {
	return queryOne(ctx, s, scanMapping,
		`SELECT `+mappingCols+` FROM thermal.cable_sensor_mappings WHERE cable_sensor_id = $1`, sensorID)
}

// ListSensorMappings returns the mappings of every sensor on a cable.
func (s *Store) ListSensorMappings(ctx context.Context, cableID int64) ([]models.CableSensorMapping, error) {
	return queryAll(ctx, s, scanMapping,
		`SELECT `+mappingCols+` FROM thermal.cable_sensor_mappings WHERE cable_id = $1 ORDER BY id`, cableID)
}
