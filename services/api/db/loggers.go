package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

const loggerCols = `id, logger_serial_number, logger_type, battery_year, asset_tag`

func scanLogger(row pgx.CollectableRow) (models.Logger, error) {
	var l models.Logger
	err := row.Scan(&l.ID, &l.LoggerSerialNumber, &l.LoggerType, &l.BatteryYear, &l.AssetTag)
	return l, err
}

// InsertLogger inserts a logger and returns the stored row.
func (s *Store) InsertLogger(ctx context.Context, l models.Logger) (models.Logger, error) {
	return insertOne(ctx, s, scanLogger, `
    INSERT INTO thermal.loggers (logger_serial_number, logger_type, battery_year, asset_tag)
    VALUES ($1, $2, $3, $4)
    RETURNING `+loggerCols, l.LoggerSerialNumber, l.LoggerType, l.BatteryYear, l.AssetTag)
}

// GetLogger returns the logger with id, or nil.
func (s *Store) GetLogger(ctx context.Context, id int64) (*models.Logger, error) {
	return queryOne(ctx, s, scanLogger, `SELECT `+loggerCols+` FROM thermal.loggers WHERE id = $1`, id)
}

// GetLoggerBySerial returns the lowest-id logger with the serial number; serials are only
// unique per logger type.
func (s *Store) GetLoggerBySerial(ctx context.Context, sn string) (*models.Logger, error) {
	return queryOne(ctx, s, scanLogger,
		`SELECT `+loggerCols+` FROM thermal.loggers WHERE logger_serial_number = $1 ORDER BY id LIMIT 1`, sn)
}

// GetLoggerBySerialAndType returns the logger identified by serial and type, or nil.
func (s *Store) GetLoggerBySerialAndType(ctx context.Context, sn, loggerType string) (*models.Logger, error) {
	return queryOne(ctx, s, scanLogger,
		`SELECT `+loggerCols+` FROM thermal.loggers WHERE logger_serial_number = $1 AND logger_type = $2`, sn, loggerType)
}

// ListLoggers returns the loggers with the given ids.
func (s *Store) ListLoggers(ctx context.Context, ids []int64) ([]models.Logger, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return queryAll(ctx, s, scanLogger, `SELECT `+loggerCols+` FROM thermal.loggers WHERE id = ANY($1) ORDER BY id`, ids)
}

// UpdateLoggerType sets the type of a logger.
func (s *Store) UpdateLoggerType(ctx context.Context, id int64, loggerType string) (models.Logger, error) {
	return insertOne(ctx, s, scanLogger,
		`UPDATE thermal.loggers SET logger_type = $2 WHERE id = $1 RETURNING `+loggerCols, id, loggerType)
}

// UpdateLoggerBatteryYear sets the battery year of a logger.
func (s *Store) UpdateLoggerBatteryYear(ctx context.Context, id int64, year int) (models.Logger, error) {
	return insertOne(ctx, s, scanLogger,
		`UPDATE thermal.loggers SET battery_year = $2 WHERE id = $1 RETURNING `+loggerCols, id, year)
}

const deploymentCols = `id, installation_id, logger_id, deployment_visit_id, extraction_visit_id`

func scanDeployment(row pgx.CollectableRow) (models.LoggerDeployment, error) {
	var d models.LoggerDeployment
	err := row.Scan(&d.ID, &d.InstallationID, &d.LoggerID, &d.DeploymentVisitID, &d.ExtractionVisitID)
	return d, err
}

// InsertDeployment inserts a deployment and returns the stored row.
func (s *Store) InsertDeployment(ctx context.Context, d models.LoggerDeployment) (models.LoggerDeployment, error) {
	return insertOne(ctx, s, scanDeployment, `
    INSERT INTO thermal.logger_deployments (installation_id, logger_id, deployment_visit_id, extraction_visit_id)
    VALUES ($1, $2, $3, $4)
    RETURNING `+deploymentCols, d.InstallationID, d.LoggerID, d.DeploymentVisitID, d.ExtractionVisitID)
}

// GetDeployment returns the deployment with id, or nil.
func (s *Store) GetDeployment(ctx context.Context, id int64) (*models.LoggerDeployment, error) {
	return queryOne(ctx, s, scanDeployment, `SELECT `+deploymentCols+` FROM thermal.logger_deployments WHERE id = $1`, id)
}

// ListDeployments returns the deployments of an installation.
func (s *Store) ListDeployments(ctx context.Context, installationID int64) ([]models.LoggerDeployment, error) {
	return queryAll(ctx, s, scanDeployment,
		`SELECT `+deploymentCols+` FROM thermal.logger_deployments WHERE installation_id = $1 ORDER BY id`, installationID)
}

// ListDeploymentsOfLogger returns the deployments of one logger at an installation.
func (s *Store) ListDeploymentsOfLogger(ctx context.Context, installationID, loggerID int64) ([]models.LoggerDeployment, error) {
	return queryAll(ctx, s, scanDeployment, `
    SELECT `+deploymentCols+` FROM thermal.logger_deployments
    WHERE installation_id = $1 AND logger_id = $2
    ORDER BY id`, installationID, loggerID)
}

// ListDeploymentsAtVisits returns deployments that started or ended at any of the visits.
func (s *Store) ListDeploymentsAtVisits(ctx context.Context, visitIDs []int64) ([]models.LoggerDeployment, error) {
	if len(visitIDs) == 0 {
		return nil, nil
	}
	return queryAll(ctx, s, scanDeployment, `
    SELECT `+deploymentCols+` FROM thermal.logger_deployments
    WHERE deployment_visit_id = ANY($1) OR extraction_visit_id = ANY($1)
    ORDER BY id`, visitIDs)
}

// SetDeploymentExtraction sets the extraction visit of a deployment.
func (s *Store) SetDeploymentExtraction(ctx context.Context, id, visitID int64) (models.LoggerDeployment, error) {
	return insertOne(ctx, s, scanDeployment, `
    UPDATE thermal.logger_deployments SET extraction_visit_id = $2
    WHERE id = $1 AND extraction_visit_id IS NULL
    RETURNING `+deploymentCols, id, visitID)
}

// SetDeploymentLogger moves a deployment to another logger.
func (s *Store) SetDeploymentLogger(ctx context.Context, id, loggerID int64) (models.LoggerDeployment, error) {
	return insertOne(ctx, s, scanDeployment,
		`UPDATE thermal.logger_deployments SET logger_id = $2 WHERE id = $1 RETURNING `+deploymentCols, id, loggerID)
}

// DeleteDeployment deletes a deployment.
func (s *Store) DeleteDeployment(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM thermal.logger_deployments WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("logger deployment", id)
	}
	return nil
}

const readableDeploymentsSQL = `
    SELECT d.id, i.installation_code, l.logger_serial_number,
           dv.visit_date, ev.visit_date, dv.record_of_activities, dv.notes
    FROM thermal.logger_deployments d
    JOIN thermal.installations i ON i.id = d.installation_id
    JOIN thermal.loggers l ON l.id = d.logger_id
    LEFT JOIN thermal.installation_visits dv ON dv.id = d.deployment_visit_id
    LEFT JOIN thermal.installation_visits ev ON ev.id = d.extraction_visit_id
    WHERE d.id = ANY($1)
    ORDER BY d.id
`

// ReadableDeployments resolves deployment ids to codes, serials and visit dates.
func (s *Store) ReadableDeployments(ctx context.Context, ids []int64) ([]models.ReadableDeployment, error) {
	return queryAll(ctx, s, func(row pgx.CollectableRow) (models.ReadableDeployment, error) {
		var r models.ReadableDeployment
		err := row.Scan(&r.DeploymentID, &r.InstallationCode, &r.LoggerSN,
			&r.DeploymentDate, &r.ExtractionDate, &r.DeploymentROA, &r.DeploymentNotes)
		r.DeploymentDate = utcPtr(r.DeploymentDate)
		r.ExtractionDate = utcPtr(r.ExtractionDate)
		return r, err
	}, readableDeploymentsSQL, ids)
}

const downloadCols = `id, logger_id, deployment_id, download_date, download_quality`

func scanDownload(row pgx.CollectableRow) (models.LoggerDownload, error) {
	var d models.LoggerDownload
	err := row.Scan(&d.ID, &d.LoggerID, &d.DeploymentID, &d.DownloadDate, &d.DownloadQuality)
	d.DownloadDate = utc(d.DownloadDate)
	return d, err
}

// InsertDownload inserts a logger download and returns the stored row.
func (s *Store) InsertDownload(ctx context.Context, d models.LoggerDownload) (models.LoggerDownload, error) {
	return insertOne(ctx, s, scanDownload, `
    INSERT INTO thermal.logger_downloads (logger_id, deployment_id, download_date, download_quality)
    VALUES ($1, $2, $3, $4)
    RETURNING `+downloadCols, d.LoggerID, d.DeploymentID, d.DownloadDate, d.DownloadQuality)
}

// GetDownload returns the logger download with id, or nil.
func (s *Store) GetDownload(ctx context.Context, id int64) (*models.LoggerDownload, error) {
	return queryOne(ctx, s, scanDownload, `SELECT `+downloadCols+` FROM thermal.logger_downloads WHERE id = $1`, id)
}

// GetDownloadByDeployment returns the download of a deployment, or nil.
func (s *Store) GetDownloadByDeployment(ctx context.Context, deploymentID int64) (*models.LoggerDownload, error) {
	return queryOne(ctx, s, scanDownload,
		`SELECT `+downloadCols+` FROM thermal.logger_downloads WHERE deployment_id = $1`, deploymentID)
}

// UpdateDownload writes the non-null fields of p and returns the updated row.
func (s *Store) UpdateDownload(ctx context.Context, id int64, p models.LoggerDownloadPatch) (models.LoggerDownload, error) {
	up := newPatch("thermal.logger_downloads")
	setIf(up, "logger_id", p.LoggerID)
	setIf(up, "deployment_id", p.DeploymentID)
	setIf(up, "download_date", p.DownloadDate.InstantPtr())
	setIf(up, "download_quality", p.DownloadQuality)
	sql, args, ok := up.build(id, downloadCols)
	if !ok {
		cur, err := s.GetDownload(ctx, id)
		return present(cur, err, "logger download", id)
	}
	return insertOne(ctx, s, scanDownload, sql, args...)
}
