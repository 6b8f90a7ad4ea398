package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

const beadColourCols = `id, year, colour`

func scanBeadColour(row pgx.CollectableRow) (models.BeadColourYear, error) {
	var b models.BeadColourYear
	err := row.Scan(&b.ID, &b.Year, &b.Colour)
	return b, err
}

// InsertBeadColourYear inserts a bead colour and returns the stored row.
func (s *Store) InsertBeadColourYear(ctx context.Context, b models.BeadColourYear) (models.BeadColourYear, error) {
	return insertOne(ctx, s, scanBeadColour,
		`INSERT INTO thermal.bead_colour_years (year, colour) VALUES ($1, $2) RETURNING `+beadColourCols, b.Year, b.Colour)
}

// GetBeadColourByYear returns the colour of a year, or nil.
func (s *Store) GetBeadColourByYear(ctx context.Context, year int) (*models.BeadColourYear, error) {
	return queryOne(ctx, s, scanBeadColour, `SELECT `+beadColourCols+` FROM thermal.bead_colour_years WHERE year = $1`, year)
}

// GetBeadColourByColour returns the year of a colour, or nil.
func (s *Store) GetBeadColourByColour(ctx context.Context, colour string) (*models.BeadColourYear, error) {
	return queryOne(ctx, s, scanBeadColour,
		`SELECT `+beadColourCols+` FROM thermal.bead_colour_years WHERE colour = $1`, colour)
}

const thawTubeCols = `id, installation_id, date_installed, status`

func scanThawTube(row pgx.CollectableRow) (models.ThawTube, error) {
	var t models.ThawTube
	err := row.Scan(&t.ID, &t.InstallationID, &t.DateInstalled, &t.Status)
	t.DateInstalled = utc(t.DateInstalled)
	return t, err
}

// InsertThawTube inserts a thaw tube and returns the stored row.
func (s *Store) InsertThawTube(ctx context.Context, t models.ThawTube) (models.ThawTube, error) {
	return insertOne(ctx, s, scanThawTube, `
    INSERT INTO thermal.thaw_tubes (installation_id, date_installed, status)
    VALUES ($1, $2, $3)
    RETURNING `+thawTubeCols, t.InstallationID, t.DateInstalled, t.Status)
}

// GetThawTube returns the thaw tube with id, or nil.
func (s *Store) GetThawTube(ctx context.Context, id int64) (*models.ThawTube, error) {
	return queryOne(ctx, s, scanThawTube, `SELECT `+thawTubeCols+` FROM thermal.thaw_tubes WHERE id = $1`, id)
}

// GetThawTubeByInstallation returns the thaw tube of an installation, or nil.
func (s *Store) GetThawTubeByInstallation(ctx context.Context, installationID int64) (*models.ThawTube, error) {
	return queryOne(ctx, s, scanThawTube,
		`SELECT `+thawTubeCols+` FROM thermal.thaw_tubes WHERE installation_id = $1`, installationID)
}

const readingCols = `id, thaw_tube_id, visit_id, scribe_curr, scribe_max, scribe_min, scribe_height, tube_height,
    water_depth, ice_depth, stopper_to_plug, stopper_push, stopper_on_plug, new_bead_in`

func scanReading(row pgx.CollectableRow) (models.ThawTubeReading, error) {
	var r models.ThawTubeReading
	err := row.Scan(&r.ID, &r.ThawTubeID, &r.VisitID, &r.ScribeCurr, &r.ScribeMax, &r.ScribeMin, &r.ScribeHeight,
		&r.TubeHeight, &r.WaterDepth, &r.IceDepth, &r.StopperToPlug, &r.StopperPush, &r.StopperOnPlug, &r.NewBeadIn)
	return r, err
}

// InsertThawTubeReading inserts a reading and returns the stored row.
func (s *Store) InsertThawTubeReading(ctx context.Context, r models.ThawTubeReading) (models.ThawTubeReading, error) {
	return insertOne(ctx, s, scanReading, `
    INSERT INTO thermal.thaw_tube_readings
        (thaw_tube_id, visit_id, scribe_curr, scribe_max, scribe_min, scribe_height, tube_height,
         water_depth, ice_depth, stopper_to_plug, stopper_push, stopper_on_plug, new_bead_in)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    RETURNING `+readingCols,
		r.ThawTubeID, r.VisitID, r.ScribeCurr, r.ScribeMax, r.ScribeMin, r.ScribeHeight, r.TubeHeight,
		r.WaterDepth, r.IceDepth, r.StopperToPlug, r.StopperPush, r.StopperOnPlug, r.NewBeadIn)
}

// GetThawTubeReading returns the reading with id, or nil.
func (s *Store) GetThawTubeReading(ctx context.Context, id int64) (*models.ThawTubeReading, error) {
	return queryOne(ctx, s, scanReading, `SELECT `+readingCols+` FROM thermal.thaw_tube_readings WHERE id = $1`, id)
}

// GetThawTubeReadingByVisit returns the reading of a visit, or nil.
func (s *Store) GetThawTubeReadingByVisit(ctx context.Context, visitID int64) (*models.ThawTubeReading, error) {
	return queryOne(ctx, s, scanReading,
		`SELECT `+readingCols+` FROM thermal.thaw_tube_readings WHERE visit_id = $1`, visitID)
}

// ListThawTubeReadings returns the readings of a thaw tube.
func (s *Store) ListThawTubeReadings(ctx context.Context, thawTubeID int64) ([]models.ThawTubeReading, error) {
	return queryAll(ctx, s, scanReading,
		`SELECT `+readingCols+` FROM thermal.thaw_tube_readings WHERE thaw_tube_id = $1 ORDER BY id`, thawTubeID)
}

const visitReadingsSQL = `
    SELECT r.id, v.visit_date, v.field_party, v.record_of_activities, v.notes,
           r.tube_height, r.ice_depth, r.scribe_min, r.scribe_curr, r.scribe_max
    FROM thermal.thaw_tube_readings r
    JOIN thermal.installation_visits v ON v.id = r.visit_id
    WHERE v.installation_id = $1
    ORDER BY v.visit_date, r.id
`

// ThawTubeVisitReadings returns the readings at an installation joined with their visit dates.
func (s *Store) ThawTubeVisitReadings(ctx context.Context, installationID int64) ([]models.ThawTubeVisitReading, error) {
	return queryAll(ctx, s, func(row pgx.CollectableRow) (models.ThawTubeVisitReading, error) {
		var r models.ThawTubeVisitReading
		err := row.Scan(&r.ReadingID, &r.DateTime, &r.RecordedBy, &r.Activity, &r.Notes,
			&r.TubeHeight, &r.IceDepth, &r.ScribeMin, &r.ScribeCurr, &r.ScribeMax)
		r.DateTime = utc(r.DateTime)
		return r, err
	}, visitReadingsSQL, installationID)
}

const beadCols = `id, reading_id, thaw_tube_id, colour, year, depth, depth_min, depth_max`

func scanBead(row pgx.CollectableRow) (models.ThawTubeBeadMeasurement, error) {
	var b models.ThawTubeBeadMeasurement
	err := row.Scan(&b.ID, &b.ReadingID, &b.ThawTubeID, &b.Colour, &b.Year, &b.Depth, &b.DepthMin, &b.DepthMax)
	return b, err
}

// InsertBeadMeasurement inserts a bead measurement and returns the stored row.
func (s *Store) InsertBeadMeasurement(ctx context.Context, b models.ThawTubeBeadMeasurement) (models.ThawTubeBeadMeasurement, error) {
	return insertOne(ctx, s, scanBead, `
    INSERT INTO thermal.thaw_tube_bead_measurements (reading_id, thaw_tube_id, colour, year, depth, depth_min, depth_max)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING `+beadCols, b.ReadingID, b.ThawTubeID, b.Colour, b.Year, b.Depth, b.DepthMin, b.DepthMax)
}

// GetBeadMeasurement returns the bead of year in a reading, or nil.
func (s *Store) GetBeadMeasurement(ctx context.Context, readingID int64, year int) (*models.ThawTubeBeadMeasurement, error) {
	return queryOne(ctx, s, scanBead,
		`SELECT `+beadCols+` FROM thermal.thaw_tube_bead_measurements WHERE reading_id = $1 AND year = $2`,
		readingID, year)
}

// ListBeadMeasurements returns the beads of the given readings.
func (s *Store) ListBeadMeasurements(ctx context.Context, readingIDs []int64) ([]models.ThawTubeBeadMeasurement, error) {
	if len(readingIDs) == 0 {
		return nil, nil
	}
	return queryAll(ctx, s, scanBead, `
    SELECT `+beadCols+` FROM thermal.thaw_tube_bead_measurements
    WHERE reading_id = ANY($1)
    ORDER BY reading_id, year`, readingIDs)
}

const beadHistorySQL = `
    SELECT b.year, b.colour, b.depth, b.depth_max, b.depth_min, v.visit_date
    FROM thermal.thaw_tube_bead_measurements b
    JOIN thermal.thaw_tube_readings r ON r.id = b.reading_id
    JOIN thermal.installation_visits v ON v.id = r.visit_id
    WHERE b.thaw_tube_id = $1
    ORDER BY v.visit_date, b.year
`

// BeadHistory returns the beads of a thaw tube with reading dates.
func (s *Store) BeadHistory(ctx context.Context, thawTubeID int64) ([]models.BeadHistoryRow, error) {
	return queryAll(ctx, s, func(row pgx.CollectableRow) (models.BeadHistoryRow, error) {
		var r models.BeadHistoryRow
		err := row.Scan(&r.BeadYear, &r.BeadColour, &r.Depth, &r.DepthMax, &r.DepthMin, &r.DateTime)
		r.DateTime = utc(r.DateTime)
		return r, err
	}, beadHistorySQL, thawTubeID)
}

const referenceCols = `id, thaw_tube_id, date, reference_measurement`

func scanReference(row pgx.CollectableRow) (models.ThawTubeReference, error) {
	var r models.ThawTubeReference
	err := row.Scan(&r.ID, &r.ThawTubeID, &r.Date, &r.ReferenceMeasurement)
	r.Date = utc(r.Date)
	return r, err
}

// InsertThawTubeReference inserts a reference measurement and returns the stored row.
func (s *Store) InsertThawTubeReference(ctx context.Context, r models.ThawTubeReference) (models.ThawTubeReference, error) {
	return insertOne(ctx, s, scanReference, `
    INSERT INTO thermal.thaw_tube_references (thaw_tube_id, date, reference_measurement)
    VALUES ($1, $2, $3)
    RETURNING `+referenceCols, r.ThawTubeID, r.Date, r.ReferenceMeasurement)
}

// GetThawTubeReference returns the reference of a thaw tube dated exactly at, or nil.
func (s *Store) GetThawTubeReference(ctx context.Context, thawTubeID int64, at time.Time) (*models.ThawTubeReference, error) {
	return queryOne(ctx, s, scanReference,
		`SELECT `+referenceCols+` FROM thermal.thaw_tube_references WHERE thaw_tube_id = $1 AND date = $2`,
		thawTubeID, at)
}

// ListThawTubeReferences returns the references of a thaw tube ordered by date.
func (s *Store) ListThawTubeReferences(ctx context.Context, thawTubeID int64) ([]models.ThawTubeReference, error) {
	return queryAll(ctx, s, scanReference,
		`SELECT `+referenceCols+` FROM thermal.thaw_tube_references WHERE thaw_tube_id = $1 ORDER BY date, id`, thawTubeID)
}
