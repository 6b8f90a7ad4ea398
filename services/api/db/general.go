package db

import (
	"context"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

const siteCols = `id, site_name, site_code, latitude, longitude, region, approach, notes`

func scanSite(row pgx.CollectableRow) (models.Site, error) {
	var s models.Site
	err := row.Scan(&s.ID, &s.SiteName, &s.SiteCode, &s.Latitude, &s.Longitude, &s.Region, &s.Approach, &s.Notes)
	return s, err
}

// InsertSite inserts a site and returns the stored row.
func (s *Store) InsertSite(ctx context.Context, in models.Site) (models.Site, error) {
	return insertOne(ctx, s, scanSite, `
    INSERT INTO thermal.sites (site_name, site_code, latitude, longitude, region, approach, notes)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING `+siteCols,
		in.SiteName, in.SiteCode, in.Latitude, in.Longitude, in.Region, in.Approach, in.Notes)
}

// GetSite returns the site with id, or nil.
func (s *Store) GetSite(ctx context.Context, id int64) (*models.Site, error) {
	return queryOne(ctx, s, scanSite, `SELECT `+siteCols+` FROM thermal.sites WHERE id = $1`, id)
}

// GetSiteByCode returns the site with code, or nil.
func (s *Store) GetSiteByCode(ctx context.Context, code string) (*models.Site, error) {
	return queryOne(ctx, s, scanSite, `SELECT `+siteCols+` FROM thermal.sites WHERE site_code = $1`, code)
}

const installationCols = `id, installation_code, installation_name, installation_type, latitude, longitude, site_id, notes, status`

func scanInstallation(row pgx.CollectableRow) (models.Installation, error) {
	var i models.Installation
	err := row.Scan(&i.ID, &i.InstallationCode, &i.InstallationName, &i.InstallationType,
		&i.Latitude, &i.Longitude, &i.SiteID, &i.Notes, &i.Status)
	return i, err
}

// InsertInstallation inserts an installation and returns the stored row.
func (s *Store) InsertInstallation(ctx context.Context, in models.Installation) (models.Installation, error) {
	return insertOne(ctx, s, scanInstallation, `
    INSERT INTO thermal.installations
        (installation_code, installation_name, installation_type, latitude, longitude, site_id, notes, status)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING `+installationCols,
		in.InstallationCode, in.InstallationName, in.InstallationType, in.Latitude, in.Longitude,
		in.SiteID, in.Notes, in.Status)
}

// GetInstallation returns the installation with id, or nil.
func (s *Store) GetInstallation(ctx context.Context, id int64) (*models.Installation, error) {
	return queryOne(ctx, s, scanInstallation, `SELECT `+installationCols+` FROM thermal.installations WHERE id = $1`, id)
}

// GetInstallationByCode returns the installation with code, or nil.
func (s *Store) GetInstallationByCode(ctx context.Context, code string) (*models.Installation, error) {
	return queryOne(ctx, s, scanInstallation,
		`SELECT `+installationCols+` FROM thermal.installations WHERE installation_code = $1`, code)
}

// ListInstallationsAtSite returns the installations of a site.
func (s *Store) ListInstallationsAtSite(ctx context.Context, siteID int64) ([]models.Installation, error) {
	return queryAll(ctx, s, scanInstallation,
		`SELECT `+installationCols+` FROM thermal.installations WHERE site_id = $1 ORDER BY installation_code`, siteID)
}

// ListInstallationsOfType returns every installation of one type.
func (s *Store) ListInstallationsOfType(ctx context.Context, installationType string) ([]models.Installation, error) {
	return queryAll(ctx, s, scanInstallation,
		`SELECT `+installationCols+` FROM thermal.installations WHERE installation_type = $1 ORDER BY installation_code`,
		installationType)
}

// UpdateInstallation writes the non-null fields of p and returns the updated row.
func (s *Store) UpdateInstallation(ctx context.Context, id int64, p models.InstallationPatch) (models.Installation, error) {
	up := newPatch("thermal.installations")
	setIf(up, "installation_code", p.InstallationCode)
	setIf(up, "installation_name", p.InstallationName)
	setIf(up, "installation_type", p.InstallationType)
	setIf(up, "latitude", p.Latitude)
	setIf(up, "longitude", p.Longitude)
	setIf(up, "notes", p.Notes)
	setIf(up, "site_id", p.SiteID)
	setIf(up, "status", p.Status)
	sql, args, ok := up.build(id, installationCols)
	if !ok {
		cur, err := s.GetInstallation(ctx, id)
		return present(cur, err, "installation", id)
	}
	return insertOne(ctx, s, scanInstallation, sql, args...)
}

const pairCols = `id, installation_id_1, installation_id_2`

func scanPair(row pgx.CollectableRow) (models.InstallationPair, error) {
	var p models.InstallationPair
	err := row.Scan(&p.ID, &p.InstallationID1, &p.InstallationID2)
	return p, err
}

// InsertInstallationPair inserts a pair and returns the stored row.
func (s *Store) InsertInstallationPair(ctx context.Context, p models.InstallationPair) (models.InstallationPair, error) {
	return insertOne(ctx, s, scanPair, `
    INSERT INTO thermal.installation_pairs (installation_id_1, installation_id_2)
    VALUES ($1, $2)
    RETURNING `+pairCols, p.InstallationID1, p.InstallationID2)
}

// GetInstallationPair looks the installation up as the first member, then as the second.
func (s *Store) GetInstallationPair(ctx context.Context, installationID int64) (*models.InstallationPair, error) {
	p, err := queryOne(ctx, s, scanPair,
		`SELECT `+pairCols+` FROM thermal.installation_pairs WHERE installation_id_1 = $1`, installationID)
	if err != nil || p != nil {
		return p, err
	}
	return queryOne(ctx, s, scanPair,
		`SELECT `+pairCols+` FROM thermal.installation_pairs WHERE installation_id_2 = $1`, installationID)
}

const visitCols = `id, installation_id, visit_date, field_party, record_of_activities, notes`

func scanVisit(row pgx.CollectableRow) (models.InstallationVisit, error) {
	var v models.InstallationVisit
	err := row.Scan(&v.ID, &v.InstallationID, &v.VisitDate, &v.FieldParty, &v.RecordOfActivities, &v.Notes)
	v.VisitDate = utc(v.VisitDate)
	return v, err
}

// InsertVisit inserts a visit and returns the stored row.
func (s *Store) InsertVisit(ctx context.Context, v models.InstallationVisit) (models.InstallationVisit, error) {
	return insertOne(ctx, s, scanVisit, `
    INSERT INTO thermal.installation_visits (installation_id, visit_date, field_party, record_of_activities, notes)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+visitCols, v.InstallationID, v.VisitDate, v.FieldParty, v.RecordOfActivities, v.Notes)
}

// GetVisit returns the visit with id, or nil.
func (s *Store) GetVisit(ctx context.Context, id int64) (*models.InstallationVisit, error) {
	return queryOne(ctx, s, scanVisit, `SELECT `+visitCols+` FROM thermal.installation_visits WHERE id = $1`, id)
}

// GetVisitByDate returns the visit of an installation at exactly at, or nil.
func (s *Store) GetVisitByDate(ctx context.Context, installationID int64, at time.Time) (*models.InstallationVisit, error) {
	return queryOne(ctx, s, scanVisit,
		`SELECT `+visitCols+` FROM thermal.installation_visits WHERE installation_id = $1 AND visit_date = $2`,
		installationID, at)
}

// ListVisits returns the visits of an installation ordered by date.
func (s *Store) ListVisits(ctx context.Context, installationID int64) ([]models.InstallationVisit, error) {
	return queryAll(ctx, s, scanVisit,
		`SELECT `+visitCols+` FROM thermal.installation_visits WHERE installation_id = $1 ORDER BY visit_date, id`,
		installationID)
}

// VisitDates maps visit ids to their dates. Unknown ids are absent from the result.
func (s *Store) VisitDates(ctx context.Context, ids []int64) (map[int64]time.Time, error) {
	out := make(map[int64]time.Time, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT id, visit_date FROM thermal.installation_visits WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		out[id] = at.UTC()
	}
	return out, rows.Err()
}

const alProbeCols = `id, visit_id, probe_number, measurement, probe_maxed`

func scanALProbe(row pgx.CollectableRow) (models.ALProbeMeasurement, error) {
	var m models.ALProbeMeasurement
	err := row.Scan(&m.ID, &m.VisitID, &m.ProbeNumber, &m.Measurement, &m.ProbeMaxed)
	return m, err
}

// InsertALProbe inserts a probe measurement and returns the stored row.
func (s *Store) InsertALProbe(ctx context.Context, m models.ALProbeMeasurement) (models.ALProbeMeasurement, error) {
	return insertOne(ctx, s, scanALProbe, `
    INSERT INTO thermal.al_probe_measurements (visit_id, probe_number, measurement, probe_maxed)
    VALUES ($1, $2, $3, $4)
    RETURNING `+alProbeCols, m.VisitID, m.ProbeNumber, m.Measurement, m.ProbeMaxed)
}

// GetALProbe returns one probe measurement of a visit, or nil.
func (s *Store) GetALProbe(ctx context.Context, visitID int64, probeNumber int) (*models.ALProbeMeasurement, error) {
	return queryOne(ctx, s, scanALProbe,
		`SELECT `+alProbeCols+` FROM thermal.al_probe_measurements WHERE visit_id = $1 AND probe_number = $2`,
		visitID, probeNumber)
}

const alProbeHistorySQL = `
    SELECT p.probe_number, p.measurement, p.probe_maxed, v.visit_date
    FROM thermal.al_probe_measurements p
    JOIN thermal.installation_visits v ON v.id = p.visit_id
    WHERE v.installation_id = $1
    ORDER BY v.visit_date, p.probe_number
`

// ALProbeHistory returns the probe measurements of an installation with visit dates.
func (s *Store) ALProbeHistory(ctx context.Context, installationID int64) ([]models.ALProbeHistoryRow, error) {
	return queryAll(ctx, s, func(row pgx.CollectableRow) (models.ALProbeHistoryRow, error) {
		var r models.ALProbeHistoryRow
		err := row.Scan(&r.ProbeNumber, &r.ProbeDepth, &r.ProbeMaxed, &r.DateTime)
		r.DateTime = utc(r.DateTime)
		return r, err
	}, alProbeHistorySQL, installationID)
}

// dumpVisitsSQL selects the visits a dump covers: those of a year, or every visit in the
// requested regions when no year is given.
func dumpVisitsSQL(q temporal.DumpQuery) (string, []any) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("v.id", "v.installation_id", "v.field_party", "v.visit_date", "v.record_of_activities", "v.notes",
		"i.installation_name", "i.installation_code", "i.installation_type", "i.latitude", "i.longitude", "s.region")
	sb.From("thermal.installation_visits v")
	sb.Join("thermal.installations i", "i.id = v.installation_id")
	sb.Join("thermal.sites s", "s.id = i.site_id")
	if q.Year != nil {
		start := time.Date(*q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		sb.Where(sb.GreaterEqualThan("v.visit_date", start), sb.LessThan("v.visit_date", start.AddDate(1, 0, 0)))
	}
	if len(q.Regions) > 0 {
		regions := make([]any, len(q.Regions))
		for i, r := range q.Regions {
			regions[i] = r
		}
		sb.Where(sb.In("s.region", regions...))
	}
	sb.OrderBy("v.visit_date", "v.id")
	return sb.Build()
}

func scanDumpVisit(row pgx.CollectableRow) (models.DumpVisit, error) {
	var v models.DumpVisit
	err := row.Scan(&v.VisitID, &v.InstallationID, &v.RecordedBy, &v.VisitDate, &v.Activity, &v.Notes,
		&v.InstallationName, &v.InstallationCode, &v.InstallationType, &v.Latitude, &v.Longitude, &v.Region)
	v.VisitDate = utc(v.VisitDate)
	return v, err
}

// collectInto queues a batched query whose rows are scanned into dst.
func collectInto[T any](b *pgx.Batch, dst *[]T, scan pgx.RowToFunc[T], sql string, args ...any) {
	b.Queue(sql, args...).Query(func(rows pgx.Rows) error {
		out, err := pgx.CollectRows(rows, scan)
		*dst = out
		return err
	})
}

// DumpSource loads the visits selected by q, then the deployments, loggers, cables and
// stick-ups they reference in one batch.
func (s *Store) DumpSource(ctx context.Context, q temporal.DumpQuery) (models.DumpSource, error) {
	sql, args := dumpVisitsSQL(q)
	visits, err := queryAll(ctx, s, scanDumpVisit, sql, args...)
	if err != nil {
		return models.DumpSource{}, err
	}
	src := models.DumpSource{Visits: visits}
	if len(visits) == 0 {
		return src, nil
	}
	visitIDs := make([]int64, 0, len(visits))
	installIDs := make([]int64, 0, len(visits))
	for _, v := range visits {
		visitIDs = append(visitIDs, v.VisitID)
		installIDs = append(installIDs, v.InstallationID)
	}

	batch := &pgx.Batch{}
	collectInto(batch, &src.Deployments, scanDeployment, `
    SELECT `+deploymentCols+` FROM thermal.logger_deployments
    WHERE deployment_visit_id = ANY($1) OR extraction_visit_id = ANY($1)
    ORDER BY id`, visitIDs)
	collectInto(batch, &src.Loggers, scanLogger, `
    SELECT `+loggerCols+` FROM thermal.loggers
    WHERE id IN (
        SELECT logger_id FROM thermal.logger_deployments
        WHERE deployment_visit_id = ANY($1) OR extraction_visit_id = ANY($1))
    ORDER BY id`, visitIDs)
	collectInto(batch, &src.Cables, scanCable,
		`SELECT `+cableCols+` FROM thermal.cables WHERE installation_id = ANY($1) ORDER BY id`, installIDs)
	collectInto(batch, &src.StickUps, scanStickUp,
		`SELECT `+stickUpCols+` FROM thermal.stick_ups WHERE visit_id = ANY($1) ORDER BY visit_id`, visitIDs)

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return models.DumpSource{}, translate(err)
	}
	return src, nil
}
