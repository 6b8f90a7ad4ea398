package thermal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/catalog"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

// Installation types with behaviour of their own.
const (
	TypeCable          = "cable"
	TypeAir            = "air"
	TypeGroundSurface  = "ground surface"
	TypeThawTube       = "thaw tube"
	TypeWeatherStation = "weather station"
	TypeFourChannel    = "four channel"
)

// CreateSite adds a site. Site codes are unique.
func (s *Service) CreateSite(ctx context.Context, in SiteInput) (models.Site, error) {
	if err := s.check(in); err != nil {
		return models.Site{}, err
	}
	existing, err := s.store.GetSiteByCode(ctx, in.SiteCode)
	if err := conflictIf(existing, err, "site %s already exists", in.SiteCode); err != nil {
		return models.Site{}, err
	}
	site, err := s.store.InsertSite(ctx, in.model())
	if err != nil {
		return models.Site{}, wrapStore("insert site", err)
	}
	s.log.Info().Int64("site_id", site.ID).Str("site_code", site.SiteCode).Msg("site created")
	return site, nil
}

// GetSite returns a site by id.
func (s *Service) GetSite(ctx context.Context, id int64) (models.Site, error) {
	site, err := s.store.GetSite(ctx, id)
	return found(site, err, "site %d does not exist", id)
}

// GetSiteByCode returns the site with the given code.
func (s *Service) GetSiteByCode(ctx context.Context, code string) (models.Site, error) {
	site, err := s.store.GetSiteByCode(ctx, code)
	return found(site, err, "site %s does not exist", code)
}

// InstallationsAtSite lists the installations of a site.
func (s *Service) InstallationsAtSite(ctx context.Context, siteID int64) ([]models.Installation, error) {
	if _, err := s.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	return s.store.ListInstallationsAtSite(ctx, siteID)
}

// CreateInstallation adds an installation to an existing site.
func (s *Service) CreateInstallation(ctx context.Context, in InstallationInput) (models.Installation, error) {
	if err := s.check(in); err != nil {
		return models.Installation{}, err
	}
	existing, err := s.store.GetInstallationByCode(ctx, in.InstallationCode)
	if err := conflictIf(existing, err, "installation %s already exists", in.InstallationCode); err != nil {
		return models.Installation{}, err
	}
	if _, err := s.GetSite(ctx, in.SiteID); err != nil {
		return models.Installation{}, err
	}
	inst, err := s.store.InsertInstallation(ctx, in.model())
	if err != nil {
		return models.Installation{}, wrapStore("insert installation", err)
	}
	s.log.Info().Int64("installation_id", inst.ID).Str("installation_code", inst.InstallationCode).Msg("installation created")
	return inst, nil
}

// GetInstallation returns an installation by id.
func (s *Service) GetInstallation(ctx context.Context, id int64) (models.Installation, error) {
	inst, err := s.store.GetInstallation(ctx, id)
	return found(inst, err, "installation %d does not exist", id)
}

// GetInstallationByCode returns the installation with the given code.
func (s *Service) GetInstallationByCode(ctx context.Context, code string) (models.Installation, error) {
	inst, err := s.store.GetInstallationByCode(ctx, code)
	return found(inst, err, "installation %s does not exist", code)
}

// UpdateInstallation applies the non-nil fields of patch. Notes are appended to the existing
// notes on a new line rather than replacing them.
func (s *Service) UpdateInstallation(ctx context.Context, id int64, patch models.InstallationPatch) (models.Installation, error) {
	if err := s.check(patch); err != nil {
		return models.Installation{}, err
	}
	current, err := s.GetInstallation(ctx, id)
	if err != nil {
		return models.Installation{}, err
	}
	if patch.SiteID != nil {
		if _, err := s.GetSite(ctx, *patch.SiteID); err != nil {
			return models.Installation{}, err
		}
	}
	if patch.InstallationCode != nil && *patch.InstallationCode != current.InstallationCode {
		existing, err := s.store.GetInstallationByCode(ctx, *patch.InstallationCode)
		if err := conflictIf(existing, err, "installation %s already exists", *patch.InstallationCode); err != nil {
			return models.Installation{}, err
		}
	}
	if patch.Notes != nil && current.Notes != nil {
		joined := *current.Notes + "\n" + *patch.Notes
		patch.Notes = &joined
	}
	inst, err := s.store.UpdateInstallation(ctx, id, patch)
	return inst, wrapStore("update installation", err)
}

// CreateInstallationPair links two installations. Each takes part in at most one pair.
func (s *Service) CreateInstallationPair(ctx context.Context, in InstallationPairInput) (models.InstallationPair, error) {
	if err := s.check(in); err != nil {
		return models.InstallationPair{}, err
	}
	for _, id := range []int64{in.InstallationID1, in.InstallationID2} {
		if _, err := s.GetInstallation(ctx, id); err != nil {
			return models.InstallationPair{}, err
		}
		pair, err := s.store.GetInstallationPair(ctx, id)
		if err := conflictIf(pair, err, "installation %d is already paired", id); err != nil {
			return models.InstallationPair{}, err
		}
	}
	pair, err := s.store.InsertInstallationPair(ctx, models.InstallationPair{
		InstallationID1: in.InstallationID1,
		InstallationID2: in.InstallationID2,
	})
	return pair, wrapStore("insert installation pair", err)
}

// GetInstallationPair returns the pair an installation belongs to, on either side.
func (s *Service) GetInstallationPair(ctx context.Context, installationID int64) (models.InstallationPair, error) {
	pair, err := s.store.GetInstallationPair(ctx, installationID)
	return found(pair, err, "installation %d is not paired", installationID)
}

// CreateVisit records a visit. An installation has at most one visit per instant.
func (s *Service) CreateVisit(ctx context.Context, in VisitInput) (models.InstallationVisit, error) {
	if err := s.check(in); err != nil {
		return models.InstallationVisit{}, err
	}
	if _, err := s.GetInstallation(ctx, in.InstallationID); err != nil {
		return models.InstallationVisit{}, err
	}
	v := in.model()
	existing, err := s.store.GetVisitByDate(ctx, v.InstallationID, v.VisitDate)
	if err := conflictIf(existing, err, "installation %d already has a visit at %s",
		v.InstallationID, v.VisitDate.Format(time.RFC3339)); err != nil {
		return models.InstallationVisit{}, err
	}
	visit, err := s.store.InsertVisit(ctx, v)
	return visit, wrapStore("insert visit", err)
}

// GetVisit returns a visit by id.
func (s *Service) GetVisit(ctx context.Context, id int64) (models.InstallationVisit, error) {
	v, err := s.store.GetVisit(ctx, id)
	return found(v, err, "visit %d does not exist", id)
}

// GetVisitByDate returns the visit of an installation at exactly at.
func (s *Service) GetVisitByDate(ctx context.Context, installationID int64, at models.AwareTime) (models.InstallationVisit, error) {
	if err := s.checkValue("date", at, "required,aware"); err != nil {
		return models.InstallationVisit{}, err
	}
	v, err := s.store.GetVisitByDate(ctx, installationID, at.Instant())
	return found(v, err, "installation %d has no visit at %s", installationID, at)
}

// ListVisits returns the visits of an installation.
func (s *Service) ListVisits(ctx context.Context, installationID int64) ([]models.InstallationVisit, error) {
	return s.store.ListVisits(ctx, installationID)
}

// ClosestVisitQuery selects the visit nearest a date.
type ClosestVisitQuery struct {
	InstallationID     int64
	Date               models.AwareTime
	MaxHours           *float64
	LinkedToDeployment bool
}

// ClosestVisit returns the visit nearest q.Date within the optional tolerance. With
// LinkedToDeployment only visits that start or end a deployment are considered.
func (s *Service) ClosestVisit(ctx context.Context, q ClosestVisitQuery) (models.InstallationVisit, error) {
	if err := s.checkValue("date", q.Date, "required,aware"); err != nil {
		return models.InstallationVisit{}, err
	}
	visits, err := s.store.ListVisits(ctx, q.InstallationID)
	if err != nil {
		return models.InstallationVisit{}, err
	}
	cands := make([]temporal.Candidate[models.InstallationVisit], 0, len(visits))
	for _, v := range visits {
		at := v.VisitDate
		cands = append(cands, temporal.Candidate[models.InstallationVisit]{ID: v.ID, At: &at, Value: v})
	}
	var opts []temporal.Option
	if q.MaxHours != nil {
		opts = append(opts, temporal.WithTolerance(*q.MaxHours))
	}

	if !q.LinkedToDeployment {
		c, ok := temporal.Closest(cands, q.Date.Instant(), opts...)
		if !ok {
			return models.InstallationVisit{}, apperr.NotFoundf("no visit to installation %d near %s", q.InstallationID, q.Date)
		}
		return c.Value, nil
	}

	deployments, err := s.store.ListDeployments(ctx, q.InstallationID)
	if err != nil {
		return models.InstallationVisit{}, err
	}
	linked := make(map[int64]bool)
	for _, d := range deployments {
		if d.DeploymentVisitID != nil {
			linked[*d.DeploymentVisitID] = true
		}
		if d.ExtractionVisitID != nil {
			linked[*d.ExtractionVisitID] = true
		}
	}
	for _, c := range temporal.ByCloseness(cands, q.Date.Instant(), opts...) {
		if linked[c.ID] {
			return c.Value, nil
		}
	}
	return models.InstallationVisit{}, apperr.NotFoundf("no deployment visit to installation %d near %s", q.InstallationID, q.Date)
}

// CreateALProbe records one active-layer probe measurement of a visit.
func (s *Service) CreateALProbe(ctx context.Context, in ALProbeInput) (models.ALProbeMeasurement, error) {
	if err := s.check(in); err != nil {
		return models.ALProbeMeasurement{}, err
	}
	if _, err := s.GetVisit(ctx, in.VisitID); err != nil {
		return models.ALProbeMeasurement{}, err
	}
	existing, err := s.store.GetALProbe(ctx, in.VisitID, in.ProbeNumber)
	if err := conflictIf(existing, err, "probe %d already measured during visit %d", in.ProbeNumber, in.VisitID); err != nil {
		return models.ALProbeMeasurement{}, err
	}
	m, err := s.store.InsertALProbe(ctx, models.ALProbeMeasurement{
		VisitID:     in.VisitID,
		ProbeNumber: in.ProbeNumber,
		Measurement: in.Measurement,
		ProbeMaxed:  in.ProbeMaxed,
	})
	return m, wrapStore("insert al probe measurement", err)
}

// GetALProbe returns one probe measurement of a visit.
func (s *Service) GetALProbe(ctx context.Context, visitID int64, probeNumber int) (models.ALProbeMeasurement, error) {
	m, err := s.store.GetALProbe(ctx, visitID, probeNumber)
	return found(m, err, "no measurement for probe %d during visit %d", probeNumber, visitID)
}

// ALProbeHistory returns every probe measurement of an installation with its visit date.
func (s *Service) ALProbeHistory(ctx context.Context, installationID int64) ([]models.ALProbeHistoryRow, error) {
	if _, err := s.GetInstallation(ctx, installationID); err != nil {
		return nil, err
	}
	return s.store.ALProbeHistory(ctx, installationID)
}

// SurveyInfo builds the field survey sheet for every installation of a type.
func (s *Service) SurveyInfo(ctx context.Context, installationType string) ([]models.SurveyInfo, error) {
	if !s.catalog.Contains(catalog.InstallationTypes, installationType) {
		return nil, apperr.Validationf("%s is not one of %s", installationType,
			strings.Join(s.catalog.Values(catalog.InstallationTypes), ", "))
	}
	installations, err := s.store.ListInstallationsOfType(ctx, installationType)
	if err != nil {
		return nil, err
	}

	out := make([]models.SurveyInfo, 0, len(installations))
	for _, inst := range installations {
		info := models.SurveyInfo{
			InstallationCode: inst.InstallationCode,
			InstallationName: inst.InstallationName,
			Label:            inst.InstallationCode + " - " + inst.InstallationName,
			Notes:            inst.Notes,
		}
		if err := s.surveyNotes(ctx, inst, &info); err != nil {
			return nil, err
		}
		if err := s.surveyLogger(ctx, inst, &info); err != nil {
			return nil, err
		}
		if inst.InstallationType == TypeCable {
			if err := s.surveyCable(ctx, inst, &info); err != nil {
				return nil, err
			}
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *Service) surveyNotes(ctx context.Context, inst models.Installation, info *models.SurveyInfo) error {
	visits, err := s.store.ListVisits(ctx, inst.ID)
	if err != nil {
		return err
	}
	var latest *models.InstallationVisit
	for i := range visits {
		if latest == nil || visits[i].VisitDate.After(latest.VisitDate) {
			latest = &visits[i]
		}
	}
	if latest == nil || latest.Notes == nil {
		return nil
	}
	if inst.Notes != nil {
		joined := *inst.Notes + "\n\n" + *latest.Notes
		info.Notes = &joined
		return nil
	}
	info.Notes = latest.Notes
	return nil
}

func (s *Service) surveyLogger(ctx context.Context, inst models.Installation, info *models.SurveyInfo) error {
	switch inst.InstallationType {
	case TypeThawTube, TypeWeatherStation, TypeFourChannel:
		return nil
	}
	logger, ok, err := s.currentLogger(ctx, inst.ID)
	if err != nil || !ok {
		return err
	}
	sn := logger.LoggerSerialNumber
	info.LoggerSN = &sn
	if inst.InstallationType != TypeCable {
		typ := logger.LoggerType
		info.LoggerType = &typ
	}
	return nil
}

func (s *Service) surveyCable(ctx context.Context, inst models.Installation, info *models.SurveyInfo) error {
	connector := "unknown"
	info.Connector = &connector
	cable, err := s.store.GetCableByInstallation(ctx, inst.ID)
	if err != nil || cable == nil {
		return err
	}
	connector = cable.ConnectorType
	mappings, err := s.store.ListSensorMappings(ctx, cable.ID)
	if err != nil {
		return err
	}
	if len(mappings) == 0 {
		return nil
	}
	if len(mappings) > s.catalog.SurveyMappingColumns {
		return apperr.Validationf("cable at %s has %d sensor mappings, more than the %d survey columns",
			inst.InstallationCode, len(mappings), s.catalog.SurveyMappingColumns)
	}
	info.WireMappings = make(map[string]string, len(mappings))
	for _, m := range mappings {
		wires := m.Mapping1
		if m.Mapping2 != nil {
			wires += " - " + *m.Mapping2
		}
		info.WireMappings[fmt.Sprintf("sensor%d", m.NumberInChain)] = wires
	}
	return nil
}
