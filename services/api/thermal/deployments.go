package thermal

import (
	"context"
	"errors"
	"slices"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

// CreateLogger registers a logger. Serial number and type together identify it.
func (s *Service) CreateLogger(ctx context.Context, in LoggerInput) (models.Logger, error) {
	if err := s.check(in); err != nil {
		return models.Logger{}, err
	}
	existing, err := s.store.GetLoggerBySerialAndType(ctx, in.LoggerSerialNumber, in.LoggerType)
	if err := conflictIf(existing, err, "logger %s of type %s already exists", in.LoggerSerialNumber, in.LoggerType); err != nil {
		return models.Logger{}, err
	}
	l, err := s.store.InsertLogger(ctx, models.Logger{
		LoggerSerialNumber: in.LoggerSerialNumber,
		LoggerType:         in.LoggerType,
		BatteryYear:        in.BatteryYear,
		AssetTag:           in.AssetTag,
	})
	return l, wrapStore("insert logger", err)
}

// GetLogger returns a logger by id.
func (s *Service) GetLogger(ctx context.Context, id int64) (models.Logger, error) {
	l, err := s.store.GetLogger(ctx, id)
	return found(l, err, "logger %d does not exist", id)
}

// GetLoggerBySerial returns the logger with serial number sn.
func (s *Service) GetLoggerBySerial(ctx context.Context, sn string) (models.Logger, error) {
	l, err := s.store.GetLoggerBySerial(ctx, sn)
	return found(l, err, "logger %s does not exist", sn)
}

// GetLoggerBySerialAndType returns the logger identified by serial number and type.
func (s *Service) GetLoggerBySerialAndType(ctx context.Context, sn, loggerType string) (models.Logger, error) {
	l, err := s.store.GetLoggerBySerialAndType(ctx, sn, loggerType)
	return found(l, err, "logger %s of type %s does not exist", sn, loggerType)
}

// UpdateLoggerType changes the type of a logger.
func (s *Service) UpdateLoggerType(ctx context.Context, id int64, loggerType string) (models.Logger, error) {
	if err := s.checkValue("logger_type", loggerType, "required,catalog=logger_type"); err != nil {
		return models.Logger{}, err
	}
	if _, err := s.GetLogger(ctx, id); err != nil {
		return models.Logger{}, err
	}
	l, err := s.store.UpdateLoggerType(ctx, id, loggerType)
	return l, wrapStore("update logger type", err)
}

// UpdateLoggerBatteryYear records a battery replacement.
func (s *Service) UpdateLoggerBatteryYear(ctx context.Context, id int64, year int) (models.Logger, error) {
	if err := s.checkValue("battery_year", year, "batteryyear"); err != nil {
		return models.Logger{}, err
	}
	if _, err := s.GetLogger(ctx, id); err != nil {
		return models.Logger{}, err
	}
	l, err := s.store.UpdateLoggerBatteryYear(ctx, id, year)
	return l, wrapStore("update logger battery year", err)
}

// CreateDeployment records a logger interval at an installation. At least one endpoint visit
// must be given, and a visit may not start (or, for extraction-only records, end) two
// deployments of the same logger.
func (s *Service) CreateDeployment(ctx context.Context, in DeploymentInput) (models.LoggerDeployment, error) {
	if err := s.check(in); err != nil {
		return models.LoggerDeployment{}, err
	}
	if in.DeploymentVisitID == nil && in.ExtractionVisitID == nil {
		return models.LoggerDeployment{}, apperr.Validation("deployment_visit_id or extraction_visit_id must be specified")
	}
	if _, err := s.GetInstallation(ctx, in.InstallationID); err != nil {
		return models.LoggerDeployment{}, err
	}
	if _, err := s.GetLogger(ctx, in.LoggerID); err != nil {
		return models.LoggerDeployment{}, err
	}
	visitIDs := make([]int64, 0, 2)
	for _, id := range []*int64{in.DeploymentVisitID, in.ExtractionVisitID} {
		if id == nil {
			continue
		}
		if _, err := s.GetVisit(ctx, *id); err != nil {
			return models.LoggerDeployment{}, err
		}
		visitIDs = append(visitIDs, *id)
	}

	existing, err := s.store.ListDeploymentsAtVisits(ctx, visitIDs)
	if err != nil {
		return models.LoggerDeployment{}, err
	}
	for _, d := range existing {
		if d.LoggerID != in.LoggerID {
			continue
		}
		if in.DeploymentVisitID != nil && sameID(d.DeploymentVisitID, in.DeploymentVisitID) {
			return models.LoggerDeployment{}, apperr.Conflictf("logger %d already deployed during visit %d",
				in.LoggerID, *in.DeploymentVisitID)
		}
		if in.DeploymentVisitID == nil && sameID(d.ExtractionVisitID, in.ExtractionVisitID) {
			return models.LoggerDeployment{}, apperr.Conflictf("logger %d already extracted during visit %d",
				in.LoggerID, *in.ExtractionVisitID)
		}
	}

	d, err := s.store.InsertDeployment(ctx, models.LoggerDeployment{
		InstallationID:    in.InstallationID,
		LoggerID:          in.LoggerID,
		DeploymentVisitID: in.DeploymentVisitID,
		ExtractionVisitID: in.ExtractionVisitID,
	})
	if err != nil {
		return models.LoggerDeployment{}, wrapStore("insert deployment", err)
	}
	s.log.Info().Int64("deployment_id", d.ID).Int64("installation_id", d.InstallationID).
		Int64("logger_id", d.LoggerID).Msg("deployment created")
	return d, nil
}

func sameID(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

// GetDeployment returns a deployment by id.
func (s *Service) GetDeployment(ctx context.Context, id int64) (models.LoggerDeployment, error) {
	d, err := s.store.GetDeployment(ctx, id)
	return found(d, err, "deployment %d does not exist", id)
}

// ListDeployments returns every deployment at an installation.
func (s *Service) ListDeployments(ctx context.Context, installationID int64) ([]models.LoggerDeployment, error) {
	ds, err := s.store.ListDeployments(ctx, installationID)
	if err != nil {
		return nil, err
	}
	if len(ds) == 0 {
		return nil, apperr.NotFoundf("no deployments recorded at installation %d", installationID)
	}
	return ds, nil
}

// DeploymentsByVisit lists the deployments started or ended by a visit.
func (s *Service) DeploymentsByVisit(ctx context.Context, visitID int64, extraction bool) ([]models.LoggerDeployment, error) {
	ds, err := s.store.ListDeploymentsAtVisits(ctx, []int64{visitID})
	if err != nil {
		return nil, err
	}
	out := ds[:0]
	for _, d := range ds {
		ref := d.DeploymentVisitID
		if extraction {
			ref = d.ExtractionVisitID
		}
		if ref != nil && *ref == visitID {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, apperr.NotFoundf("no deployment linked to visit %d", visitID)
	}
	return out, nil
}

// intervals resolves the deployments of a scope against their visit dates.
func (s *Service) intervals(ctx context.Context, deployments []models.LoggerDeployment) ([]temporal.Interval, error) {
	ids := make([]int64, 0, 2*len(deployments))
	for _, d := range deployments {
		if d.DeploymentVisitID != nil {
			ids = append(ids, *d.DeploymentVisitID)
		}
		if d.ExtractionVisitID != nil {
			ids = append(ids, *d.ExtractionVisitID)
		}
	}
	slices.Sort(ids)
	dates, err := s.store.VisitDates(ctx, slices.Compact(ids))
	if err != nil {
		return nil, err
	}
	return temporal.NewIntervals(deployments, dates), nil
}

func (s *Service) loggerIntervals(ctx context.Context, installationID, loggerID int64) ([]temporal.Interval, error) {
	ds, err := s.store.ListDeploymentsOfLogger(ctx, installationID, loggerID)
	if err != nil {
		return nil, err
	}
	return s.intervals(ctx, ds)
}

// MostRecentDeployment returns the latest deployment of a logger at an installation.
func (s *Service) MostRecentDeployment(ctx context.Context, installationID, loggerID int64) (models.LoggerDeployment, error) {
	ivs, err := s.loggerIntervals(ctx, installationID, loggerID)
	if err != nil {
		return models.LoggerDeployment{}, err
	}
	iv, ok := temporal.MostRecentDeployment(ivs)
	if !ok {
		return models.LoggerDeployment{}, apperr.NotFoundf("logger %d was never deployed at installation %d", loggerID, installationID)
	}
	return iv.Deployment, nil
}

// UnclosedQuery selects open deployments of a logger started near a date.
type UnclosedQuery struct {
	InstallationID int64
	LoggerID       int64
	Date           models.AwareTime
	MaxHours       *float64
	ReturnClosest  bool
}

// PreviousUnclosedDeployments returns the open deployments matching q. Several results are
// only possible when ReturnClosest is false.
func (s *Service) PreviousUnclosedDeployments(ctx context.Context, q UnclosedQuery) ([]models.LoggerDeployment, error) {
	if err := s.checkValue("date", q.Date, "required,aware"); err != nil {
		return nil, err
	}
	ivs, err := s.loggerIntervals(ctx, q.InstallationID, q.LoggerID)
	if err != nil {
		return nil, err
	}
	var opts []temporal.Option
	if q.MaxHours != nil {
		opts = append(opts, temporal.WithTolerance(*q.MaxHours))
	}
	matching := temporal.OpenDeploymentsAt(ivs, q.Date.Instant(), q.ReturnClosest, opts...)
	if len(matching) == 0 {
		return nil, apperr.NotFoundf("no open deployment of logger %d at installation %d", q.LoggerID, q.InstallationID)
	}
	out := make([]models.LoggerDeployment, 0, len(matching))
	for _, iv := range matching {
		out = append(out, iv.Deployment)
	}
	return out, nil
}

// currentLogger resolves the logger of the most recently started open deployment.
func (s *Service) currentLogger(ctx context.Context, installationID int64) (models.Logger, bool, error) {
	ds, err := s.store.ListDeployments(ctx, installationID)
	if err != nil {
		return models.Logger{}, false, err
	}
	ivs, err := s.intervals(ctx, ds)
	if err != nil {
		return models.Logger{}, false, err
	}
	iv, ok := temporal.CurrentlyDeployed(ivs)
	if !ok {
		return models.Logger{}, false, nil
	}
	l, err := s.GetLogger(ctx, iv.Deployment.LoggerID)
	if err != nil {
		return models.Logger{}, false, err
	}
	return l, true, nil
}

// CurrentLogger returns the logger in place at an installation.
func (s *Service) CurrentLogger(ctx context.Context, installationID int64) (models.Logger, error) {
	if _, err := s.GetInstallation(ctx, installationID); err != nil {
		return models.Logger{}, err
	}
	l, ok, err := s.currentLogger(ctx, installationID)
	if err != nil {
		return models.Logger{}, err
	}
	if !ok {
		return models.Logger{}, apperr.NotFoundf("no logger currently deployed at installation %d", installationID)
	}
	return l, nil
}

// CloseDeployment sets the extraction visit of an open deployment.
func (s *Service) CloseDeployment(ctx context.Context, deploymentID, extractionVisitID int64) (models.LoggerDeployment, error) {
	d, err := s.GetDeployment(ctx, deploymentID)
	if err != nil {
		return models.LoggerDeployment{}, err
	}
	if _, err := s.GetVisit(ctx, extractionVisitID); err != nil {
		return models.LoggerDeployment{}, err
	}
	if err := temporal.CloseDeployment(&d, extractionVisitID); err != nil {
		if errors.Is(err, temporal.ErrAlreadyClosed) {
			return models.LoggerDeployment{}, apperr.Conflictf("deployment %d is already closed", deploymentID).
				WithCode("already_closed").Wrap(err)
		}
		return models.LoggerDeployment{}, err
	}
	closed, err := s.store.SetDeploymentExtraction(ctx, deploymentID, extractionVisitID)
	if err != nil {
		return models.LoggerDeployment{}, wrapStore("close deployment", err)
	}
	s.log.Info().Int64("deployment_id", deploymentID).Int64("extraction_visit_id", extractionVisitID).Msg("deployment closed")
	return closed, nil
}

// ReadableDeployments lists deployments with codes and dates, ordered by deployment date.
func (s *Service) ReadableDeployments(ctx context.Context, ids []int64) ([]models.ReadableDeployment, error) {
	if len(ids) == 0 {
		return nil, apperr.Validation("ids is required")
	}
	rows, err := s.store.ReadableDeployments(ctx, ids)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rows, func(a, b models.ReadableDeployment) int {
		switch {
		case a.DeploymentDate == nil && b.DeploymentDate == nil:
			return 0
		case a.DeploymentDate == nil:
			return 1
		case b.DeploymentDate == nil:
			return -1
		}
		return a.DeploymentDate.Compare(*b.DeploymentDate)
	})
	return rows, nil
}

// UpdateDeploymentLogger swaps the logger of a deployment that has no download yet.
func (s *Service) UpdateDeploymentLogger(ctx context.Context, deploymentID, loggerID int64) (models.LoggerDeployment, error) {
	if _, err := s.GetDeployment(ctx, deploymentID); err != nil {
		return models.LoggerDeployment{}, err
	}
	if _, err := s.GetLogger(ctx, loggerID); err != nil {
		return models.LoggerDeployment{}, err
	}
	dl, err := s.store.GetDownloadByDeployment(ctx, deploymentID)
	if err != nil {
		return models.LoggerDeployment{}, err
	}
	if dl != nil {
		return models.LoggerDeployment{}, apperr.Unimplementedf(
			"deployment %d has download %d; changing its logger would leave the download inconsistent", deploymentID, dl.ID)
	}
	d, err := s.store.SetDeploymentLogger(ctx, deploymentID, loggerID)
	return d, wrapStore("update deployment logger", err)
}

// DeleteDeployment removes a deployment that has no logger download and returns it.
func (s *Service) DeleteDeployment(ctx context.Context, id int64) (models.LoggerDeployment, error) {
	d, err := s.GetDeployment(ctx, id)
	if err != nil {
		return models.LoggerDeployment{}, err
	}
	dl, err := s.store.GetDownloadByDeployment(ctx, id)
	if err := conflictIf(dl, err, "deployment %d has a logger download and cannot be deleted", id); err != nil {
		return models.LoggerDeployment{}, err
	}
	if err := s.store.DeleteDeployment(ctx, id); err != nil {
		return models.LoggerDeployment{}, wrapStore("delete deployment", err)
	}
	s.log.Info().Int64("deployment_id", id).Msg("deployment deleted")
	return d, nil
}

// CreateDownload records the download of a deployment. A deployment has at most one.
func (s *Service) CreateDownload(ctx context.Context, in DownloadInput) (models.LoggerDownload, error) {
	if err := s.check(in); err != nil {
		return models.LoggerDownload{}, err
	}
	if _, err := s.GetLogger(ctx, in.LoggerID); err != nil {
		return models.LoggerDownload{}, err
	}
	if _, err := s.GetDeployment(ctx, in.DeploymentID); err != nil {
		return models.LoggerDownload{}, err
	}
	existing, err := s.store.GetDownloadByDeployment(ctx, in.DeploymentID)
	if err := conflictIf(existing, err, "a download is already linked to deployment %d", in.DeploymentID); err != nil {
		return models.LoggerDownload{}, err
	}
	dl, err := s.store.InsertDownload(ctx, models.LoggerDownload{
		LoggerID:        in.LoggerID,
		DeploymentID:    in.DeploymentID,
		DownloadDate:    in.DownloadDate.Instant(),
		DownloadQuality: in.DownloadQuality,
	})
	return dl, wrapStore("insert download", err)
}

// GetDownloadByDeployment returns the download of a deployment.
func (s *Service) GetDownloadByDeployment(ctx context.Context, deploymentID int64) (models.LoggerDownload, error) {
	dl, err := s.store.GetDownloadByDeployment(ctx, deploymentID)
	return found(dl, err, "no download linked to deployment %d", deploymentID)
}

// GetDownload returns a logger download by id.
func (s *Service) GetDownload(ctx context.Context, id int64) (models.LoggerDownload, error) {
	dl, err := s.store.GetDownload(ctx, id)
	return found(dl, err, "download %d does not exist", id)
}

// UpdateDownload applies the non-null fields of patch.
func (s *Service) UpdateDownload(ctx context.Context, id int64, patch models.LoggerDownloadPatch) (models.LoggerDownload, error) {
	if patch.DownloadDate != nil {
		if err := s.checkValue("download_date", *patch.DownloadDate, "aware"); err != nil {
			return models.LoggerDownload{}, err
		}
	}
	dl, err := s.store.GetDownload(ctx, id)
	if err := exists(dl, err, "download %d does not exist", id); err != nil {
		return models.LoggerDownload{}, err
	}
	if patch.DeploymentID != nil {
		if _, err := s.GetDeployment(ctx, *patch.DeploymentID); err != nil {
			return models.LoggerDownload{}, err
		}
	}
	if patch.LoggerID != nil {
		if _, err := s.GetLogger(ctx, *patch.LoggerID); err != nil {
			return models.LoggerDownload{}, err
		}
	}
	updated, err := s.store.UpdateDownload(ctx, id, patch)
	return updated, wrapStore("update download", err)
}
