package thermal

import (
	"context"
	"time"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

// CreateBeadColourYear assigns the bead colour of a year. Years and colours are both unique.
func (s *Service) CreateBeadColourYear(ctx context.Context, in BeadColourYearInput) (models.BeadColourYear, error) {
	if err := s.check(in); err != nil {
		return models.BeadColourYear{}, err
	}
	byYear, err := s.store.GetBeadColourByYear(ctx, in.Year)
	if err := conflictIf(byYear, err, "there is already a bead colour associated with %d", in.Year); err != nil {
		return models.BeadColourYear{}, err
	}
	byColour, err := s.store.GetBeadColourByColour(ctx, in.Colour)
	if err := conflictIf(byColour, err, "%s beads are already assigned to another year", in.Colour); err != nil {
		return models.BeadColourYear{}, err
	}
	b, err := s.store.InsertBeadColourYear(ctx, models.BeadColourYear{Year: in.Year, Colour: in.Colour})
	return b, wrapStore("insert bead colour year", err)
}

// GetBeadColourByYear returns the colour used in a year.
func (s *Service) GetBeadColourByYear(ctx context.Context, year int) (models.BeadColourYear, error) {
	b, err := s.store.GetBeadColourByYear(ctx, year)
	return found(b, err, "there is no bead colour associated with %d", year)
}

// GetBeadColourByColour returns the year a colour was used for.
func (s *Service) GetBeadColourByColour(ctx context.Context, colour string) (models.BeadColourYear, error) {
	b, err := s.store.GetBeadColourByColour(ctx, colour)
	return found(b, err, "there is no record of a %s thaw tube bead", colour)
}

// CreateThawTube adds the thaw tube of an installation.
func (s *Service) CreateThawTube(ctx context.Context, in ThawTubeInput) (models.ThawTube, error) {
	if err := s.check(in); err != nil {
		return models.ThawTube{}, err
	}
	if _, err := s.GetInstallation(ctx, in.InstallationID); err != nil {
		return models.ThawTube{}, err
	}
	existing, err := s.store.GetThawTubeByInstallation(ctx, in.InstallationID)
	if err := conflictIf(existing, err, "a thaw tube is already associated with installation %d", in.InstallationID); err != nil {
		return models.ThawTube{}, err
	}
	t, err := s.store.InsertThawTube(ctx, models.ThawTube{
		InstallationID: in.InstallationID,
		DateInstalled:  in.DateInstalled.Instant(),
		Status:         in.Status,
	})
	return t, wrapStore("insert thaw tube", err)
}

// GetThawTubeByInstallation returns the thaw tube of an installation.
func (s *Service) GetThawTubeByInstallation(ctx context.Context, installationID int64) (models.ThawTube, error) {
	t, err := s.store.GetThawTubeByInstallation(ctx, installationID)
	return found(t, err, "no thaw tube associated with installation %d", installationID)
}

// CreateThawTubeReading records the reading of a visit. A visit has at most one.
func (s *Service) CreateThawTubeReading(ctx context.Context, in ThawTubeReadingInput) (models.ThawTubeReading, error) {
	if err := s.check(in); err != nil {
		return models.ThawTubeReading{}, err
	}
	tube, err := s.store.GetThawTube(ctx, in.ThawTubeID)
	if err := exists(tube, err, "thaw tube %d does not exist", in.ThawTubeID); err != nil {
		return models.ThawTubeReading{}, err
	}
	if _, err := s.GetVisit(ctx, in.VisitID); err != nil {
		return models.ThawTubeReading{}, err
	}
	existing, err := s.store.GetThawTubeReadingByVisit(ctx, in.VisitID)
	if err := conflictIf(existing, err, "a thaw tube reading is already associated with visit %d", in.VisitID); err != nil {
		return models.ThawTubeReading{}, err
	}
	r, err := s.store.InsertThawTubeReading(ctx, in.model())
	return r, wrapStore("insert thaw tube reading", err)
}

// GetThawTubeReadingByVisit returns the reading taken during a visit.
func (s *Service) GetThawTubeReadingByVisit(ctx context.Context, visitID int64) (models.ThawTubeReading, error) {
	r, err := s.store.GetThawTubeReadingByVisit(ctx, visitID)
	return found(r, err, "no thaw tube reading associated with visit %d", visitID)
}

// ListThawTubeReadings returns the readings of a thaw tube.
func (s *Service) ListThawTubeReadings(ctx context.Context, thawTubeID int64) ([]models.ThawTubeReading, error) {
	rs, err := s.store.ListThawTubeReadings(ctx, thawTubeID)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, apperr.NotFoundf("no thaw tube readings for thaw tube %d", thawTubeID)
	}
	return rs, nil
}

// CreateBeadMeasurement records a bead depth. When a colour is registered for the bead's
// year the measurement must use it.
func (s *Service) CreateBeadMeasurement(ctx context.Context, in BeadMeasurementInput) (models.ThawTubeBeadMeasurement, error) {
	if err := s.check(in); err != nil {
		return models.ThawTubeBeadMeasurement{}, err
	}
	reading, err := s.store.GetThawTubeReading(ctx, in.ReadingID)
	if err := exists(reading, err, "thaw tube reading %d does not exist", in.ReadingID); err != nil {
		return models.ThawTubeBeadMeasurement{}, err
	}
	if reading.ThawTubeID != in.ThawTubeID {
		return models.ThawTubeBeadMeasurement{}, apperr.Validationf("reading %d does not belong to thaw tube %d", in.ReadingID, in.ThawTubeID)
	}
	colour, err := s.store.GetBeadColourByYear(ctx, in.Year)
	if err != nil {
		return models.ThawTubeBeadMeasurement{}, err
	}
	if colour != nil && colour.Colour != in.Colour {
		return models.ThawTubeBeadMeasurement{}, apperr.Validationf("the %d bead is %s, not %s", in.Year, colour.Colour, in.Colour)
	}
	existing, err := s.store.GetBeadMeasurement(ctx, in.ReadingID, in.Year)
	if err := conflictIf(existing, err, "measurement for %s bead from %d already exists for reading %d",
		in.Colour, in.Year, in.ReadingID); err != nil {
		return models.ThawTubeBeadMeasurement{}, err
	}
	b, err := s.store.InsertBeadMeasurement(ctx, models.ThawTubeBeadMeasurement{
		ReadingID:  in.ReadingID,
		ThawTubeID: in.ThawTubeID,
		Colour:     in.Colour,
		Year:       in.Year,
		Depth:      in.Depth,
		DepthMin:   in.DepthMin,
		DepthMax:   in.DepthMax,
	})
	return b, wrapStore("insert bead measurement", err)
}

// ListBeadMeasurements returns the beads measured in a reading.
func (s *Service) ListBeadMeasurements(ctx context.Context, readingID int64) ([]models.ThawTubeBeadMeasurement, error) {
	bs, err := s.store.ListBeadMeasurements(ctx, []int64{readingID})
	if err != nil {
		return nil, err
	}
	if len(bs) == 0 {
		return nil, apperr.NotFoundf("no bead measurements for thaw tube reading %d", readingID)
	}
	return bs, nil
}

// GetBeadMeasurement returns the bead of year measured in a reading.
func (s *Service) GetBeadMeasurement(ctx context.Context, readingID int64, year int) (models.ThawTubeBeadMeasurement, error) {
	b, err := s.store.GetBeadMeasurement(ctx, readingID, year)
	return found(b, err, "no measurement for %d bead found for thaw tube reading %d", year, readingID)
}

// BeadHistory returns every bead measured on a thaw tube with its reading date.
func (s *Service) BeadHistory(ctx context.Context, thawTubeID int64) ([]models.BeadHistoryRow, error) {
	tube, err := s.store.GetThawTube(ctx, thawTubeID)
	if err := exists(tube, err, "thaw tube %d does not exist", thawTubeID); err != nil {
		return nil, err
	}
	return s.store.BeadHistory(ctx, thawTubeID)
}

// CreateThawTubeReference records a reference measurement of a thaw tube.
func (s *Service) CreateThawTubeReference(ctx context.Context, in ThawTubeReferenceInput) (models.ThawTubeReference, error) {
	if err := s.check(in); err != nil {
		return models.ThawTubeReference{}, err
	}
	tube, err := s.store.GetThawTube(ctx, in.ThawTubeID)
	if err := exists(tube, err, "thaw tube %d does not exist", in.ThawTubeID); err != nil {
		return models.ThawTubeReference{}, err
	}
	at := in.Date.Instant()
	existing, err := s.store.GetThawTubeReference(ctx, in.ThawTubeID, at)
	if err := conflictIf(existing, err, "thaw tube %d already has a reference on %s",
		in.ThawTubeID, at.Format(time.RFC3339)); err != nil {
		return models.ThawTubeReference{}, err
	}
	r, err := s.store.InsertThawTubeReference(ctx, models.ThawTubeReference{
		ThawTubeID:           in.ThawTubeID,
		Date:                 at,
		ReferenceMeasurement: in.ReferenceMeasurement,
	})
	return r, wrapStore("insert thaw tube reference", err)
}

// ThawTubeReferences lists the references of a tube, or only the one taken at date.
func (s *Service) ThawTubeReferences(ctx context.Context, thawTubeID int64, date *models.AwareTime) ([]models.ThawTubeReference, error) {
	if date == nil {
		return s.store.ListThawTubeReferences(ctx, thawTubeID)
	}
	if err := s.checkValue("date", *date, "required,aware"); err != nil {
		return nil, err
	}
	r, err := s.store.GetThawTubeReference(ctx, thawTubeID, date.Instant())
	ref, err := found(r, err, "thaw tube %d has no reference on %s", thawTubeID, date)
	if err != nil {
		return nil, err
	}
	return []models.ThawTubeReference{ref}, nil
}
