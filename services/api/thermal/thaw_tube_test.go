package thermal

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

// seedThawTube stores a tube with one reading from August 2021 carrying the 2020 bead.
func seedThawTube(st *fakeStore) (models.Installation, models.ThawTube, models.ThawTubeReading) {
	inst := seedInstallation(st, TypeThawTube)
	v := seedVisit(st, inst.ID, "2021-08-01T00:00:00Z", nil)
	tube := models.ThawTube{ID: st.id(), InstallationID: inst.ID, DateInstalled: date("2019-07-01T00:00:00Z")}
	st.tubes = append(st.tubes, tube)
	reading := models.ThawTubeReading{
		ID: st.id(), ThawTubeID: tube.ID, VisitID: v.ID,
		TubeHeight: ptr(100.0), ScribeMin: ptr(10.0), ScribeCurr: ptr(4.0),
	}
	st.readings = append(st.readings, reading)
	st.beads = append(st.beads, models.ThawTubeBeadMeasurement{
		ID: st.id(), ReadingID: reading.ID, ThawTubeID: tube.ID, Colour: "red", Year: 2020, Depth: 80,
	})
	return inst, tube, reading
}

func TestThawTubeHistoryDerivesActiveLayer(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	inst, tube, _ := seedThawTube(st)
	st.references = append(st.references, models.ThawTubeReference{
		ID: st.id(), ThawTubeID: tube.ID, Date: date("2021-07-01T00:00:00Z"), ReferenceMeasurement: 20,
	})
	svc := newTestService(st)

	rows, err := svc.ThawTubeHistory(ctx, inst.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	require.NotNil(t, row.ThawPenetration)
	assert.InDelta(t, 60.0, *row.ThawPenetration, 1e-9)
	assert.InDelta(t, -14.0, *row.MaxActiveLayer, 1e-9)
	assert.InDelta(t, 74.0, *row.SurfaceChange, 1e-9)
	assert.InDelta(t, 20.0, *row.ReferenceMeasurement, 1e-9)
}

func TestThawTubeHistoryMissingReference(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	inst, _, _ := seedThawTube(st)

	_, err := newTestService(st).ThawTubeHistory(ctx, inst.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.ErrorIs(t, err, temporal.ErrMissingReference)

	skipping := New(st, nil, zerolog.Nop(), Options{MissingReference: temporal.SkipOnMissingReference})
	rows, err := skipping.ThawTubeHistory(ctx, inst.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateBeadMeasurementChecksColour(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	_, tube, reading := seedThawTube(st)
	svc := newTestService(st)

	_, err := svc.CreateBeadColourYear(ctx, BeadColourYearInput{Year: 2021, Colour: "blue"})
	require.NoError(t, err)
	_, err = svc.CreateBeadColourYear(ctx, BeadColourYearInput{Year: 2022, Colour: "blue"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = svc.CreateBeadMeasurement(ctx, BeadMeasurementInput{
		ReadingID: reading.ID, ThawTubeID: tube.ID, Colour: "green", Year: 2021, Depth: 50,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "the 2021 bead is blue")

	b, err := svc.CreateBeadMeasurement(ctx, BeadMeasurementInput{
		ReadingID: reading.ID, ThawTubeID: tube.ID, Colour: "blue", Year: 2021, Depth: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 2021, b.Year)

	_, err = svc.CreateBeadMeasurement(ctx, BeadMeasurementInput{
		ReadingID: reading.ID, ThawTubeID: tube.ID, Colour: "blue", Year: 2021, Depth: 51,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = svc.CreateBeadMeasurement(ctx, BeadMeasurementInput{
		ReadingID: reading.ID, ThawTubeID: tube.ID + 100, Colour: "blue", Year: 2021,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	got, err := svc.ListBeadMeasurements(ctx, reading.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
