package thermal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

func aware(t *testing.T, s string) models.AwareTime {
	t.Helper()
	at, err := models.ParseAwareTime(s)
	require.NoError(t, err)
	return at
}

func ptr[T any](v T) *T { return &v }

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedInstallation(st *fakeStore, typ string) models.Installation {
	site, _ := st.InsertSite(context.Background(), models.Site{SiteCode: "S1", SiteName: "Site", Region: "inuvik"})
	inst, _ := st.InsertInstallation(context.Background(), models.Installation{
		InstallationCode: "I1",
		InstallationName: "Borehole",
		InstallationType: typ,
		SiteID:           site.ID,
	})
	return inst
}

func seedVisit(st *fakeStore, installationID int64, at string, notes *string) models.InstallationVisit {
	v, _ := st.InsertVisit(context.Background(), models.InstallationVisit{
		InstallationID:     installationID,
		VisitDate:          date(at),
		FieldParty:         "crew",
		RecordOfActivities: "visit",
		Notes:              notes,
	})
	return v
}

func TestCreateSite(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&fakeStore{})

	in := SiteInput{SiteName: "Inuvik airport", SiteCode: "INV", Latitude: 68.3, Longitude: -133.5, Region: "inuvik"}
	site, err := svc.CreateSite(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, site.ID)

	_, err = svc.CreateSite(ctx, in)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreateSiteValidation(t *testing.T) {
	svc := newTestService(&fakeStore{})

	tests := []struct {
		name    string
		in      SiteInput
		message string
	}{
		{
			name:    "missing code",
			in:      SiteInput{SiteName: "x", Region: "inuvik"},
			message: "site_code is required",
		},
		{
			name:    "latitude out of range",
			in:      SiteInput{SiteName: "x", SiteCode: "x", Latitude: 91, Region: "inuvik"},
			message: "latitude must be less than or equal to 90",
		},
		{
			name:    "unknown region",
			in:      SiteInput{SiteName: "x", SiteCode: "x", Region: "atlantis"},
			message: "region is not a known region",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSite(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCreateVisitRejectsNaiveTimestamp(t *testing.T) {
	st := &fakeStore{}
	inst := seedInstallation(st, TypeCable)
	svc := newTestService(st)

	_, err := svc.CreateVisit(context.Background(), VisitInput{
		InstallationID:     inst.ID,
		VisitDate:          aware(t, "2021-06-01T12:00:00"),
		FieldParty:         "crew",
		RecordOfActivities: "install",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, "2021-06-01T12:00:00 is not time zone aware", err.Error())
}

func TestCreateVisitNormalizesAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	inst := seedInstallation(st, TypeCable)
	svc := newTestService(st)

	in := VisitInput{
		InstallationID:     inst.ID,
		VisitDate:          aware(t, "2021-06-01T12:00:00.700-06:00"),
		FieldParty:         "crew",
		RecordOfActivities: "install",
	}
	v, err := svc.CreateVisit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, date("2021-06-01T18:00:00Z"), v.VisitDate)
	assert.Equal(t, time.UTC, v.VisitDate.Location())

	_, err = svc.CreateVisit(ctx, in)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestUpdateInstallationAppendsNotes(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	inst := seedInstallation(st, TypeCable)
	svc := newTestService(st)

	updated, err := svc.UpdateInstallation(ctx, inst.ID, models.InstallationPatch{Notes: ptr("first")})
	require.NoError(t, err)
	assert.Equal(t, "first", *updated.Notes)

	updated, err = svc.UpdateInstallation(ctx, inst.ID, models.InstallationPatch{Notes: ptr("second")})
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", *updated.Notes)

	_, err = svc.UpdateInstallation(ctx, inst.ID, models.InstallationPatch{InstallationType: ptr("volcano")})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.UpdateInstallation(ctx, 999, models.InstallationPatch{Notes: ptr("x")})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestInstallationPairLookupBothDirections(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	a := seedInstallation(st, TypeAir)
	b, _ := st.InsertInstallation(ctx, models.Installation{InstallationCode: "I2", InstallationType: TypeGroundSurface, SiteID: a.SiteID})
	c, _ := st.InsertInstallation(ctx, models.Installation{InstallationCode: "I3", InstallationType: TypeGroundSurface, SiteID: a.SiteID})
	svc := newTestService(st)

	pair, err := svc.CreateInstallationPair(ctx, InstallationPairInput{InstallationID1: a.ID, InstallationID2: b.ID})
	require.NoError(t, err)

	got, err := svc.GetInstallationPair(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.ID, got.ID)

	_, err = svc.CreateInstallationPair(ctx, InstallationPairInput{InstallationID1: c.ID, InstallationID2: a.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = svc.CreateInstallationPair(ctx, InstallationPairInput{InstallationID1: c.ID, InstallationID2: c.ID})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestClosestVisit(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	inst := seedInstallation(st, TypeCable)
	near := seedVisit(st, inst.ID, "2021-06-01T10:00:00Z", nil)
	far := seedVisit(st, inst.ID, "2021-06-03T10:00:00Z", nil)
	logger, _ := st.InsertLogger(ctx, models.Logger{LoggerSerialNumber: "L1", LoggerType: "HOBO U22"})
	_, _ = st.InsertDeployment(ctx, models.LoggerDeployment{InstallationID: inst.ID, LoggerID: logger.ID, DeploymentVisitID: &far.ID})
	svc := newTestService(st)

	v, err := svc.ClosestVisit(ctx, ClosestVisitQuery{InstallationID: inst.ID, Date: aware(t, "2021-06-01T12:00:00Z")})
	require.NoError(t, err)
	assert.Equal(t, near.ID, v.ID)

	v, err = svc.ClosestVisit(ctx, ClosestVisitQuery{
		InstallationID:     inst.ID,
		Date:               aware(t, "2021-06-01T12:00:00Z"),
		LinkedToDeployment: true,
	})
	require.NoError(t, err)
	assert.Equal(t, far.ID, v.ID)

	_, err = svc.ClosestVisit(ctx, ClosestVisitQuery{
		InstallationID:     inst.ID,
		Date:               aware(t, "2021-06-01T12:00:00Z"),
		MaxHours:           ptr(24.0),
		LinkedToDeployment: true,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSurveyInfoCable(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	inst := seedInstallation(st, TypeCable)
	_, _ = svcUpdateNotes(st, inst.ID, "near the lake")
	v := seedVisit(st, inst.ID, "2022-08-01T00:00:00Z", ptr("battery low"))
	seedVisit(st, inst.ID, "2021-08-01T00:00:00Z", ptr("old note"))
	logger, _ := st.InsertLogger(ctx, models.Logger{LoggerSerialNumber: "SN-7", LoggerType: "RBR - seacon"})
	_, _ = st.InsertDeployment(ctx, models.LoggerDeployment{InstallationID: inst.ID, LoggerID: logger.ID, DeploymentVisitID: &v.ID})
	cable, _ := st.InsertCable(ctx, models.Cable{InstallationID: inst.ID, ConnectorType: "seacon", NumSensors: 2})
	st.mappings = []models.CableSensorMapping{
		{CableID: cable.ID, Mapping1: "red", Mapping2: ptr("black"), NumberInChain: 1},
		{CableID: cable.ID, Mapping1: "blue", NumberInChain: 2},
	}
	svc := newTestService(st)

	rows, err := svc.SurveyInfo(ctx, TypeCable)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "I1 - Borehole", row.Label)
	assert.Equal(t, "near the lake\n\nbattery low", *row.Notes)
	assert.Equal(t, "SN-7", *row.LoggerSN)
	assert.Nil(t, row.LoggerType)
	assert.Equal(t, "seacon", *row.Connector)
	assert.Equal(t, map[string]string{"sensor1": "red - black", "sensor2": "blue"}, row.WireMappings)

	for i := 3; i <= 9; i++ {
		st.mappings = append(st.mappings, models.CableSensorMapping{CableID: cable.ID, Mapping1: "w", NumberInChain: i})
	}
	_, err = svc.SurveyInfo(ctx, TypeCable)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.SurveyInfo(ctx, "volcano")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func svcUpdateNotes(st *fakeStore, id int64, notes string) (models.Installation, error) {
	return st.UpdateInstallation(context.Background(), id, models.InstallationPatch{Notes: &notes})
}

func TestDumpRequiresYearOrRegion(t *testing.T) {
	st := &fakeStore{}
	svc := newTestService(st)

	_, err := svc.Dump(context.Background(), temporal.DumpQuery{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Dump(context.Background(), temporal.DumpQuery{Regions: []string{"atlantis"}})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Dump(context.Background(), temporal.DumpQuery{Regions: []string{"inuvik"}})
	require.NoError(t, err)
	require.NotNil(t, st.lastDumpSeen)
	assert.Equal(t, []string{"inuvik"}, st.lastDumpSeen.Regions)
}
