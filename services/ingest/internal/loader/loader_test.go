package loader

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
	"github.com/02loveslollipop/permafrost-field-api/services/ingest/internal/config"
	"github.com/02loveslollipop/permafrost-field-api/services/ingest/internal/export"
)

type fakeService struct {
	download   models.LoggerDownload
	deployment models.LoggerDeployment
	cable      models.Cable
	sensors    map[int][]models.CableSensor
	lookups    int

	cableItems []thermal.CableLoggerDataInput
	airItems   []thermal.AirGroundDataInput
	fourItems  []thermal.FourChannelDataInput
}

func (f *fakeService) GetDownload(_ context.Context, id int64) (models.LoggerDownload, error) {
	if id != f.download.ID {
		return models.LoggerDownload{}, apperr.NotFoundf("download %d does not exist", id)
	}
	return f.download, nil
}

func (f *fakeService) GetDeployment(_ context.Context, id int64) (models.LoggerDeployment, error) {
	if id != f.deployment.ID {
		return models.LoggerDeployment{}, apperr.NotFoundf("deployment %d does not exist", id)
	}
	return f.deployment, nil
}

func (f *fakeService) GetCableByInstallation(_ context.Context, installationID int64) (models.Cable, error) {
	if installationID != f.cable.InstallationID {
		return models.Cable{}, apperr.NotFoundf("no cable at installation %d", installationID)
	}
	return f.cable, nil
}

func (f *fakeService) SensorsAtPosition(_ context.Context, cableID int64, number int) ([]models.CableSensor, error) {
	f.lookups++
	sensors := f.sensors[number]
	if len(sensors) == 0 {
		return nil, apperr.NotFoundf("sensor %d does not exist in cable %d", number, cableID)
	}
	return sensors, nil
}

func (f *fakeService) BulkCableLoggerData(_ context.Context, items []thermal.CableLoggerDataInput, _ thermal.BulkOptions) []thermal.BulkResult[models.CableLoggerData] {
	f.cableItems = items
	out := make([]thermal.BulkResult[models.CableLoggerData], len(items))
	for i := range items {
		out[i] = thermal.BulkResult[models.CableLoggerData]{Index: i, Status: thermal.BulkSuccess}
	}
	if len(out) > 1 {
		out[1].Status = thermal.BulkSkippedDuplicate
	}
	return out
}

func (f *fakeService) BulkAirGroundData(_ context.Context, items []thermal.AirGroundDataInput, _ thermal.BulkOptions) []thermal.BulkResult[models.AirGroundTemperatureData] {
	f.airItems = items
	out := make([]thermal.BulkResult[models.AirGroundTemperatureData], len(items))
	for i := range items {
		out[i] = thermal.BulkResult[models.AirGroundTemperatureData]{Index: i, Status: thermal.BulkSuccess}
	}
	out[len(out)-1] = thermal.BulkResult[models.AirGroundTemperatureData]{
		Index: len(out) - 1, Status: thermal.BulkFailed, Error: "channel_number is required",
	}
	return out
}

func (f *fakeService) BulkFourChannelData(_ context.Context, items []thermal.FourChannelDataInput, _ thermal.BulkOptions) []thermal.BulkResult[models.FourChannelData] {
	f.fourItems = items
	out := make([]thermal.BulkResult[models.FourChannelData], len(items))
	for i := range items {
		out[i] = thermal.BulkResult[models.FourChannelData]{Index: i, Status: thermal.BulkSuccess}
	}
	return out
}

func at(t *testing.T, s string) models.AwareTime {
	t.Helper()
	ts, err := models.ParseAwareTime(s)
	require.NoError(t, err)
	return ts
}

func newFake() *fakeService {
	replaced := time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)
	return &fakeService{
		download:   models.LoggerDownload{ID: 5, LoggerID: 9, DeploymentID: 3},
		deployment: models.LoggerDeployment{ID: 3, InstallationID: 11, LoggerID: 9},
		cable:      models.Cable{ID: 21, InstallationID: 11},
		sensors: map[int][]models.CableSensor{
			1: {
				{ID: 100, CableID: 21, NumberInChain: 1},
				{ID: 101, CableID: 21, NumberInChain: 1, DateInstalled: &replaced},
			},
		},
	}
}

func TestLoadCableResolvesSensorAsOfReading(t *testing.T) {
	svc := newFake()
	readings := []export.Reading{
		{Line: 2, DateTime: at(t, "2021-06-30T23:00:00Z"), Channel: 1, Value: -1.5},
		{Line: 3, DateTime: at(t, "2021-07-01T00:00:00Z"), Channel: 1, Value: -1.4},
		{Line: 4, DateTime: at(t, "2021-07-01T00:00:00Z"), Channel: 2, Value: -2.0},
		{Line: 5, DateTime: at(t, "2021-07-02T00:00:00Z"), Channel: 2, Value: -2.1},
	}

	target := Target{InstallationID: 11, LoggerDownloadID: 5, Kind: config.KindCable}
	sum, err := New(svc, zerolog.Nop()).Load(context.Background(), target, readings)
	require.NoError(t, err)

	assert.Equal(t, Summary{Read: 4, Unresolved: 2, Prepared: 2, Success: 1, SkippedDuplicate: 1}, sum)
	require.Len(t, svc.cableItems, 2)
	assert.Equal(t, int64(100), svc.cableItems[0].CableSensorID)
	assert.Equal(t, int64(101), svc.cableItems[1].CableSensorID)
	assert.Equal(t, int64(9), svc.cableItems[0].LoggerID)
	assert.Equal(t, int64(5), svc.cableItems[0].LoggerDownloadID)
	assert.Equal(t, 2, svc.lookups, "one lookup per chain position")
}

func TestLoadDryRunWritesNothing(t *testing.T) {
	svc := newFake()
	readings := []export.Reading{{Line: 2, DateTime: at(t, "2021-08-01T00:00:00Z"), Channel: 1, Value: 3}}

	target := Target{InstallationID: 11, LoggerDownloadID: 5, Kind: config.KindCable, DryRun: true}
	sum, err := New(svc, zerolog.Nop()).Load(context.Background(), target, readings)
	require.NoError(t, err)
	assert.Equal(t, Summary{Read: 1, Prepared: 1}, sum)
	assert.Nil(t, svc.cableItems)
}

func TestLoadAirGroundCountsFailures(t *testing.T) {
	svc := newFake()
	readings := []export.Reading{
		{Line: 2, DateTime: at(t, "2021-08-01T00:00:00Z"), Channel: 1, Value: 12.5},
		{Line: 3, DateTime: at(t, "2021-08-01T00:00:00Z"), Channel: 2, Value: 4.0},
	}

	target := Target{InstallationID: 11, LoggerDownloadID: 5, Kind: config.KindAirGround}
	sum, err := New(svc, zerolog.Nop()).Load(context.Background(), target, readings)
	require.NoError(t, err)
	assert.Equal(t, Summary{Read: 2, Prepared: 2, Success: 1, Failed: 1}, sum)
	require.Len(t, svc.airItems, 2)
	assert.Equal(t, 2, svc.airItems[1].ChannelNumber)
	assert.Equal(t, int64(11), svc.airItems[1].InstallationID)
}

func TestLoadFourChannel(t *testing.T) {
	svc := newFake()
	readings := []export.Reading{{Line: 2, DateTime: at(t, "2021-08-01T00:00:00Z"), Channel: 4, Value: -0.2}}

	target := Target{InstallationID: 11, LoggerDownloadID: 5, Kind: config.KindFourChannel}
	sum, err := New(svc, zerolog.Nop()).Load(context.Background(), target, readings)
	require.NoError(t, err)
	assert.Equal(t, Summary{Read: 1, Prepared: 1, Success: 1}, sum)
	require.Len(t, svc.fourItems, 1)
	assert.Equal(t, 4, svc.fourItems[0].ChannelNumber)
}

func TestLoadRejectsDownloadFromAnotherInstallation(t *testing.T) {
	svc := newFake()
	target := Target{InstallationID: 12, LoggerDownloadID: 5, Kind: config.KindAirGround}
	_, err := New(svc, zerolog.Nop()).Load(context.Background(), target, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download 5 belongs to installation 11, not 12")

	target = Target{InstallationID: 11, LoggerDownloadID: 6, Kind: config.KindAirGround}
	_, err = New(svc, zerolog.Nop()).Load(context.Background(), target, nil)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
