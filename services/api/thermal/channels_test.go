package thermal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

func TestFourChannelDataFollowsSensorReplacement(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	inst := seedInstallation(st, TypeFourChannel)
	svc := newTestService(st)

	original, err := svc.CreateFourChannelSensor(ctx, FourChannelSensorInput{
		InstallationID: inst.ID, ChannelNumber: 2, Depth: 0.1, DateInstalled: aware(t, "2019-07-01T00:00:00Z"),
	})
	require.NoError(t, err)
	second, err := svc.CreateFourChannelSensor(ctx, FourChannelSensorInput{
		InstallationID: inst.ID, ChannelNumber: 2, Depth: 0.3, DateInstalled: aware(t, "2021-07-01T00:00:00Z"),
	})
	require.NoError(t, err)
	_, err = svc.CreateFourChannelSensor(ctx, FourChannelSensorInput{
		InstallationID: inst.ID, ChannelNumber: 2, DateInstalled: aware(t, "2021-07-01T00:00:00Z"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	_, err = svc.CreateFourChannelSensor(ctx, FourChannelSensorInput{
		InstallationID: inst.ID, ChannelNumber: 5, DateInstalled: aware(t, "2021-07-01T00:00:00Z"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	in := FourChannelDataInput{
		LoggerID: 1, LoggerDownloadID: 1, InstallationID: inst.ID, ChannelNumber: 2,
		DateTime: aware(t, "2020-01-01T00:00:00Z"), Temperature: -10,
	}
	d, err := svc.CreateFourChannelData(ctx, in, false)
	require.NoError(t, err)
	assert.Equal(t, original.ID, d.FourChannelSensorID)

	in.DateTime = aware(t, "2022-01-01T00:00:00Z")
	d, err = svc.CreateFourChannelData(ctx, in, false)
	require.NoError(t, err)
	assert.Equal(t, second.ID, d.FourChannelSensorID)

	d, err = svc.CreateFourChannelData(ctx, in, true)
	require.NoError(t, err)
	assert.Nil(t, d)

	in.ChannelNumber = 3
	_, err = svc.CreateFourChannelData(ctx, in, false)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	in.ChannelNumber = 2
	in.DateTime = aware(t, "2018-01-01T00:00:00Z")
	_, err = svc.CreateFourChannelData(ctx, in, false)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	means, err := svc.FourChannelMeans(ctx, inst.ID, "Y")
	require.NoError(t, err)
	require.Len(t, means, 2)
	assert.Equal(t, date("2020-01-01T00:00:00Z"), means[0].Period)
	assert.Equal(t, 0.1, *means[0].Channels[2].Depth)
	assert.Equal(t, 0.3, *means[1].Channels[2].Depth)
}

func TestAirGroundMeans(t *testing.T) {
	ctx := context.Background()
	st := &fakeStore{}
	inst := seedInstallation(st, TypeAir)
	for i, ts := range []string{"2021-03-01T00:00:00Z", "2021-03-20T00:00:00Z", "2021-04-02T00:00:00Z"} {
		st.airGround = append(st.airGround, models.AirGroundTemperatureData{
			ID: st.id(), InstallationID: inst.ID, ChannelNumber: 1, DateTime: date(ts), Temperature: float64(i * 2),
		})
	}
	svc := newTestService(st)

	rows, err := svc.AirGroundMeans(ctx, inst.ID, "M")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, date("2021-03-01T00:00:00Z"), rows[0].Period)
	assert.InDelta(t, 1.0, rows[0].Value, 1e-9)
	assert.InDelta(t, 4.0, rows[1].Value, 1e-9)

	_, err = svc.AirGroundMeans(ctx, inst.ID+1, "M")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
