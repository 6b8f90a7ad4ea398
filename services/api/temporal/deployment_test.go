package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
)

func id(v int64) *int64 { return &v }

func TestMostRecentDeploymentPrefersKnownStart(t *testing.T) {
	visits := map[int64]time.Time{
		10: *at("2021-06-01T00:00:00Z"),
		11: *at("2021-06-01T00:00:00Z"),
	}
	deployments := []models.LoggerDeployment{
		{ID: 2, InstallationID: 5, LoggerID: 9, ExtractionVisitID: id(11)},
		{ID: 1, InstallationID: 5, LoggerID: 9, DeploymentVisitID: id(10)},
	}

	got, ok := MostRecentDeployment(NewIntervals(deployments, visits))
	require.True(t, ok)
	assert.Equal(t, int64(1), got.Deployment.ID)

	// Order of input does not matter.
	deployments[0], deployments[1] = deployments[1], deployments[0]
	got, ok = MostRecentDeployment(NewIntervals(deployments, visits))
	require.True(t, ok)
	assert.Equal(t, int64(1), got.Deployment.ID)
}

func TestMostRecentDeploymentUsesExtractionWhenStartUnknown(t *testing.T) {
	visits := map[int64]time.Time{
		1: *at("2019-07-01T00:00:00Z"),
		2: *at("2020-07-01T00:00:00Z"),
		3: *at("2022-07-01T00:00:00Z"),
	}
	deployments := []models.LoggerDeployment{
		{ID: 1, DeploymentVisitID: id(1), ExtractionVisitID: id(2)},
		{ID: 2, ExtractionVisitID: id(3)},
	}
	got, ok := MostRecentDeployment(NewIntervals(deployments, visits))
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Deployment.ID)

	_, ok = MostRecentDeployment(nil)
	assert.False(t, ok)
}

func TestOpenDeploymentsAt(t *testing.T) {
	visits := map[int64]time.Time{
		1: *at("2020-06-01T00:00:00Z"),
		2: *at("2021-06-01T00:00:00Z"),
		3: *at("2021-06-20T00:00:00Z"),
		4: *at("2022-06-01T00:00:00Z"),
	}
	intervals := NewIntervals([]models.LoggerDeployment{
		{ID: 1, DeploymentVisitID: id(1), ExtractionVisitID: id(2)},
		{ID: 2, DeploymentVisitID: id(2)},
		{ID: 3, DeploymentVisitID: id(3)},
		{ID: 4, ExtractionVisitID: id(4)},
	}, visits)
	asOf := *at("2021-06-18T00:00:00Z")

	all := OpenDeploymentsAt(intervals, asOf, false)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].Deployment.ID)
	assert.Equal(t, int64(3), all[1].Deployment.ID)

	closest := OpenDeploymentsAt(intervals, asOf, true)
	require.Len(t, closest, 1)
	assert.Equal(t, int64(3), closest[0].Deployment.ID)

	narrowed := OpenDeploymentsAt(intervals, asOf, false, WithTolerance(24*5))
	require.Len(t, narrowed, 1)
	assert.Equal(t, int64(3), narrowed[0].Deployment.ID)

	assert.Empty(t, OpenDeploymentsAt(intervals, asOf, true, WithTolerance(1)))
}

func TestCurrentlyDeployed(t *testing.T) {
	visits := map[int64]time.Time{
		1: *at("2019-06-01T00:00:00Z"),
		2: *at("2020-06-01T00:00:00Z"),
		3: *at("2021-06-01T00:00:00Z"),
	}
	deployments := []models.LoggerDeployment{
		{ID: 1, LoggerID: 100, DeploymentVisitID: id(1), ExtractionVisitID: id(2)},
		{ID: 2, LoggerID: 200, DeploymentVisitID: id(2)},
		{ID: 3, LoggerID: 300},
	}

	got, ok := CurrentlyDeployed(NewIntervals(deployments, visits))
	require.True(t, ok)
	assert.Equal(t, int64(200), got.Deployment.LoggerID)

	// Closing the open interval removes it from the answer.
	require.NoError(t, CloseDeployment(&deployments[1], 3))
	got, ok = CurrentlyDeployed(NewIntervals(deployments, visits))
	require.True(t, ok)
	assert.Equal(t, int64(300), got.Deployment.LoggerID, "undated open intervals sort last")

	require.NoError(t, CloseDeployment(&deployments[2], 3))
	_, ok = CurrentlyDeployed(NewIntervals(deployments, visits))
	assert.False(t, ok)
}

func TestCloseDeploymentIsOneWay(t *testing.T) {
	d := models.LoggerDeployment{ID: 1, DeploymentVisitID: id(1)}
	require.NoError(t, CloseDeployment(&d, 2))
	assert.Equal(t, int64(2), *d.ExtractionVisitID)

	err := CloseDeployment(&d, 3)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
	assert.Equal(t, int64(2), *d.ExtractionVisitID)
}
