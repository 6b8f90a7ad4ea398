package thermal

import (
	"context"
	"time"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

// Lookups return (nil, nil) when no row matches. Inserts return the stored row with its
// assigned identity.

type SiteStore interface {
	InsertSite(ctx context.Context, s models.Site) (models.Site, error)
	GetSite(ctx context.Context, id int64) (*models.Site, error)
	GetSiteByCode(ctx context.Context, code string) (*models.Site, error)

	InsertInstallation(ctx context.Context, in models.Installation) (models.Installation, error)
	GetInstallation(ctx context.Context, id int64) (*models.Installation, error)
	GetInstallationByCode(ctx context.Context, code string) (*models.Installation, error)
	ListInstallationsAtSite(ctx context.Context, siteID int64) ([]models.Installation, error)
	ListInstallationsOfType(ctx context.Context, installationType string) ([]models.Installation, error)
	UpdateInstallation(ctx context.Context, id int64, patch models.InstallationPatch) (models.Installation, error)

	InsertInstallationPair(ctx context.Context, p models.InstallationPair) (models.InstallationPair, error)
	GetInstallationPair(ctx context.Context, installationID int64) (*models.InstallationPair, error)
}

type VisitStore interface {
	InsertVisit(ctx context.Context, v models.InstallationVisit) (models.InstallationVisit, error)
	GetVisit(ctx context.Context, id int64) (*models.InstallationVisit, error)
	GetVisitByDate(ctx context.Context, installationID int64, at time.Time) (*models.InstallationVisit, error)
	ListVisits(ctx context.Context, installationID int64) ([]models.InstallationVisit, error)
	VisitDates(ctx context.Context, ids []int64) (map[int64]time.Time, error)

	InsertALProbe(ctx context.Context, m models.ALProbeMeasurement) (models.ALProbeMeasurement, error)
	GetALProbe(ctx context.Context, visitID int64, probeNumber int) (*models.ALProbeMeasurement, error)
	ALProbeHistory(ctx context.Context, installationID int64) ([]models.ALProbeHistoryRow, error)

	DumpSource(ctx context.Context, q temporal.DumpQuery) (models.DumpSource, error)
}

type LoggerStore interface {
	InsertLogger(ctx context.Context, l models.Logger) (models.Logger, error)
	GetLogger(ctx context.Context, id int64) (*models.Logger, error)
	GetLoggerBySerial(ctx context.Context, sn string) (*models.Logger, error)
	GetLoggerBySerialAndType(ctx context.Context, sn, loggerType string) (*models.Logger, error)
	ListLoggers(ctx context.Context, ids []int64) ([]models.Logger, error)
	UpdateLoggerType(ctx context.Context, id int64, loggerType string) (models.Logger, error)
	UpdateLoggerBatteryYear(ctx context.Context, id int64, year int) (models.Logger, error)

	InsertDeployment(ctx context.Context, d models.LoggerDeployment) (models.LoggerDeployment, error)
	GetDeployment(ctx context.Context, id int64) (*models.LoggerDeployment, error)
	ListDeployments(ctx context.Context, installationID int64) ([]models.LoggerDeployment, error)
	ListDeploymentsOfLogger(ctx context.Context, installationID, loggerID int64) ([]models.LoggerDeployment, error)
	ListDeploymentsAtVisits(ctx context.Context, visitIDs []int64) ([]models.LoggerDeployment, error)
	SetDeploymentExtraction(ctx context.Context, id, visitID int64) (models.LoggerDeployment, error)
	SetDeploymentLogger(ctx context.Context, id, loggerID int64) (models.LoggerDeployment, error)
	DeleteDeployment(ctx context.Context, id int64) error
	ReadableDeployments(ctx context.Context, ids []int64) ([]models.ReadableDeployment, error)

	InsertDownload(ctx context.Context, d models.LoggerDownload) (models.LoggerDownload, error)
	GetDownload(ctx context.Context, id int64) (*models.LoggerDownload, error)
	GetDownloadByDeployment(ctx context.Context, deploymentID int64) (*models.LoggerDownload, error)
	UpdateDownload(ctx context.Context, id int64, patch models.LoggerDownloadPatch) (models.LoggerDownload, error)
}

type CableStore interface {
	InsertCable(ctx context.Context, c models.Cable) (models.Cable, error)
	GetCable(ctx context.Context, id int64) (*models.Cable, error)
	GetCableByInstallation(ctx context.Context, installationID int64) (*models.Cable, error)
	UpdateCable(ctx context.Context, id int64, patch models.CablePatch) (models.Cable, error)

	InsertCableSensor(ctx context.Context, s models.CableSensor) (models.CableSensor, error)
	GetCableSensor(ctx context.Context, id int64) (*models.CableSensor, error)
	GetCableSensorByInstallDate(ctx context.Context, cableID int64, number int, installed *time.Time) (*models.CableSensor, error)
	ListCableSensors(ctx context.Context, cableID int64) ([]models.CableSensor, error)
	ListCableSensorsAtPosition(ctx context.Context, cableID int64, number int) ([]models.CableSensor, error)
	ListCableSensorsAtInstallation(ctx context.Context, installationID int64) ([]models.CableSensor, error)
	UpdateCableSensor(ctx context.Context, id int64, patch models.CableSensorPatch) (models.CableSensor, error)

	InsertManualRead(ctx context.Context, r models.CableManualRead) (models.CableManualRead, error)
	GetManualRead(ctx context.Context, sensorID, visitID int64) (*models.CableManualRead, error)
	ListManualReads(ctx context.Context, installationID int64) ([]models.ManualReadRow, error)

	InsertCableLoggerData(ctx context.Context, d models.CableLoggerData) (models.CableLoggerData, error)
	CableLoggerDataExists(ctx context.Context, loggerID, sensorID int64, at time.Time) (bool, error)
	CableSensorDataExists(ctx context.Context, sensorID int64, at time.Time) (bool, error)
	ListCableLoggerData(ctx context.Context, installationID int64) ([]models.CableLoggerDataRow, error)

	InsertStickUp(ctx context.Context, s models.StickUp) (models.StickUp, error)
	GetStickUp(ctx context.Context, visitID int64) (*models.StickUp, error)
	ListStickUps(ctx context.Context, visitIDs []int64) ([]models.StickUp, error)

	InsertSensorMapping(ctx context.Context, m models.CableSensorMapping) (models.CableSensorMapping, error)
	GetSensorMapping(ctx context.Context, sensorID int64) (*models.CableSensorMapping, error)
	ListSensorMappings(ctx context.Context, cableID int64) ([]models.CableSensorMapping, error)
}

type ThawTubeStore interface {
	InsertBeadColourYear(ctx context.Context, b models.BeadColourYear) (models.BeadColourYear, error)
	GetBeadColourByYear(ctx context.Context, year int) (*models.BeadColourYear, error)
	GetBeadColourByColour(ctx context.Context, colour string) (*models.BeadColourYear, error)

	InsertThawTube(ctx context.Context, t models.ThawTube) (models.ThawTube, error)
	GetThawTube(ctx context.Context, id int64) (*models.ThawTube, error)
	GetThawTubeByInstallation(ctx context.Context, installationID int64) (*models.ThawTube, error)

	InsertThawTubeReading(ctx context.Context, r models.ThawTubeReading) (models.ThawTubeReading, error)
	GetThawTubeReading(ctx context.Context, id int64) (*models.ThawTubeReading, error)
	GetThawTubeReadingByVisit(ctx context.Context, visitID int64) (*models.ThawTubeReading, error)
	ListThawTubeReadings(ctx context.Context, thawTubeID int64) ([]models.ThawTubeReading, error)
	ThawTubeVisitReadings(ctx context.Context, installationID int64) ([]models.ThawTubeVisitReading, error)

	InsertBeadMeasurement(ctx context.Context, b models.ThawTubeBeadMeasurement) (models.ThawTubeBeadMeasurement, error)
	GetBeadMeasurement(ctx context.Context, readingID int64, year int) (*models.ThawTubeBeadMeasurement, error)
	ListBeadMeasurements(ctx context.Context, readingIDs []int64) ([]models.ThawTubeBeadMeasurement, error)
	BeadHistory(ctx context.Context, thawTubeID int64) ([]models.BeadHistoryRow, error)

	InsertThawTubeReference(ctx context.Context, r models.ThawTubeReference) (models.ThawTubeReference, error)
	GetThawTubeReference(ctx context.Context, thawTubeID int64, at time.Time) (*models.ThawTubeReference, error)
	ListThawTubeReferences(ctx context.Context, thawTubeID int64) ([]models.ThawTubeReference, error)
}

type ChannelStore interface {
	InsertAirGroundData(ctx context.Context, d models.AirGroundTemperatureData) (models.AirGroundTemperatureData, error)
	AirGroundChannelDataExists(ctx context.Context, loggerID int64, channel int, at time.Time) (bool, error)
	AirGroundInstallationDataExists(ctx context.Context, installationID int64, at time.Time) (bool, error)
	ListAirGroundData(ctx context.Context, installationID int64) ([]models.ChannelDataRow, error)

	InsertFourChannelSensor(ctx context.Context, s models.FourChannelSensor) (models.FourChannelSensor, error)
	ListFourChannelSensors(ctx context.Context, installationID int64) ([]models.FourChannelSensor, error)
	InsertFourChannelData(ctx context.Context, d models.FourChannelData) (models.FourChannelData, error)
	FourChannelDataExists(ctx context.Context, sensorID int64, at time.Time) (bool, error)
	ListFourChannelData(ctx context.Context, installationID int64) ([]models.ChannelDataRow, error)
}

type WeatherStationStore interface {
	InsertWeatherStation(ctx context.Context, w models.WeatherStation) (models.WeatherStation, error)
	GetWeatherStation(ctx context.Context, id int64) (*models.WeatherStation, error)
	GetWeatherStationByInstallation(ctx context.Context, installationID int64) (*models.WeatherStation, error)
	UpdateWeatherStationStatus(ctx context.Context, id int64, patch models.StationStatusPatch) (models.WeatherStation, error)

	InsertStationDownload(ctx context.Context, d models.WeatherStationDownload) (models.WeatherStationDownload, error)
	GetStationDownload(ctx context.Context, id int64) (*models.WeatherStationDownload, error)
	GetStationDownloadByVisit(ctx context.Context, visitID int64) (*models.WeatherStationDownload, error)

	InsertHourlyData(ctx context.Context, d models.WeatherStationHourlyData) (models.WeatherStationHourlyData, error)
	GetHourlyData(ctx context.Context, stationID int64, at time.Time) (*models.WeatherStationHourlyData, error)
	InsertDailyData(ctx context.Context, d models.WeatherStationDailyData) (models.WeatherStationDailyData, error)
	GetDailyData(ctx context.Context, stationID int64, at time.Time) (*models.WeatherStationDailyData, error)
}

// Store is the persistence the service runs against.
type Store interface {
	SiteStore
	VisitStore
	LoggerStore
	CableStore
	ThawTubeStore
	ChannelStore
	WeatherStationStore
	Ping(ctx context.Context) error
}
