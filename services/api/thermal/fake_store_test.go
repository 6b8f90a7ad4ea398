package thermal

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
)

// fakeStore keeps rows in memory. Methods not overridden here fall through to the embedded
// nil Store and panic, which flags tests that reach storage they did not expect.
type fakeStore struct {
	Store

	mu           sync.Mutex
	nextID       int64
	sites        []models.Site
	installs     []models.Installation
	pairs        []models.InstallationPair
	visits       []models.InstallationVisit
	loggers      []models.Logger
	deployments  []models.LoggerDeployment
	downloads    []models.LoggerDownload
	cables       []models.Cable
	sensors      []models.CableSensor
	manualReads  []models.CableManualRead
	cableData    []models.CableLoggerData
	stickUps     []models.StickUp
	mappings     []models.CableSensorMapping
	beadColours  []models.BeadColourYear
	tubes        []models.ThawTube
	readings     []models.ThawTubeReading
	beads        []models.ThawTubeBeadMeasurement
	references   []models.ThawTubeReference
	fourSensors  []models.FourChannelSensor
	fourData     []models.FourChannelData
	airGround    []models.AirGroundTemperatureData
	stations     []models.WeatherStation
	stationDls   []models.WeatherStationDownload
	hourly       []models.WeatherStationHourlyData
	daily        []models.WeatherStationDailyData
	dumpSource   models.DumpSource
	lastDumpSeen *temporal.DumpQuery
}

func newTestService(st *fakeStore) *Service {
	return New(st, nil, zerolog.Nop(), Options{BulkConcurrency: 4})
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func first[T any](rows []T, match func(T) bool) *T {
	for i := range rows {
		if match(rows[i]) {
			r := rows[i]
			return &r
		}
	}
	return nil
}

func filter[T any](rows []T, match func(T) bool) []T {
	var out []T
	for _, r := range rows {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) InsertSite(_ context.Context, s models.Site) (models.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.id()
	f.sites = append(f.sites, s)
	return s, nil
}

func (f *fakeStore) GetSite(_ context.Context, id int64) (*models.Site, error) {
	return first(f.sites, func(s models.Site) bool { return s.ID == id }), nil
}

func (f *fakeStore) GetSiteByCode(_ context.Context, code string) (*models.Site, error) {
	return first(f.sites, func(s models.Site) bool { return s.SiteCode == code }), nil
}

func (f *fakeStore) InsertInstallation(_ context.Context, in models.Installation) (models.Installation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in.ID = f.id()
	f.installs = append(f.installs, in)
	return in, nil
}

func (f *fakeStore) GetInstallation(_ context.Context, id int64) (*models.Installation, error) {
	return first(f.installs, func(i models.Installation) bool { return i.ID == id }), nil
}

func (f *fakeStore) GetInstallationByCode(_ context.Context, code string) (*models.Installation, error) {
	return first(f.installs, func(i models.Installation) bool { return i.InstallationCode == code }), nil
}

func (f *fakeStore) ListInstallationsOfType(_ context.Context, typ string) ([]models.Installation, error) {
	return filter(f.installs, func(i models.Installation) bool { return i.InstallationType == typ }), nil
}

func (f *fakeStore) UpdateInstallation(_ context.Context, id int64, p models.InstallationPatch) (models.Installation, error) {
	for i := range f.installs {
		if f.installs[i].ID != id {
			continue
		}
		in := &f.installs[i]
		if p.InstallationName != nil {
			in.InstallationName = *p.InstallationName
		}
		if p.Notes != nil {
			in.Notes = p.Notes
		}
		if p.Latitude != nil {
			in.Latitude = p.Latitude
		}
		return *in, nil
	}
	return models.Installation{}, nil
}

func (f *fakeStore) InsertInstallationPair(_ context.Context, p models.InstallationPair) (models.InstallationPair, error) {
	p.ID = f.id()
	f.pairs = append(f.pairs, p)
	return p, nil
}

func (f *fakeStore) GetInstallationPair(_ context.Context, id int64) (*models.InstallationPair, error) {
	if p := first(f.pairs, func(p models.InstallationPair) bool { return p.InstallationID1 == id }); p != nil {
		return p, nil
	}
	return first(f.pairs, func(p models.InstallationPair) bool { return p.InstallationID2 == id }), nil
}

func (f *fakeStore) InsertVisit(_ context.Context, v models.InstallationVisit) (models.InstallationVisit, error) {
	v.ID = f.id()
	f.visits = append(f.visits, v)
	return v, nil
}

func (f *fakeStore) GetVisit(_ context.Context, id int64) (*models.InstallationVisit, error) {
	return first(f.visits, func(v models.InstallationVisit) bool { return v.ID == id }), nil
}

func (f *fakeStore) GetVisitByDate(_ context.Context, installationID int64, at time.Time) (*models.InstallationVisit, error) {
	return first(f.visits, func(v models.InstallationVisit) bool {
		return v.InstallationID == installationID && v.VisitDate.Equal(at)
	}), nil
}

func (f *fakeStore) ListVisits(_ context.Context, installationID int64) ([]models.InstallationVisit, error) {
	return filter(f.visits, func(v models.InstallationVisit) bool { return v.InstallationID == installationID }), nil
}

func (f *fakeStore) VisitDates(_ context.Context, ids []int64) (map[int64]time.Time, error) {
	out := make(map[int64]time.Time)
	for _, v := range f.visits {
		if slices.Contains(ids, v.ID) {
			out[v.ID] = v.VisitDate
		}
	}
	return out, nil
}

func (f *fakeStore) DumpSource(_ context.Context, q temporal.DumpQuery) (models.DumpSource, error) {
	f.lastDumpSeen = &q
	return f.dumpSource, nil
}

func (f *fakeStore) InsertLogger(_ context.Context, l models.Logger) (models.Logger, error) {
	l.ID = f.id()
	f.loggers = append(f.loggers, l)
	return l, nil
}

func (f *fakeStore) GetLogger(_ context.Context, id int64) (*models.Logger, error) {
	return first(f.loggers, func(l models.Logger) bool { return l.ID == id }), nil
}

func (f *fakeStore) GetLoggerBySerialAndType(_ context.Context, sn, typ string) (*models.Logger, error) {
	return first(f.loggers, func(l models.Logger) bool { return l.LoggerSerialNumber == sn && l.LoggerType == typ }), nil
}

func (f *fakeStore) ListLoggers(_ context.Context, ids []int64) ([]models.Logger, error) {
	return filter(f.loggers, func(l models.Logger) bool { return slices.Contains(ids, l.ID) }), nil
}

func (f *fakeStore) InsertDeployment(_ context.Context, d models.LoggerDeployment) (models.LoggerDeployment, error) {
	d.ID = f.id()
	f.deployments = append(f.deployments, d)
	return d, nil
}

func (f *fakeStore) GetDeployment(_ context.Context, id int64) (*models.LoggerDeployment, error) {
	return first(f.deployments, func(d models.LoggerDeployment) bool { return d.ID == id }), nil
}

func (f *fakeStore) ListDeployments(_ context.Context, installationID int64) ([]models.LoggerDeployment, error) {
	return filter(f.deployments, func(d models.LoggerDeployment) bool { return d.InstallationID == installationID }), nil
}

func (f *fakeStore) ListDeploymentsOfLogger(_ context.Context, installationID, loggerID int64) ([]models.LoggerDeployment, error) {
	return filter(f.deployments, func(d models.LoggerDeployment) bool {
		return d.InstallationID == installationID && d.LoggerID == loggerID
	}), nil
}

func (f *fakeStore) ListDeploymentsAtVisits(_ context.Context, ids []int64) ([]models.LoggerDeployment, error) {
	return filter(f.deployments, func(d models.LoggerDeployment) bool {
		return (d.DeploymentVisitID != nil && slices.Contains(ids, *d.DeploymentVisitID)) ||
			(d.ExtractionVisitID != nil && slices.Contains(ids, *d.ExtractionVisitID))
	}), nil
}

func (f *fakeStore) SetDeploymentExtraction(_ context.Context, id, visitID int64) (models.LoggerDeployment, error) {
	for i := range f.deployments {
		if f.deployments[i].ID == id {
			f.deployments[i].ExtractionVisitID = &visitID
			return f.deployments[i], nil
		}
	}
	return models.LoggerDeployment{}, nil
}

func (f *fakeStore) SetDeploymentLogger(_ context.Context, id, loggerID int64) (models.LoggerDeployment, error) {
	for i := range f.deployments {
		if f.deployments[i].ID == id {
			f.deployments[i].LoggerID = loggerID
			return f.deployments[i], nil
		}
	}
	return models.LoggerDeployment{}, nil
}

func (f *fakeStore) DeleteDeployment(_ context.Context, id int64) error {
	f.deployments = slices.DeleteFunc(f.deployments, func(d models.LoggerDeployment) bool { return d.ID == id })
	return nil
}

func (f *fakeStore) InsertDownload(_ context.Context, d models.LoggerDownload) (models.LoggerDownload, error) {
	d.ID = f.id()
	f.downloads = append(f.downloads, d)
	return d, nil
}

func (f *fakeStore) GetDownload(_ context.Context, id int64) (*models.LoggerDownload, error) {
	return first(f.downloads, func(d models.LoggerDownload) bool { return d.ID == id }), nil
}

func (f *fakeStore) GetDownloadByDeployment(_ context.Context, id int64) (*models.LoggerDownload, error) {
	return first(f.downloads, func(d models.LoggerDownload) bool { return d.DeploymentID == id }), nil
}

func (f *fakeStore) InsertCable(_ context.Context, c models.Cable) (models.Cable, error) {
	c.ID = f.id()
	f.cables = append(f.cables, c)
	return c, nil
}

func (f *fakeStore) GetCable(_ context.Context, id int64) (*models.Cable, error) {
	return first(f.cables, func(c models.Cable) bool { return c.ID == id }), nil
}

func (f *fakeStore) GetCableByInstallation(_ context.Context, id int64) (*models.Cable, error) {
	return first(f.cables, func(c models.Cable) bool { return c.InstallationID == id }), nil
}

func (f *fakeStore) InsertCableSensor(_ context.Context, s models.CableSensor) (models.CableSensor, error) {
	s.ID = f.id()
	f.sensors = append(f.sensors, s)
	return s, nil
}

func (f *fakeStore) GetCableSensor(_ context.Context, id int64) (*models.CableSensor, error) {
	return first(f.sensors, func(s models.CableSensor) bool { return s.ID == id }), nil
}

func (f *fakeStore) GetCableSensorByInstallDate(_ context.Context, cableID int64, number int, installed *time.Time) (*models.CableSensor, error) {
	return first(f.sensors, func(s models.CableSensor) bool {
		if s.CableID != cableID || s.NumberInChain != number {
			return false
		}
		if s.DateInstalled == nil || installed == nil {
			return s.DateInstalled == nil && installed == nil
		}
		return s.DateInstalled.Equal(*installed)
	}), nil
}

func (f *fakeStore) ListCableSensorsAtPosition(_ context.Context, cableID int64, number int) ([]models.CableSensor, error) {
	return filter(f.sensors, func(s models.CableSensor) bool { return s.CableID == cableID && s.NumberInChain == number }), nil
}

func (f *fakeStore) InsertManualRead(_ context.Context, r models.CableManualRead) (models.CableManualRead, error) {
	r.ID = f.id()
	f.manualReads = append(f.manualReads, r)
	return r, nil
}

func (f *fakeStore) GetManualRead(_ context.Context, sensorID, visitID int64) (*models.CableManualRead, error) {
	return first(f.manualReads, func(r models.CableManualRead) bool { return r.CableSensorID == sensorID && r.VisitID == visitID }), nil
}

func (f *fakeStore) InsertCableLoggerData(_ context.Context, d models.CableLoggerData) (models.CableLoggerData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d.ID = f.id()
	f.cableData = append(f.cableData, d)
	return d, nil
}

func (f *fakeStore) CableLoggerDataExists(_ context.Context, loggerID, sensorID int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return first(f.cableData, func(d models.CableLoggerData) bool {
		return d.LoggerID == loggerID && d.CableSensorID == sensorID && d.DateTime.Equal(at)
	}) != nil, nil
}

func (f *fakeStore) CableSensorDataExists(_ context.Context, sensorID int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return first(f.cableData, func(d models.CableLoggerData) bool {
		return d.CableSensorID == sensorID && d.DateTime.Equal(at)
	}) != nil, nil
}

func (f *fakeStore) ListCableLoggerData(_ context.Context, installationID int64) ([]models.CableLoggerDataRow, error) {
	var out []models.CableLoggerDataRow
	for _, d := range f.cableData {
		if d.InstallationID != installationID {
			continue
		}
		s := first(f.sensors, func(s models.CableSensor) bool { return s.ID == d.CableSensorID })
		out = append(out, models.CableLoggerDataRow{
			DateTime:     d.DateTime,
			Temperature:  d.Temperature,
			SensorNumber: s.NumberInChain,
			SensorDepth:  s.Depth,
		})
	}
	return out, nil
}

func (f *fakeStore) ListStickUps(_ context.Context, ids []int64) ([]models.StickUp, error) {
	return filter(f.stickUps, func(s models.StickUp) bool { return slices.Contains(ids, s.VisitID) }), nil
}

func (f *fakeStore) ListSensorMappings(_ context.Context, cableID int64) ([]models.CableSensorMapping, error) {
	return filter(f.mappings, func(m models.CableSensorMapping) bool { return m.CableID == cableID }), nil
}

func (f *fakeStore) InsertBeadColourYear(_ context.Context, b models.BeadColourYear) (models.BeadColourYear, error) {
	b.ID = f.id()
	f.beadColours = append(f.beadColours, b)
	return b, nil
}

func (f *fakeStore) GetBeadColourByYear(_ context.Context, year int) (*models.BeadColourYear, error) {
	return first(f.beadColours, func(b models.BeadColourYear) bool { return b.Year == year }), nil
}

func (f *fakeStore) GetBeadColourByColour(_ context.Context, colour string) (*models.BeadColourYear, error) {
	return first(f.beadColours, func(b models.BeadColourYear) bool { return b.Colour == colour }), nil
}

func (f *fakeStore) GetThawTubeByInstallation(_ context.Context, id int64) (*models.ThawTube, error) {
	return first(f.tubes, func(t models.ThawTube) bool { return t.InstallationID == id }), nil
}

func (f *fakeStore) GetThawTubeReading(_ context.Context, id int64) (*models.ThawTubeReading, error) {
	return first(f.readings, func(r models.ThawTubeReading) bool { return r.ID == id }), nil
}

func (f *fakeStore) ThawTubeVisitReadings(_ context.Context, installationID int64) ([]models.ThawTubeVisitReading, error) {
	var out []models.ThawTubeVisitReading
	for _, r := range f.readings {
		v := first(f.visits, func(v models.InstallationVisit) bool { return v.ID == r.VisitID })
		if v == nil || v.InstallationID != installationID {
			continue
		}
		out = append(out, models.ThawTubeVisitReading{
			ReadingID:  r.ID,
			DateTime:   v.VisitDate,
			RecordedBy: v.FieldParty,
			Activity:   v.RecordOfActivities,
			TubeHeight: r.TubeHeight,
			IceDepth:   r.IceDepth,
			ScribeMin:  r.ScribeMin,
			ScribeCurr: r.ScribeCurr,
			ScribeMax:  r.ScribeMax,
		})
	}
	return out, nil
}

func (f *fakeStore) GetBeadMeasurement(_ context.Context, readingID int64, year int) (*models.ThawTubeBeadMeasurement, error) {
	return first(f.beads, func(b models.ThawTubeBeadMeasurement) bool { return b.ReadingID == readingID && b.Year == year }), nil
}

func (f *fakeStore) InsertBeadMeasurement(_ context.Context, b models.ThawTubeBeadMeasurement) (models.ThawTubeBeadMeasurement, error) {
	b.ID = f.id()
	f.beads = append(f.beads, b)
	return b, nil
}

func (f *fakeStore) ListBeadMeasurements(_ context.Context, ids []int64) ([]models.ThawTubeBeadMeasurement, error) {
	return filter(f.beads, func(b models.ThawTubeBeadMeasurement) bool { return slices.Contains(ids, b.ReadingID) }), nil
}

func (f *fakeStore) ListThawTubeReferences(_ context.Context, id int64) ([]models.ThawTubeReference, error) {
	return filter(f.references, func(r models.ThawTubeReference) bool { return r.ThawTubeID == id }), nil
}

func (f *fakeStore) ListFourChannelSensors(_ context.Context, id int64) ([]models.FourChannelSensor, error) {
	return filter(f.fourSensors, func(s models.FourChannelSensor) bool { return s.InstallationID == id }), nil
}

func (f *fakeStore) InsertFourChannelData(_ context.Context, d models.FourChannelData) (models.FourChannelData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d.ID = f.id()
	f.fourData = append(f.fourData, d)
	return d, nil
}

func (f *fakeStore) FourChannelDataExists(_ context.Context, sensorID int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return first(f.fourData, func(d models.FourChannelData) bool {
		return d.FourChannelSensorID == sensorID && d.DateTime.Equal(at)
	}) != nil, nil
}

func (f *fakeStore) ListAirGroundData(_ context.Context, installationID int64) ([]models.ChannelDataRow, error) {
	var out []models.ChannelDataRow
	for _, d := range f.airGround {
		if d.InstallationID == installationID {
			out = append(out, models.ChannelDataRow{DateTime: d.DateTime, Temperature: d.Temperature, SensorNumber: d.ChannelNumber})
		}
	}
	return out, nil
}

func (f *fakeStore) InsertFourChannelSensor(_ context.Context, s models.FourChannelSensor) (models.FourChannelSensor, error) {
	s.ID = f.id()
	f.fourSensors = append(f.fourSensors, s)
	return s, nil
}

func (f *fakeStore) ListFourChannelData(_ context.Context, installationID int64) ([]models.ChannelDataRow, error) {
	var out []models.ChannelDataRow
	for _, d := range f.fourData {
		if d.InstallationID != installationID {
			continue
		}
		s := first(f.fourSensors, func(s models.FourChannelSensor) bool { return s.ID == d.FourChannelSensorID })
		depth := s.Depth
		out = append(out, models.ChannelDataRow{
			DateTime: d.DateTime, Temperature: d.Temperature, SensorNumber: s.ChannelNumber, SensorDepth: &depth,
		})
	}
	return out, nil
}

func (f *fakeStore) InsertWeatherStation(_ context.Context, w models.WeatherStation) (models.WeatherStation, error) {
	w.ID = f.id()
	f.stations = append(f.stations, w)
	return w, nil
}

func (f *fakeStore) GetWeatherStation(_ context.Context, id int64) (*models.WeatherStation, error) {
	return first(f.stations, func(w models.WeatherStation) bool { return w.ID == id }), nil
}

func (f *fakeStore) GetWeatherStationByInstallation(_ context.Context, installationID int64) (*models.WeatherStation, error) {
	return first(f.stations, func(w models.WeatherStation) bool { return w.InstallationID == installationID }), nil
}

func (f *fakeStore) UpdateWeatherStationStatus(_ context.Context, id int64, patch models.StationStatusPatch) (models.WeatherStation, error) {
	for i := range f.stations {
		if f.stations[i].ID != id {
			continue
		}
		if patch.ATStatus != nil {
			f.stations[i].ATStatus = patch.ATStatus
		}
		if patch.AnemoStatus != nil {
			f.stations[i].AnemoStatus = patch.AnemoStatus
		}
		if patch.SnowStatus != nil {
			f.stations[i].SnowStatus = patch.SnowStatus
		}
		return f.stations[i], nil
	}
	return models.WeatherStation{}, nil
}

func (f *fakeStore) InsertStationDownload(_ context.Context, d models.WeatherStationDownload) (models.WeatherStationDownload, error) {
	d.ID = f.id()
	f.stationDls = append(f.stationDls, d)
	return d, nil
}

func (f *fakeStore) GetStationDownload(_ context.Context, id int64) (*models.WeatherStationDownload, error) {
	return first(f.stationDls, func(d models.WeatherStationDownload) bool { return d.ID == id }), nil
}

func (f *fakeStore) GetStationDownloadByVisit(_ context.Context, visitID int64) (*models.WeatherStationDownload, error) {
	return first(f.stationDls, func(d models.WeatherStationDownload) bool { return d.VisitID == visitID }), nil
}

func (f *fakeStore) InsertHourlyData(_ context.Context, d models.WeatherStationHourlyData) (models.WeatherStationHourlyData, error) {
	d.ID = f.id()
	f.hourly = append(f.hourly, d)
	return d, nil
}

func (f *fakeStore) GetHourlyData(_ context.Context, stationID int64, at time.Time) (*models.WeatherStationHourlyData, error) {
	return first(f.hourly, func(d models.WeatherStationHourlyData) bool {
		return d.WeatherStationID == stationID && d.DateTime.Equal(at)
	}), nil
}

func (f *fakeStore) InsertDailyData(_ context.Context, d models.WeatherStationDailyData) (models.WeatherStationDailyData, error) {
	d.ID = f.id()
	f.daily = append(f.daily, d)
	return d, nil
}

func (f *fakeStore) GetDailyData(_ context.Context, stationID int64, at time.Time) (*models.WeatherStationDailyData, error) {
	return first(f.daily, func(d models.WeatherStationDailyData) bool {
		return d.WeatherStationID == stationID && d.DateTime.Equal(at)
	}), nil
}
