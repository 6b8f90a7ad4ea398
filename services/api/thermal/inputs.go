package thermal

import "github.com/02loveslollipop/permafrost-field-api/services/api/models"

// Request bodies for the create operations. Ids, timestamps and catalog values are checked
// by the validator before any store call.

type SiteInput struct {
	SiteName  string  `json:"site_name" validate:"required"`
	SiteCode  string  `json:"site_code" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Region    string  `json:"region" validate:"required,catalog=region"`
	Approach  *string `json:"approach"`
	Notes     *string `json:"notes"`
}

func (in SiteInput) model() models.Site {
	return models.Site{
		SiteName:  in.SiteName,
		SiteCode:  in.SiteCode,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Region:    in.Region,
		Approach:  in.Approach,
		Notes:     in.Notes,
	}
}

type InstallationInput struct {
	InstallationCode string   `json:"installation_code" validate:"required"`
	InstallationName string   `json:"installation_name" validate:"required"`
	InstallationType string   `json:"installation_type" validate:"required,catalog=installation_type"`
	SiteID           int64    `json:"site_id" validate:"required"`
	Latitude         *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Notes            *string  `json:"notes"`
	Status           *string  `json:"status"`
}

func (in InstallationInput) model() models.Installation {
	return models.Installation{
		InstallationCode: in.InstallationCode,
		InstallationName: in.InstallationName,
		InstallationType: in.InstallationType,
		SiteID:           in.SiteID,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		Notes:            in.Notes,
		Status:           in.Status,
	}
}

type InstallationPairInput struct {
	InstallationID1 int64 `json:"installation_id_1" validate:"required"`
	InstallationID2 int64 `json:"installation_id_2" validate:"required,nefield=InstallationID1"`
}

type VisitInput struct {
	InstallationID     int64            `json:"installation_id" validate:"required"`
	VisitDate          models.AwareTime `json:"visit_date" validate:"required,aware"`
	FieldParty         string           `json:"field_party" validate:"required"`
	RecordOfActivities string           `json:"record_of_activities" validate:"required"`
	Notes              *string          `json:"notes"`
}

func (in VisitInput) model() models.InstallationVisit {
	return models.InstallationVisit{
		InstallationID:     in.InstallationID,
		VisitDate:          in.VisitDate.Instant(),
		FieldParty:         in.FieldParty,
		RecordOfActivities: in.RecordOfActivities,
		Notes:              in.Notes,
	}
}

type ALProbeInput struct {
	VisitID     int64   `json:"visit_id" validate:"required"`
	ProbeNumber int     `json:"probe_number" validate:"required,gt=0"`
	Measurement float64 `json:"measurement"`
	ProbeMaxed  bool    `json:"probe_maxed"`
}

type LoggerInput struct {
	LoggerSerialNumber string  `json:"logger_serial_number" validate:"required"`
	LoggerType         string  `json:"logger_type" validate:"required,catalog=logger_type"`
	BatteryYear        *int    `json:"battery_year" validate:"omitempty,batteryyear"`
	AssetTag           *string `json:"asset_tag"`
}

type DeploymentInput struct {
	InstallationID    int64  `json:"installation_id" validate:"required"`
	LoggerID          int64  `json:"logger_id" validate:"required"`
	DeploymentVisitID *int64 `json:"deployment_visit_id"`
	ExtractionVisitID *int64 `json:"extraction_visit_id"`
}

type DownloadInput struct {
	LoggerID        int64            `json:"logger_id" validate:"required"`
	DeploymentID    int64            `json:"deployment_id" validate:"required"`
	DownloadDate    models.AwareTime `json:"download_date" validate:"required,aware"`
	DownloadQuality string           `json:"download_quality" validate:"required"`
}

type CableInput struct {
	InstallationID int64    `json:"installation_id" validate:"required"`
	ConnectorType  string   `json:"connector_type" validate:"required,catalog=connector_type"`
	Length         float64  `json:"length" validate:"gte=0"`
	NumSensors     int      `json:"num_sensors" validate:"required,gt=0"`
	BoreholeDepth  *float64 `json:"borehole_depth" validate:"omitempty,gte=0"`
}

type CableSensorInput struct {
	CableID       int64             `json:"cable_id" validate:"required"`
	NumberInChain int               `json:"number_in_chain" validate:"required,gt=0"`
	Depth         float64           `json:"depth"`
	SensorType    string            `json:"sensor_type" validate:"required,catalog=sensor_type"`
	DateInstalled *models.AwareTime `json:"date_installed" validate:"omitempty,aware"`
}

type ManualReadInput struct {
	CableSensorID  int64    `json:"cable_sensor_id" validate:"required"`
	InstallationID int64    `json:"installation_id" validate:"required"`
	VisitID        int64    `json:"visit_id" validate:"required"`
	Temperature    *float64 `json:"temperature"`
	Resistance     *float64 `json:"resistance" validate:"omitempty,gt=0"`
	OL             *bool    `json:"ol"`
	DriftUp        *bool    `json:"drift_up"`
	DriftDown      *bool    `json:"drift_down"`
}

type CableLoggerDataInput struct {
	LoggerID         int64            `json:"logger_id" validate:"required"`
	LoggerDownloadID int64            `json:"logger_download_id" validate:"required"`
	CableSensorID    int64            `json:"cable_sensor_id" validate:"required"`
	InstallationID   int64            `json:"installation_id" validate:"required"`
	DateTime         models.AwareTime `json:"date_time" validate:"required,aware"`
	Temperature      float64          `json:"temperature"`
}

func (in CableLoggerDataInput) model() models.CableLoggerData {
	return models.CableLoggerData{
		LoggerID:         in.LoggerID,
		LoggerDownloadID: in.LoggerDownloadID,
		CableSensorID:    in.CableSensorID,
		InstallationID:   in.InstallationID,
		DateTime:         in.DateTime.Instant(),
		Temperature:      in.Temperature,
	}
}

type StickUpInput struct {
	VisitID     int64   `json:"visit_id" validate:"required"`
	Measurement float64 `json:"measurement"`
	Reference   *string `json:"reference"`
}

type SensorMappingInput struct {
	CableID       int64   `json:"cable_id" validate:"required"`
	CableSensorID int64   `json:"cable_sensor_id" validate:"required"`
	Mapping1      string  `json:"mapping_1" validate:"required"`
	Mapping2      *string `json:"mapping_2"`
}

type BeadColourYearInput struct {
	Year   int    `json:"year" validate:"required,gt=0"`
	Colour string `json:"colour" validate:"required"`
}

type ThawTubeInput struct {
	InstallationID int64            `json:"installation_id" validate:"required"`
	DateInstalled  models.AwareTime `json:"date_installed" validate:"required,aware"`
	Status         *string          `json:"status"`
}

type ThawTubeReadingInput struct {
	ThawTubeID    int64    `json:"thaw_tube_id" validate:"required"`
	VisitID       int64    `json:"visit_id" validate:"required"`
	ScribeCurr    *float64 `json:"scribe_curr" validate:"required"`
	ScribeMax     *float64 `json:"scribe_max" validate:"required"`
	ScribeMin     *float64 `json:"scribe_min" validate:"required"`
	ScribeHeight  *float64 `json:"scribe_height" validate:"required"`
	TubeHeight    *float64 `json:"tube_height" validate:"required"`
	WaterDepth    *float64 `json:"water_depth" validate:"required"`
	IceDepth      *float64 `json:"ice_depth" validate:"required"`
	StopperToPlug *float64 `json:"stopper_to_plug"`
	StopperPush   *float64 `json:"stopper_push"`
	StopperOnPlug *bool    `json:"stopper_on_plug" validate:"required"`
	NewBeadIn     bool     `json:"new_bead_in"`
}

func (in ThawTubeReadingInput) model() models.ThawTubeReading {
	return models.ThawTubeReading{
		ThawTubeID:    in.ThawTubeID,
		VisitID:       in.VisitID,
		ScribeCurr:    in.ScribeCurr,
		ScribeMax:     in.ScribeMax,
		ScribeMin:     in.ScribeMin,
		ScribeHeight:  in.ScribeHeight,
		TubeHeight:    in.TubeHeight,
		WaterDepth:    in.WaterDepth,
		IceDepth:      in.IceDepth,
		StopperToPlug: in.StopperToPlug,
		StopperPush:   in.StopperPush,
		StopperOnPlug: in.StopperOnPlug,
		NewBeadIn:     in.NewBeadIn,
	}
}

type BeadMeasurementInput struct {
	ReadingID  int64    `json:"reading_id" validate:"required"`
	ThawTubeID int64    `json:"thaw_tube_id" validate:"required"`
	Colour     string   `json:"colour" validate:"required"`
	Year       int      `json:"year" validate:"required,gt=0"`
	Depth      float64  `json:"depth"`
	DepthMin   *float64 `json:"depth_min"`
	DepthMax   *float64 `json:"depth_max"`
}

type ThawTubeReferenceInput struct {
	ThawTubeID           int64            `json:"thaw_tube_id" validate:"required"`
	Date                 models.AwareTime `json:"date" validate:"required,aware"`
	ReferenceMeasurement float64          `json:"reference_measurement"`
}

type AirGroundDataInput struct {
	LoggerID         int64            `json:"logger_id" validate:"required"`
	LoggerDownloadID int64            `json:"logger_download_id" validate:"required"`
	InstallationID   int64            `json:"installation_id" validate:"required"`
	DateTime         models.AwareTime `json:"date_time" validate:"required,aware"`
	ChannelNumber    int              `json:"channel_number" validate:"required,gt=0"`
	Temperature      float64          `json:"temperature"`
}

type FourChannelSensorInput struct {
	InstallationID int64            `json:"installation_id" validate:"required"`
	ChannelNumber  int              `json:"channel_number" validate:"required,gte=1,lte=4"`
	Depth          float64          `json:"depth"`
	DateInstalled  models.AwareTime `json:"date_installed" validate:"required,aware"`
}

type FourChannelDataInput struct {
	LoggerID         int64            `json:"logger_id" validate:"required"`
	LoggerDownloadID int64            `json:"logger_download_id" validate:"required"`
	InstallationID   int64            `json:"installation_id" validate:"required"`
	ChannelNumber    int              `json:"channel_number" validate:"required,gte=1,lte=4"`
	DateTime         models.AwareTime `json:"date_time" validate:"required,aware"`
	Temperature      float64          `json:"temperature"`
}

type WeatherStationInput struct {
	InstallationID     int64            `json:"installation_id" validate:"required"`
	LoggerSerialNumber string           `json:"logger_serial_number" validate:"required"`
	DateInstalled      models.AwareTime `json:"date_installed" validate:"required,aware"`
	BatteryYear        int              `json:"battery_year" validate:"required,batteryyear"`
	ATStatus           *string          `json:"at_status" validate:"omitempty,catalog=station_status"`
	AnemoStatus        *string          `json:"anemo_status" validate:"omitempty,catalog=station_status"`
	SnowStatus         *string          `json:"snow_status" validate:"omitempty,catalog=station_status"`
}

type StationDownloadInput struct {
	VisitID          int64            `json:"visit_id" validate:"required"`
	WeatherStationID int64            `json:"weather_station_id" validate:"required"`
	DownloadDate     models.AwareTime `json:"download_date" validate:"required,aware"`
	DownloadQuality  *string          `json:"download_quality"`
	ClockReset       *bool            `json:"clock_reset"`
	PublicTblGood    *bool            `json:"public_tbl_good"`
	StatusTblGood    *bool            `json:"status_tbl_good"`
	DailyTblGood     *bool            `json:"daily_tbl_good"`
	HourlyTblGood    *bool            `json:"hourly_tbl_good"`
	Notes            *string          `json:"notes"`
}

type HourlyDataInput struct {
	WeatherStationID int64            `json:"weather_station_id" validate:"required"`
	DownloadID       int64            `json:"download_id" validate:"required"`
	DateTime         models.AwareTime `json:"date_time" validate:"required,aware"`
	InternalTempAvg  *float64         `json:"internal_temp_avg"`
	AirTempAvg       *float64         `json:"air_temp_avg"`
	WindSpeedAvg     *float64         `json:"wind_speed_avg"`
	WindSpeedStd     *float64         `json:"wind_speed_std"`
	SnowDepth        *float64         `json:"snow_depth"`
}

type DailyDataInput struct {
	WeatherStationID int64             `json:"weather_station_id" validate:"required"`
	DownloadID       int64             `json:"download_id" validate:"required"`
	DateTime         models.AwareTime  `json:"date_time" validate:"required,aware"`
	InternalTempMin  *float64          `json:"internal_temp_min"`
	InternalTempMax  *float64          `json:"internal_temp_max"`
	AirTempAvg       *float64          `json:"air_temp_avg"`
	AirTempMax       *float64          `json:"air_temp_max"`
	TimeAirTempMax   *models.AwareTime `json:"time_air_temp_max" validate:"omitempty,aware"`
	AirTempMin       *float64          `json:"air_temp_min"`
	TimeAirTempMin   *models.AwareTime `json:"time_air_temp_min" validate:"omitempty,aware"`
	WindSpeedAvg     *float64          `json:"wind_speed_avg"`
	WindSpeedMax     *float64          `json:"wind_speed_max"`
	TimeWindSpeedMax *models.AwareTime `json:"time_wind_speed_max" validate:"omitempty,aware"`
	SnowDepth        *float64          `json:"snow_depth"`
}
