package models

import "time"

// LoggerHistoryRow is one visit of an installation with the loggers put in and taken out.
type LoggerHistoryRow struct {
	VisitID       int64     `json:"visit_id"`
	DateTime      time.Time `json:"date_time"`
	RecordedBy    string    `json:"recorded_by"`
	Activity      string    `json:"activity"`
	Notes         *string   `json:"notes"`
	LoggerIn      *string   `json:"logger_in"`
	LoggerInType  *string   `json:"logger_in_type"`
	LoggerOut     *string   `json:"logger_out"`
	LoggerOutType *string   `json:"logger_out_type"`
	StickUp       *float64  `json:"stick_up,omitempty"`
}

// ThawTubeVisitReading is a thaw tube reading joined with its visit.
type ThawTubeVisitReading struct {
	ReadingID  int64     `json:"-"`
	DateTime   time.Time `json:"date_time"`
	RecordedBy string    `json:"recorded_by"`
	Activity   string    `json:"activity"`
	Notes      *string   `json:"notes"`
	TubeHeight *float64  `json:"tube_height"`
	IceDepth   *float64  `json:"ice_depth"`
	ScribeMin  *float64  `json:"scribe_min"`
	ScribeCurr *float64  `json:"scribe_curr"`
	ScribeMax  *float64  `json:"scribe_max"`
}

// ThawTubeHistoryRow adds the derived active-layer values to a reading.
type ThawTubeHistoryRow struct {
	ThawTubeVisitReading
	ReferenceMeasurement  *float64 `json:"reference_measurement"`
	PreviousYearBeadDepth *float64 `json:"previous_year_bead_depth"`
	ThawPenetration       *float64 `json:"thaw_penetration"`
	MaxActiveLayer        *float64 `json:"max_active_layer"`
	SurfaceChange         *float64 `json:"surface_change"`
}

// BeadHistoryRow is a bead measurement dated by its visit.
type BeadHistoryRow struct {
	BeadYear   int       `json:"bead_year"`
	BeadColour string    `json:"bead_colour"`
	Depth      float64   `json:"depth"`
	DepthMax   *float64  `json:"depth_max"`
	DepthMin   *float64  `json:"depth_min"`
	DateTime   time.Time `json:"date_time"`
}

// ALProbeHistoryRow is an active-layer probe reading dated by its visit.
type ALProbeHistoryRow struct {
	ProbeNumber int       `json:"probe_number"`
	ProbeDepth  float64   `json:"probe_depth"`
	ProbeMaxed  bool      `json:"probe_maxed"`
	DateTime    time.Time `json:"date_time"`
}

// ReadableDeployment is a deployment with codes and dates in place of identities.
type ReadableDeployment struct {
	DeploymentID     int64      `json:"deployment_id"`
	InstallationCode string     `json:"installation_code"`
	LoggerSN         string     `json:"logger_sn"`
	DeploymentDate   *time.Time `json:"deployment_date"`
	ExtractionDate   *time.Time `json:"extraction_date"`
	DeploymentROA    *string    `json:"deployment_roa"`
	DeploymentNotes  *string    `json:"deployment_notes"`
}

// DumpVisit is a visit joined with its installation and site.
type DumpVisit struct {
	VisitID          int64
	InstallationID   int64
	RecordedBy       string
	VisitDate        time.Time
	Activity         string
	Notes            *string
	InstallationName string
	InstallationCode string
	InstallationType string
	Latitude         *float64
	Longitude        *float64
	Region           string
}

// DumpSource is everything the dump reconciler joins against.
type DumpSource struct {
	Visits      []DumpVisit
	Deployments []LoggerDeployment
	Loggers     []Logger
	Cables      []Cable
	StickUps    []StickUp
}

// DumpRow is one line of a regional or annual field summary.
type DumpRow struct {
	RecordedBy                string    `json:"recorded_by"`
	VisitDate                 time.Time `json:"visit_date"`
	RecordOfActivities        string    `json:"record_of_activities"`
	Notes                     *string   `json:"notes"`
	InstallationName          string    `json:"installation_name"`
	InstallationCode          string    `json:"installation_code"`
	InstallationType          string    `json:"installation_type"`
	Latitude                  *float64  `json:"latitude"`
	Longitude                 *float64  `json:"longitude"`
	LoggerDeployed            *string   `json:"logger_deployed"`
	LoggerTypeDeployed        *string   `json:"logger_type_deployed"`
	LoggerDeployedBatteryYear *int      `json:"logger_deployed_battery_year"`
	LoggerExtracted           *string   `json:"logger_extracted"`
	LoggerTypeExtracted       *string   `json:"logger_type_extracted"`
	ConnectorType             *string   `json:"connector_type"`
	StickUp                   *float64  `json:"stick_up"`
	Region                    string    `json:"-"`
}

// CableLoggerDataRow is a cable reading with its sensor position and logger.
type CableLoggerDataRow struct {
	DateTime     time.Time `json:"date_time"`
	Temperature  float64   `json:"temperature"`
	LoggerSN     string    `json:"logger_sn"`
	SensorNumber int       `json:"sensor_number"`
	SensorDepth  float64   `json:"sensor_depth"`
}

// ChannelDataRow is a channel reading of an air/ground or four-channel logger.
type ChannelDataRow struct {
	DateTime     time.Time `json:"date_time"`
	Temperature  float64   `json:"temperature"`
	LoggerSN     string    `json:"logger_sn"`
	SensorNumber int       `json:"sensor_number"`
	SensorDepth  *float64  `json:"sensor_depth,omitempty"`
}

// ManualReadRow is a manual read with its sensor and visit date.
type ManualReadRow struct {
	Temperature  *float64  `json:"temperature"`
	Resistance   *float64  `json:"resistance"`
	OL           *bool     `json:"ol"`
	DriftUp      *bool     `json:"drift_up"`
	DriftDown    *bool     `json:"drift_down"`
	SensorNumber int       `json:"sensor_number"`
	SensorDepth  float64   `json:"sensor_depth"`
	SensorType   string    `json:"sensor_type"`
	VisitDate    time.Time `json:"visit_date"`
}

// SurveyInfo is one line of a field survey sheet.
type SurveyInfo struct {
	InstallationCode string            `json:"installation_code"`
	InstallationName string            `json:"installation_name"`
	Label            string            `json:"label"`
	Notes            *string           `json:"notes"`
	LoggerSN         *string           `json:"logger_sn,omitempty"`
	LoggerType       *string           `json:"logger_type,omitempty"`
	Connector        *string           `json:"connector,omitempty"`
	WireMappings     map[string]string `json:"wire_mappings,omitempty"`
}
