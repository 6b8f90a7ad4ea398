package models

import "time"

// Cable is a thermistor string installed in a borehole.
type Cable struct {
	ID             int64    `json:"id"`
	InstallationID int64    `json:"installation_id"`
	ConnectorType  string   `json:"connector_type"`
	Length         float64  `json:"length"`
	NumSensors     int      `json:"num_sensors"`
	BoreholeDepth  *float64 `json:"borehole_depth,omitempty"`
}

// CableSensor is one thermistor at a chain position. A replacement sensor is a new row with
// its own install date; a nil install date means the sensor dates from cable creation.
type CableSensor struct {
	ID            int64      `json:"id"`
	CableID       int64      `json:"cable_id"`
	DateInstalled *time.Time `json:"date_installed"`
	Depth         float64    `json:"depth"`
	SensorType    string     `json:"sensor_type"`
	NumberInChain int        `json:"number_in_chain"`
}

// CableManualRead is a hand-held reading of one sensor during a visit.
type CableManualRead struct {
	ID             int64    `json:"id"`
	CableSensorID  int64    `json:"cable_sensor_id"`
	InstallationID int64    `json:"installation_id"`
	VisitID        int64    `json:"visit_id"`
	Temperature    *float64 `json:"temperature"`
	Resistance     *float64 `json:"resistance,omitempty"`
	OL             *bool    `json:"ol,omitempty"`
	DriftUp        *bool    `json:"drift_up,omitempty"`
	DriftDown      *bool    `json:"drift_down,omitempty"`
}

// CableLoggerData is one logged temperature of a cable sensor.
type CableLoggerData struct {
	ID               int64     `json:"id"`
	LoggerID         int64     `json:"logger_id"`
	LoggerDownloadID int64     `json:"logger_download_id"`
	CableSensorID    int64     `json:"cable_sensor_id"`
	InstallationID   int64     `json:"installation_id"`
	DateTime         time.Time `json:"date_time"`
	Temperature      float64   `json:"temperature"`
}

// StickUp is the height of the casing above ground measured during a visit.
type StickUp struct {
	ID          int64   `json:"id"`
	VisitID     int64   `json:"visit_id"`
	Measurement float64 `json:"measurement"`
	Reference   *string `json:"reference,omitempty"`
}

// CableSensorMapping records which connector wires a sensor is read on.
type CableSensorMapping struct {
	ID            int64   `json:"id"`
	CableID       int64   `json:"cable_id"`
	CableSensorID int64   `json:"cable_sensor_id"`
	Mapping1      string  `json:"mapping_1"`
	Mapping2      *string `json:"mapping_2,omitempty"`
	NumberInChain int     `json:"number_in_chain,omitempty"`
}
