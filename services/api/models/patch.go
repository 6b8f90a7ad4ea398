package models

// Patch types carry only the fields a caller wants changed; nil fields are left alone.

type InstallationPatch struct {
	InstallationCode *string  `json:"installation_code"`
	InstallationName *string  `json:"installation_name"`
	InstallationType *string  `json:"installation_type" validate:"omitempty,catalog=installation_type"`
	Latitude         *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Notes            *string  `json:"notes"`
	SiteID           *int64   `json:"site_id"`
	Status           *string  `json:"status"`
}

type CablePatch struct {
	ConnectorType *string  `json:"connector_type" validate:"omitempty,catalog=connector_type"`
	Length        *float64 `json:"length" validate:"omitempty,gt=0"`
	NumSensors    *int     `json:"num_sensors" validate:"omitempty,gt=0"`
	BoreholeDepth *float64 `json:"borehole_depth"`
}

type CableSensorPatch struct {
	DateInstalled *AwareTime `json:"date_installed"`
	Depth         *float64   `json:"depth"`
	SensorType    *string    `json:"sensor_type" validate:"omitempty,catalog=sensor_type"`
	NumberInChain *int       `json:"number_in_chain" validate:"omitempty,gt=0"`
}

type LoggerDownloadPatch struct {
	LoggerID        *int64     `json:"logger_id"`
	DeploymentID    *int64     `json:"deployment_id"`
	DownloadDate    *AwareTime `json:"download_date"`
	DownloadQuality *string    `json:"download_quality"`
}

type StationStatusPatch struct {
	ATStatus    *string `json:"at_status" validate:"omitempty,catalog=station_status"`
	AnemoStatus *string `json:"anemo_status" validate:"omitempty,catalog=station_status"`
	SnowStatus  *string `json:"snow_status" validate:"omitempty,catalog=station_status"`
}
