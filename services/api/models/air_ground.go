package models

import "time"

// AirGroundTemperatureData is one reading of an air or ground-surface logger channel.
type AirGroundTemperatureData struct {
	ID               int64     `json:"id"`
	LoggerID         int64     `json:"logger_id"`
	LoggerDownloadID int64     `json:"logger_download_id"`
	InstallationID   int64     `json:"installation_id"`
	DateTime         time.Time `json:"date_time"`
	ChannelNumber    int       `json:"channel_number"`
	Temperature      float64   `json:"temperature"`
}

// FourChannelSensor is the probe wired to one channel of a four-channel logger from its
// install date on.
type FourChannelSensor struct {
	ID             int64     `json:"id"`
	InstallationID int64     `json:"installation_id"`
	DateInstalled  time.Time `json:"date_installed"`
	Depth          float64   `json:"depth"`
	ChannelNumber  int       `json:"channel_number"`
}

type FourChannelData struct {
	ID                  int64     `json:"id"`
	LoggerID            int64     `json:"logger_id"`
	LoggerDownloadID    int64     `json:"logger_download_id"`
	InstallationID      int64     `json:"installation_id"`
	FourChannelSensorID int64     `json:"four_channel_sensor_id"`
	DateTime            time.Time `json:"date_time"`
	Temperature         float64   `json:"temperature"`
}
