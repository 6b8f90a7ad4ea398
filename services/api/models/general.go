// Package models holds the records stored and returned by the service.
package models

import "time"

// Site is a named field location grouping installations.
type Site struct {
	ID        int64   `json:"id"`
	SiteName  string  `json:"site_name"`
	SiteCode  string  `json:"site_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Region    string  `json:"region"`
	Approach  *string `json:"approach,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Installation is one instrument setup at a site.
type Installation struct {
	ID               int64    `json:"id"`
	InstallationCode string   `json:"installation_code"`
	InstallationName string   `json:"installation_name"`
	InstallationType string   `json:"installation_type"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	SiteID           int64    `json:"site_id"`
	Notes            *string  `json:"notes,omitempty"`
	Status           *string  `json:"status,omitempty"`
}

// InstallationPair links two co-located installations.
type InstallationPair struct {
	ID              int64 `json:"id"`
	InstallationID1 int64 `json:"installation_id_1"`
	InstallationID2 int64 `json:"installation_id_2"`
}

// InstallationVisit is a dated field event at an installation.
type InstallationVisit struct {
	ID                 int64     `json:"id"`
	InstallationID     int64     `json:"installation_id"`
	VisitDate          time.Time `json:"visit_date"`
	FieldParty         string    `json:"field_party"`
	RecordOfActivities string    `json:"record_of_activities"`
	Notes              *string   `json:"notes,omitempty"`
}

// ALProbeMeasurement is an active-layer probe depth taken during a visit.
type ALProbeMeasurement struct {
	ID          int64   `json:"id"`
	VisitID     int64   `json:"visit_id"`
	ProbeNumber int     `json:"probe_number"`
	Measurement float64 `json:"measurement"`
	ProbeMaxed  bool    `json:"probe_maxed"`
}

// Logger is a data logger identified by serial number and type.
type Logger struct {
	ID                 int64   `json:"id"`
	LoggerSerialNumber string  `json:"logger_serial_number"`
	LoggerType         string  `json:"logger_type"`
	BatteryYear        *int    `json:"battery_year,omitempty"`
	AssetTag           *string `json:"asset_tag,omitempty"`
}

// LoggerDeployment is the interval [deployment visit, extraction visit) a logger spent at an
// installation. A nil deployment visit means the start is unknown; a nil extraction visit
// means the logger has not been recovered.
type LoggerDeployment struct {
	ID                int64  `json:"id"`
	InstallationID    int64  `json:"installation_id"`
	LoggerID          int64  `json:"logger_id"`
	DeploymentVisitID *int64 `json:"deployment_visit_id"`
	ExtractionVisitID *int64 `json:"extraction_visit_id"`
}

// IsOpen reports whether the logger is still in place.
func (d LoggerDeployment) IsOpen() bool {
	return d.ExtractionVisitID == nil
}

// LoggerDownload is one data retrieval from a deployed logger.
type LoggerDownload struct {
	ID              int64     `json:"id"`
	LoggerID        int64     `json:"logger_id"`
	DeploymentID    int64     `json:"deployment_id"`
	DownloadDate    time.Time `json:"download_date"`
	DownloadQuality string    `json:"download_quality"`
}
