package models

import "time"

type ThawTube struct {
	ID             int64     `json:"id"`
	InstallationID int64     `json:"installation_id"`
	DateInstalled  time.Time `json:"date_installed"`
	Status         *string   `json:"status,omitempty"`
}

// ThawTubeReading holds the tube measurements taken during one visit.
type ThawTubeReading struct {
	ID            int64    `json:"id"`
	ThawTubeID    int64    `json:"thaw_tube_id"`
	VisitID       int64    `json:"visit_id"`
	ScribeCurr    *float64 `json:"scribe_curr,omitempty"`
	ScribeMax     *float64 `json:"scribe_max,omitempty"`
	ScribeMin     *float64 `json:"scribe_min,omitempty"`
	ScribeHeight  *float64 `json:"scribe_height,omitempty"`
	TubeHeight    *float64 `json:"tube_height,omitempty"`
	WaterDepth    *float64 `json:"water_depth,omitempty"`
	IceDepth      *float64 `json:"ice_depth,omitempty"`
	StopperToPlug *float64 `json:"stopper_to_plug,omitempty"`
	StopperPush   *float64 `json:"stopper_push,omitempty"`
	StopperOnPlug *bool    `json:"stopper_on_plug,omitempty"`
	NewBeadIn     bool     `json:"new_bead_in"`
}

// ThawTubeBeadMeasurement is the depth of the bead placed in a given year.
type ThawTubeBeadMeasurement struct {
	ID         int64    `json:"id"`
	ReadingID  int64    `json:"reading_id"`
	ThawTubeID int64    `json:"thaw_tube_id"`
	Colour     string   `json:"colour"`
	Year       int      `json:"year"`
	Depth      float64  `json:"depth"`
	DepthMin   *float64 `json:"depth_min,omitempty"`
	DepthMax   *float64 `json:"depth_max,omitempty"`
}

// BeadColourYear assigns a bead colour to a season.
type BeadColourYear struct {
	ID     int64  `json:"id"`
	Year   int    `json:"year"`
	Colour string `json:"colour"`
}

// ThawTubeReference is a dated reference depth for a tube.
type ThawTubeReference struct {
	ID                   int64     `json:"id"`
	ThawTubeID           int64     `json:"thaw_tube_id"`
	Date                 time.Time `json:"date"`
	ReferenceMeasurement float64   `json:"reference_measurement"`
}
