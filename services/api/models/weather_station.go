package models

import "time"

type WeatherStation struct {
	ID                 int64     `json:"id"`
	InstallationID     int64     `json:"installation_id"`
	LoggerSerialNumber string    `json:"logger_serial_number"`
	DateInstalled      time.Time `json:"date_installed"`
	BatteryYear        int       `json:"battery_year"`
	ATStatus           *string   `json:"at_status,omitempty"`
	AnemoStatus        *string   `json:"anemo_status,omitempty"`
	SnowStatus         *string   `json:"snow_status,omitempty"`
}

type WeatherStationDownload struct {
	ID               int64     `json:"id"`
	VisitID          int64     `json:"visit_id"`
	WeatherStationID int64     `json:"weather_station_id"`
	DownloadDate     time.Time `json:"download_date"`
	DownloadQuality  *string   `json:"download_quality,omitempty"`
	ClockReset       *bool     `json:"clock_reset,omitempty"`
	PublicTblGood    *bool     `json:"public_tbl_good,omitempty"`
	StatusTblGood    *bool     `json:"status_tbl_good,omitempty"`
	DailyTblGood     *bool     `json:"daily_tbl_good,omitempty"`
	HourlyTblGood    *bool     `json:"hourly_tbl_good,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
}

type WeatherStationHourlyData struct {
	ID               int64     `json:"id"`
	WeatherStationID int64     `json:"weather_station_id"`
	DownloadID       int64     `json:"download_id"`
	DateTime         time.Time `json:"date_time"`
	InternalTempAvg  *float64  `json:"internal_temp_avg,omitempty"`
	AirTempAvg       *float64  `json:"air_temp_avg,omitempty"`
	WindSpeedAvg     *float64  `json:"wind_speed_avg,omitempty"`
	WindSpeedStd     *float64  `json:"wind_speed_std,omitempty"`
	SnowDepth        *float64  `json:"snow_depth,omitempty"`
}

type WeatherStationDailyData struct {
	ID               int64      `json:"id"`
	WeatherStationID int64      `json:"weather_station_id"`
	DownloadID       int64      `json:"download_id"`
	DateTime         time.Time  `json:"date_time"`
	InternalTempMin  *float64   `json:"internal_temp_min,omitempty"`
	InternalTempMax  *float64   `json:"internal_temp_max,omitempty"`
	AirTempAvg       *float64   `json:"air_temp_avg,omitempty"`
	AirTempMax       *float64   `json:"air_temp_max,omitempty"`
	TimeAirTempMax   *time.Time `json:"time_air_temp_max,omitempty"`
	AirTempMin       *float64   `json:"air_temp_min,omitempty"`
	TimeAirTempMin   *time.Time `json:"time_air_temp_min,omitempty"`
	WindSpeedAvg     *float64   `json:"wind_speed_avg,omitempty"`
	WindSpeedMax     *float64   `json:"wind_speed_max,omitempty"`
	TimeWindSpeedMax *time.Time `json:"time_wind_speed_max,omitempty"`
	SnowDepth        *float64   `json:"snow_depth,omitempty"`
}
