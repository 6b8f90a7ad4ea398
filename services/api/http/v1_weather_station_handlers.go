package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
)

func (s *Server) handleCreateWeatherStation(c *gin.Context) {
	var in thermal.WeatherStationInput
	if !bindJSON(c, &in) {
		return
	}
	w, err := s.svc.CreateWeatherStation(c.Request.Context(), in)
	respond(c, http.StatusCreated, w, err)
}

func (s *Server) handleGetWeatherStationByInstallation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	w, err := s.svc.GetWeatherStationByInstallation(c.Request.Context(), id)
	respond(c, http.StatusOK, w, err)
}

func (s *Server) handleUpdateWeatherStationStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch models.StationStatusPatch
	if !bindJSON(c, &patch) {
		return
	}
	w, err := s.svc.UpdateWeatherStationStatus(c.Request.Context(), id, patch)
	respond(c, http.StatusOK, w, err)
}

func (s *Server) handleCreateStationDownload(c *gin.Context) {
	var in thermal.StationDownloadInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := s.svc.CreateStationDownload(c.Request.Context(), in)
	respond(c, http.StatusCreated, d, err)
}

func (s *Server) handleGetStationDownloadByVisit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := s.svc.GetStationDownloadByVisit(c.Request.Context(), id)
	respond(c, http.StatusOK, d, err)
}

func (s *Server) handleCreateHourlyData(c *gin.Context) {
	var in thermal.HourlyDataInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := s.svc.CreateHourlyData(c.Request.Context(), in)
	respond(c, http.StatusCreated, d, err)
}

func (s *Server) handleCreateDailyData(c *gin.Context) {
	var in thermal.DailyDataInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := s.svc.CreateDailyData(c.Request.Context(), in)
	respond(c, http.StatusCreated, d, err)
}

// GET /api/v1/weather_stations/:id/hourly_data?date=
func (s *Server) handleGetHourlyData(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	date, ok := queryTime(c, "date")
	if !ok {
		return
	}
	d, err := s.svc.GetHourlyData(c.Request.Context(), id, date)
	respond(c, http.StatusOK, d, err)
}

// GET /api/v1/weather_stations/:id/daily_data?date=
func (s *Server) handleGetDailyData(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	date, ok := queryTime(c, "date")
	if !ok {
		return
	}
	d, err := s.svc.GetDailyData(c.Request.Context(), id, date)
	respond(c, http.StatusOK, d, err)
}
