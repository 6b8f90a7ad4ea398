package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
)

// POST /api/v1/air_ground_data?silence_duplicates=
func (s *Server) handleCreateAirGroundData(c *gin.Context) {
	silence, ok := queryBool(c, "silence_duplicates", false)
	if !ok {
		return
	}
	var in thermal.AirGroundDataInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := s.svc.CreateAirGroundData(c.Request.Context(), in, silence)
	respondSilenced(c, d, err)
}

func (s *Server) handleBulkAirGroundData(c *gin.Context) {
	opts, ok := bulkOptions(c)
	if !ok {
		return
	}
	var items []thermal.AirGroundDataInput
	if !bindJSON(c, &items) {
		return
	}
	respondBulk(c, s.svc.BulkAirGroundData(c.Request.Context(), items, opts))
}

func (s *Server) handleListAirGroundData(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ListAirGroundData(c.Request.Context(), id)
	respondList(c, rows, err)
}

func (s *Server) handleAirGroundMeans(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.AirGroundMeans(c.Request.Context(), id, c.Query("frequency"))
	respondList(c, rows, err)
}

func (s *Server) handleCreateFourChannelSensor(c *gin.Context) {
	var in thermal.FourChannelSensorInput
	if !bindJSON(c, &in) {
		return
	}
	sensor, err := s.svc.CreateFourChannelSensor(c.Request.Context(), in)
	respond(c, http.StatusCreated, sensor, err)
}

func (s *Server) handleListFourChannelSensors(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ListFourChannelSensors(c.Request.Context(), id)
	respondList(c, rows, err)
}

// POST /api/v1/four_channel_data?silence_duplicates=
func (s *Server) handleCreateFourChannelData(c *gin.Context) {
	silence, ok := queryBool(c, "silence_duplicates", false)
	if !ok {
		return
	}
	var in thermal.FourChannelDataInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := s.svc.CreateFourChannelData(c.Request.Context(), in, silence)
	respondSilenced(c, d, err)
}

func (s *Server) handleBulkFourChannelData(c *gin.Context) {
	opts, ok := bulkOptions(c)
	if !ok {
		return
	}
	var items []thermal.FourChannelDataInput
	if !bindJSON(c, &items) {
		return
	}
	respondBulk(c, s.svc.BulkFourChannelData(c.Request.Context(), items, opts))
}

func (s *Server) handleFourChannelMeans(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.FourChannelMeans(c.Request.Context(), id, c.Query("frequency"))
	respondList(c, rows, err)
}
