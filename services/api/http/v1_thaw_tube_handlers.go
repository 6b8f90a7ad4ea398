package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
)

func (s *Server) handleCreateBeadColourYear(c *gin.Context) {
	var in thermal.BeadColourYearInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := s.svc.CreateBeadColourYear(c.Request.Context(), in)
	respond(c, http.StatusCreated, b, err)
}

func (s *Server) handleGetBeadColourByYear(c *gin.Context) {
	year, ok := pathInt(c, "year")
	if !ok {
		return
	}
	b, err := s.svc.GetBeadColourByYear(c.Request.Context(), year)
	respond(c, http.StatusOK, b, err)
}

func (s *Server) handleGetBeadColourByColour(c *gin.Context) {
	b, err := s.svc.GetBeadColourByColour(c.Request.Context(), c.Param("colour"))
	respond(c, http.StatusOK, b, err)
}

func (s *Server) handleCreateThawTube(c *gin.Context) {
	var in thermal.ThawTubeInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := s.svc.CreateThawTube(c.Request.Context(), in)
	respond(c, http.StatusCreated, t, err)
}

func (s *Server) handleGetThawTubeByInstallation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := s.svc.GetThawTubeByInstallation(c.Request.Context(), id)
	respond(c, http.StatusOK, t, err)
}

func (s *Server) handleCreateThawTubeReading(c *gin.Context) {
	var in thermal.ThawTubeReadingInput
	if !bindJSON(c, &in) {
		return
	}
	r, err := s.svc.CreateThawTubeReading(c.Request.Context(), in)
	respond(c, http.StatusCreated, r, err)
}

func (s *Server) handleGetThawTubeReadingByVisit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := s.svc.GetThawTubeReadingByVisit(c.Request.Context(), id)
	respond(c, http.StatusOK, r, err)
}

func (s *Server) handleListThawTubeReadings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ListThawTubeReadings(c.Request.Context(), id)
	respondList(c, rows, err)
}

func (s *Server) handleCreateBeadMeasurement(c *gin.Context) {
	var in thermal.BeadMeasurementInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := s.svc.CreateBeadMeasurement(c.Request.Context(), in)
	respond(c, http.StatusCreated, b, err)
}

func (s *Server) handleListBeadMeasurements(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ListBeadMeasurements(c.Request.Context(), id)
	respondList(c, rows, err)
}

func (s *Server) handleGetBeadMeasurement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	year, ok := pathInt(c, "year")
	if !ok {
		return
	}
	b, err := s.svc.GetBeadMeasurement(c.Request.Context(), id, year)
	respond(c, http.StatusOK, b, err)
}

func (s *Server) handleBeadHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.BeadHistory(c.Request.Context(), id)
	respondList(c, rows, err)
}

func (s *Server) handleCreateThawTubeReference(c *gin.Context) {
	var in thermal.ThawTubeReferenceInput
	if !bindJSON(c, &in) {
		return
	}
	r, err := s.svc.CreateThawTubeReference(c.Request.Context(), in)
	respond(c, http.StatusCreated, r, err)
}

// GET /api/v1/thaw_tubes/:id/references?date=
func (s *Server) handleThawTubeReferences(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var date *models.AwareTime
	if c.Query("date") != "" {
		t, ok := queryTime(c, "date")
		if !ok {
			return
		}
		date = &t
	}
	rows, err := s.svc.ThawTubeReferences(c.Request.Context(), id, date)
	respondList(c, rows, err)
}
