package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
)

func (s *Server) handleCreateCable(c *gin.Context) {
	var in thermal.CableInput
	if !bindJSON(c, &in) {
		return
	}
	cable, err := s.svc.CreateCable(c.Request.Context(), in)
	respond(c, http.StatusCreated, cable, err)
}

func (s *Server) handleGetCableByInstallation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cable, err := s.svc.GetCableByInstallation(c.Request.Context(), id)
	respond(c, http.StatusOK, cable, err)
}

func (s *Server) handleUpdateCable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch models.CablePatch
	if !bindJSON(c, &patch) {
		return
	}
	cable, err := s.svc.UpdateCable(c.Request.Context(), id, patch)
	respond(c, http.StatusOK, cable, err)
}

func (s *Server) handleCreateCableSensor(c *gin.Context) {
	var in thermal.CableSensorInput
	if !bindJSON(c, &in) {
		return
	}
	sensor, err := s.svc.CreateCableSensor(c.Request.Context(), in)
	respond(c, http.StatusCreated, sensor, err)
}

func (s *Server) handleGetCableSensor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sensor, err := s.svc.GetCableSensor(c.Request.Context(), id)
	respond(c, http.StatusOK, sensor, err)
}

func (s *Server) handleUpdateCableSensor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch models.CableSensorPatch
	if !bindJSON(c, &patch) {
		return
	}
	sensor, err := s.svc.UpdateCableSensor(c.Request.Context(), id, patch)
	respond(c, http.StatusOK, sensor, err)
}

func (s *Server) handleListCableSensors(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ListCableSensors(c.Request.Context(), id)
	respondList(c, rows, err)
}

// GET /api/v1/cables/:id/sensors/:number
func (s *Server) handleSensorsAtPosition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	number, ok := pathInt(c, "number")
	if !ok {
		return
	}
	rows, err := s.svc.SensorsAtPosition(c.Request.Context(), id, number)
	respondList(c, rows, err)
}

// GET /api/v1/cables/:id/sensors/:number/as_of?date=
func (s *Server) handleSensorAsOf(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	number, ok := pathInt(c, "number")
	if !ok {
		return
	}
	date, ok := queryTime(c, "date")
	if !ok {
		return
	}
	sensor, err := s.svc.SensorAsOf(c.Request.Context(), id, number, date)
	respond(c, http.StatusOK, sensor, err)
}

func (s *Server) handleCableSensorsAtInstallation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.CableSensorsAtInstallation(c.Request.Context(), id)
	respondList(c, rows, err)
}

func (s *Server) handleCreateManualRead(c *gin.Context) {
	var in thermal.ManualReadInput
	if !bindJSON(c, &in) {
		return
	}
	r, err := s.svc.CreateManualRead(c.Request.Context(), in)
	respond(c, http.StatusCreated, r, err)
}

// GET /api/v1/cable_manual_reads?sensor_id=&visit_id=
func (s *Server) handleGetManualRead(c *gin.Context) {
	sensorID, ok := queryID(c, "sensor_id")
	if !ok {
		return
	}
	visitID, ok := queryID(c, "visit_id")
	if !ok {
		return
	}
	r, err := s.svc.GetManualRead(c.Request.Context(), sensorID, visitID)
	respond(c, http.StatusOK, r, err)
}

func (s *Server) handleListManualReads(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ListManualReads(c.Request.Context(), id)
	respondList(c, rows, err)
}

// POST /api/v1/cable_logger_data?silence_duplicates=
func (s *Server) handleCreateCableLoggerData(c *gin.Context) {
	silence, ok := queryBool(c, "silence_duplicates", false)
	if !ok {
		return
	}
	var in thermal.CableLoggerDataInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := s.svc.CreateCableLoggerData(c.Request.Context(), in, silence)
	respondSilenced(c, d, err)
}

// POST /api/v1/cable_logger_data/bulk?silence_duplicates=&return_data=
func (s *Server) handleBulkCableLoggerData(c *gin.Context) {
	opts, ok := bulkOptions(c)
	if !ok {
		return
	}
	var items []thermal.CableLoggerDataInput
	if !bindJSON(c, &items) {
		return
	}
	respondBulk(c, s.svc.BulkCableLoggerData(c.Request.Context(), items, opts))
}

func (s *Server) handleListCableLoggerData(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ListCableLoggerData(c.Request.Context(), id)
	respondList(c, rows, err)
}

// GET /api/v1/installations/:id/cable_logger_data/mean?frequency=
func (s *Server) handleCableMeans(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.CableMeans(c.Request.Context(), id, c.Query("frequency"))
	respondList(c, rows, err)
}

func (s *Server) handleCreateStickUp(c *gin.Context) {
	var in thermal.StickUpInput
	if !bindJSON(c, &in) {
		return
	}
	su, err := s.svc.CreateStickUp(c.Request.Context(), in)
	respond(c, http.StatusCreated, su, err)
}

func (s *Server) handleGetStickUp(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	su, err := s.svc.GetStickUp(c.Request.Context(), id)
	respond(c, http.StatusOK, su, err)
}

func (s *Server) handleCreateSensorMapping(c *gin.Context) {
	var in thermal.SensorMappingInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := s.svc.CreateSensorMapping(c.Request.Context(), in)
	respond(c, http.StatusCreated, m, err)
}
