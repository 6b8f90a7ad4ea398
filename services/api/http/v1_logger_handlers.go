package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
)

func (s *Server) handleCreateLogger(c *gin.Context) {
	var in thermal.LoggerInput
	if !bindJSON(c, &in) {
		return
	}
	l, err := s.svc.CreateLogger(c.Request.Context(), in)
	respond(c, http.StatusCreated, l, err)
}

func (s *Server) handleGetLogger(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := s.svc.GetLogger(c.Request.Context(), id)
	respond(c, http.StatusOK, l, err)
}

func (s *Server) handleGetLoggerBySerial(c *gin.Context) {
	l, err := s.svc.GetLoggerBySerial(c.Request.Context(), c.Param("sn"))
	respond(c, http.StatusOK, l, err)
}

// GET /api/v1/loggers/lookup?sn=&type=
func (s *Server) handleLookupLogger(c *gin.Context) {
	sn, typ := c.Query("sn"), c.Query("type")
	if sn == "" || typ == "" {
		respondError(c, apperr.Validation("sn and type are required"))
		return
	}
	l, err := s.svc.GetLoggerBySerialAndType(c.Request.Context(), sn, typ)
	respond(c, http.StatusOK, l, err)
}

func (s *Server) handleUpdateLoggerType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		LoggerType string `json:"logger_type"`
	}
	if !bindJSON(c, &body) {
		return
	}
	l, err := s.svc.UpdateLoggerType(c.Request.Context(), id, body.LoggerType)
	respond(c, http.StatusOK, l, err)
}

func (s *Server) handleUpdateLoggerBatteryYear(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		BatteryYear *int `json:"battery_year"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if body.BatteryYear == nil {
		respondError(c, apperr.Validation("battery_year is required"))
		return
	}
	l, err := s.svc.UpdateLoggerBatteryYear(c.Request.Context(), id, *body.BatteryYear)
	respond(c, http.StatusOK, l, err)
}

func (s *Server) handleCreateDeployment(c *gin.Context) {
	var in thermal.DeploymentInput
	if !bindJSON(c, &in) {
		return
	}
	d, err := s.svc.CreateDeployment(c.Request.Context(), in)
	respond(c, http.StatusCreated, d, err)
}

func (s *Server) handleGetDeployment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := s.svc.GetDeployment(c.Request.Context(), id)
	respond(c, http.StatusOK, d, err)
}

func (s *Server) handleListDeployments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ListDeployments(c.Request.Context(), id)
	respondList(c, rows, err)
}

// GET /api/v1/deployments/most_recent?installation_id=&logger_id=
func (s *Server) handleMostRecentDeployment(c *gin.Context) {
	installationID, ok := queryID(c, "installation_id")
	if !ok {
		return
	}
	loggerID, ok := queryID(c, "logger_id")
	if !ok {
		return
	}
	d, err := s.svc.MostRecentDeployment(c.Request.Context(), installationID, loggerID)
	respond(c, http.StatusOK, d, err)
}

// GET /api/v1/deployments/previous_unclosed?installation_id=&logger_id=&date=&max_hours=&return_closest=
func (s *Server) handlePreviousUnclosedDeployments(c *gin.Context) {
	var q thermal.UnclosedQuery
	var ok bool
	if q.InstallationID, ok = queryID(c, "installation_id"); !ok {
		return
	}
	if q.LoggerID, ok = queryID(c, "logger_id"); !ok {
		return
	}
	if q.Date, ok = queryTime(c, "date"); !ok {
		return
	}
	if q.MaxHours, ok = queryFloat(c, "max_hours"); !ok {
		return
	}
	if q.ReturnClosest, ok = queryBool(c, "return_closest", false); !ok {
		return
	}
	rows, err := s.svc.PreviousUnclosedDeployments(c.Request.Context(), q)
	respondList(c, rows, err)
}

// GET /api/v1/deployments/by_visit?deployment_visit_id=|extraction_visit_id=
func (s *Server) handleDeploymentsByVisit(c *gin.Context) {
	_, byDeployment := c.GetQuery("deployment_visit_id")
	_, byExtraction := c.GetQuery("extraction_visit_id")
	if byDeployment == byExtraction {
		respondError(c, apperr.Validation("exactly one of deployment_visit_id and extraction_visit_id is required"))
		return
	}
	name := "deployment_visit_id"
	if byExtraction {
		name = "extraction_visit_id"
	}
	visitID, ok := queryID(c, name)
	if !ok {
		return
	}
	rows, err := s.svc.DeploymentsByVisit(c.Request.Context(), visitID, byExtraction)
	respondList(c, rows, err)
}

func (s *Server) handleCurrentLogger(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := s.svc.CurrentLogger(c.Request.Context(), id)
	respond(c, http.StatusOK, l, err)
}

// POST /api/v1/deployments/:id/close
func (s *Server) handleCloseDeployment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		ExtractionVisitID int64 `json:"extraction_visit_id"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if body.ExtractionVisitID <= 0 {
		respondError(c, apperr.Validation("extraction_visit_id is required"))
		return
	}
	d, err := s.svc.CloseDeployment(c.Request.Context(), id, body.ExtractionVisitID)
	respond(c, http.StatusOK, d, err)
}

// POST /api/v1/deployments/readable
func (s *Server) handleReadableDeployments(c *gin.Context) {
	var body struct {
		IDs []int64 `json:"ids"`
	}
	if !bindJSON(c, &body) {
		return
	}
	rows, err := s.svc.ReadableDeployments(c.Request.Context(), body.IDs)
	respondList(c, rows, err)
}

func (s *Server) handleUpdateDeploymentLogger(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		LoggerID int64 `json:"logger_id"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if body.LoggerID <= 0 {
		respondError(c, apperr.Validation("logger_id is required"))
		return
	}
	d, err := s.svc.UpdateDeploymentLogger(c.Request.Context(), id, body.LoggerID)
	respond(c, http.StatusOK, d, err)
}

func (s *Server) handleDeleteDeployment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := s.svc.DeleteDeployment(c.Request.Context(), id)
	respond(c, http.StatusOK, d, err)
}

func (s *Server) handleCreateDownload(c *gin.Context) {
	var in thermal.DownloadInput
	if !bindJSON(c, &in) {
		return
	}
	dl, err := s.svc.CreateDownload(c.Request.Context(), in)
	respond(c, http.StatusCreated, dl, err)
}

func (s *Server) handleGetDownloadByDeployment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dl, err := s.svc.GetDownloadByDeployment(c.Request.Context(), id)
	respond(c, http.StatusOK, dl, err)
}

func (s *Server) handleGetDownload(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dl, err := s.svc.GetDownload(c.Request.Context(), id)
	respond(c, http.StatusOK, dl, err)
}

func (s *Server) handleUpdateDownload(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch models.LoggerDownloadPatch
	if !bindJSON(c, &patch) {
		return
	}
	dl, err := s.svc.UpdateDownload(c.Request.Context(), id, patch)
	respond(c, http.StatusOK, dl, err)
}
