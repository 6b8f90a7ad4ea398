package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/temporal"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
)

// POST /api/v1/sites
func (s *Server) handleCreateSite(c *gin.Context) {
	var in thermal.SiteInput
	if !bindJSON(c, &in) {
		return
	}
	site, err := s.svc.CreateSite(c.Request.Context(), in)
	respond(c, http.StatusCreated, site, err)
}

// GET /api/v1/sites/:id
func (s *Server) handleGetSite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	site, err := s.svc.GetSite(c.Request.Context(), id)
	respond(c, http.StatusOK, site, err)
}

// GET /api/v1/sites/code/:code
func (s *Server) handleGetSiteByCode(c *gin.Context) {
	site, err := s.svc.GetSiteByCode(c.Request.Context(), c.Param("code"))
	respond(c, http.StatusOK, site, err)
}

// GET /api/v1/sites/:id/installations
func (s *Server) handleInstallationsAtSite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.InstallationsAtSite(c.Request.Context(), id)
	respondList(c, rows, err)
}

// POST /api/v1/installations
func (s *Server) handleCreateInstallation(c *gin.Context) {
	var in thermal.InstallationInput
	if !bindJSON(c, &in) {
		return
	}
	inst, err := s.svc.CreateInstallation(c.Request.Context(), in)
	respond(c, http.StatusCreated, inst, err)
}

// GET /api/v1/installations/:id
func (s *Server) handleGetInstallation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inst, err := s.svc.GetInstallation(c.Request.Context(), id)
	respond(c, http.StatusOK, inst, err)
}

// GET /api/v1/installations/code/:code
func (s *Server) handleGetInstallationByCode(c *gin.Context) {
	inst, err := s.svc.GetInstallationByCode(c.Request.Context(), c.Param("code"))
	respond(c, http.StatusOK, inst, err)
}

// PATCH /api/v1/installations/:id
func (s *Server) handleUpdateInstallation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch models.InstallationPatch
	if !bindJSON(c, &patch) {
		return
	}
	inst, err := s.svc.UpdateInstallation(c.Request.Context(), id, patch)
	respond(c, http.StatusOK, inst, err)
}

// GET /api/v1/installations/survey/:type
func (s *Server) handleSurveyInfo(c *gin.Context) {
	rows, err := s.svc.SurveyInfo(c.Request.Context(), c.Param("type"))
	respondList(c, rows, err)
}

// POST /api/v1/installation_pairs
func (s *Server) handleCreateInstallationPair(c *gin.Context) {
	var in thermal.InstallationPairInput
	if !bindJSON(c, &in) {
		return
	}
	pair, err := s.svc.CreateInstallationPair(c.Request.Context(), in)
	respond(c, http.StatusCreated, pair, err)
}

// GET /api/v1/installations/:id/pair
func (s *Server) handleGetInstallationPair(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	pair, err := s.svc.GetInstallationPair(c.Request.Context(), id)
	respond(c, http.StatusOK, pair, err)
}

// POST /api/v1/visits
func (s *Server) handleCreateVisit(c *gin.Context) {
	var in thermal.VisitInput
	if !bindJSON(c, &in) {
		return
	}
	visit, err := s.svc.CreateVisit(c.Request.Context(), in)
	respond(c, http.StatusCreated, visit, err)
}

// GET /api/v1/visits/:id
func (s *Server) handleGetVisit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	visit, err := s.svc.GetVisit(c.Request.Context(), id)
	respond(c, http.StatusOK, visit, err)
}

// GET /api/v1/installations/:id/visits
func (s *Server) handleListVisits(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ListVisits(c.Request.Context(), id)
	respondList(c, rows, err)
}

// GET /api/v1/installations/:id/visits/at?date=
func (s *Server) handleVisitAt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	date, ok := queryTime(c, "date")
	if !ok {
		return
	}
	visit, err := s.svc.GetVisitByDate(c.Request.Context(), id, date)
	respond(c, http.StatusOK, visit, err)
}

// GET /api/v1/installations/:id/visits/closest?date=&max_hours=&linked_to_deployment=
func (s *Server) handleClosestVisit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	q := thermal.ClosestVisitQuery{InstallationID: id}
	if q.Date, ok = queryTime(c, "date"); !ok {
		return
	}
	if q.MaxHours, ok = queryFloat(c, "max_hours"); !ok {
		return
	}
	if q.LinkedToDeployment, ok = queryBool(c, "linked_to_deployment", false); !ok {
		return
	}
	visit, err := s.svc.ClosestVisit(c.Request.Context(), q)
	respond(c, http.StatusOK, visit, err)
}

// GET /api/v1/installations/:id/logger_history
func (s *Server) handleLoggerHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.LoggerHistory(c.Request.Context(), id)
	respondList(c, rows, err)
}

// GET /api/v1/installations/:id/al_probe_history
func (s *Server) handleALProbeHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ALProbeHistory(c.Request.Context(), id)
	respondList(c, rows, err)
}

// GET /api/v1/installations/:id/thaw_tube_history
func (s *Server) handleThawTubeHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := s.svc.ThawTubeHistory(c.Request.Context(), id)
	respondList(c, rows, err)
}

// GET /api/v1/visits/dump?year=&region=
func (s *Server) handleDump(c *gin.Context) {
	q := temporal.DumpQuery{Regions: queryList(c, "region")}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperr.Validationf("year must be an integer, got %q", raw))
			return
		}
		q.Year = &year
	}
	rows, err := s.svc.Dump(c.Request.Context(), q)
	respondList(c, rows, err)
}

// POST /api/v1/al_probe_measurements
func (s *Server) handleCreateALProbe(c *gin.Context) {
	var in thermal.ALProbeInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := s.svc.CreateALProbe(c.Request.Context(), in)
	respond(c, http.StatusCreated, m, err)
}

// GET /api/v1/al_probe_measurements?visit_id=&probe_number=
func (s *Server) handleGetALProbe(c *gin.Context) {
	visitID, ok := queryID(c, "visit_id")
	if !ok {
		return
	}
	probe, ok := queryID(c, "probe_number")
	if !ok {
		return
	}
	m, err := s.svc.GetALProbe(c.Request.Context(), visitID, int(probe))
	respond(c, http.StatusOK, m, err)
}
