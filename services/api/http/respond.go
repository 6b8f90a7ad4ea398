package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/02loveslollipop/permafrost-field-api/services/api/apperr"
	"github.com/02loveslollipop/permafrost-field-api/services/api/models"
	"github.com/02loveslollipop/permafrost-field-api/services/api/thermal"
)

func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		msg = "internal server error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": apperr.Code(err)})
}

// respond writes v as the data of a success envelope, or the error.
func respond[T any](c *gin.Context, status int, v T, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"data": v})
}

func respondList[T any](c *gin.Context, rows []T, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data": rows,
		"meta": gin.H{"count": len(rows)},
	})
}

// respondSilenced answers a single insert that may have been skipped as a duplicate.
func respondSilenced[T any](c *gin.Context, v *T, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if v == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil, "meta": gin.H{"status": thermal.BulkSkippedDuplicate}})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": v})
}

func respondBulk[T any](c *gin.Context, results []thermal.BulkResult[T]) {
	summary := thermal.BulkSummary(results)
	c.JSON(http.StatusOK, gin.H{
		"data": results,
		"meta": gin.H{
			"count":                              len(results),
			string(thermal.BulkSuccess):          summary[thermal.BulkSuccess],
			string(thermal.BulkSkippedDuplicate): summary[thermal.BulkSkippedDuplicate],
			string(thermal.BulkFailed):           summary[thermal.BulkFailed],
		},
	})
}

// bindJSON decodes the request body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(c, apperr.Validation("request body is required"))
			return false
		}
		respondError(c, apperr.Validationf("invalid request body: %v", err))
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperr.Validationf("%s must be a positive integer, got %q", name, raw))
		return 0, false
	}
	return id, true
}

func pathInt(c *gin.Context, name string) (int, bool) {
	raw := c.Param(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, apperr.Validationf("%s must be an integer, got %q", name, raw))
		return 0, false
	}
	return v, true
}

// queryID reads a required positive integer query parameter.
func queryID(c *gin.Context, name string) (int64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		respondError(c, apperr.Validationf("%s is required", name))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperr.Validationf("%s must be a positive integer, got %q", name, raw))
		return 0, false
	}
	return id, true
}

func queryFloat(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondError(c, apperr.Validationf("%s must be a number, got %q", name, raw))
		return nil, false
	}
	return &v, true
}

func queryBool(c *gin.Context, name string, def bool) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(c, apperr.Validationf("%s must be a boolean, got %q", name, raw))
		return false, false
	}
	return v, true
}

// queryTime reads a timestamp query parameter. A missing value yields the zero AwareTime,
// which the service reports as required.
func queryTime(c *gin.Context, name string) (models.AwareTime, bool) {
	raw := c.Query(name)
	if raw == "" {
		return models.AwareTime{}, true
	}
	t, err := models.ParseAwareTime(raw)
	if err != nil {
		respondError(c, apperr.Validationf("%s: %v", name, err))
		return models.AwareTime{}, false
	}
	return t, true
}

// queryList reads a parameter given repeatedly or as a comma separated list.
func queryList(c *gin.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryArray(name) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func bulkOptions(c *gin.Context) (thermal.BulkOptions, bool) {
	opts := thermal.DefaultBulkOptions()
	var ok bool
	if opts.SilenceDuplicates, ok = queryBool(c, "silence_duplicates", true); !ok {
		return opts, false
	}
	if opts.ReturnData, ok = queryBool(c, "return_data", true); !ok {
		return opts, false
	}
	return opts, true
}
