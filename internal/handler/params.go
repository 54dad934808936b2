package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

// pageParams reads ?page and ?limit; bad values fall back to the defaults.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		size = 20
	}
	return page, size
}

func dateQuery(c *gin.Context, name string) (*domain.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, name+" must be yyyy-MM-dd")
	}
	return &d, nil
}

func invoiceStatusQuery(c *gin.Context) (domain.InvoiceStatus, error) {
	switch strings.ToLower(strings.TrimSpace(c.Query("status"))) {
	case "", "all":
		return "", nil
	case "paid":
		return domain.InvoicePaid, nil
	case "unpaid":
		return domain.InvoiceUnpaid, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "status must be all, paid or unpaid")
}

// activityQuery reads ?status for the student list; empty means every student.
func activityQuery(c *gin.Context) (string, error) {
	switch strings.ToLower(strings.TrimSpace(c.Query("status"))) {
	case "", "all":
		return "", nil
	case models.StudentsActive:
		return models.StudentsActive, nil
	case models.StudentsInactive:
		return models.StudentsInactive, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "status must be all, active or inactive")
}

// bindJSON decodes the body into dest and writes a 400 on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}
