package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

func (c *Client) GetAttendanceSheet(ctx context.Context, id string) (*models.AttendanceSheetDetail, error) {
	var sheet models.AttendanceSheetDetail
	if _, err := c.do(ctx, http.MethodGet, "/attendance-sheets/"+url.PathEscape(id), nil, nil, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// SaveAttendance bulk-updates record statuses in one request.
func (c *Client) SaveAttendance(ctx context.Context, id string, updates []domain.StatusUpdate) error {
	_, err := c.do(ctx, http.MethodPut, "/attendance-sheets/"+url.PathEscape(id)+"/records", nil, updates, nil)
	return err
}

// ExportAttendance downloads the CSV export of a sheet.
func (c *Client) ExportAttendance(ctx context.Context, id string) ([]byte, error) {
	return c.download(ctx, "/attendance-sheets/"+url.PathEscape(id)+"/export")
}
