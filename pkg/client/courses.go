package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

const sessionPageSize = 100

// ListSessions walks every page of the session list.
func (c *Client) ListSessions(ctx context.Context) ([]models.SessionDetail, error) {
	var all []models.SessionDetail
	for page := 1; ; page++ {
		var batch []models.SessionDetail
		pagination, err := c.do(ctx, http.MethodGet, "/sessions", pageQuery(page, sessionPageSize), nil, &batch)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if pagination == nil || len(batch) == 0 || page*pagination.PageSize >= pagination.TotalCount {
			return all, nil
		}
	}
}

func (c *Client) CreateSession(ctx context.Context, req dto.SessionRequest) (*models.SessionDetail, error) {
	var session models.SessionDetail
	if _, err := c.do(ctx, http.MethodPost, "/sessions", nil, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) GetEnrollment(ctx context.Context, studentID, id string) (*models.EnrollmentDetail, error) {
	var enrollment models.EnrollmentDetail
	path := "/students/" + url.PathEscape(studentID) + "/enrollments/" + url.PathEscape(id)
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (c *Client) UpdateEnrollment(ctx context.Context, studentID, id string, req dto.EnrollmentRequest) (*models.EnrollmentDetail, error) {
	var enrollment models.EnrollmentDetail
	path := "/students/" + url.PathEscape(studentID) + "/enrollments/" + url.PathEscape(id)
	if _, err := c.do(ctx, http.MethodPut, path, nil, req, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (c *Client) CreatePrivateLesson(ctx context.Context, req dto.PrivateLessonRequest) (*models.PrivateLessonDetail, error) {
	var lesson models.PrivateLessonDetail
	if _, err := c.do(ctx, http.MethodPost, "/private-lessons", nil, req, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}
