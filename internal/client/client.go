package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"snippetnav/internal/domain"
	models "snippetnav/internal/domain/models/snippets"
	"snippetnav/internal/httputil"
)

// Client talks to the snippet server. It implements the FolderFetcher and
// ContentDeleter collaborators of a dashboard session.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client. token is sent as a bearer token when non-empty.
func New(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// APIError is a problem response that has no domain equivalent
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

// FetchFolders loads the flat folder/snippet collection of a project
func (c *Client) FetchFolders(ctx context.Context, projectRef string) (*models.FolderResponse, error) {
	var resp models.FolderResponse
	if err := c.do(ctx, http.MethodGet, c.contentPath(projectRef, "/folders"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteContent deletes snippets in bulk. Targets that were already gone
// come back as a *domain.ContentsNotFoundError.
func (c *Client) DeleteContent(ctx context.Context, req *models.DeleteContentRequest) (*models.DeleteContentResult, error) {
	var result models.DeleteContentResult
	if err := c.do(ctx, http.MethodDelete, c.contentPath(req.ProjectRef, ""), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) contentPath(projectRef, suffix string) string {
	return fmt.Sprintf("%s/api/projects/%s/content%s", c.baseURL, url.PathEscape(projectRef), suffix)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("request completed",
		"method", method,
		"url", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeProblem(resp.StatusCode, data)
	}

	if dest != nil {
		if err := json.Unmarshal(data, dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeProblem maps a problem response back to a domain error. The
// structured code decides partial-failure handling, never the message.
func decodeProblem(status int, data []byte) error {
	var p httputil.ProblemDetail
	if err := json.Unmarshal(data, &p); err != nil {
		p.Detail = strings.TrimSpace(string(data))
	}

	if p.Code == domain.CodeContentsNotFound {
		return &domain.ContentsNotFoundError{
			Message:    p.Detail,
			MissingIDs: p.Strings("missing_ids"),
			DeletedIDs: p.Strings("deleted_ids"),
		}
	}

	switch status {
	case http.StatusBadRequest:
		return &domain.ValidationError{Message: p.Detail}
	case http.StatusUnauthorized:
		return &domain.UnauthorizedError{Message: p.Detail}
	case http.StatusForbidden:
		return &domain.ForbiddenError{Message: p.Detail}
	case http.StatusNotFound:
		return &domain.NotFoundError{Message: p.Detail}
	}
	return &APIError{Status: status, Detail: p.Detail}
}
