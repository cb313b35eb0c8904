package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"folio/internal/domain/models"
	"folio/internal/metrics"
)

// Client talks to the portfolio backend over HTTP. It is the only
// component that issues network calls; everything above it works with
// decoded models and typed errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ErrNoToken means the login response was 2xx but carried neither an
// "access_token" nor a "token" field.
var ErrNoToken = errors.New("login response carries no token")

// APIError is a non-2xx backend response. Message comes from the JSON
// "error" field when the body carries one, else the HTTP status line.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NotFound reports whether the backend answered 404.
func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a bearer token. The backend answers
// with either "access_token" or "token"; a 2xx without both is a failure.
func (c *Client) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	payload := map[string]string{"username": username, "password": password}

	var resp loginResponse
	if err := c.doJSON(ctx, "login", http.MethodPost, "/admin/login", "", payload, &resp); err != nil {
		return "", nil, err
	}

	token := resp.AccessToken
	if token == "" {
		token = resp.Token
	}
	if token == "" {
		return "", nil, ErrNoToken
	}

	return token, resp.User, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.doJSON(ctx, "list_projects", http.MethodGet, "/admin/projects", "", nil, &projects); err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Normalize()
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, id int64) (models.Project, error) {
	var project models.Project
	path := "/admin/projects/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, "get_project", http.MethodGet, path, "", nil, &project); err != nil {
		return models.Project{}, err
	}
	project.Normalize()
	return project, nil
}

func (c *Client) CreateProject(ctx context.Context, token string, in models.ProjectInput) (models.Project, error) {
	var resp projectEnvelope
	if err := c.doJSON(ctx, "create_project", http.MethodPost, "/admin/projects", token, in, &resp); err != nil {
		return models.Project{}, err
	}
	resp.Project.Normalize()
	return resp.Project, nil
}

func (c *Client) UpdateProject(ctx context.Context, token string, id int64, patch models.ProjectPatch) (models.Project, error) {
	var resp projectEnvelope
	path := "/admin/projects/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, "update_project", http.MethodPut, path, token, patch, &resp); err != nil {
		return models.Project{}, err
	}
	resp.Project.Normalize()
	return resp.Project, nil
}

func (c *Client) DeleteProject(ctx context.Context, token string, id int64) error {
	path := "/admin/projects/" + strconv.FormatInt(id, 10)
	return c.doJSON(ctx, "delete_project", http.MethodDelete, path, token, nil, nil)
}

// UploadImage sends the file as a multipart "file" field and returns the
// storage URL. It does not touch any cache; callers attach the URL to a
// project's images themselves.
func (c *Client) UploadImage(ctx context.Context, token string, file models.FileUpload) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return "", fmt.Errorf("encode upload: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return "", fmt.Errorf("encode upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/upload", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var resp uploadResponse
	if err := c.do("upload_image", req, &resp); err != nil {
		return "", err
	}
	return resp.FileURL, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out any) error {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.APIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	Token       string       `json:"token"`
	User        *models.User `json:"user"`
}

type projectEnvelope struct {
	Project models.Project `json:"project"`
}

type uploadResponse struct {
	FileURL string `json:"file_url"`
}
