package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"folio/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, time.Second)
}

func TestClient_Login(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		status      int
		body        string
		wantToken   string
		wantError   bool
		expectedErr string
	}{
		{
			name:      "access_token field",
			status:    http.StatusOK,
			body:      `{"access_token":"tok-a","user":{"username":"admin"}}`,
			wantToken: "tok-a",
		},
		{
			name:      "legacy token field",
			status:    http.StatusOK,
			body:      `{"token":"tok-b"}`,
			wantToken: "tok-b",
		},
		{
			name:      "access_token wins over token",
			status:    http.StatusOK,
			body:      `{"access_token":"tok-a","token":"tok-b"}`,
			wantToken: "tok-a",
		},
		{
			name:        "2xx without any token",
			status:      http.StatusOK,
			body:        `{"message":"welcome"}`,
			wantError:   true,
			expectedErr: "no token",
		},
		{
			name:        "401 with error body",
			status:      http.StatusUnauthorized,
			body:        `{"error":"invalid credentials"}`,
			wantError:   true,
			expectedErr: "invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/admin/login", r.URL.Path)

				var creds map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "admin", creds["username"])
				assert.Equal(t, "secret", creds["password"])

				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			token, user, err := client.Login(ctx, "admin", "secret")

			if tt.wantError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				if strings.Contains(tt.body, "user") {
					require.NotNil(t, user)
					assert.Equal(t, "admin", user.Username)
				}
			}
		})
	}
}

func TestClient_ListProjects(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/admin/projects", r.URL.Path)

		// out-of-range main index; the client is expected to clamp
		_, _ = io.WriteString(w, `[
			{"id":1,"title":"one","techs":[" Go ",""],"images":["a.png"],"main_image_index":5},
			{"id":2,"title":"two","techs":["React"],"images":[],"main_image_index":0}
		]`)
	})

	projects, err := client.ListProjects(ctx)

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, []string{"Go"}, projects[0].Techs)
	assert.Equal(t, 0, projects[0].MainImageIndex)
}

func TestClient_GetProject_NotFound(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/projects/99", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"project not found"}`)
	})

	_, err := client.GetProject(ctx, 99)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.NotFound())
	assert.Equal(t, "project not found", apiErr.Message)
}

func TestClient_CreateProject(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/projects", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in models.ProjectInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Portfolio Site", in.Title)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"project":{"id":10,"title":"Portfolio Site","techs":["Go"]}}`)
	})

	project, err := client.CreateProject(ctx, "tok123", models.ProjectInput{
		Title:       "Portfolio Site",
		Description: "d",
		Techs:       []string{"Go"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), project.ID)
}

func TestClient_UpdateProject_SendsOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/projects/7", r.URL.Path)

		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw, "title")
		assert.NotContains(t, raw, "description")
		assert.NotContains(t, raw, "techs")

		_, _ = io.WriteString(w, `{"project":{"id":7,"title":"new"}}`)
	})

	title := "new"
	project, err := client.UpdateProject(ctx, "tok123", 7, models.ProjectPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "new", project.Title)
}

func TestClient_DeleteProject(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/admin/projects/7", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.DeleteProject(ctx, "tok123", 7))
}

func TestClient_UploadImage(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/upload", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "a.png", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(content))

		_, _ = io.WriteString(w, `{"file_url":"/uploads/a.png"}`)
	})

	url, err := client.UploadImage(ctx, "tok123", models.FileUpload{
		Name:    "a.png",
		MIME:    "image/png",
		Size:    9,
		Content: strings.NewReader("png-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", url)
}

func TestClient_ErrorWithoutJSONBodyFallsBackToStatus(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	})

	_, err := client.ListProjects(ctx)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Message, "500")
}
