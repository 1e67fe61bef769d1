// Test Type: Integration Test
// Description: Tests for the HTTP API routes

package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/lint"
	"github.com/arthur-debert/cirules/pkg/server"
	"github.com/arthur-debert/cirules/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const definition = `
workflow:
  rules:
    - if: $CI_COMMIT_REF_NAME == "blocked"
      when: never
    - when: always

rspec:
  script: echo rspec
  rules:
    - changes: ["app/**/*"]

deploy:
  stage: deploy
  script: echo deploy
  rules:
    - if: $CI_COMMIT_BRANCH == $CI_DEFAULT_BRANCH
`

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T, withStore bool) *server.Server {
	t.Helper()
	opts := server.Options{}
	if withStore {
		s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		require.NoError(t, s.Migrate())
		t.Cleanup(func() { _ = s.Close() })
		opts.Store = s
	}
	return server.New(opts)
}

func do(t *testing.T, srv *server.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestHealth(t *testing.T) {
	w := do(t, newServer(t, false), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"dev"}`, w.Body.String())
}

func TestEvaluate(t *testing.T) {
	t.Run("decisions", func(t *testing.T) {
		w := do(t, newServer(t, false), http.MethodPost, "/api/v1/evaluate", server.EvaluateRequest{
			Definition:    definition,
			Ref:           "refs/heads/master",
			DefaultBranch: "master",
			ChangedPaths:  []string{"app/models/user.rb"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp server.EvaluateResponse
		decode(t, w, &resp)
		require.NotNil(t, resp.Evaluation)
		assert.Equal(t, []string{"rspec", "deploy"}, resp.JobNames())
		assert.Empty(t, resp.ID)
	})

	t.Run("excluded_jobs", func(t *testing.T) {
		w := do(t, newServer(t, false), http.MethodPost, "/api/v1/evaluate", server.EvaluateRequest{
			Definition:    definition,
			Ref:           "refs/heads/feature",
			DefaultBranch: "master",
			ChangedPaths:  []string{"README.md"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp server.ErrorResponse
		decode(t, w, &resp)
		assert.Equal(t, errors.ErrNoStagesOrJobs, resp.Code)
		assert.Equal(t, "No stages / jobs for this pipeline.", resp.Message)
	})

	t.Run("filtered_by_workflow", func(t *testing.T) {
		w := do(t, newServer(t, false), http.MethodPost, "/api/v1/evaluate", server.EvaluateRequest{
			Definition: definition,
			Ref:        "refs/heads/blocked",
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp server.ErrorResponse
		decode(t, w, &resp)
		assert.Equal(t, errors.ErrFilteredByWorkflow, resp.Code)
		assert.Equal(t, "Pipeline filtered out by workflow rules.", resp.Message)
	})

	t.Run("invalid_definition", func(t *testing.T) {
		w := do(t, newServer(t, false), http.MethodPost, "/api/v1/evaluate", server.EvaluateRequest{
			Definition: "rspec: not-a-hash\n",
			Ref:        "refs/heads/master",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp server.ErrorResponse
		decode(t, w, &resp)
		assert.Equal(t, errors.ErrDefinitionInvalid, resp.Code)
	})

	t.Run("missing_definition", func(t *testing.T) {
		w := do(t, newServer(t, false), http.MethodPost, "/api/v1/evaluate", map[string]string{"ref": "main"})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp server.ErrorResponse
		decode(t, w, &resp)
		assert.Equal(t, errors.ErrInvalidInput, resp.Code)
	})

	t.Run("invalid_compare_to", func(t *testing.T) {
		def := `
rspec:
  script: echo
  rules:
    - changes:
        paths: ["app/**/*"]
        compare_to: missing-branch
`
		w := do(t, newServer(t, false), http.MethodPost, "/api/v1/evaluate", server.EvaluateRequest{
			Definition:   def,
			Ref:          "refs/heads/master",
			ChangedPaths: []string{"app/a.rb"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp server.ErrorResponse
		decode(t, w, &resp)
		assert.Equal(t, errors.ErrInvalidCompareToRef, resp.Code)
		assert.Equal(t, "Failed to parse rule for rspec: rules:changes:compare_to is not a valid ref", resp.Message)
	})
}

func TestLint(t *testing.T) {
	t.Run("static", func(t *testing.T) {
		w := do(t, newServer(t, false), http.MethodPost, "/api/v1/lint", server.EvaluateRequest{Definition: definition})
		require.Equal(t, http.StatusOK, w.Code)

		var res lint.Result
		decode(t, w, &res)
		assert.True(t, res.Valid)
		assert.Len(t, res.Jobs, 2)
	})

	t.Run("dry_run", func(t *testing.T) {
		w := do(t, newServer(t, false), http.MethodPost, "/api/v1/lint", server.EvaluateRequest{
			Definition:    definition,
			Ref:           "refs/heads/feature",
			DefaultBranch: "master",
			ChangedPaths:  []string{"app/a.rb"},
			DryRun:        true,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var res lint.Result
		decode(t, w, &res)
		assert.True(t, res.Valid)
		require.Len(t, res.Jobs, 1)
		assert.Equal(t, "rspec", res.Jobs[0].Name)
	})

	t.Run("invalid_yaml", func(t *testing.T) {
		w := do(t, newServer(t, false), http.MethodPost, "/api/v1/lint", server.EvaluateRequest{Definition: "rspec: ["})
		require.Equal(t, http.StatusOK, w.Code)

		var res lint.Result
		decode(t, w, &res)
		assert.False(t, res.Valid)
		assert.NotEmpty(t, res.Errors)
	})
}

func TestHistory(t *testing.T) {
	srv := newServer(t, true)

	w := do(t, srv, http.MethodPost, "/api/v1/evaluate", server.EvaluateRequest{
		Definition:    definition,
		Ref:           "refs/heads/master",
		DefaultBranch: "master",
		ChangedPaths:  []string{"app/a.rb"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var created server.EvaluateResponse
	decode(t, w, &created)
	require.NotEmpty(t, created.ID)

	w = do(t, srv, http.MethodPost, "/api/v1/evaluate", server.EvaluateRequest{
		Definition: definition,
		Ref:        "refs/heads/blocked",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	t.Run("get", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/evaluations/"+created.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var rec store.Record
		decode(t, w, &rec)
		assert.Equal(t, store.StatusCreated, rec.Status)
		assert.Contains(t, rec.DefinitionChecksum, "sha256:")
		require.NotNil(t, rec.Evaluation)
		assert.Equal(t, []string{"rspec", "deploy"}, rec.Evaluation.JobNames())
	})

	t.Run("list", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/evaluations?limit=10", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Evaluations []store.Record `json:"evaluations"`
		}
		decode(t, w, &body)
		require.Len(t, body.Evaluations, 2)

		statuses := []store.Status{body.Evaluations[0].Status, body.Evaluations[1].Status}
		assert.ElementsMatch(t, []store.Status{store.StatusCreated, store.StatusFailed}, statuses)
	})

	t.Run("bad_limit", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/evaluations?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := do(t, srv, http.MethodGet, "/api/v1/evaluations/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		w := do(t, newServer(t, false), http.MethodGet, "/api/v1/evaluations", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
