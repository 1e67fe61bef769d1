package server

import (
	"net/http"
	"strconv"

	"github.com/arthur-debert/cirules/internal/hashutil"
	"github.com/arthur-debert/cirules/internal/version"
	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/evaluator"
	"github.com/arthur-debert/cirules/pkg/lint"
	"github.com/arthur-debert/cirules/pkg/pipeline"
	"github.com/arthur-debert/cirules/pkg/repository"
	"github.com/arthur-debert/cirules/pkg/store"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/arthur-debert/cirules/pkg/variables"
	"github.com/gin-gonic/gin"
)

// EvaluateRequest is the body of /evaluate and /lint. ChangedPaths nil
// means no diff information. CompareTo maps refs to their diff.
type EvaluateRequest struct {
	Definition    string              `json:"definition" binding:"required"`
	Ref           string              `json:"ref"`
	SHA           string              `json:"sha"`
	Source        string              `json:"source"`
	DefaultBranch string              `json:"default_branch"`
	ProjectPath   string              `json:"project_path"`
	Variables     map[string]string   `json:"variables"`
	ChangedPaths  []string            `json:"changed_paths"`
	ExistingPaths []string            `json:"existing_paths"`
	CompareTo     map[string][]string `json:"compare_to"`
	Refs          []string            `json:"refs"`

	// DryRun is read by /lint only
	DryRun bool `json:"dry_run"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Code     errors.ErrorCode `json:"code"`
	Message  string           `json:"message"`
	Messages []string         `json:"messages,omitempty"`
}

// EvaluateResponse carries the decisions and, when recorded, the history id
type EvaluateResponse struct {
	ID string `json:"id,omitempty"`
	*types.Evaluation
}

func (r EvaluateRequest) pipelineInfo() variables.PipelineInfo {
	info := variables.PipelineInfo{
		Ref:           r.Ref,
		SHA:           r.SHA,
		Source:        r.Source,
		DefaultBranch: r.DefaultBranch,
		ProjectPath:   r.ProjectPath,
	}
	if info.Source == "" {
		info.Source = "push"
	}
	return info
}

func (r EvaluateRequest) resolver() *repository.MemoryResolver {
	res := repository.NewMemoryResolver(r.ChangedPaths, r.ExistingPaths).WithRefs(r.Refs...)
	for ref, paths := range r.CompareTo {
		res.WithCompareTo(ref, paths)
	}
	return res
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Version})
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.Wrap(err, errors.ErrInvalidInput, "invalid request body"))
		return
	}

	def, err := pipeline.Parse([]byte(req.Definition))
	if err != nil {
		s.fail(c, err)
		return
	}

	result, evalErr := s.opts.Evaluator.Evaluate(c.Request.Context(), evaluator.Request{
		Definition: def,
		Pipeline:   req.pipelineInfo(),
		Variables:  req.Variables,
		Resolver:   req.resolver(),
		Instrument: s.instrument(),
		Caller:     "api",
	})

	id := s.record(c, req.Ref, hashutil.Checksum([]byte(req.Definition)), result, evalErr)
	if evalErr != nil {
		s.fail(c, evalErr)
		return
	}
	c.JSON(http.StatusOK, EvaluateResponse{ID: id, Evaluation: result})
}

func (s *Server) handleLint(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.Wrap(err, errors.ErrInvalidInput, "invalid request body"))
		return
	}

	res := lint.Source(c.Request.Context(), []byte(req.Definition), lint.Options{
		MaxWarnings: s.opts.MaxWarnings,
		DryRun:      req.DryRun,
		Evaluator:   s.opts.Evaluator,
		Request: evaluator.Request{
			Pipeline:  req.pipelineInfo(),
			Variables: req.Variables,
			Resolver:  req.resolver(),
		},
		Instrument: s.instrument(),
	})
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleListEvaluations(c *gin.Context) {
	if s.opts.Store == nil {
		s.fail(c, errors.New(errors.ErrNotFound, "history is disabled"))
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(c, errors.Newf(errors.ErrInvalidInput, "invalid limit %q", raw))
			return
		}
		limit = n
	}
	recs, err := s.opts.Store.ListEvaluations(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluations": recs})
}

func (s *Server) handleGetEvaluation(c *gin.Context) {
	if s.opts.Store == nil {
		s.fail(c, errors.New(errors.ErrNotFound, "history is disabled"))
		return
	}
	rec, err := s.opts.Store.GetEvaluation(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// record saves the attempt when a store is configured. A store failure is
// logged and does not fail the request.
func (s *Server) record(c *gin.Context, ref, checksum string, result *types.Evaluation, evalErr error) string {
	if s.opts.Store == nil {
		return ""
	}
	rec := store.NewRecord(ref, result, evalErr)
	rec.DefinitionChecksum = checksum
	if err := s.opts.Store.SaveEvaluation(c.Request.Context(), rec); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record evaluation")
		return ""
	}
	return rec.ID
}

func (s *Server) fail(c *gin.Context, err error) {
	code := errors.GetErrorCode(err)
	msgs := errors.Messages(err)
	resp := ErrorResponse{Code: code, Message: msgs[0]}
	if len(msgs) > 1 {
		resp.Messages = msgs
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, resp)
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrInvalidInput, errors.ErrDefinitionInvalid:
		return http.StatusBadRequest
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrExpressionSyntax, errors.ErrInvalidCompareToRef, errors.ErrMissingStartIn,
		errors.ErrInvalidStartIn, errors.ErrFilteredByWorkflow, errors.ErrNoStagesOrJobs:
		return http.StatusUnprocessableEntity
	case errors.ErrRepository:
		return http.StatusBadGateway
	case errors.ErrEvaluationCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
