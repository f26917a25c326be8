package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molmatch/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/pkg/errors"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// MatchService is the subset of matching.Service the handlers call.
type MatchService interface {
	Match(ctx context.Context, req *mtypes.MatchRequest) (*mtypes.MatchResponse, error)
	Screen(ctx context.Context, req *mtypes.ScreenRequest) (*mtypes.ScreenResponse, error)
	React(ctx context.Context, req *mtypes.ReactionRequest) (*mtypes.ReactionResponse, error)
	GetJob(ctx context.Context, id string) (*repositories.ScreeningJob, error)
}

// JobSubmitter enqueues asynchronous screening jobs.
type JobSubmitter interface {
	Submit(ctx context.Context, req *mtypes.ScreenRequest) (string, error)
}

// ReportLinker issues download links for archived screening reports.
type ReportLinker interface {
	PresignedGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

// MatchHandler serves substructure search endpoints.
type MatchHandler struct {
	svc     MatchService
	jobs    JobSubmitter
	reports ReportLinker
	expiry  time.Duration
	logger  logging.Logger
}

// NewMatchHandler creates a MatchHandler.  jobs may be nil, in which case
// asynchronous screening answers 503.
func NewMatchHandler(svc MatchService, jobs JobSubmitter, logger logging.Logger) *MatchHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &MatchHandler{svc: svc, jobs: jobs, logger: logger}
}

// WithReports enables report downloads through l; links stay valid for
// expiry, or 15 minutes when expiry is not positive.
func (h *MatchHandler) WithReports(l ReportLinker, expiry time.Duration) *MatchHandler {
	if expiry <= 0 {
		expiry = defaultReportLinkExpiry
	}
	h.reports = l
	h.expiry = expiry
	return h
}

// Register attaches the routes to rg.
func (h *MatchHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/match", h.Match)
	rg.POST("/react", h.React)
	rg.POST("/screen", h.Screen)
	rg.POST("/screen/jobs", h.SubmitScreen)
	rg.GET("/screen/jobs/:id", h.GetJob)
	rg.GET("/screen/jobs/:id/report", h.GetReport)
}

// Match handles POST /api/v1/match.
func (h *MatchHandler) Match(c *gin.Context) {
	var req mtypes.MatchRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Match(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// React handles POST /api/v1/react.
func (h *MatchHandler) React(c *gin.Context) {
	var req mtypes.ReactionRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.React(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// Screen handles POST /api/v1/screen, running synchronously.
func (h *MatchHandler) Screen(c *gin.Context) {
	var req mtypes.ScreenRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Screen(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// SubmitScreen handles POST /api/v1/screen/jobs.
func (h *MatchHandler) SubmitScreen(c *gin.Context) {
	if h.jobs == nil {
		respondError(c, errors.New(errors.ErrCodeServiceUnavailable, "asynchronous screening is disabled"))
		return
	}
	var req mtypes.ScreenRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.jobs.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("Screening job submitted", logging.JobID(id))
	c.Header("Location", "/api/v1/screen/jobs/"+id)
	respond(c, http.StatusAccepted, gin.H{"job_id": id})
}

// GetJob handles GET /api/v1/screen/jobs/:id.
func (h *MatchHandler) GetJob(c *gin.Context) {
	job, err := h.svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, job)
}

// GetReport handles GET /api/v1/screen/jobs/:id/report by redirecting to a
// short-lived download link.
func (h *MatchHandler) GetReport(c *gin.Context) {
	if h.reports == nil {
		respondError(c, errors.New(errors.ErrCodeServiceUnavailable, "report archive is disabled"))
		return
	}
	job, err := h.svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if job.ReportKey == "" {
		respondError(c, errors.New(errors.ErrCodeNotFound, "no report archived for job").WithDetail(job.ID))
		return
	}
	url, err := h.reports.PresignedGetURL(c.Request.Context(), job.ReportKey, h.expiry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

const defaultReportLinkExpiry = 15 * time.Minute

//Personal.AI order the ending
