package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// Job states reported by GetJob.
const (
	JobRunning   = "running"
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
)

// ScreeningJob is the server-side record of an asynchronous screen.
type ScreeningJob struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Scanned    int        `json:"scanned"`
	Hits       int        `json:"hits"`
	Failed     int        `json:"failed"`
	ReportKey  string     `json:"report_key,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Done reports whether the job reached a final state.
func (j *ScreeningJob) Done() bool {
	return j.Status == JobSucceeded || j.Status == JobFailed
}

// MatchingClient runs substructure searches.
type MatchingClient struct {
	client *Client
}

func (m *MatchingClient) Match(ctx context.Context, req *mtypes.MatchRequest) (*mtypes.MatchResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: match request is nil", ErrInvalidArgument)
	}
	var out mtypes.MatchResponse
	if err := m.client.post(ctx, "/api/v1/match", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MatchingClient) React(ctx context.Context, req *mtypes.ReactionRequest) (*mtypes.ReactionResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: reaction request is nil", ErrInvalidArgument)
	}
	var out mtypes.ReactionResponse
	if err := m.client.post(ctx, "/api/v1/react", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Screen runs a screen synchronously.  Each attempt is bounded by the
// screen timeout rather than the ordinary request timeout.
func (m *MatchingClient) Screen(ctx context.Context, req *mtypes.ScreenRequest) (*mtypes.ScreenResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: screen request is nil", ErrInvalidArgument)
	}
	var out mtypes.ScreenResponse
	if err := m.client.do(ctx, http.MethodPost, "/api/v1/screen", req, &out, m.client.screenTimeout); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitScreen queues a screen for the worker and returns the job ID.
func (m *MatchingClient) SubmitScreen(ctx context.Context, req *mtypes.ScreenRequest) (string, error) {
	if req == nil {
		return "", fmt.Errorf("%w: screen request is nil", ErrInvalidArgument)
	}
	var out struct {
		JobID string `json:"job_id"`
	}
	if err := m.client.post(ctx, "/api/v1/screen/jobs", req, &out); err != nil {
		return "", err
	}
	return out.JobID, nil
}

func (m *MatchingClient) GetJob(ctx context.Context, id string) (*ScreeningJob, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidArgument)
	}
	var out ScreeningJob
	if err := m.client.get(ctx, "/api/v1/screen/jobs/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitJob polls GetJob every interval until the job is done or ctx ends.
// A zero interval uses the client's poll interval.  A job the worker has
// not picked up yet answers 404 and is polled again.
func (m *MatchingClient) WaitJob(ctx context.Context, id string, interval time.Duration) (*ScreeningJob, error) {
	if interval <= 0 {
		interval = m.client.pollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		job, err := m.GetJob(ctx, id)
		var apiErr *APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.IsNotFound():
		case err != nil:
			return nil, err
		case job.Done():
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ReportURL returns the short-lived download link of a job's archived report.
func (m *MatchingClient) ReportURL(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: job id is required", ErrInvalidArgument)
	}
	return m.client.location(ctx, "/api/v1/screen/jobs/"+url.PathEscape(id)+"/report")
}

//Personal.AI order the ending
