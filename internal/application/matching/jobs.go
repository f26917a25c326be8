package matching

import (
	"context"
	"time"

	"github.com/turtacn/molmatch/internal/infrastructure/database/redis"
	"github.com/turtacn/molmatch/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molmatch/pkg/errors"
	"github.com/turtacn/molmatch/pkg/types/common"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

const (
	sourceAPIServer = "molmatch-apiserver"
	sourceWorker    = "molmatch-worker"
)

// ScreenFailure is the payload of a screen.failed event.
type ScreenFailure struct {
	JobID   string `json:"job_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JobQueue submits asynchronous screening jobs.
type JobQueue struct {
	publisher kafka.Publisher
	topic     string
}

func NewJobQueue(publisher kafka.Publisher, topic string) *JobQueue {
	return &JobQueue{publisher: publisher, topic: topic}
}

// Submit enqueues req and returns its job ID.
func (q *JobQueue) Submit(ctx context.Context, req *mtypes.ScreenRequest) (string, error) {
	if req == nil || len(req.Query.Atoms) == 0 {
		return "", errors.New(errors.ErrCodeInvalidQuery, "screen request needs a query")
	}
	job := *req
	if job.JobID == "" {
		job.JobID = common.NewID().String()
	}
	env, err := kafka.NewEventEnvelope(kafka.EventScreenRequested, sourceAPIServer, job)
	if err != nil {
		return "", err
	}
	msg, err := env.ToMessage(q.topic, job.JobID)
	if err != nil {
		return "", err
	}
	if err := q.publisher.Publish(ctx, msg); err != nil {
		return "", err
	}
	return job.JobID, nil
}

// JobHandlerConfig tunes ScreenJobHandler.
type JobHandlerConfig struct {
	ResultTopic string
	JobTimeout  time.Duration
	// ForceArchive archives every report regardless of the request.
	ForceArchive bool
}

// ScreenJobHandler runs screening jobs delivered by the queue and publishes
// their outcome.
type ScreenJobHandler struct {
	svc       *Service
	locks     redis.LockFactory
	publisher kafka.Publisher
	cfg       JobHandlerConfig
	logger    logging.Logger
}

// NewScreenJobHandler wires the handler.  locks may be nil for a single
// worker.
func NewScreenJobHandler(svc *Service, locks redis.LockFactory, publisher kafka.Publisher, cfg JobHandlerConfig, logger logging.Logger) *ScreenJobHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}
	return &ScreenJobHandler{svc: svc, locks: locks, publisher: publisher, cfg: cfg, logger: logger}
}

// Handle implements common.MessageHandler.  Returning an error makes the
// consumer retry and, eventually, dead-letter the message; rejected
// requests are answered with a screen.failed event instead.
func (h *ScreenJobHandler) Handle(ctx context.Context, msg *common.Message) error {
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeScreeningJobRejected, "malformed screening job")
	}
	if env.EventType != kafka.EventScreenRequested {
		h.logger.Debug("Ignoring event", logging.String("event_type", env.EventType))
		return nil
	}
	var req mtypes.ScreenRequest
	if err := env.DecodePayload(&req); err != nil {
		return errors.Wrap(err, errors.ErrCodeScreeningJobRejected, "malformed screening job")
	}
	if req.JobID == "" {
		req.JobID = env.EventID
	}
	if h.cfg.ForceArchive {
		req.Archive = true
	}
	log := h.logger.With(logging.JobID(req.JobID), logging.Int64("offset", msg.Offset))

	if h.locks != nil {
		lock := h.locks.NewMutex("screen:"+req.JobID,
			redis.WithLockTTL(h.cfg.JobTimeout),
			redis.WithWatchdog(h.cfg.JobTimeout/3))
		ok, err := lock.TryLock(ctx)
		if err != nil {
			return err
		}
		if !ok {
			log.Info("Screening job already running elsewhere, skipping")
			return nil
		}
		defer func() {
			if err := lock.Unlock(context.Background()); err != nil {
				log.Warn("Failed to release job lock", logging.Err(err))
			}
		}()
	}

	jctx, cancel := context.WithTimeout(ctx, h.cfg.JobTimeout)
	defer cancel()
	resp, err := h.svc.screen(jctx, &req, SourceWorker)
	if err != nil {
		code := errors.GetCode(err)
		if ctx.Err() != nil || !errors.IsClientError(code) {
			log.Error("Screening job failed", logging.Err(err))
			return err
		}
		log.Warn("Screening job rejected", logging.Err(err))
		return h.publish(ctx, env, kafka.EventScreenFailed, req.JobID, ScreenFailure{
			JobID:   req.JobID,
			Code:    code.String(),
			Message: err.Error(),
		})
	}
	return h.publish(ctx, env, kafka.EventScreenCompleted, req.JobID, resp)
}

func (h *ScreenJobHandler) publish(ctx context.Context, in *kafka.EventEnvelope, eventType, jobID string, payload interface{}) error {
	out, err := kafka.NewEventEnvelope(eventType, sourceWorker, payload)
	if err != nil {
		return err
	}
	out.TraceID = in.TraceID
	msg, err := out.ToMessage(h.cfg.ResultTopic, jobID)
	if err != nil {
		return err
	}
	return h.publisher.Publish(ctx, msg)
}

//Personal.AI order the ending
