package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ensayelab/ensayelab/internal/budgets"
	"github.com/ensayelab/ensayelab/internal/observability"
)

// DocumentRenderer converts proposal HTML into a PDF document.
type DocumentRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// ProposalRenderJob archives the proposal PDF of an approved budget on disk.
type ProposalRenderJob struct {
	Budgets      *budgets.Service
	Renderer     DocumentRenderer
	Metrics      *observability.Metrics
	Logger       *slog.Logger
	ArtifactsDir string
	clock        func() time.Time
}

// NewProposalRenderJob initialises the proposal archive handler.
func NewProposalRenderJob(svc *budgets.Service, renderer DocumentRenderer, metrics *observability.Metrics, logger *slog.Logger, artifactsDir string) *ProposalRenderJob {
	return &ProposalRenderJob{
		Budgets:      svc,
		Renderer:     renderer,
		Metrics:      metrics,
		Logger:       logger,
		ArtifactsDir: artifactsDir,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the proposal archive for one budget.
func (j *ProposalRenderJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Budgets == nil || j.Renderer == nil {
		return errors.New("proposal render: handler not configured")
	}
	var payload ProposalRenderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.BudgetID <= 0 {
		return asynq.SkipRetry
	}

	start := j.now()
	logger := j.logger().With(slog.Int64("budget_id", payload.BudgetID))
	logger.Info("archiving proposal")

	path, err := j.archive(ctx, payload.BudgetID)
	if err != nil {
		j.Metrics.CountJob(TaskProposalRender, "error")
		logger.Error("archive failed", slog.Any("error", err))
		return err
	}

	j.Metrics.CountJob(TaskProposalRender, "ok")
	logger.Info("archived proposal",
		slog.String("path", path),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *ProposalRenderJob) archive(ctx context.Context, budgetID int64) (string, error) {
	budget, client, err := j.Budgets.GetWithClient(ctx, budgetID)
	if err != nil {
		return "", err
	}
	html, err := budgets.RenderProposalHTML(budget, client)
	if err != nil {
		return "", err
	}
	pdf, err := j.Renderer.RenderHTML(ctx, html)
	if err != nil {
		return "", err
	}

	dir := j.ArtifactsDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.pdf", budget.Clave, uuid.NewString())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (j *ProposalRenderJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskProposalRender))
	}
	return slog.Default().With(slog.String("job", TaskProposalRender))
}

func (j *ProposalRenderJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
