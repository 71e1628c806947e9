package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskProposalRender archives the proposal PDF of an approved budget.
	TaskProposalRender = "proposal:render"
)

// ProposalRenderPayload identifies the budget whose proposal gets archived.
type ProposalRenderPayload struct {
	BudgetID int64 `json:"budget_id"`
}

// NewProposalRenderTask constructs an Asynq task.
func NewProposalRenderTask(budgetID int64) (*asynq.Task, error) {
	data, err := json.Marshal(ProposalRenderPayload{BudgetID: budgetID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProposalRender, data), nil
}

// Enqueuer wraps an Asynq client for use by the budget service.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer builds an Enqueuer on the given Redis address.
func NewEnqueuer(redisAddr string) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// EnqueueProposalRender schedules the archive job for a budget.
func (e *Enqueuer) EnqueueProposalRender(ctx context.Context, budgetID int64) error {
	task, err := NewProposalRenderTask(budgetID)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
	return err
}

// Close releases the underlying Asynq client.
func (e *Enqueuer) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	return e.client.Close()
}
