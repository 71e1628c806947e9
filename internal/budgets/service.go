package budgets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ensayelab/ensayelab/internal/catalog"
	"github.com/ensayelab/ensayelab/internal/clients"
	"github.com/ensayelab/ensayelab/internal/shared"
)

// ClaveGenerator hands out the next obra clave for a new budget.
type ClaveGenerator interface {
	Next(ctx context.Context) (string, error)
}

// ProposalEnqueuer schedules background archiving of the proposal PDF.
type ProposalEnqueuer interface {
	EnqueueProposalRender(ctx context.Context, budgetID int64) error
}

// AuditRecorder persists an audit trail entry. *shared.AuditLogger satisfies it.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	repo     Repository
	clients  clients.Repository
	catalog  catalog.Repository
	claves   ClaveGenerator
	enqueuer ProposalEnqueuer
	audit    AuditRecorder
	taxRate  float64
	logger   *slog.Logger
}

type ServiceConfig struct {
	TaxRate float64
}

func NewService(
	repo Repository,
	clientRepo clients.Repository,
	catalogRepo catalog.Repository,
	claves ClaveGenerator,
	enqueuer ProposalEnqueuer,
	audit AuditRecorder,
	cfg ServiceConfig,
	logger *slog.Logger,
) *Service {
	taxRate := cfg.TaxRate
	if taxRate == 0 {
		taxRate = 0.16
	}
	return &Service{
		repo:     repo,
		clients:  clientRepo,
		catalog:  catalogRepo,
		claves:   claves,
		enqueuer: enqueuer,
		audit:    audit,
		taxRate:  taxRate,
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, req CreateBudgetRequest) (*Budget, error) {
	if (req.ClientID == nil) == (req.NewClient == nil) {
		return nil, fmt.Errorf("%w: exactly one of cliente_id or new_client must be set", shared.ErrValidation)
	}
	if req.HasAdvance {
		if _, err := AdvanceAmount(0, req.AdvancePercent); err != nil {
			return nil, err
		}
	}

	lines, totals, err := s.resolveLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	advanceAmount := 0.0
	if req.HasAdvance {
		advanceAmount, err = AdvanceAmount(totals.Total, req.AdvancePercent)
		if err != nil {
			return nil, err
		}
	}

	if req.ClientID != nil {
		if _, err := s.clients.Get(ctx, *req.ClientID); err != nil {
			return nil, fmt.Errorf("verify client: %w", err)
		}
	}

	clave, err := s.claves.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate clave: %w", err)
	}

	budget := Budget{
		Clave:          clave,
		Status:         StatusDraft,
		Subtotal:       totals.Subtotal,
		TaxRate:        s.taxRate,
		TaxAmount:      totals.TaxAmount,
		Total:          totals.Total,
		HasAdvance:     req.HasAdvance,
		AdvancePercent: req.AdvancePercent,
		AdvanceAmount:  advanceAmount,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
	}

	// Inline client creation happens inside the same transaction as the
	// budget insert, so a failed budget write never leaves an orphan client.
	var budgetID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if req.NewClient != nil {
			newClient := clients.Client{Name: req.NewClient.Name, Address: req.NewClient.Address}
			for _, p := range req.NewClient.Phones {
				newClient.Phones = append(newClient.Phones, clients.Phone{Phone: p})
			}
			for _, e := range req.NewClient.Emails {
				newClient.Emails = append(newClient.Emails, clients.Email{Email: e})
			}
			clientID, err := s.clients.Create(ctx, newClient)
			if err != nil {
				return fmt.Errorf("create inline client: %w", err)
			}
			budget.ClientID = clientID
		} else {
			budget.ClientID = *req.ClientID
		}

		id, err := repo.Create(ctx, budget)
		if err != nil {
			return fmt.Errorf("create budget: %w", err)
		}
		budgetID = id

		for _, line := range lines {
			line.BudgetID = budgetID
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert budget line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, budgetID)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateBudgetRequest) (*Budget, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	if !existing.Status.Mutable() {
		return nil, fmt.Errorf("%w: budget %s is %s", shared.ErrImmutableBudget, existing.Clave, existing.Status)
	}

	// An explicit empty string clears the column back to NULL; an absent
	// field leaves it alone.
	updates := make(map[string]interface{})
	if req.PaymentMethod != nil {
		updates["payment_method"] = nullableText(*req.PaymentMethod)
	}
	if req.Notes != nil {
		updates["notes"] = nullableText(*req.Notes)
	}

	hasAdvance := existing.HasAdvance
	if req.HasAdvance != nil {
		hasAdvance = *req.HasAdvance
		updates["has_advance"] = hasAdvance
	}
	advancePercent := existing.AdvancePercent
	if req.AdvancePercent != nil {
		advancePercent = *req.AdvancePercent
		updates["advance_percent"] = advancePercent
	}

	totals := Totals{Subtotal: existing.Subtotal, TaxAmount: existing.TaxAmount, Total: existing.Total}
	var newLines []Line
	if req.Lines != nil {
		newLines, totals, err = s.resolveLines(ctx, *req.Lines)
		if err != nil {
			return nil, err
		}
		updates["subtotal"] = totals.Subtotal
		updates["tax_amount"] = totals.TaxAmount
		updates["total"] = totals.Total
	}

	if hasAdvance || req.AdvancePercent != nil || req.Lines != nil {
		advanceAmount := 0.0
		if hasAdvance {
			advanceAmount, err = AdvanceAmount(totals.Total, advancePercent)
			if err != nil {
				return nil, err
			}
		}
		updates["advance_amount"] = advanceAmount
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if len(updates) > 0 {
			if err := repo.UpdateHeader(ctx, id, updates); err != nil {
				return err
			}
		}
		if req.Lines != nil {
			if err := repo.DeleteLines(ctx, id); err != nil {
				return err
			}
			for _, line := range newLines {
				line.BudgetID = id
				if _, err := repo.InsertLine(ctx, line); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}

	return s.repo.Get(ctx, id)
}

// ChangeStatus moves a budget through its lifecycle. The write is a
// compare-and-swap against the status that was read, so two racing approvals
// cannot both succeed.
func (s *Service) ChangeStatus(ctx context.Context, id int64, requested Status) (*Budget, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}

	newState, err := Transition(existing.Status, requested)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, existing.Status, newState); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if s.audit != nil {
		auditErr := s.audit.Record(ctx, shared.AuditLog{
			Action:   "status." + string(newState),
			Entity:   "presupuesto",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"from": existing.Status, "to": newState, "clave": existing.Clave},
		})
		if auditErr != nil && s.logger != nil {
			s.logger.Warn("audit status change", slog.Any("error", auditErr))
		}
	}

	if newState == StatusApproved && s.enqueuer != nil {
		if err := s.enqueuer.EnqueueProposalRender(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("enqueue proposal render", slog.Int64("budget_id", id), slog.Any("error", err))
		}
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Budget, error) {
	return s.repo.Get(ctx, id)
}

// GetWithClient loads a budget together with its client, for proposal rendering.
func (s *Service) GetWithClient(ctx context.Context, id int64) (*Budget, *clients.Client, error) {
	budget, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	client, err := s.clients.Get(ctx, budget.ClientID)
	if err != nil {
		return nil, nil, fmt.Errorf("load budget client: %w", err)
	}
	return budget, client, nil
}

func (s *Service) List(ctx context.Context, req ListBudgetsRequest) ([]BudgetWithClient, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func nullableText(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// resolveLines snapshots each requested concept and computes line subtotals
// and budget totals in one pass.
func (s *Service) resolveLines(ctx context.Context, reqs []CreateBudgetLineReq) ([]Line, Totals, error) {
	if len(reqs) == 0 {
		return nil, Totals{}, fmt.Errorf("%w: a budget requires at least one line item", shared.ErrValidation)
	}

	lines := make([]Line, 0, len(reqs))
	inputs := make([]LineInput, 0, len(reqs))
	for i, lineReq := range reqs {
		concept, err := s.catalog.GetConcept(ctx, lineReq.ConceptID)
		if err != nil {
			return nil, Totals{}, fmt.Errorf("resolve concept %d: %w", lineReq.ConceptID, err)
		}
		subtotal, err := LineSubtotal(lineReq.Quantity, concept.UnitPrice)
		if err != nil {
			return nil, Totals{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines = append(lines, Line{
			ConceptID:   concept.ID,
			ConceptCode: concept.Code,
			Description: concept.Description,
			Unit:        concept.Unit,
			Quantity:    lineReq.Quantity,
			UnitPrice:   concept.UnitPrice,
			Subtotal:    subtotal,
			LineOrder:   i + 1,
		})
		inputs = append(inputs, LineInput{Quantity: lineReq.Quantity, UnitPrice: concept.UnitPrice})
	}

	totals, err := ComputeTotals(inputs, s.taxRate)
	if err != nil {
		return nil, Totals{}, err
	}
	return lines, totals, nil
}
