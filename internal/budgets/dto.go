package budgets

import "github.com/ensayelab/ensayelab/internal/clients"

type CreateBudgetLineReq struct {
	ConceptID int64   `json:"concepto_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

// CreateBudgetRequest creates a budget for an existing client, or for a new
// client supplied inline. Exactly one of ClientID / NewClient must be set;
// both writes happen in a single transaction.
type CreateBudgetRequest struct {
	ClientID       *int64                       `json:"cliente_id,omitempty" validate:"omitempty,gt=0"`
	NewClient      *clients.CreateClientRequest `json:"new_client,omitempty"`
	PaymentMethod  *string                      `json:"payment_method,omitempty" validate:"omitempty,max=100"`
	HasAdvance     bool                         `json:"has_advance"`
	AdvancePercent float64                      `json:"advance_percent" validate:"gte=0,lte=100"`
	Notes          *string                      `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Lines          []CreateBudgetLineReq        `json:"lines" validate:"required,min=1,dive"`
}

// UpdateBudgetRequest carries partial edits to a draft or pending budget.
// Absent fields are left untouched; sending payment_method or notes as an
// empty string clears the stored value.
type UpdateBudgetRequest struct {
	PaymentMethod  *string                `json:"payment_method,omitempty" validate:"omitempty,max=100"`
	HasAdvance     *bool                  `json:"has_advance,omitempty"`
	AdvancePercent *float64               `json:"advance_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes          *string                `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Lines          *[]CreateBudgetLineReq `json:"lines,omitempty" validate:"omitempty,min=1,dive"`
}

type ListBudgetsRequest struct {
	Status   *Status `json:"status,omitempty"`
	ClientID *int64  `json:"cliente_id,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}
