package budgets

import "time"

type Budget struct {
	ID             int64     `json:"id" db:"id"`
	Clave          string    `json:"clave" db:"clave"`
	ClientID       int64     `json:"cliente_id" db:"cliente_id"`
	Status         Status    `json:"status" db:"status"`
	Subtotal       float64   `json:"subtotal" db:"subtotal"`
	TaxRate        float64   `json:"tax_rate" db:"tax_rate"`
	TaxAmount      float64   `json:"tax_amount" db:"tax_amount"`
	Total          float64   `json:"total" db:"total"`
	HasAdvance     bool      `json:"has_advance" db:"has_advance"`
	AdvancePercent float64   `json:"advance_percent" db:"advance_percent"`
	AdvanceAmount  float64   `json:"advance_amount" db:"advance_amount"`
	PaymentMethod  *string   `json:"payment_method,omitempty" db:"payment_method"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
	Lines          []Line    `json:"lines,omitempty" db:"-"`
}

// Line is a budget detail row. Concept code, description, unit and price are
// snapshots captured when the line was added; later catalog edits never
// change a saved budget.
type Line struct {
	ID          int64   `json:"id" db:"id"`
	BudgetID    int64   `json:"presupuesto_id" db:"presupuesto_id"`
	ConceptID   int64   `json:"concepto_id" db:"concepto_id"`
	ConceptCode string  `json:"concept_code" db:"concept_code"`
	Description string  `json:"description" db:"description"`
	Unit        string  `json:"unit" db:"unit"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Subtotal    float64 `json:"subtotal" db:"subtotal"`
	LineOrder   int     `json:"line_order" db:"line_order"`
}

// BudgetWithClient joins the client name for listings.
type BudgetWithClient struct {
	Budget
	ClientName string `json:"client_name" db:"client_name"`
}
