package budgets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ensayelab/ensayelab/internal/platform/db"
	"github.com/ensayelab/ensayelab/internal/shared"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Budget, error)
	GetByClave(ctx context.Context, clave string) (*Budget, error)
	List(ctx context.Context, req ListBudgetsRequest) ([]BudgetWithClient, int, error)
	Create(ctx context.Context, budget Budget) (int64, error)
	UpdateHeader(ctx context.Context, id int64, updates map[string]interface{}) error
	InsertLine(ctx context.Context, line Line) (int64, error)
	DeleteLines(ctx context.Context, budgetID int64) error
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const budgetColumns = `id, clave, cliente_id, status, subtotal, tax_rate, tax_amount, total,
	has_advance, advance_percent, advance_amount, payment_method, notes, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Budget, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM presupuestos WHERE id = $1", budgetColumns), id)
	b, err := scanBudget(row)
	if err != nil {
		return nil, err
	}
	b.Lines, err = r.lines(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repository) GetByClave(ctx context.Context, clave string) (*Budget, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM presupuestos WHERE clave = $1", budgetColumns), clave)
	b, err := scanBudget(row)
	if err != nil {
		return nil, err
	}
	b.Lines, err = r.lines(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repository) lines(ctx context.Context, budgetID int64) ([]Line, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, presupuesto_id, concepto_id, concept_code, description, unit,
		       quantity, unit_price, subtotal, line_order
		FROM presupuesto_detalles
		WHERE presupuesto_id = $1
		ORDER BY line_order, id
	`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		var quantity, unitPrice, subtotal pgtype.Numeric
		if err := rows.Scan(&l.ID, &l.BudgetID, &l.ConceptID, &l.ConceptCode, &l.Description, &l.Unit,
			&quantity, &unitPrice, &subtotal, &l.LineOrder); err != nil {
			return nil, err
		}
		if quantity.Valid {
			f, _ := quantity.Float64Value()
			l.Quantity = f.Float64
		}
		if unitPrice.Valid {
			f, _ := unitPrice.Float64Value()
			l.UnitPrice = f.Float64
		}
		if subtotal.Valid {
			f, _ := subtotal.Float64Value()
			l.Subtotal = f.Float64
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListBudgetsRequest) ([]BudgetWithClient, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("p.cliente_id = $%d", argPos))
		args = append(args, *req.ClientID)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM presupuestos p %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.clave, p.cliente_id, p.status, p.subtotal, p.tax_rate, p.tax_amount, p.total,
		       p.has_advance, p.advance_percent, p.advance_amount, p.payment_method, p.notes,
		       p.created_at, p.updated_at,
		       c.name AS client_name
		FROM presupuestos p
		JOIN clientes c ON p.cliente_id = c.id
		%s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var budgets []BudgetWithClient
	for rows.Next() {
		var b BudgetWithClient
		var subtotal, taxRate, taxAmount, totalAmt, advancePercent, advanceAmount pgtype.Numeric
		var paymentMethod, notes pgtype.Text
		var createdAt, updatedAt pgtype.Timestamptz

		err := rows.Scan(
			&b.ID, &b.Clave, &b.ClientID, &b.Status, &subtotal, &taxRate, &taxAmount, &totalAmt,
			&b.HasAdvance, &advancePercent, &advanceAmount, &paymentMethod, &notes,
			&createdAt, &updatedAt,
			&b.ClientName,
		)
		if err != nil {
			return nil, 0, err
		}

		b.Subtotal = numericFloat(subtotal)
		b.TaxRate = numericFloat(taxRate)
		b.TaxAmount = numericFloat(taxAmount)
		b.Total = numericFloat(totalAmt)
		b.AdvancePercent = numericFloat(advancePercent)
		b.AdvanceAmount = numericFloat(advanceAmount)
		if paymentMethod.Valid {
			b.PaymentMethod = &paymentMethod.String
		}
		if notes.Valid {
			b.Notes = &notes.String
		}
		if createdAt.Valid {
			b.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			b.UpdatedAt = updatedAt.Time
		}

		budgets = append(budgets, b)
	}

	return budgets, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, b Budget) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO presupuestos (clave, cliente_id, status, subtotal, tax_rate, tax_amount, total,
		                          has_advance, advance_percent, advance_amount, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, b.Clave, b.ClientID, b.Status, b.Subtotal, b.TaxRate, b.TaxAmount, b.Total,
		b.HasAdvance, b.AdvancePercent, b.AdvanceAmount,
		pgtype.Text{String: getString(b.PaymentMethod), Valid: b.PaymentMethod != nil},
		pgtype.Text{String: getString(b.Notes), Valid: b.Notes != nil},
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: %s", shared.ErrDuplicate, pgErr.ConstraintName)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateHeader(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE presupuestos SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"subtotal", "tax_amount", "total", "has_advance", "advance_percent", "advance_amount", "payment_method", "notes"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) InsertLine(ctx context.Context, line Line) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO presupuesto_detalles (presupuesto_id, concepto_id, concept_code, description, unit,
		                                  quantity, unit_price, subtotal, line_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, line.BudgetID, line.ConceptID, line.ConceptCode, line.Description, line.Unit,
		line.Quantity, line.UnitPrice, line.Subtotal, line.LineOrder).Scan(&id)
	return id, err
}

func (r *repository) DeleteLines(ctx context.Context, budgetID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM presupuesto_detalles WHERE presupuesto_id = $1`, budgetID)
	return err
}

// UpdateStatus performs the transition as a compare-and-swap: the write is
// conditioned on the row still holding the status the caller read. The
// losing writer of two concurrent transitions gets ErrConcurrentModification.
func (r *repository) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE presupuestos SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM presupuestos WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
		return fmt.Errorf("%w: budget %d no longer in status %s", shared.ErrConcurrentModification, id, from)
	}
	return nil
}

func scanBudget(row pgx.Row) (*Budget, error) {
	var b Budget
	var subtotal, taxRate, taxAmount, totalAmt, advancePercent, advanceAmount pgtype.Numeric
	var paymentMethod, notes pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&b.ID, &b.Clave, &b.ClientID, &b.Status, &subtotal, &taxRate, &taxAmount, &totalAmt,
		&b.HasAdvance, &advancePercent, &advanceAmount, &paymentMethod, &notes,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	b.Subtotal = numericFloat(subtotal)
	b.TaxRate = numericFloat(taxRate)
	b.TaxAmount = numericFloat(taxAmount)
	b.Total = numericFloat(totalAmt)
	b.AdvancePercent = numericFloat(advancePercent)
	b.AdvanceAmount = numericFloat(advanceAmount)
	if paymentMethod.Valid {
		b.PaymentMethod = &paymentMethod.String
	}
	if notes.Valid {
		b.Notes = &notes.String
	}
	if createdAt.Valid {
		b.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		b.UpdatedAt = updatedAt.Time
	}
	return &b, nil
}

func numericFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}

func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
