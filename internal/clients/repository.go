package clients

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
	Get(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context, req ListClientsRequest) ([]Client, int, error)
	Create(ctx context.Context, client Client) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	ReplacePhones(ctx context.Context, clientID int64, phones []string) error
	ReplaceEmails(ctx context.Context, clientID int64, emails []string) error
	Delete(ctx context.Context, id int64) error
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

// q resolves the querier for ctx. When the context carries a transaction
// started elsewhere (a budget created with an inline client), client writes
// join that transaction instead of autocommitting on the pool.
func (r *repository) q(ctx context.Context) dbtx {
	if tx, ok := db.TxFromContext(ctx); ok {
		return tx
	}
	return r.db
}

func (r *repository) Get(ctx context.Context, id int64) (*Client, error) {
	var c Client
	var address pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	err := r.q(ctx).QueryRow(ctx, `
		SELECT id, name, address, created_at, updated_at
		FROM clientes WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &address, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if address.Valid {
		c.Address = &address.String
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}

	phoneRows, err := r.q(ctx).Query(ctx, `SELECT id, cliente_id, phone FROM cliente_telefonos WHERE cliente_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer phoneRows.Close()
	for phoneRows.Next() {
		var p Phone
		if err := phoneRows.Scan(&p.ID, &p.ClientID, &p.Phone); err != nil {
			return nil, err
		}
		c.Phones = append(c.Phones, p)
	}
	if err := phoneRows.Err(); err != nil {
		return nil, err
	}

	emailRows, err := r.q(ctx).Query(ctx, `SELECT id, cliente_id, email FROM cliente_correos WHERE cliente_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer emailRows.Close()
	for emailRows.Next() {
		var e Email
		if err := emailRows.Scan(&e.ID, &e.ClientID, &e.Email); err != nil {
			return nil, err
		}
		c.Emails = append(c.Emails, e)
	}
	if err := emailRows.Err(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) List(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.Search != nil && *req.Search != "" {
		searchPattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d)", argPos, argPos))
		args = append(args, searchPattern)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM clientes %s", whereClause)
	var total int
	if err := r.q(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, address, created_at, updated_at
		FROM clientes
		%s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		var address pgtype.Text
		var createdAt, updatedAt pgtype.Timestamptz
		if err := rows.Scan(&c.ID, &c.Name, &address, &createdAt, &updatedAt); err != nil {
			return nil, 0, err
		}
		if address.Valid {
			c.Address = &address.String
		}
		if createdAt.Valid {
			c.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			c.UpdatedAt = updatedAt.Time
		}
		clients = append(clients, c)
	}

	return clients, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, client Client) (int64, error) {
	var id int64
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO clientes (name, address)
		VALUES ($1, $2)
		RETURNING id
	`, client.Name, pgtype.Text{String: getString(client.Address), Valid: client.Address != nil}).Scan(&id)
	if err != nil {
		return 0, err
	}
	for _, p := range client.Phones {
		if _, err := r.q(ctx).Exec(ctx, `INSERT INTO cliente_telefonos (cliente_id, phone) VALUES ($1, $2)`, id, p.Phone); err != nil {
			return 0, err
		}
	}
	for _, e := range client.Emails {
		if _, err := r.q(ctx).Exec(ctx, `INSERT INTO cliente_correos (cliente_id, email) VALUES ($1, $2)`, id, e.Email); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE clientes SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	if v, ok := updates["name"]; ok {
		query += fmt.Sprintf(", name = $%d", argPos)
		args = append(args, v)
		argPos++
	}
	if v, ok := updates["address"]; ok {
		query += fmt.Sprintf(", address = $%d", argPos)
		args = append(args, v)
		argPos++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ReplacePhones(ctx context.Context, clientID int64, phones []string) error {
	if _, err := r.q(ctx).Exec(ctx, `DELETE FROM cliente_telefonos WHERE cliente_id = $1`, clientID); err != nil {
		return err
	}
	for _, p := range phones {
		if _, err := r.q(ctx).Exec(ctx, `INSERT INTO cliente_telefonos (cliente_id, phone) VALUES ($1, $2)`, clientID, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) ReplaceEmails(ctx context.Context, clientID int64, emails []string) error {
	if _, err := r.q(ctx).Exec(ctx, `DELETE FROM cliente_correos WHERE cliente_id = $1`, clientID); err != nil {
		return err
	}
	for _, e := range emails {
		if _, err := r.q(ctx).Exec(ctx, `INSERT INTO cliente_correos (cliente_id, email) VALUES ($1, $2)`, clientID, e); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the client row. Phones and emails go with it through the
// ON DELETE CASCADE clauses on their foreign keys.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
