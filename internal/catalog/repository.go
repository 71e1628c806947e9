package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ensayelab/ensayelab/internal/shared"
)

type Repository interface {
	GetArea(ctx context.Context, id int64) (*Area, error)
	GetAreaByCode(ctx context.Context, code string) (*Area, error)
	ListAreas(ctx context.Context) ([]Area, error)
	Children(ctx context.Context, parentID int64) ([]Area, error)
	CreateArea(ctx context.Context, area Area) (int64, error)
	UpdateArea(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteArea(ctx context.Context, id int64) error

	GetConcept(ctx context.Context, id int64) (*Concept, error)
	ListConcepts(ctx context.Context, req ListConceptsRequest) ([]Concept, int, error)
	ConceptsByArea(ctx context.Context, areaID int64) ([]Concept, error)
	AllConcepts(ctx context.Context) ([]Concept, error)
	CreateConcept(ctx context.Context, concept Concept) (int64, error)
	UpdateConcept(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteConcept(ctx context.Context, id int64) error
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

const areaColumns = "id, code, name, parent_id, created_at, updated_at"

func (r *repository) GetArea(ctx context.Context, id int64) (*Area, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM catalog_areas WHERE id = $1", areaColumns), id)
	return scanArea(row)
}

func (r *repository) GetAreaByCode(ctx context.Context, code string) (*Area, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM catalog_areas WHERE code = $1", areaColumns), code)
	return scanArea(row)
}

func (r *repository) ListAreas(ctx context.Context) ([]Area, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM catalog_areas ORDER BY code", areaColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAreas(rows)
}

func (r *repository) Children(ctx context.Context, parentID int64) ([]Area, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM catalog_areas WHERE parent_id = $1 ORDER BY code", areaColumns), parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAreas(rows)
}

func (r *repository) CreateArea(ctx context.Context, area Area) (int64, error) {
	var parentID pgtype.Int8
	if area.ParentID != nil {
		parentID = pgtype.Int8{Int64: *area.ParentID, Valid: true}
	}
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO catalog_areas (code, name, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, area.Code, area.Name, parentID).Scan(&id)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return id, nil
}

func (r *repository) UpdateArea(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE catalog_areas SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	if v, ok := updates["code"]; ok {
		query += fmt.Sprintf(", code = $%d", argPos)
		args = append(args, v)
		argPos++
	}
	if v, ok := updates["name"]; ok {
		query += fmt.Sprintf(", name = $%d", argPos)
		args = append(args, v)
		argPos++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteArea(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM catalog_areas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

const conceptColumns = "id, code, description, unit, unit_price, area_id, created_at, updated_at"

func (r *repository) GetConcept(ctx context.Context, id int64) (*Concept, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM conceptos WHERE id = $1", conceptColumns), id)
	return scanConcept(row)
}

func (r *repository) ListConcepts(ctx context.Context, req ListConceptsRequest) ([]Concept, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.AreaID != nil {
		conditions = append(conditions, fmt.Sprintf("area_id = $%d", argPos))
		args = append(args, *req.AreaID)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		searchPattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR description ILIKE $%d)", argPos, argPos))
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

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM conceptos %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM conceptos
		%s
		ORDER BY code
		LIMIT $%d OFFSET $%d
	`, conceptColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	concepts, err := scanConcepts(rows)
	if err != nil {
		return nil, 0, err
	}
	return concepts, total, nil
}

func (r *repository) ConceptsByArea(ctx context.Context, areaID int64) ([]Concept, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM conceptos WHERE area_id = $1 ORDER BY code", conceptColumns), areaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConcepts(rows)
}

func (r *repository) AllConcepts(ctx context.Context) ([]Concept, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM conceptos ORDER BY code", conceptColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConcepts(rows)
}

func (r *repository) CreateConcept(ctx context.Context, concept Concept) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO conceptos (code, description, unit, unit_price, area_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, concept.Code, concept.Description, concept.Unit, concept.UnitPrice, concept.AreaID).Scan(&id)
	if err != nil {
		return 0, mapUniqueViolation(err)
	}
	return id, nil
}

func (r *repository) UpdateConcept(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE conceptos SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	if v, ok := updates["description"]; ok {
		query += fmt.Sprintf(", description = $%d", argPos)
		args = append(args, v)
		argPos++
	}
	if v, ok := updates["unit"]; ok {
		query += fmt.Sprintf(", unit = $%d", argPos)
		args = append(args, v)
		argPos++
	}
	if v, ok := updates["unit_price"]; ok {
		query += fmt.Sprintf(", unit_price = $%d", argPos)
		args = append(args, v)
		argPos++
	}
	if v, ok := updates["area_id"]; ok {
		query += fmt.Sprintf(", area_id = $%d", argPos)
		args = append(args, v)
		argPos++
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

func (r *repository) DeleteConcept(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM conceptos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanArea(row pgx.Row) (*Area, error) {
	var a Area
	var parentID pgtype.Int8
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&a.ID, &a.Code, &a.Name, &parentID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if parentID.Valid {
		a.ParentID = &parentID.Int64
	}
	if createdAt.Valid {
		a.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		a.UpdatedAt = updatedAt.Time
	}
	return &a, nil
}

func scanAreas(rows pgx.Rows) ([]Area, error) {
	var areas []Area
	for rows.Next() {
		var a Area
		var parentID pgtype.Int8
		var createdAt, updatedAt pgtype.Timestamptz
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &parentID, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if parentID.Valid {
			a.ParentID = &parentID.Int64
		}
		if createdAt.Valid {
			a.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			a.UpdatedAt = updatedAt.Time
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func scanConcept(row pgx.Row) (*Concept, error) {
	var c Concept
	var unitPrice pgtype.Numeric
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&c.ID, &c.Code, &c.Description, &c.Unit, &unitPrice, &c.AreaID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if unitPrice.Valid {
		f, _ := unitPrice.Float64Value()
		c.UnitPrice = f.Float64
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}

func scanConcepts(rows pgx.Rows) ([]Concept, error) {
	var concepts []Concept
	for rows.Next() {
		var c Concept
		var unitPrice pgtype.Numeric
		var createdAt, updatedAt pgtype.Timestamptz
		if err := rows.Scan(&c.ID, &c.Code, &c.Description, &c.Unit, &unitPrice, &c.AreaID, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if unitPrice.Valid {
			f, _ := unitPrice.Float64Value()
			c.UnitPrice = f.Float64
		}
		if createdAt.Valid {
			c.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			c.UpdatedAt = updatedAt.Time
		}
		concepts = append(concepts, c)
	}
	return concepts, rows.Err()
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", shared.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
