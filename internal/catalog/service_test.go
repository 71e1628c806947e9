package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ensayelab/ensayelab/internal/shared"
)

type memoryRepo struct {
	areas     map[int64]*Area
	concepts  map[int64]*Concept
	areaID    int64
	conceptID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{areas: make(map[int64]*Area), concepts: make(map[int64]*Concept)}
}

func (r *memoryRepo) GetArea(ctx context.Context, id int64) (*Area, error) {
	a, ok := r.areas[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *memoryRepo) GetAreaByCode(ctx context.Context, code string) (*Area, error) {
	for _, a := range r.areas {
		if a.Code == code {
			clone := *a
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) ListAreas(ctx context.Context) ([]Area, error) {
	var result []Area
	for _, a := range r.areas {
		result = append(result, *a)
	}
	return result, nil
}

func (r *memoryRepo) Children(ctx context.Context, parentID int64) ([]Area, error) {
	var result []Area
	for _, a := range r.areas {
		if a.ParentID != nil && *a.ParentID == parentID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *memoryRepo) CreateArea(ctx context.Context, area Area) (int64, error) {
	for _, a := range r.areas {
		if a.Code == area.Code {
			return 0, shared.ErrDuplicate
		}
	}
	r.areaID++
	area.ID = r.areaID
	r.areas[area.ID] = &area
	return area.ID, nil
}

func (r *memoryRepo) UpdateArea(ctx context.Context, id int64, updates map[string]interface{}) error {
	a, ok := r.areas[id]
	if !ok {
		return shared.ErrNotFound
	}
	if v, ok := updates["code"]; ok {
		a.Code = v.(string)
	}
	if v, ok := updates["name"]; ok {
		a.Name = v.(string)
	}
	return nil
}

func (r *memoryRepo) DeleteArea(ctx context.Context, id int64) error {
	if _, ok := r.areas[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.areas, id)
	return nil
}

func (r *memoryRepo) GetConcept(ctx context.Context, id int64) (*Concept, error) {
	c, ok := r.concepts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *memoryRepo) ListConcepts(ctx context.Context, req ListConceptsRequest) ([]Concept, int, error) {
	var result []Concept
	for _, c := range r.concepts {
		if req.AreaID != nil && c.AreaID != *req.AreaID {
			continue
		}
		result = append(result, *c)
	}
	return result, len(result), nil
}

func (r *memoryRepo) ConceptsByArea(ctx context.Context, areaID int64) ([]Concept, error) {
	var result []Concept
	for _, c := range r.concepts {
		if c.AreaID == areaID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *memoryRepo) AllConcepts(ctx context.Context) ([]Concept, error) {
	var result []Concept
	for _, c := range r.concepts {
		result = append(result, *c)
	}
	return result, nil
}

func (r *memoryRepo) CreateConcept(ctx context.Context, concept Concept) (int64, error) {
	for _, c := range r.concepts {
		if c.Code == concept.Code {
			return 0, shared.ErrDuplicate
		}
	}
	r.conceptID++
	concept.ID = r.conceptID
	r.concepts[concept.ID] = &concept
	return concept.ID, nil
}

func (r *memoryRepo) UpdateConcept(ctx context.Context, id int64, updates map[string]interface{}) error {
	c, ok := r.concepts[id]
	if !ok {
		return shared.ErrNotFound
	}
	if v, ok := updates["unit_price"]; ok {
		c.UnitPrice = v.(float64)
	}
	if v, ok := updates["description"]; ok {
		c.Description = v.(string)
	}
	if v, ok := updates["unit"]; ok {
		c.Unit = v.(string)
	}
	if v, ok := updates["area_id"]; ok {
		c.AreaID = v.(int64)
	}
	return nil
}

func (r *memoryRepo) DeleteConcept(ctx context.Context, id int64) error {
	if _, ok := r.concepts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.concepts, id)
	return nil
}

func seedRepo(t *testing.T) *memoryRepo {
	t.Helper()
	repo := newMemoryRepo()
	ctx := context.Background()
	conID, err := repo.CreateArea(ctx, Area{Code: "CON", Name: "Concreto"})
	require.NoError(t, err)
	labID, err := repo.CreateArea(ctx, Area{Code: "CON-LAB", Name: "Ensayes de laboratorio", ParentID: &conID})
	require.NoError(t, err)
	_, err = repo.CreateConcept(ctx, Concept{Code: "CON-LAB-001", Description: "Ensaye a compresión", Unit: "pieza", UnitPrice: 450, AreaID: labID})
	require.NoError(t, err)
	return repo
}

func TestSubareas(t *testing.T) {
	svc := NewService(seedRepo(t))
	ctx := context.Background()

	subareas, err := svc.Subareas(ctx, "CON")
	require.NoError(t, err)
	require.Len(t, subareas, 1)
	require.Equal(t, "CON-LAB", subareas[0].Code)

	_, err = svc.Subareas(ctx, "NOPE")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestConceptsBySubarea(t *testing.T) {
	repo := seedRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	concepts, err := svc.Concepts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, concepts, 1)
	require.Equal(t, "CON-LAB-001", concepts[0].Code)

	_, err = svc.Concepts(ctx, 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestConceptPrice(t *testing.T) {
	svc := NewService(seedRepo(t))
	ctx := context.Background()

	price, err := svc.ConceptPrice(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 450.0, price, 0.0001)

	_, err = svc.ConceptPrice(ctx, 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceTree(t *testing.T) {
	svc := NewService(seedRepo(t))

	roots, err := svc.Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Equal(t, "CON", roots[0].Code)
	require.Len(t, roots[0].Children, 1)
	require.Len(t, roots[0].Children[0].Concepts, 1)
}

func TestCreateAreaValidation(t *testing.T) {
	svc := NewService(seedRepo(t))
	ctx := context.Background()

	_, err := svc.CreateArea(ctx, CreateAreaRequest{Code: " ", Name: "x"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateArea(ctx, CreateAreaRequest{Code: "TER", Name: "Terracerías", ParentID: ptr(int64(42))})
	require.ErrorIs(t, err, shared.ErrNotFound)

	area, err := svc.CreateArea(ctx, CreateAreaRequest{Code: "TER", Name: "Terracerías"})
	require.NoError(t, err)
	require.Equal(t, "TER", area.Code)

	_, err = svc.CreateArea(ctx, CreateAreaRequest{Code: "TER", Name: "Duplicada"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestDeleteAreaRefusesWithChildren(t *testing.T) {
	repo := seedRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	err := svc.DeleteArea(ctx, 1)
	require.ErrorIs(t, err, shared.ErrValidation)

	require.NoError(t, svc.DeleteArea(ctx, 2))
	require.NoError(t, svc.DeleteArea(ctx, 1))
}

func TestCreateConceptValidation(t *testing.T) {
	svc := NewService(seedRepo(t))
	ctx := context.Background()

	_, err := svc.CreateConcept(ctx, CreateConceptRequest{Code: "X", Description: "x", Unit: "pza", UnitPrice: 0, AreaID: 2})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateConcept(ctx, CreateConceptRequest{Code: "X", Description: "x", Unit: "pza", UnitPrice: 10, AreaID: 99})
	require.ErrorIs(t, err, shared.ErrNotFound)

	concept, err := svc.CreateConcept(ctx, CreateConceptRequest{Code: "CON-LAB-002", Description: "Revenimiento", Unit: "prueba", UnitPrice: 178.97, AreaID: 2})
	require.NoError(t, err)
	require.InDelta(t, 178.97, concept.UnitPrice, 0.0001)
}

func TestUpdateConceptPrice(t *testing.T) {
	svc := NewService(seedRepo(t))
	ctx := context.Background()

	_, err := svc.UpdateConcept(ctx, 1, UpdateConceptRequest{UnitPrice: ptr(-5.0)})
	require.ErrorIs(t, err, shared.ErrValidation)

	concept, err := svc.UpdateConcept(ctx, 1, UpdateConceptRequest{UnitPrice: ptr(475.0)})
	require.NoError(t, err)
	require.InDelta(t, 475.0, concept.UnitPrice, 0.0001)
}
