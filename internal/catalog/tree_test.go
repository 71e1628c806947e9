package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ensayelab/ensayelab/internal/shared"
)

func ptr[T any](v T) *T { return &v }

func TestBuildTree(t *testing.T) {
	areas := []Area{
		{ID: 1, Code: "CON", Name: "Concreto"},
		{ID: 2, Code: "CON-LAB", Name: "Ensayes de laboratorio", ParentID: ptr(int64(1))},
		{ID: 3, Code: "TER", Name: "Terracerías"},
	}
	concepts := []Concept{
		{ID: 10, Code: "CON-LAB-001", AreaID: 2},
		{ID: 11, Code: "CON-LAB-002", AreaID: 2},
	}

	roots, err := BuildTree(areas, concepts)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	byCode := map[string]*AreaNode{}
	for _, r := range roots {
		byCode[r.Code] = r
	}
	con := byCode["CON"]
	require.NotNil(t, con)
	require.Len(t, con.Children, 1)
	require.Equal(t, "CON-LAB", con.Children[0].Code)
	require.Len(t, con.Children[0].Concepts, 2)
	require.Empty(t, byCode["TER"].Children)
}

func TestBuildTreeEmpty(t *testing.T) {
	roots, err := BuildTree(nil, nil)
	require.NoError(t, err)
	require.Empty(t, roots)
}

func TestBuildTreeMissingParent(t *testing.T) {
	areas := []Area{
		{ID: 2, Code: "CON-LAB", ParentID: ptr(int64(1))},
	}
	_, err := BuildTree(areas, nil)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestBuildTreeOrphanConcept(t *testing.T) {
	areas := []Area{{ID: 1, Code: "CON"}}
	concepts := []Concept{{ID: 10, Code: "X-001", AreaID: 99}}
	_, err := BuildTree(areas, concepts)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestBuildTreeCycle(t *testing.T) {
	areas := []Area{
		{ID: 1, Code: "A", ParentID: ptr(int64(2))},
		{ID: 2, Code: "B", ParentID: ptr(int64(1))},
	}
	_, err := BuildTree(areas, nil)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestBuildTreeTooDeep(t *testing.T) {
	var areas []Area
	for i := int64(1); i <= int64(MaxDepth)+1; i++ {
		a := Area{ID: i, Code: string(rune('A' + i - 1))}
		if i > 1 {
			a.ParentID = ptr(i - 1)
		}
		areas = append(areas, a)
	}
	_, err := BuildTree(areas, nil)
	require.ErrorIs(t, err, shared.ErrValidation)
}
