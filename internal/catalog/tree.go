package catalog

import (
	"fmt"

	"github.com/ensayelab/ensayelab/internal/shared"
)

// MaxDepth bounds catalog tree traversal. The deepest observed catalogs use
// area → subarea → sub-subarea; anything past this indicates corrupt parent
// links rather than a real hierarchy.
const MaxDepth = 6

// BuildTree assembles flat area and concept rows into root nodes. Nodes whose
// parent chain exceeds MaxDepth, or whose parent links form a cycle, yield a
// validation error rather than a truncated tree.
func BuildTree(areas []Area, concepts []Concept) ([]*AreaNode, error) {
	nodes := make(map[int64]*AreaNode, len(areas))
	for _, a := range areas {
		nodes[a.ID] = &AreaNode{Area: a}
	}

	for id, node := range nodes {
		if depth, err := chainDepth(nodes, id); err != nil {
			return nil, err
		} else if depth > MaxDepth {
			return nil, fmt.Errorf("%w: area %s exceeds max catalog depth %d", shared.ErrValidation, node.Code, MaxDepth)
		}
	}

	var roots []*AreaNode
	for _, a := range areas {
		node := nodes[a.ID]
		if a.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*a.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: area %s references missing parent %d", shared.ErrValidation, a.Code, *a.ParentID)
		}
		parent.Children = append(parent.Children, node)
	}

	for _, c := range concepts {
		node, ok := nodes[c.AreaID]
		if !ok {
			return nil, fmt.Errorf("%w: concept %s references missing area %d", shared.ErrValidation, c.Code, c.AreaID)
		}
		node.Concepts = append(node.Concepts, c)
	}

	return roots, nil
}

// chainDepth walks parent links from the given node up to the root.
func chainDepth(nodes map[int64]*AreaNode, id int64) (int, error) {
	depth := 1
	seen := map[int64]bool{id: true}
	current := nodes[id]
	for current != nil && current.ParentID != nil {
		parentID := *current.ParentID
		if seen[parentID] {
			return 0, fmt.Errorf("%w: cycle in catalog parent links at area %s", shared.ErrValidation, current.Code)
		}
		seen[parentID] = true
		depth++
		if depth > MaxDepth {
			return depth, nil
		}
		current = nodes[parentID]
	}
	return depth, nil
}
