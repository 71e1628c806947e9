package catalog

import "time"

// Area is a node in the service catalog tree. A node without a parent is a
// top-level area; its children are subareas. The source data historically
// carried two overlapping representations (flat area/subarea pairs and a
// self-referential tree); they are reconciled here into the single
// parent-linked form.
type Area struct {
	ID        int64     `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	ParentID  *int64    `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Concept is a sellable catalog line attached to a non-root area node.
type Concept struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Description string    `json:"description" db:"description"`
	Unit        string    `json:"unit" db:"unit"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	AreaID      int64     `json:"area_id" db:"area_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// AreaNode is an area with its resolved children, used by the tree endpoint
// and by budget authoring forms.
type AreaNode struct {
	Area
	Children []*AreaNode `json:"children,omitempty"`
	Concepts []Concept   `json:"concepts,omitempty"`
}
