package catalog

type CreateAreaRequest struct {
	Code     string `json:"code" validate:"required,max=20"`
	Name     string `json:"name" validate:"required,max=200"`
	ParentID *int64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateAreaRequest struct {
	Code *string `json:"code,omitempty" validate:"omitempty,max=20"`
	Name *string `json:"name,omitempty" validate:"omitempty,max=200"`
}

type CreateConceptRequest struct {
	Code        string  `json:"code" validate:"required,max=30"`
	Description string  `json:"description" validate:"required,max=500"`
	Unit        string  `json:"unit" validate:"required,max=20"`
	UnitPrice   float64 `json:"unit_price" validate:"required,gt=0"`
	AreaID      int64   `json:"area_id" validate:"required,gt=0"`
}

type UpdateConceptRequest struct {
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Unit        *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	UnitPrice   *float64 `json:"unit_price,omitempty" validate:"omitempty,gt=0"`
	AreaID      *int64   `json:"area_id,omitempty" validate:"omitempty,gt=0"`
}

type ListConceptsRequest struct {
	AreaID *int64  `json:"area_id,omitempty"`
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
