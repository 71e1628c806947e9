package clients

type CreateClientRequest struct {
	Name    string   `json:"name" validate:"required,max=200"`
	Address *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Phones  []string `json:"phones,omitempty" validate:"dive,required,max=30"`
	Emails  []string `json:"emails,omitempty" validate:"dive,required,email"`
}

type UpdateClientRequest struct {
	Name    *string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Address *string   `json:"address,omitempty" validate:"omitempty,max=500"`
	Phones  *[]string `json:"phones,omitempty" validate:"omitempty,dive,required,max=30"`
	Emails  *[]string `json:"emails,omitempty" validate:"omitempty,dive,required,email"`
}

type ListClientsRequest struct {
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
