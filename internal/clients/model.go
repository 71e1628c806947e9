package clients

import "time"

type Client struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Phones    []Phone   `json:"phones,omitempty" db:"-"`
	Emails    []Email   `json:"emails,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Phone struct {
	ID       int64  `json:"id" db:"id"`
	ClientID int64  `json:"client_id" db:"cliente_id"`
	Phone    string `json:"phone" db:"phone"`
}

type Email struct {
	ID       int64  `json:"id" db:"id"`
	ClientID int64  `json:"client_id" db:"cliente_id"`
	Email    string `json:"email" db:"email"`
}
