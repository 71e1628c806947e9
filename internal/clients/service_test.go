package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ensayelab/ensayelab/internal/shared"
)

type memoryRepo struct {
	clients map[int64]*Client
	nextID  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{clients: make(map[int64]*Client)}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *c
	clone.Phones = append([]Phone(nil), c.Phones...)
	clone.Emails = append([]Email(nil), c.Emails...)
	return &clone, nil
}

func (r *memoryRepo) List(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	var result []Client
	for _, c := range r.clients {
		result = append(result, *c)
	}
	return result, len(result), nil
}

func (r *memoryRepo) Create(ctx context.Context, client Client) (int64, error) {
	r.nextID++
	client.ID = r.nextID
	r.clients[client.ID] = &client
	return client.ID, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	c, ok := r.clients[id]
	if !ok {
		return shared.ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := updates["address"]; ok {
		s := v.(string)
		c.Address = &s
	}
	return nil
}

func (r *memoryRepo) ReplacePhones(ctx context.Context, clientID int64, phones []string) error {
	c, ok := r.clients[clientID]
	if !ok {
		return shared.ErrNotFound
	}
	c.Phones = nil
	for _, p := range phones {
		c.Phones = append(c.Phones, Phone{ClientID: clientID, Phone: p})
	}
	return nil
}

func (r *memoryRepo) ReplaceEmails(ctx context.Context, clientID int64, emails []string) error {
	c, ok := r.clients[clientID]
	if !ok {
		return shared.ErrNotFound
	}
	c.Emails = nil
	for _, e := range emails {
		c.Emails = append(c.Emails, Email{ClientID: clientID, Email: e})
	}
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.clients[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func TestCreateClient(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	addr := "Blvd. Campestre 500"
	client, err := svc.Create(ctx, CreateClientRequest{
		Name:    "  Constructora Norte  ",
		Address: &addr,
		Phones:  []string{"477-555-0100", "477-555-0101"},
		Emails:  []string{"ventas@norte.mx"},
	})
	require.NoError(t, err)
	require.Equal(t, "Constructora Norte", client.Name)
	require.Len(t, client.Phones, 2)
	require.Len(t, client.Emails, 1)
}

func TestCreateClientRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), CreateClientRequest{Name: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateClientReplacesContactLists(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	client, err := svc.Create(ctx, CreateClientRequest{
		Name:   "Constructora Norte",
		Phones: []string{"477-555-0100"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, client.ID, UpdateClientRequest{
		Phones: &[]string{"477-555-0200", "477-555-0201"},
		Emails: &[]string{"nuevo@norte.mx"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Phones, 2)
	require.Equal(t, "477-555-0200", updated.Phones[0].Phone)
	require.Len(t, updated.Emails, 1)

	// nil slices leave existing lists alone
	same, err := svc.Update(ctx, client.ID, UpdateClientRequest{})
	require.NoError(t, err)
	require.Len(t, same.Phones, 2)
}

func TestUpdateClientNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo())
	name := "X"
	_, err := svc.Update(context.Background(), 42, UpdateClientRequest{Name: &name})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteClient(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	client, err := svc.Create(ctx, CreateClientRequest{Name: "Por borrar"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, client.ID))

	_, err = svc.Get(ctx, client.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, client.ID), shared.ErrNotFound)
}
