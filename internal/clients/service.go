package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/ensayelab/ensayelab/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: client name is required", shared.ErrValidation)
	}

	client := Client{
		Name:    strings.TrimSpace(req.Name),
		Address: req.Address,
	}
	for _, p := range req.Phones {
		client.Phones = append(client.Phones, Phone{Phone: p})
	}
	for _, e := range req.Emails {
		client.Emails = append(client.Emails, Email{Email: e})
	}

	var clientID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, client)
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		clientID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, clientID)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateClientRequest) (*Client, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: client name is required", shared.ErrValidation)
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if len(updates) > 0 {
			if err := repo.Update(ctx, id, updates); err != nil {
				return err
			}
		}
		if req.Phones != nil {
			if err := repo.ReplacePhones(ctx, id, *req.Phones); err != nil {
				return err
			}
		}
		if req.Emails != nil {
			if err := repo.ReplaceEmails(ctx, id, *req.Emails); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
