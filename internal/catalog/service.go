package catalog

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ensayelab/ensayelab/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Subareas returns the child nodes of the area identified by code.
func (s *Service) Subareas(ctx context.Context, areaCode string) ([]Area, error) {
	area, err := s.repo.GetAreaByCode(ctx, areaCode)
	if err != nil {
		return nil, fmt.Errorf("resolve area %s: %w", areaCode, err)
	}
	return s.repo.Children(ctx, area.ID)
}

// Concepts returns the concepts attached to the given subarea node, with
// their current unit price. Prices are never cached; budget snapshots are
// taken from this read.
func (s *Service) Concepts(ctx context.Context, subareaID int64) ([]Concept, error) {
	if _, err := s.repo.GetArea(ctx, subareaID); err != nil {
		return nil, fmt.Errorf("resolve subarea %d: %w", subareaID, err)
	}
	return s.repo.ConceptsByArea(ctx, subareaID)
}

// GetConcept returns a single concept by id.
func (s *Service) GetConcept(ctx context.Context, id int64) (*Concept, error) {
	return s.repo.GetConcept(ctx, id)
}

// ConceptPrice resolves the current unit price for a concept.
func (s *Service) ConceptPrice(ctx context.Context, conceptID int64) (float64, error) {
	concept, err := s.repo.GetConcept(ctx, conceptID)
	if err != nil {
		return 0, err
	}
	return concept.UnitPrice, nil
}

// Tree assembles the full catalog. Areas and concepts load concurrently;
// assembly validates parent links and the depth bound.
func (s *Service) Tree(ctx context.Context) ([]*AreaNode, error) {
	var areas []Area
	var concepts []Concept

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		areas, err = s.repo.ListAreas(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		concepts, err = s.repo.AllConcepts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return BuildTree(areas, concepts)
}

func (s *Service) ListAreas(ctx context.Context) ([]Area, error) {
	return s.repo.ListAreas(ctx)
}

func (s *Service) GetArea(ctx context.Context, id int64) (*Area, error) {
	return s.repo.GetArea(ctx, id)
}

func (s *Service) CreateArea(ctx context.Context, req CreateAreaRequest) (*Area, error) {
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: area code and name are required", shared.ErrValidation)
	}
	if req.ParentID != nil {
		if _, err := s.repo.GetArea(ctx, *req.ParentID); err != nil {
			return nil, fmt.Errorf("resolve parent area: %w", err)
		}
	}
	id, err := s.repo.CreateArea(ctx, Area{Code: code, Name: name, ParentID: req.ParentID})
	if err != nil {
		return nil, fmt.Errorf("create area: %w", err)
	}
	return s.repo.GetArea(ctx, id)
}

func (s *Service) UpdateArea(ctx context.Context, id int64, req UpdateAreaRequest) (*Area, error) {
	updates := make(map[string]interface{})
	if req.Code != nil {
		if strings.TrimSpace(*req.Code) == "" {
			return nil, fmt.Errorf("%w: area code is required", shared.ErrValidation)
		}
		updates["code"] = strings.TrimSpace(*req.Code)
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: area name is required", shared.ErrValidation)
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateArea(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update area: %w", err)
		}
	}
	return s.repo.GetArea(ctx, id)
}

func (s *Service) DeleteArea(ctx context.Context, id int64) error {
	children, err := s.repo.Children(ctx, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return fmt.Errorf("%w: area still has %d subareas", shared.ErrValidation, len(children))
	}
	return s.repo.DeleteArea(ctx, id)
}

func (s *Service) ListConcepts(ctx context.Context, req ListConceptsRequest) ([]Concept, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.ListConcepts(ctx, req)
}

func (s *Service) CreateConcept(ctx context.Context, req CreateConceptRequest) (*Concept, error) {
	if req.UnitPrice <= 0 {
		return nil, fmt.Errorf("%w: unit price must be positive", shared.ErrValidation)
	}
	if _, err := s.repo.GetArea(ctx, req.AreaID); err != nil {
		return nil, fmt.Errorf("resolve area: %w", err)
	}
	id, err := s.repo.CreateConcept(ctx, Concept{
		Code:        strings.TrimSpace(req.Code),
		Description: strings.TrimSpace(req.Description),
		Unit:        strings.TrimSpace(req.Unit),
		UnitPrice:   req.UnitPrice,
		AreaID:      req.AreaID,
	})
	if err != nil {
		return nil, fmt.Errorf("create concept: %w", err)
	}
	return s.repo.GetConcept(ctx, id)
}

func (s *Service) UpdateConcept(ctx context.Context, id int64, req UpdateConceptRequest) (*Concept, error) {
	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Unit != nil {
		updates["unit"] = strings.TrimSpace(*req.Unit)
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice <= 0 {
			return nil, fmt.Errorf("%w: unit price must be positive", shared.ErrValidation)
		}
		updates["unit_price"] = *req.UnitPrice
	}
	if req.AreaID != nil {
		if _, err := s.repo.GetArea(ctx, *req.AreaID); err != nil {
			return nil, fmt.Errorf("resolve area: %w", err)
		}
		updates["area_id"] = *req.AreaID
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateConcept(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update concept: %w", err)
		}
	}
	return s.repo.GetConcept(ctx, id)
}

func (s *Service) DeleteConcept(ctx context.Context, id int64) error {
	return s.repo.DeleteConcept(ctx, id)
}
