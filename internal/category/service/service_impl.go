package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/category/domain"
	"github.com/revloop/revloop/internal/companyctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("category.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	category := &domain.Category{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, category); err != nil {
		return nil, err
	}

	resp := toResponse(category)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	items, err := s.repo.FindAll(ctx, s.db, int64(companyID))
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ErrInvalidCompany
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, int64(companyID), categoryID.Int64())
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, int64(companyID), categoryID.Int64())
}

func toResponse(c *domain.Category) domain.Response {
	return domain.Response{
		ID:        c.ID.String(),
		CompanyID: c.CompanyID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}
