package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/revloop/revloop/internal/company/domain"
	"github.com/revloop/revloop/internal/companyctx"
	plandomain "github.com/revloop/revloop/internal/plan/domain"
	"github.com/revloop/revloop/pkg/db"
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
	Plans plandomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	plans plandomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		repo:  p.Repo,
		plans: p.Plans,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	// New companies start on the free tier.
	silver, err := s.plans.FindByType(ctx, s.db, plandomain.PlanSilver)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	company := &domain.Company{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if silver != nil {
		planID := silver.ID
		company.PlanID = &planID
	}

	if err := s.repo.Insert(ctx, s.db, company); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	resp := toResponse(company)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context) (*domain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	item, err := s.repo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	item, err := s.repo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Email != nil {
		item.Email = strings.TrimSpace(*req.Email)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func toResponse(c *domain.Company) domain.Response {
	resp := domain.Response{
		ID:        c.ID.String(),
		Name:      c.Name,
		Slug:      c.Slug,
		Email:     c.Email,
		Ratio:     c.Ratio,
		Reviews:   c.Reviews,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.PlanID != nil {
		planID := c.PlanID.String()
		resp.PlanID = &planID
	}
	return resp
}
