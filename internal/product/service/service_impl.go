package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/companyctx"
	"github.com/revloop/revloop/internal/product/domain"
	"github.com/revloop/revloop/internal/quota"
	"github.com/revloop/revloop/internal/storage"
	"github.com/revloop/revloop/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Guard   quota.Guard
	Storage storage.Provider
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	guard   quota.Guard
	storage storage.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("product.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		guard:   p.Guard,
		storage: p.Storage,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	var asinPtr *string
	if req.ASIN != nil {
		asin := strings.ToUpper(strings.TrimSpace(*req.ASIN))
		if !domain.ValidASIN(asin) || asin == domain.SellerProfileASIN {
			return nil, domain.ErrInvalidASIN
		}
		asinPtr = &asin
	}

	var categoryID *snowflake.ID
	if req.CategoryID != nil && strings.TrimSpace(*req.CategoryID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.CategoryID))
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		categoryID = &parsed
	}

	var image *string
	if req.Image != nil && strings.TrimSpace(*req.Image) != "" {
		name, err := s.storage.SaveImage("product", *req.Image)
		if err != nil {
			return nil, err
		}
		image = &name
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		CategoryID:  categoryID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Image:       image,
		ASIN:        asinPtr,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.guard.EnforceCreate(ctx, tx, companyID, quota.ResourceProducts); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, product)
	})
	if err != nil {
		if image != nil {
			_ = s.storage.Remove(*image)
		}
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrASINTaken
		}
		return nil, err
	}

	resp := toResponse(product)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	items, err := s.repo.FindAll(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, companyID, productID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, companyID, productID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		item.Title = title
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategoryID != nil {
		trimmed := strings.TrimSpace(*req.CategoryID)
		if trimmed == "" {
			item.CategoryID = nil
		} else {
			parsed, err := snowflake.ParseString(trimmed)
			if err != nil {
				return nil, domain.ErrInvalidID
			}
			item.CategoryID = &parsed
		}
	}
	if req.Image != nil && strings.TrimSpace(*req.Image) != "" {
		name, err := s.storage.SaveImage("product", *req.Image)
		if err != nil {
			return nil, err
		}
		if item.Image != nil {
			_ = s.storage.Remove(*item.Image)
		}
		item.Image = &name
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ErrInvalidCompany
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, companyID, productID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, companyID, productID); err != nil {
		return err
	}

	if item.Image != nil {
		if err := s.storage.Remove(*item.Image); err != nil {
			s.log.Warn("failed to remove product image",
				zap.String("product_id", productID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func toResponse(p *domain.Product) domain.Response {
	resp := domain.Response{
		ID:          p.ID.String(),
		CompanyID:   p.CompanyID.String(),
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		ASIN:        p.ASIN,
		Ratio:       p.Ratio,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID != nil {
		categoryID := p.CategoryID.String()
		resp.CategoryID = &categoryID
	}
	return resp
}
