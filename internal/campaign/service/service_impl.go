package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/campaign/domain"
	"github.com/revloop/revloop/internal/companyctx"
	productdomain "github.com/revloop/revloop/internal/product/domain"
	promotiondomain "github.com/revloop/revloop/internal/promotion/domain"
	"github.com/revloop/revloop/internal/quota"
	"github.com/revloop/revloop/internal/storage"
	"github.com/revloop/revloop/pkg/db/option"
	"github.com/revloop/revloop/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In
	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Products   productdomain.Repository
	Promotions promotiondomain.Repository
	Guard      quota.Guard
	Storage    storage.Provider
}

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	products   productdomain.Repository
	promotions promotiondomain.Repository
	guard      quota.Guard
	storage    storage.Provider
}

func New(p Params) domain.Service {
	return &service{
		db:         p.DB,
		log:        p.Log.Named("campaign.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		products:   p.Products,
		promotions: p.Promotions,
		guard:      p.Guard,
		storage:    p.Storage,
	}
}

var allowedSort = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"claims":     "claims",
	"ratio":      "ratio",
}

func normalizeActive(v string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "", domain.ActiveYes:
		return domain.ActiveYes, nil
	case domain.ActiveNo:
		return domain.ActiveNo, nil
	default:
		return "", domain.ErrInvalidActiveFlag
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateCampaignRequest) (*domain.Campaign, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	isActive, err := normalizeActive(req.IsActive)
	if err != nil {
		return nil, err
	}

	if req.PromotionID != nil {
		if _, err := s.promotions.FindByID(ctx, s.db, companyID, *req.PromotionID); err != nil {
			return nil, err
		}
	}

	for _, pid := range req.ProductIDs {
		if _, err := s.products.FindByID(ctx, s.db, companyID, pid); err != nil {
			return nil, domain.ErrInvalidProduct
		}
	}

	campaign := domain.Campaign{
		ID:           s.genID.Generate(),
		CompanyID:    companyID,
		Title:        title,
		IsActive:     isActive,
		PromotionID:  req.PromotionID,
		Marketplaces: datatypes.NewJSONSlice(req.Marketplaces),
	}

	if req.Image != nil && *req.Image != "" {
		filename, err := s.storage.SaveImage("campaign", *req.Image)
		if err != nil {
			return nil, err
		}
		campaign.Image = &filename
	}

	var created *domain.Campaign
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.guard.EnforceCreate(ctx, tx, companyID, quota.ResourceCampaigns); err != nil {
			return err
		}
		out, err := s.repo.Insert(ctx, tx, campaign)
		if err != nil {
			return err
		}
		if err := s.repo.SetProducts(ctx, tx, out, req.ProductIDs); err != nil {
			return err
		}
		created = out
		return nil
	})
	if err != nil {
		if campaign.Image != nil {
			if rmErr := s.storage.Remove(*campaign.Image); rmErr != nil {
				s.log.Warn("failed to remove orphaned campaign image", zap.Error(rmErr))
			}
		}
		return nil, err
	}

	return created, nil
}

func (s *service) List(ctx context.Context, req domain.ListCampaignRequest) (*domain.ListCampaignResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	p := req.Pagination.Normalize()
	opts := []option.Option{option.WithQuerySortBy(req.SortBy, req.Order, allowedSort)}

	campaigns, total, err := s.repo.FindAll(ctx, s.db, companyID, p, opts...)
	if err != nil {
		return nil, err
	}

	return &domain.ListCampaignResponse{
		Data:     campaigns,
		PageInfo: pagination.BuildPageInfo(total, p),
	}, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Campaign, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}
	return s.repo.FindByID(ctx, s.db, companyID, id)
}

func (s *service) Update(ctx context.Context, req domain.UpdateCampaignRequest) (*domain.Campaign, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	campaign, err := s.repo.FindByID(ctx, s.db, companyID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		campaign.Title = title
	}
	if req.IsActive != nil {
		isActive, err := normalizeActive(*req.IsActive)
		if err != nil {
			return nil, err
		}
		campaign.IsActive = isActive
	}
	if req.PromotionID != nil {
		if _, err := s.promotions.FindByID(ctx, s.db, companyID, *req.PromotionID); err != nil {
			return nil, err
		}
		campaign.PromotionID = req.PromotionID
	}
	if req.Marketplaces != nil {
		campaign.Marketplaces = datatypes.NewJSONSlice(*req.Marketplaces)
	}

	var oldImage *string
	if req.Image != nil && *req.Image != "" {
		filename, err := s.storage.SaveImage("campaign", *req.Image)
		if err != nil {
			return nil, err
		}
		oldImage = campaign.Image
		campaign.Image = &filename
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.ProductIDs != nil {
			for _, pid := range *req.ProductIDs {
				if _, err := s.products.FindByID(ctx, tx, companyID, pid); err != nil {
					return domain.ErrInvalidProduct
				}
			}
			if err := s.repo.SetProducts(ctx, tx, campaign, *req.ProductIDs); err != nil {
				return err
			}
		}
		_, err := s.repo.Update(ctx, tx, *campaign)
		return err
	})
	if err != nil {
		return nil, err
	}

	if oldImage != nil {
		if rmErr := s.storage.Remove(*oldImage); rmErr != nil {
			s.log.Warn("failed to remove replaced campaign image", zap.Error(rmErr))
		}
	}

	return campaign, nil
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidCompany
	}

	campaign, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, companyID, id); err != nil {
		return err
	}

	if campaign.Image != nil {
		if rmErr := s.storage.Remove(*campaign.Image); rmErr != nil {
			s.log.Warn("failed to remove campaign image", zap.Error(rmErr))
		}
	}
	return nil
}
