package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/companyctx"
	"github.com/revloop/revloop/internal/promotion/domain"
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
	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Guard   quota.Guard
	Storage storage.Provider
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	guard   quota.Guard
	storage storage.Provider
}

func New(p Params) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log.Named("promotion.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		guard:   p.Guard,
		storage: p.Storage,
	}
}

var allowedSort = map[string]string{
	"created_at":     "created_at",
	"title":          "title",
	"promotion_type": "promotion_type",
}

func strptr(v string) *string { return &v }

func (s *service) Create(ctx context.Context, req domain.CreatePromotionRequest) (*domain.Promotion, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	promotion := domain.Promotion{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		Title:       title,
		Description: req.Description,
		Type:        req.Type,
	}

	// Only fields relevant to the promotion's type are persisted.
	switch req.Type {
	case domain.TypeGiftCard:
		promotion.GiftCardDeliveryMethod = req.GiftCardDeliveryMethod
	case domain.TypeDiscountCode:
		promotion.ApprovalMethod = req.ApprovalMethod
		promotion.CodeType = req.CodeType
		if len(req.CouponCodes) == 0 {
			return nil, domain.ErrMissingCodes
		}
		promotion.CouponCodes = datatypes.JSONSlice[string](req.CouponCodes)
	case domain.TypeFreeProduct:
		promotion.FreeProductDeliveryMethod = strptr(domain.FreeProductDelivery)
		promotion.FreeProductApprovalMethod = strptr(domain.FreeProductApproval)
	case domain.TypeDigitalDownload:
		if req.DownloadableFile == nil || *req.DownloadableFile == "" {
			return nil, domain.ErrMissingFile
		}
		filename, err := s.storage.SavePDF("promotion", *req.DownloadableFile)
		if err != nil {
			return nil, err
		}
		promotion.DownloadableFileURL = &filename
		promotion.DigitalApprovalMethod = req.DigitalApprovalMethod
	default:
		return nil, domain.ErrInvalidType
	}

	if req.Image != nil && *req.Image != "" {
		filename, err := s.storage.SaveImage("promotion", *req.Image)
		if err != nil {
			return nil, err
		}
		promotion.Image = &filename
	}

	var created *domain.Promotion
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.guard.EnforceCreate(ctx, tx, companyID, quota.ResourcePromotions); err != nil {
			return err
		}
		out, err := s.repo.Insert(ctx, tx, promotion)
		if err != nil {
			return err
		}
		created = out
		return nil
	})
	if err != nil {
		for _, f := range []*string{promotion.Image, promotion.DownloadableFileURL} {
			if f == nil {
				continue
			}
			if rmErr := s.storage.Remove(*f); rmErr != nil {
				s.log.Warn("failed to remove orphaned promotion file", zap.Error(rmErr))
			}
		}
		return nil, err
	}

	return created, nil
}

func (s *service) List(ctx context.Context, req domain.ListPromotionRequest) (*domain.ListPromotionResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	p := req.Pagination.Normalize()
	opts := []option.Option{option.WithQuerySortBy(req.SortBy, req.Order, allowedSort)}

	promotions, total, err := s.repo.FindAll(ctx, s.db, companyID, p, opts...)
	if err != nil {
		return nil, err
	}

	return &domain.ListPromotionResponse{
		Data:     promotions,
		PageInfo: pagination.BuildPageInfo(total, p),
	}, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Promotion, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}
	return s.repo.FindByID(ctx, s.db, companyID, id)
}

// Update applies only the fields relevant to the promotion's type.
// Updates touching unrelated fields are silent no-ops.
func (s *service) Update(ctx context.Context, req domain.UpdatePromotionRequest) (*domain.Promotion, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidCompany
	}

	promotion, err := s.repo.FindByID(ctx, s.db, companyID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		promotion.Title = title
	}
	if req.Description != nil {
		promotion.Description = *req.Description
	}

	switch promotion.Type {
	case domain.TypeGiftCard:
		if req.GiftCardDeliveryMethod != nil {
			promotion.GiftCardDeliveryMethod = req.GiftCardDeliveryMethod
		}
	case domain.TypeDiscountCode:
		if req.ApprovalMethod != nil {
			promotion.ApprovalMethod = req.ApprovalMethod
		}
		if req.CodeType != nil {
			promotion.CodeType = req.CodeType
		}
		if req.CouponCodes != nil {
			promotion.CouponCodes = datatypes.JSONSlice[string](*req.CouponCodes)
		}
	case domain.TypeDigitalDownload:
		if req.DigitalApprovalMethod != nil {
			promotion.DigitalApprovalMethod = req.DigitalApprovalMethod
		}
		if req.DownloadableFile != nil && *req.DownloadableFile != "" {
			filename, err := s.storage.SavePDF("promotion", *req.DownloadableFile)
			if err != nil {
				return nil, err
			}
			if promotion.DownloadableFileURL != nil {
				if rmErr := s.storage.Remove(*promotion.DownloadableFileURL); rmErr != nil {
					s.log.Warn("failed to remove replaced promotion file", zap.Error(rmErr))
				}
			}
			promotion.DownloadableFileURL = &filename
		}
	}

	if req.Image != nil && *req.Image != "" {
		filename, err := s.storage.SaveImage("promotion", *req.Image)
		if err != nil {
			return nil, err
		}
		if promotion.Image != nil {
			if rmErr := s.storage.Remove(*promotion.Image); rmErr != nil {
				s.log.Warn("failed to remove replaced promotion image", zap.Error(rmErr))
			}
		}
		promotion.Image = &filename
	}

	return s.repo.Update(ctx, s.db, *promotion)
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidCompany
	}

	promotion, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, companyID, id); err != nil {
		return err
	}

	for _, f := range []*string{promotion.Image, promotion.DownloadableFileURL} {
		if f == nil {
			continue
		}
		if rmErr := s.storage.Remove(*f); rmErr != nil {
			s.log.Warn("failed to remove promotion file", zap.Error(rmErr))
		}
	}
	return nil
}
