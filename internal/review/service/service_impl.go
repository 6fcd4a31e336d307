package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	campaigndomain "github.com/revloop/revloop/internal/campaign/domain"
	"github.com/revloop/revloop/internal/clock"
	customerdomain "github.com/revloop/revloop/internal/customer/domain"
	productdomain "github.com/revloop/revloop/internal/product/domain"
	promotiondomain "github.com/revloop/revloop/internal/promotion/domain"
	"github.com/revloop/revloop/internal/review/domain"
	"github.com/revloop/revloop/internal/reward"
	"github.com/revloop/revloop/internal/stats"
	"github.com/revloop/revloop/pkg/db/option"
	"github.com/revloop/revloop/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In
	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Products   productdomain.Repository
	Campaigns  campaigndomain.Repository
	Promotions promotiondomain.Repository
	Customers  customerdomain.Repository
	Stats      stats.Maintainer
	Rewards    reward.Dispatcher
}

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	products   productdomain.Repository
	campaigns  campaigndomain.Repository
	promotions promotiondomain.Repository
	customers  customerdomain.Repository
	stats      stats.Maintainer
	rewards    reward.Dispatcher
}

func New(p Params) domain.Service {
	return &service{
		db:         p.DB,
		log:        p.Log.Named("review.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		products:   p.Products,
		campaigns:  p.Campaigns,
		promotions: p.Promotions,
		customers:  p.Customers,
		stats:      p.Stats,
		rewards:    p.Rewards,
	}
}

// Sort columns are qualified because the company listing joins products.
var allowedSort = map[string]string{
	"created_at":    "reviews.created_at",
	"feedback_date": "reviews.feedback_date",
	"ratio":         "reviews.ratio",
	"status":        "reviews.status",
}

func (s *service) validate(req *domain.SubmitReviewRequest) error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return domain.ErrInvalidEmail
	}
	if req.Rating < 1 || req.Rating > 5 {
		return domain.ErrInvalidRating
	}
	if len(strings.TrimSpace(req.Feedback)) < domain.MinFeedbackLen {
		return domain.ErrFeedbackTooShort
	}

	marketplace := strings.TrimSpace(req.Marketplace)
	if marketplace == "" {
		m, ok := domain.MarketplaceForCountry(req.Country)
		if !ok {
			return domain.ErrInvalidMarketplace
		}
		marketplace = m
	}
	req.Marketplace = marketplace
	return nil
}

// resolveProduct finds the review's target. Seller feedback resolves (or
// lazily creates) the company's seller-profile product; everything else
// is a strict ASIN match.
func (s *service) resolveProduct(ctx context.Context, req domain.SubmitReviewRequest, campaign *campaigndomain.Campaign) (*productdomain.Product, error) {
	if req.IsSeller {
		var companyID snowflake.ID
		switch {
		case req.CompanyID != nil:
			companyID = *req.CompanyID
		case campaign != nil:
			companyID = campaign.CompanyID
		default:
			return nil, domain.ErrMissingTarget
		}

		product, err := s.products.FindSellerProfile(ctx, s.db, companyID)
		if err == nil {
			return product, nil
		}
		if err != productdomain.ErrNotFound {
			return nil, err
		}

		asin := productdomain.SellerProfileASIN
		product = &productdomain.Product{
			ID:        s.genID.Generate(),
			CompanyID: companyID,
			Title:     productdomain.SellerProfileTitle,
			ASIN:      &asin,
		}
		if err := s.products.Insert(ctx, s.db, product); err != nil {
			return nil, err
		}
		return product, nil
	}

	if req.ASIN == nil || *req.ASIN == "" {
		return nil, domain.ErrMissingTarget
	}
	return s.products.FindByASIN(ctx, s.db, strings.ToUpper(strings.TrimSpace(*req.ASIN)))
}

func (s *service) Submit(ctx context.Context, req domain.SubmitReviewRequest) (*domain.Review, domain.DispatchResult, error) {
	if err := s.validate(&req); err != nil {
		return nil, domain.DispatchSkipped, err
	}

	// Campaign is resolved before the product so seller feedback can
	// derive the tenant from it.
	var campaign *campaigndomain.Campaign
	if req.CampaignID != nil {
		c, err := s.campaigns.FindByIDAny(ctx, s.db, *req.CampaignID)
		if err != nil {
			return nil, domain.DispatchSkipped, err
		}
		if c.IsActive != campaigndomain.ActiveYes {
			return nil, domain.DispatchSkipped, domain.ErrCampaignInactive
		}
		campaign = c
	}

	product, err := s.resolveProduct(ctx, req, campaign)
	if err != nil {
		return nil, domain.DispatchSkipped, err
	}

	if campaign != nil {
		if req.IsSeller {
			// The lazily created seller profile joins the campaign on
			// first submission.
			if err := s.campaigns.AddProduct(ctx, s.db, campaign, product.ID); err != nil {
				return nil, domain.DispatchSkipped, err
			}
		} else {
			ok, err := s.campaigns.HasProduct(ctx, s.db, campaign.ID, product.ID)
			if err != nil {
				return nil, domain.DispatchSkipped, err
			}
			if !ok {
				return nil, domain.DispatchSkipped, domain.ErrProductNotInCampaign
			}
		}
	}

	promotionID := req.PromotionID
	if promotionID == nil && campaign != nil {
		promotionID = campaign.PromotionID
	}
	var promotion *promotiondomain.Promotion
	if promotionID != nil {
		p, err := s.promotions.FindByIDAny(ctx, s.db, *promotionID)
		if err != nil {
			return nil, domain.DispatchSkipped, err
		}
		promotion = p
	}

	var campaignID *snowflake.ID
	if campaign != nil {
		campaignID = &campaign.ID
	}

	review := domain.Review{
		ID:           s.genID.Generate(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		ProductID:    product.ID,
		Ratio:        req.Rating,
		Feedback:     req.Feedback,
		Marketplace:  req.Marketplace,
		OrderNo:      req.OrderNo,
		PromotionID:  promotionID,
		CampaignID:   campaignID,
		Status:       domain.StatusPending,
		FeedbackDate: s.clock.Now(),
	}

	// Customer upsert, review insert and the product aggregate commit or
	// roll back together. Reward dispatch stays outside: it talks to the
	// outside world and must not be undone by a rollback.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.Upsert(ctx, tx, s.genID.Generate(), review.Email, review.Name, review.Ratio)
		if err != nil {
			return err
		}
		review.CustomerID = customer.ID

		inserted, err := s.repo.Insert(ctx, tx, review)
		if err != nil {
			return err
		}
		review = *inserted

		return s.stats.RecomputeProductRatio(ctx, tx, product.ID)
	})
	if err != nil {
		return nil, domain.DispatchSkipped, err
	}

	result := s.dispatchReward(ctx, &review, promotion)

	out, err := s.repo.FindByID(ctx, s.db, review.ID)
	if err != nil {
		return nil, result, err
	}
	return out, result, nil
}

// dispatchReward runs the best-effort reward phase. Failures are logged
// and swallowed; the review stays PENDING as the only visible signal.
func (s *service) dispatchReward(ctx context.Context, review *domain.Review, promotion *promotiondomain.Promotion) domain.DispatchResult {
	if promotion == nil {
		return domain.DispatchSkipped
	}

	switch {
	case promotion.AutoDispatchesFile():
		err := s.rewards.SendDigitalFile(ctx, review.Email, review.Name, promotion.Title, *promotion.DownloadableFileURL)
		if err != nil {
			s.log.Warn("digital reward dispatch failed",
				zap.Int64("review_id", int64(review.ID)),
				zap.Error(err))
			return domain.DispatchFailed
		}

	case promotion.AutoDispatchesCode():
		if len(promotion.CouponCodes) == 0 {
			s.log.Info("coupon pool exhausted, leaving review pending",
				zap.Int64("promotion_id", int64(promotion.ID)))
			return domain.DispatchSkipped
		}
		code := promotion.CouponCodes[0]
		err := s.rewards.SendCouponCode(ctx, review.Email, review.Name, promotion.Title, code)
		if err != nil {
			s.log.Warn("coupon reward dispatch failed",
				zap.Int64("review_id", int64(review.ID)),
				zap.Error(err))
			return domain.DispatchFailed
		}
		if promotion.SingleUseCodes() {
			if err := s.promotions.RemoveCouponCode(ctx, s.db, promotion.ID, code); err != nil {
				s.log.Error("failed to consume single-use coupon code",
					zap.Int64("promotion_id", int64(promotion.ID)),
					zap.Error(err))
			}
		}

	default:
		return domain.DispatchSkipped
	}

	updated, err := s.repo.UpdateStatus(ctx, s.db, review.ID, domain.StatusProcessed)
	if err != nil {
		s.log.Error("failed to mark review processed after dispatch",
			zap.Int64("review_id", int64(review.ID)),
			zap.Error(err))
		return domain.DispatchDispatched
	}
	*review = *updated

	s.applyProcessedStats(ctx, review)
	return domain.DispatchDispatched
}

// applyProcessedStats refreshes company and campaign aggregates after a
// review becomes PROCESSED. Best-effort by contract.
func (s *service) applyProcessedStats(ctx context.Context, review *domain.Review) {
	product, err := s.products.FindByIDAny(ctx, s.db, review.ProductID)
	if err != nil {
		s.log.Warn("product lookup failed during stats refresh",
			zap.Int64("review_id", int64(review.ID)),
			zap.Error(err))
		return
	}

	if err := s.stats.RecomputeCompanyRatio(ctx, s.db, product.CompanyID); err != nil {
		s.log.Warn("company stats refresh failed", zap.Error(err))
	}
	if review.CampaignID != nil {
		if err := s.stats.RecomputeCampaignStatistics(ctx, s.db, *review.CampaignID); err != nil {
			s.log.Warn("campaign stats refresh failed", zap.Error(err))
		}
	}
	if err := s.stats.RecomputeProductRatio(ctx, s.db, review.ProductID); err != nil {
		s.log.Warn("product stats refresh failed", zap.Error(err))
	}
}

func (s *service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (*domain.Review, error) {
	if !domain.ValidStatus(req.Status) {
		return nil, domain.ErrInvalidStatus
	}

	review, err := s.repo.FindByID(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}
	if review.Status != domain.StatusPending && review.Status != req.Status {
		return nil, domain.ErrStatusFinal
	}

	updated, err := s.repo.UpdateStatus(ctx, s.db, req.ID, req.Status)
	if err != nil {
		return nil, err
	}

	if req.Status == domain.StatusProcessed && review.Status != domain.StatusProcessed {
		s.applyProcessedStats(ctx, updated)
	}
	return updated, nil
}

func (s *service) ListByCompany(ctx context.Context, req domain.ListReviewRequest) (*domain.ListReviewResponse, error) {
	p := req.Pagination.Normalize()
	opts := []option.Option{option.WithQuerySortBy(req.SortBy, req.Order, allowedSort)}

	reviews, total, err := s.repo.FindByCompany(ctx, s.db, req.CompanyID, req.Status, p, opts...)
	if err != nil {
		return nil, err
	}

	return &domain.ListReviewResponse{
		Data:     reviews,
		PageInfo: pagination.BuildPageInfo(total, p),
	}, nil
}
