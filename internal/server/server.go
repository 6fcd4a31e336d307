package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/revloop/revloop/internal/auth"
	"github.com/revloop/revloop/internal/billing"
	billingdomain "github.com/revloop/revloop/internal/billing/domain"
	"github.com/revloop/revloop/internal/campaign"
	campaigndomain "github.com/revloop/revloop/internal/campaign/domain"
	"github.com/revloop/revloop/internal/category"
	categorydomain "github.com/revloop/revloop/internal/category/domain"
	"github.com/revloop/revloop/internal/company"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	"github.com/revloop/revloop/internal/config"
	"github.com/revloop/revloop/internal/customer"
	"github.com/revloop/revloop/internal/observability"
	obsmiddleware "github.com/revloop/revloop/internal/observability/logger"
	obsmetrics "github.com/revloop/revloop/internal/observability/metrics"
	obstracing "github.com/revloop/revloop/internal/observability/tracing"
	"github.com/revloop/revloop/internal/plan"
	"github.com/revloop/revloop/internal/product"
	productdomain "github.com/revloop/revloop/internal/product/domain"
	"github.com/revloop/revloop/internal/promotion"
	promotiondomain "github.com/revloop/revloop/internal/promotion/domain"
	"github.com/revloop/revloop/internal/providers/email"
	"github.com/revloop/revloop/internal/quota"
	"github.com/revloop/revloop/internal/review"
	reviewdomain "github.com/revloop/revloop/internal/review/domain"
	"github.com/revloop/revloop/internal/reward"
	"github.com/revloop/revloop/internal/stats"
	"github.com/revloop/revloop/internal/storage"
	"github.com/revloop/revloop/internal/user"
	userdomain "github.com/revloop/revloop/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	plan.Module,
	company.Module,
	category.Module,
	storage.Module,
	product.Module,
	promotion.Module,
	campaign.Module,
	customer.Module,
	quota.Module,
	stats.Module,
	email.Module,
	reward.Module,
	review.Module,
	user.Module,
	auth.Module,
	billing.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log, obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	authSvc      auth.Service
	companySvc   companydomain.Service
	categorySvc  categorydomain.Service
	productSvc   productdomain.Service
	promotionSvc promotiondomain.Service
	campaignSvc  campaigndomain.Service
	reviewSvc    reviewdomain.Service
	userSvc      userdomain.Service
	billingSvc   billingdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	AuthSvc      auth.Service
	CompanySvc   companydomain.Service
	CategorySvc  categorydomain.Service
	ProductSvc   productdomain.Service
	PromotionSvc promotiondomain.Service
	CampaignSvc  campaigndomain.Service
	ReviewSvc    reviewdomain.Service
	UserSvc      userdomain.Service
	BillingSvc   billingdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		authSvc:      p.AuthSvc,
		companySvc:   p.CompanySvc,
		categorySvc:  p.CategorySvc,
		productSvc:   p.ProductSvc,
		promotionSvc: p.PromotionSvc,
		campaignSvc:  p.CampaignSvc,
		reviewSvc:    p.ReviewSvc,
		userSvc:      p.UserSvc,
		billingSvc:   p.BillingSvc,
	}

	svc.registerPublicRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/public/reviews", s.SubmitPublicReview)
	v1.POST("/companies", s.CreateCompany)
	v1.POST("/auth/login", s.Login)
	v1.POST("/auth/logout", s.Logout)
	v1.POST("/billing/webhook", s.BillingWebhook)
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1", s.AuthRequired())

	v1.POST("/reviews", s.SubmitReview)
	v1.PATCH("/reviews/:reviewId/status", s.UpdateReviewStatus)
	v1.GET("/reviews/company/:companyId", s.ListCompanyReviews)

	v1.POST("/promotions", s.CreatePromotion)
	v1.GET("/promotions", s.ListPromotions)
	v1.GET("/promotions/:promotionId", s.GetPromotion)
	v1.PATCH("/promotions/:promotionId", s.UpdatePromotion)
	v1.DELETE("/promotions/:promotionId", s.DeletePromotion)

	v1.POST("/campaigns", s.CreateCampaign)
	v1.GET("/campaigns", s.ListCampaigns)
	v1.GET("/campaigns/:campaignId", s.GetCampaign)
	v1.PATCH("/campaigns/:campaignId", s.UpdateCampaign)
	v1.DELETE("/campaigns/:campaignId", s.DeleteCampaign)

	v1.POST("/products", s.CreateProduct)
	v1.GET("/products", s.ListProducts)
	v1.GET("/products/:productId", s.GetProduct)
	v1.PATCH("/products/:productId", s.UpdateProduct)
	v1.DELETE("/products/:productId", s.DeleteProduct)

	v1.POST("/categories", s.CreateCategory)
	v1.GET("/categories", s.ListCategories)
	v1.DELETE("/categories/:categoryId", s.DeleteCategory)

	v1.GET("/company", s.GetCompany)
	v1.PATCH("/company", s.UpdateCompany)

	v1.POST("/users", s.CreateUser)
	v1.GET("/users", s.ListUsers)
	v1.GET("/users/:userId", s.GetUser)
	v1.DELETE("/users/:userId", s.DeleteUser)

	v1.POST("/billing/subscribe", s.Subscribe)
}
