package migration

import (
	"github.com/revloop/revloop/internal/auth"
	billingdomain "github.com/revloop/revloop/internal/billing/domain"
	campaigndomain "github.com/revloop/revloop/internal/campaign/domain"
	categorydomain "github.com/revloop/revloop/internal/category/domain"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	"github.com/revloop/revloop/internal/config"
	customerdomain "github.com/revloop/revloop/internal/customer/domain"
	plandomain "github.com/revloop/revloop/internal/plan/domain"
	productdomain "github.com/revloop/revloop/internal/product/domain"
	promotiondomain "github.com/revloop/revloop/internal/promotion/domain"
	reviewdomain "github.com/revloop/revloop/internal/review/domain"
	"github.com/revloop/revloop/internal/seed"
	userdomain "github.com/revloop/revloop/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if conn.Dialector.Name() == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// MySQL and sqlite deployments fall back to the ORM's
			// schema sync; the SQL migrations are Postgres-only.
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if err := seed.EnsurePlans(conn); err != nil {
			return err
		}
		if cfg.BootstrapDefaultCompany {
			return seed.EnsureDefaultCompanyAndAdmin(conn)
		}
		return nil
	}),
)

func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&plandomain.Plan{},
		&companydomain.Company{},
		&categorydomain.Category{},
		&productdomain.Product{},
		&promotiondomain.Promotion{},
		&campaigndomain.Campaign{},
		&campaigndomain.CampaignProduct{},
		&customerdomain.Customer{},
		&reviewdomain.Review{},
		&userdomain.User{},
		&auth.Session{},
		&billingdomain.Subscription{},
	)
}
