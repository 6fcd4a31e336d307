package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/revloop/revloop/internal/auth"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	plandomain "github.com/revloop/revloop/internal/plan/domain"
	userdomain "github.com/revloop/revloop/internal/user/domain"
	"gorm.io/gorm"
)

const (
	defaultCompanyName = "Main"
	defaultCompanySlug = "main"
	defaultAdminEmail  = "admin@revloop.io"
	defaultAdminName   = "Revloop Admin"
	defaultAdminPass   = "changeme1"
)

var seedPlans = []struct {
	Type       plandomain.PlanType
	Name       string
	PriceCents int64
}{
	{plandomain.PlanSilver, "Silver", 0},
	{plandomain.PlanGold, "Gold", 4900},
	{plandomain.PlanPlatinum, "Platinum", 14900},
}

// EnsurePlans seeds the three subscription tiers on startup bootstrap.
func EnsurePlans(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range seedPlans {
			var existing plandomain.Plan
			err := tx.Where("type = ?", p.Type).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			plan := plandomain.Plan{
				ID:         node.Generate(),
				Type:       p.Type,
				Name:       p.Name,
				PriceCents: p.PriceCents,
			}
			if err := tx.Create(&plan).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDefaultCompanyAndAdmin seeds a company and admin user for
// self-hosted deployments with no tenants yet.
func EnsureDefaultCompanyAndAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := ensureCompanyTx(ctx, tx, node)
		if err != nil {
			return err
		}
		return ensureAdminTx(ctx, tx, node, company.ID)
	})
}

func ensureCompanyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (*companydomain.Company, error) {
	var company companydomain.Company
	err := tx.Where("slug = ?", defaultCompanySlug).First(&company).Error
	if err == nil {
		return &company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var silver plandomain.Plan
	if err := tx.Where("type = ?", plandomain.PlanSilver).First(&silver).Error; err != nil {
		return nil, err
	}

	company = companydomain.Company{
		ID:     node.Generate(),
		Name:   defaultCompanyName,
		Slug:   defaultCompanySlug,
		PlanID: &silver.ID,
	}
	if err := tx.Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func ensureAdminTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID) error {
	var user userdomain.User
	err := tx.Where("email = ?", defaultAdminEmail).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(defaultAdminPass)
	if err != nil {
		return err
	}

	user = userdomain.User{
		ID:           node.Generate(),
		CompanyID:    companyID,
		Email:        defaultAdminEmail,
		Name:         defaultAdminName,
		PasswordHash: hash,
		Role:         userdomain.RoleAdmin,
	}
	return tx.Create(&user).Error
}
