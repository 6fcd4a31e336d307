package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sub Subscription) (*Subscription, error)
	FindByRef(ctx context.Context, db *gorm.DB, ref string) (*Subscription, error)
	FindActiveByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*Subscription, error)
	// FindOverdue returns subscriptions still marked ACTIVE or PAST_DUE
	// whose period ended before the cutoff.
	FindOverdue(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]Subscription, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status SubscriptionStatus) error
	ExtendPeriod(ctx context.Context, db *gorm.DB, id snowflake.ID, until time.Time) error
}
