package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/bwmarrin/snowflake"
)

// SellerProfileASIN marks the synthetic product that collects seller-level
// reviews for a company. One such product exists per company at most.
const SellerProfileASIN = "SELLERPROF"

// SellerProfileTitle names the lazily created seller-profile product.
const SellerProfileTitle = "Seller profile"

var asinPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// ValidASIN reports whether s is a 10-character uppercase alphanumeric ASIN.
func ValidASIN(s string) bool { return asinPattern.MatchString(s) }

// Product is an item reviews attach to. ASIN is unique per company when
// present; the seller-profile sentinel reserves one slot per company.
type Product struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID  `gorm:"not null;index:ux_products_company_asin,priority:1" json:"company_id"`
	CategoryID  *snowflake.ID `gorm:"index" json:"category_id,omitempty"`
	Title       string        `gorm:"type:text;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	Image       *string       `gorm:"type:text" json:"image,omitempty"`
	ASIN        *string       `gorm:"type:text;index:ux_products_company_asin,priority:2" json:"asin,omitempty"`
	Ratio       float64       `gorm:"not null;default:0" json:"ratio"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// IsSellerProfile reports whether the product is the synthetic seller
// profile rather than a purchasable item.
func (p *Product) IsSellerProfile() bool {
	return p.ASIN != nil && *p.ASIN == SellerProfileASIN
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidTitle   = errors.New("invalid_title")
	ErrInvalidASIN    = errors.New("invalid_asin")
	ErrASINTaken      = errors.New("conflict")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidCompany = errors.New("invalid_company")
)
