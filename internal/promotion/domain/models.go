package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type PromotionType string

const (
	TypeGiftCard        PromotionType = "GIFT_CARD"
	TypeDiscountCode    PromotionType = "DISCOUNT_CODE"
	TypeFreeProduct     PromotionType = "FREE_PRODUCT"
	TypeDigitalDownload PromotionType = "DIGITAL_DOWNLOAD"
)

const (
	ApprovalAutomatic = "AUTOMATIC"
	ApprovalManual    = "MANUAL"

	CodeTypeSameForAll = "SAME_FOR_ALL"
	CodeTypeSingleUse  = "SINGLE_USE"

	// FREE_PRODUCT promotions are always shipped and manually approved.
	FreeProductDelivery = "SHIP"
	FreeProductApproval = "MANUAL"
)

// Promotion is the reward a campaign offers for a review. Only fields
// relevant to PromotionType carry values; the rest stay NULL.
type Promotion struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID  `gorm:"not null;index" json:"company_id"`
	Title       string        `gorm:"type:text;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Type        PromotionType `gorm:"column:promotion_type;type:text;not null" json:"promotion_type"`
	Image       *string       `gorm:"type:text" json:"image,omitempty"`

	// GIFT_CARD
	GiftCardDeliveryMethod *string `gorm:"type:text" json:"gift_card_delivery_method,omitempty"`

	// DISCOUNT_CODE
	ApprovalMethod *string                     `gorm:"type:text" json:"approval_method,omitempty"`
	CodeType       *string                     `gorm:"type:text" json:"code_type,omitempty"`
	CouponCodes    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"coupon_codes,omitempty"`

	// FREE_PRODUCT
	FreeProductDeliveryMethod *string `gorm:"type:text" json:"free_product_delivery_method,omitempty"`
	FreeProductApprovalMethod *string `gorm:"type:text" json:"free_product_approval_method,omitempty"`

	// DIGITAL_DOWNLOAD
	DownloadableFileURL   *string `gorm:"type:text" json:"downloadable_file_url,omitempty"`
	DigitalApprovalMethod *string `gorm:"type:text" json:"digital_approval_method,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Promotion) TableName() string { return "promotions" }

// AutoDispatchesCode reports whether a review against this promotion
// should be rewarded with a coupon code without manual approval.
func (p *Promotion) AutoDispatchesCode() bool {
	return p.Type == TypeDiscountCode &&
		p.ApprovalMethod != nil && *p.ApprovalMethod == ApprovalAutomatic
}

// AutoDispatchesFile reports whether a review against this promotion
// should be rewarded with the downloadable file without manual approval.
func (p *Promotion) AutoDispatchesFile() bool {
	return p.Type == TypeDigitalDownload &&
		p.DigitalApprovalMethod != nil && *p.DigitalApprovalMethod == ApprovalAutomatic &&
		p.DownloadableFileURL != nil && *p.DownloadableFileURL != ""
}

func (p *Promotion) SingleUseCodes() bool {
	return p.CodeType != nil && *p.CodeType == CodeTypeSingleUse
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidTitle   = errors.New("invalid_title")
	ErrInvalidType    = errors.New("invalid_promotion_type")
	ErrInvalidCompany = errors.New("invalid_company")
	ErrMissingCodes   = errors.New("missing_coupon_codes")
	ErrMissingFile    = errors.New("missing_downloadable_file")
)
