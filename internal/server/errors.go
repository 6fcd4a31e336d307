package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/revloop/revloop/internal/auth"
	billingdomain "github.com/revloop/revloop/internal/billing/domain"
	campaigndomain "github.com/revloop/revloop/internal/campaign/domain"
	categorydomain "github.com/revloop/revloop/internal/category/domain"
	companydomain "github.com/revloop/revloop/internal/company/domain"
	customerdomain "github.com/revloop/revloop/internal/customer/domain"
	plandomain "github.com/revloop/revloop/internal/plan/domain"
	productdomain "github.com/revloop/revloop/internal/product/domain"
	promotiondomain "github.com/revloop/revloop/internal/promotion/domain"
	"github.com/revloop/revloop/internal/quota"
	reviewdomain "github.com/revloop/revloop/internal/review/domain"
	userdomain "github.com/revloop/revloop/internal/user/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	// Quota denials carry the plan tier so the payload can suggest an
	// upgrade path.
	var exceeded *quota.ExceededError
	if errors.As(err, &exceeded) {
		return http.StatusForbidden, errorPayload{
			Type:    "quota_exceeded",
			Message: exceeded.UpgradeMessage(),
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrSessionExpired):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isReviewValidationError(err),
		isPromotionValidationError(err),
		isCampaignValidationError(err),
		isProductValidationError(err),
		isCategoryValidationError(err),
		isUserValidationError(err),
		isBillingValidationError(err):
		return true
	case errors.Is(err, quota.ErrNoPlan),
		errors.Is(err, quota.ErrUnknownPlan),
		errors.Is(err, plandomain.ErrUnknownPlanType):
		return true
	default:
		return false
	}
}

func isReviewValidationError(err error) bool {
	switch {
	case errors.Is(err, reviewdomain.ErrInvalidRating),
		errors.Is(err, reviewdomain.ErrFeedbackTooShort),
		errors.Is(err, reviewdomain.ErrInvalidEmail),
		errors.Is(err, reviewdomain.ErrInvalidMarketplace),
		errors.Is(err, reviewdomain.ErrMissingTarget),
		errors.Is(err, reviewdomain.ErrCampaignInactive),
		errors.Is(err, reviewdomain.ErrProductNotInCampaign),
		errors.Is(err, reviewdomain.ErrStatusFinal),
		errors.Is(err, reviewdomain.ErrInvalidStatus):
		return true
	default:
		return false
	}
}

func isPromotionValidationError(err error) bool {
	switch {
	case errors.Is(err, promotiondomain.ErrInvalidTitle),
		errors.Is(err, promotiondomain.ErrInvalidType),
		errors.Is(err, promotiondomain.ErrMissingCodes),
		errors.Is(err, promotiondomain.ErrMissingFile):
		return true
	default:
		return false
	}
}

func isCampaignValidationError(err error) bool {
	switch {
	case errors.Is(err, campaigndomain.ErrInvalidTitle),
		errors.Is(err, campaigndomain.ErrInvalidID),
		errors.Is(err, campaigndomain.ErrInvalidProduct),
		errors.Is(err, campaigndomain.ErrInvalidActiveFlag):
		return true
	default:
		return false
	}
}

func isProductValidationError(err error) bool {
	switch {
	case errors.Is(err, productdomain.ErrInvalidTitle),
		errors.Is(err, productdomain.ErrInvalidASIN),
		errors.Is(err, productdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isCategoryValidationError(err error) bool {
	switch {
	case errors.Is(err, categorydomain.ErrInvalidName),
		errors.Is(err, categorydomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isUserValidationError(err error) bool {
	switch {
	case errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrInvalidPassword),
		errors.Is(err, userdomain.ErrInvalidRole):
		return true
	default:
		return false
	}
}

func isBillingValidationError(err error) bool {
	switch {
	case errors.Is(err, billingdomain.ErrInvalidPlan),
		errors.Is(err, billingdomain.ErrBadWebhook):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, companydomain.ErrSlugTaken),
		errors.Is(err, productdomain.ErrASINTaken),
		errors.Is(err, userdomain.ErrEmailTaken):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, companydomain.ErrNotFound),
		errors.Is(err, categorydomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, promotiondomain.ErrNotFound),
		errors.Is(err, campaigndomain.ErrNotFound),
		errors.Is(err, reviewdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, billingdomain.ErrNotFound),
		errors.Is(err, plandomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "feedback_too_short":
		return "feedback must be at least 10 characters"
	case "quota_exceeded":
		return "plan quota exceeded"
	default:
		return "invalid value"
	}
}
