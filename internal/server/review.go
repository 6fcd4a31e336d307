package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/revloop/revloop/internal/companyctx"
	reviewdomain "github.com/revloop/revloop/internal/review/domain"
	"github.com/revloop/revloop/pkg/db/pagination"
)

type submitReviewRequest struct {
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	ASIN        *string `json:"asin"`
	IsSeller    bool    `json:"is_seller"`
	CompanyID   string  `json:"company_id"`
	Rating      float64 `json:"rating"`
	Feedback    string  `json:"feedback"`
	Marketplace string  `json:"marketplace"`
	Country     string  `json:"country"`
	OrderNo     *string `json:"order_no"`
	PromotionID string  `json:"promotion_id"`
	CampaignID  string  `json:"campaign_id"`
}

func (s *Server) buildSubmitRequest(c *gin.Context) (*reviewdomain.SubmitReviewRequest, error) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalidRequestError()
	}

	companyID, err := parseOptionalSnowflakeID(req.CompanyID)
	if err != nil {
		return nil, newValidationError("company_id", "invalid_id", "invalid identifier")
	}
	promotionID, err := parseOptionalSnowflakeID(req.PromotionID)
	if err != nil {
		return nil, newValidationError("promotion_id", "invalid_id", "invalid identifier")
	}
	campaignID, err := parseOptionalSnowflakeID(req.CampaignID)
	if err != nil {
		return nil, newValidationError("campaign_id", "invalid_id", "invalid identifier")
	}

	return &reviewdomain.SubmitReviewRequest{
		Email:       strings.TrimSpace(req.Email),
		Name:        strings.TrimSpace(req.Name),
		ASIN:        req.ASIN,
		IsSeller:    req.IsSeller,
		CompanyID:   companyID,
		Rating:      req.Rating,
		Feedback:    req.Feedback,
		Marketplace: req.Marketplace,
		Country:     req.Country,
		OrderNo:     req.OrderNo,
		PromotionID: promotionID,
		CampaignID:  campaignID,
	}, nil
}

// SubmitPublicReview accepts unauthenticated submissions; the tenant is
// derived from the campaign or the explicit company id in the payload.
func (s *Server) SubmitPublicReview(c *gin.Context) {
	req, err := s.buildSubmitRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	review, _, err := s.reviewSvc.Submit(c.Request.Context(), *req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": review})
}

// SubmitReview is the authenticated variant: the caller's company fills
// in the seller-profile target when the payload omits it.
func (s *Server) SubmitReview(c *gin.Context) {
	req, err := s.buildSubmitRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if req.CompanyID == nil {
		if companyID, ok := companyctx.CompanyIDFromContext(c.Request.Context()); ok {
			req.CompanyID = &companyID
		}
	}

	review, _, err := s.reviewSvc.Submit(c.Request.Context(), *req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": review})
}

func (s *Server) UpdateReviewStatus(c *gin.Context) {
	reviewID, err := parsePathID(c, "reviewId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	review, err := s.reviewSvc.UpdateStatus(c.Request.Context(), reviewdomain.UpdateStatusRequest{
		ID:     reviewID,
		Status: reviewdomain.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": review})
}

func (s *Server) ListCompanyReviews(c *gin.Context) {
	companyID, err := parsePathID(c, "companyId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Cross-tenant listings are forbidden: the path id must match the
	// caller's company.
	if callerCompany, ok := companyctx.CompanyIDFromContext(c.Request.Context()); !ok || callerCompany != companyID {
		AbortWithError(c, ErrForbidden)
		return
	}

	var status *reviewdomain.Status
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		parsed := reviewdomain.Status(strings.ToUpper(raw))
		if !reviewdomain.ValidStatus(parsed) {
			AbortWithError(c, reviewdomain.ErrInvalidStatus)
			return
		}
		status = &parsed
	}

	resp, err := s.reviewSvc.ListByCompany(c.Request.Context(), reviewdomain.ListReviewRequest{
		CompanyID:  companyID,
		Status:     status,
		Pagination: parsePagination(c),
		SortBy:     c.Query("sortBy"),
		Order:      c.Query("sortOrder"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviewListEnvelope(resp.Data, resp.PageInfo))
}

func reviewListEnvelope(reviews []reviewdomain.Review, info pagination.PageInfo) gin.H {
	return gin.H{
		"reviews":     reviews,
		"total":       info.Total,
		"totalPages":  info.TotalPages,
		"currentPage": info.CurrentPage,
		"hasNextPage": info.HasNextPage,
		"hasPrevPage": info.HasPrevPage,
		"limit":       info.Limit,
	}
}
