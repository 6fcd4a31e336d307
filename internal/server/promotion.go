package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	promotiondomain "github.com/revloop/revloop/internal/promotion/domain"
)

func (s *Server) CreatePromotion(c *gin.Context) {
	var req promotiondomain.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	promotion, err := s.promotionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": promotion})
}

func (s *Server) ListPromotions(c *gin.Context) {
	resp, err := s.promotionSvc.List(c.Request.Context(), promotiondomain.ListPromotionRequest{
		Pagination: parsePagination(c),
		SortBy:     c.Query("sort_by"),
		Order:      c.Query("order"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Data, "page_info": resp.PageInfo})
}

func (s *Server) GetPromotion(c *gin.Context) {
	id, err := parsePathID(c, "promotionId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	promotion, err := s.promotionSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": promotion})
}

func (s *Server) UpdatePromotion(c *gin.Context) {
	id, err := parsePathID(c, "promotionId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req promotiondomain.UpdatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = id

	promotion, err := s.promotionSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": promotion})
}

func (s *Server) DeletePromotion(c *gin.Context) {
	id, err := parsePathID(c, "promotionId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.promotionSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
