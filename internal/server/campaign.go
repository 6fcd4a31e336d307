package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	campaigndomain "github.com/revloop/revloop/internal/campaign/domain"
)

func (s *Server) CreateCampaign(c *gin.Context) {
	var req campaigndomain.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	campaign, err := s.campaignSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": campaign})
}

func (s *Server) ListCampaigns(c *gin.Context) {
	resp, err := s.campaignSvc.List(c.Request.Context(), campaigndomain.ListCampaignRequest{
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

func (s *Server) GetCampaign(c *gin.Context) {
	id, err := parsePathID(c, "campaignId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	campaign, err := s.campaignSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": campaign})
}

func (s *Server) UpdateCampaign(c *gin.Context) {
	id, err := parsePathID(c, "campaignId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req campaigndomain.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = id

	campaign, err := s.campaignSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": campaign})
}

func (s *Server) DeleteCampaign(c *gin.Context) {
	id, err := parsePathID(c, "campaignId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.campaignSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
