package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	userdomain "github.com/revloop/revloop/internal/user/domain"
)

func (s *Server) CreateUser(c *gin.Context) {
	var req userdomain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.userSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (s *Server) ListUsers(c *gin.Context) {
	resp, err := s.userSvc.List(c.Request.Context(), userdomain.ListUserRequest{
		Pagination: parsePagination(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Data, "page_info": resp.PageInfo})
}

func (s *Server) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "userId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := s.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (s *Server) DeleteUser(c *gin.Context) {
	id, err := parsePathID(c, "userId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if user, ok := currentUser(c); ok && user.ID == id {
		AbortWithError(c, newValidationError("userId", "invalid_id", "cannot delete the authenticated user"))
		return
	}

	if err := s.userSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
