package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/revloop/revloop/internal/companyctx"
	userdomain "github.com/revloop/revloop/internal/user/domain"
)

const userContextKey = "current_user"

// AuthRequired resolves the bearer token to a user and scopes the
// request context to the user's company.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(userContextKey, user)
		ctx := companyctx.WithCompanyID(c.Request.Context(), user.CompanyID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func currentUser(c *gin.Context) (*userdomain.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*userdomain.User)
	return user, ok
}
