package server

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalSnowflakeID(t *testing.T) {
	id, err := parseOptionalSnowflakeID("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = parseOptionalSnowflakeID(" 12345 ")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(12345), int64(*id))

	_, err = parseOptionalSnowflakeID("abc")
	assert.Error(t, err)
	_, err = parseOptionalSnowflakeID("0")
	assert.Error(t, err)
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=3&limit=25", nil)
	p := parsePagination(c)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	p = parsePagination(c)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
}
