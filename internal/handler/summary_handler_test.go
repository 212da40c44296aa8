package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func bindContext(t *testing.T, body *strings.Reader) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if body == nil {
		c.Request = httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	} else {
		c.Request = httptest.NewRequest(http.MethodPost, "/", body)
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c
}

// An empty body means "use the defaults", matching a client that posts the
// generation endpoint without options.
func TestBindSummaryRequestEmptyBody(t *testing.T) {
	req, ok := bindSummaryRequest(bindContext(t, nil))
	require.True(t, ok)
	require.Nil(t, req.LineCount)
	require.Empty(t, req.SummaryType)
	require.False(t, req.ForceRegenerate)
}

func TestBindSummaryRequestMalformed(t *testing.T) {
	_, ok := bindSummaryRequest(bindContext(t, strings.NewReader("not json")))
	require.False(t, ok)

	// Truncated JSON is malformed, not empty.
	_, ok = bindSummaryRequest(bindContext(t, strings.NewReader(`{"line_count":`)))
	require.False(t, ok)
}

func TestBindSummaryRequestValid(t *testing.T) {
	body := strings.NewReader(`{"line_count":5,"summary_type":"key_points","force_regenerate":true}`)
	req, ok := bindSummaryRequest(bindContext(t, body))
	require.True(t, ok)
	require.NotNil(t, req.LineCount)
	require.Equal(t, 5, *req.LineCount)
	require.Equal(t, "key_points", req.SummaryType)
	require.True(t, req.ForceRegenerate)
}
