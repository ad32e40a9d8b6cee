package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mall-admin-go/pkg/log"
)

func loggedRequest(t *testing.T, path, body string) map[string]interface{} {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	restore := log.Replace(zap.New(core))
	defer restore()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	var seen string
	r.POST(path, func(c *gin.Context) {
		raw, _ := c.GetRawData()
		seen = string(raw)
		c.JSON(http.StatusOK, gin.H{"token": "secret-token"})
	})

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	// handler 仍能读到完整的请求体
	assert.Equal(t, body, seen)
	entries := logs.FilterMessage("HTTP Request Log").All()
	require.Len(t, entries, 1)
	return entries[0].ContextMap()
}

func TestRequestLogger_RedactsCredentials(t *testing.T) {
	for _, path := range []string{"/api/v1/users/login", "/api/v1/users/register", "/api/v1/auth/refreshToken"} {
		fields := loggedRequest(t, path, `{"username":"alice","password":"p@ss"}`)
		assert.Equal(t, redactedBody, fields["requestBody"], path)
		assert.Equal(t, redactedBody, fields["responseBody"], path)
	}
}

func TestRequestLogger_LogsOrdinaryBodies(t *testing.T) {
	fields := loggedRequest(t, "/api/v1/categories", `{"name":"服装"}`)
	assert.Equal(t, `{"name":"服装"}`, fields["requestBody"])
	assert.Contains(t, fields["responseBody"], "secret-token")
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	// "分" 占 3 个字节，maxLoggedBody 不是 3 的倍数时截断点落在字符中间
	s := strings.Repeat("分", maxLoggedBody/3+10)
	got := truncate(s)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), maxLoggedBody+len("..."))

	assert.Equal(t, "short", truncate("short"))
}
