package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"mall-admin-go/pkg/log"
)

// 超过该长度的请求与响应体在日志中截断
const maxLoggedBody = 4096

// bodyLogWriter 用于捕获响应体
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 将响应同时写入 gin.ResponseWriter 和内部 buffer
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// 这些路径的请求体带有密码或 refresh token，日志中只记录占位符。
var sensitivePaths = []string{"/users/login", "/users/register", "/auth/refreshToken"}

const redactedBody = "[REDACTED]"

// RequestLogger 是一个 Gin 中间件，用于记录请求和响应日志。multipart 请求不记录请求体。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		var requestBody []byte
		multipart := strings.HasPrefix(c.ContentType(), "multipart/")
		if c.Request.Body != nil && !multipart {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		loggedRequest, loggedResponse := truncate(string(requestBody)), truncate(blw.body.String())
		if isSensitivePath(c.Request.URL.Path) {
			loggedRequest = redactedBody
			loggedResponse = redactedBody
		}

		log.Infow("HTTP Request Log",
			"statusCode", c.Writer.Status(),
			"latency", time.Since(startTime).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"requestBody", loggedRequest,
			"responseBody", loggedResponse,
		)
	}
}

func isSensitivePath(path string) bool {
	for _, p := range sensitivePaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

// truncate 按字节截断，截断点回退到完整字符的边界。
func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	cut := maxLoggedBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
