package middleware

import (
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/internal/infrastructure/auditlog"
)

// RequestLog records one line per API request to a plain-text log file and
// mirrors it to the structured log. The file write is best-effort.
func RequestLog(writer *auditlog.Writer, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			method := string(ctx.Method())
			endpoint := string(ctx.RequestURI())
			clientIP := ctx.RemoteIP().String()
			userAgent := string(ctx.Request.Header.UserAgent())
			if userAgent == "" {
				userAgent = "Unknown"
			}

			if writer != nil {
				entry := fmt.Sprintf("[%s UTC] Method: %s | Endpoint: %s | Client IP: %s | User-Agent: %s\n",
					time.Now().UTC().Format("2006-01-02 15:04:05.000"),
					method, endpoint, clientIP, userAgent)
				if err := writer.Append(entry); err != nil {
					logger.Error("failed to write request log entry",
						zap.String("path", writer.Path()),
						zap.Error(err))
				}
			}

			logger.Info("api request",
				zap.String("method", method),
				zap.String("endpoint", endpoint),
				zap.String("client_ip", clientIP))

			next(ctx)
		}
	}
}
