package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/starcatalog-backend/internal/platform/ctxutil"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"

	maxInboundIDLen = 128
)

// AttachTraceContext gives every request a request id and a trace id and
// echoes both on the response. An active span's trace id beats a
// caller-supplied one.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)

		td := &ctxutil.TraceData{
			RequestID: inboundID(c.GetHeader(HeaderRequestID)),
		}
		if sc := span.SpanContext(); sc.HasTraceID() {
			td.TraceID = sc.TraceID().String()
		} else {
			td.TraceID = inboundID(c.GetHeader(HeaderTraceID))
		}
		span.SetAttributes(attribute.String("http.request_id", td.RequestID))

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, td))
		c.Header(HeaderRequestID, td.RequestID)
		c.Header(HeaderTraceID, td.TraceID)
		c.Next()
	}
}

// inboundID keeps a sane caller id and mints a uuid otherwise.
func inboundID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxInboundIDLen {
		return uuid.NewString()
	}
	return id
}
