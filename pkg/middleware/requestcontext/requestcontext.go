package requestcontext

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/gaze-network/crc20-resolver/pkg/logger"
	"github.com/gaze-network/crc20-resolver/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

// New copies request scoped values into the user context, so handlers and the logger can see them.
func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var err error
		ctx := c.UserContext()
		for i, opt := range opts {
			ctx, err = opt(ctx, c)
			if err != nil {
				logger.ErrorContext(ctx, "failed to extract request context",
					slogx.String("event", "requestcontext_error"),
					slogx.Int("optionIndex", i),
					slogx.Error(err),
				)
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
			}
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

type (
	requestIdKey struct{}
	clientIPKey  struct{}
)

// GetRequestId returns the request id, or an empty string outside of a request.
func GetRequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// GetClientIP returns the client IP, or an empty string outside of a request.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

func WithRequestId() Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		requestId, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		if !ok || requestId == "" {
			requestId = c.Get(requestid.ConfigDefault.Header, fiberutils.UUID())
			c.Set(requestid.ConfigDefault.Header, requestId)
			c.Locals(requestid.ConfigDefault.ContextKey, requestId)
		}

		ctx = context.WithValue(ctx, requestIdKey{}, requestId)
		return logger.WithContext(ctx, slogx.String("requestId", requestId)), nil
	}
}

// WithClientIP resolves the client IP from trustedHeader (e.g. CF-Connecting-IP) when it holds a valid IP,
// then from the first valid X-Forwarded-For entry, then from the remote address.
func WithClientIP(trustedHeader string) Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		ip := c.IP()
		if headerIP := strings.TrimSpace(c.Get(trustedHeader)); trustedHeader != "" && net.ParseIP(headerIP) != nil {
			ip = headerIP
		} else {
			for _, forwarded := range c.IPs() {
				if net.ParseIP(forwarded) != nil {
					ip = forwarded
					break
				}
			}
		}
		return context.WithValue(ctx, clientIPKey{}, ip), nil
	}
}
