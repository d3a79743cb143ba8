package requestcontext

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(opts ...Option) *fiber.App {
	app := fiber.New()
	app.Use(New(opts...))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestId(c.UserContext()) + "|" + GetClientIP(c.UserContext()))
	})
	return app
}

func get(t *testing.T, app *fiber.App, headers map[string]string) (string, *http.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body), resp
}

func TestWithRequestId(t *testing.T) {
	app := newApp(WithRequestId())

	body, resp := get(t, app, map[string]string{requestid.ConfigDefault.Header: "abc"})
	assert.Equal(t, "abc|", body)
	assert.Equal(t, "abc", resp.Header.Get(requestid.ConfigDefault.Header))

	body, resp = get(t, app, nil)
	generated := resp.Header.Get(requestid.ConfigDefault.Header)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated+"|", body)
}

func TestWithClientIP(t *testing.T) {
	app := newApp(WithClientIP("CF-Connecting-IP"))

	body, _ := get(t, app, map[string]string{"CF-Connecting-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"})
	assert.Equal(t, "|1.2.3.4", body)

	body, _ = get(t, app, map[string]string{"CF-Connecting-IP": "garbage", "X-Forwarded-For": "junk, 5.6.7.8, 10.0.0.1"})
	assert.Equal(t, "|5.6.7.8", body)

	body, _ = get(t, app, nil)
	assert.NotEqual(t, "|", body)
}
