package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/company-tracker/internal/config"
	"github.com/deppfellow/company-tracker/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedEcho(serverCfg config.ServerConfig) *echo.Echo {
	limiter := NewRateLimitMiddleware(&server.Server{Config: &config.Config{Server: serverCfg}})

	e := echo.New()
	e.HTTPErrorHandler = (&GlobalMiddlewares{}).GlobalErrorHandler
	e.IPExtractor = limiter.IPExtractor()
	e.Use(limiter.Limit())
	e.GET("/companies", func(c echo.Context) error {
		return c.String(http.StatusOK, c.RealIP())
	})

	return e
}

func getFrom(e *echo.Echo, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/companies", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set(echo.HeaderXForwardedFor, forwardedFor)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBurstFor(t *testing.T) {
	tests := []struct {
		perSecond float64
		want      int
	}{
		{0.2, 1},
		{0.5, 1},
		{1, 2},
		{1.3, 3},
		{20, 40},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, burstFor(tt.perSecond), "rate %v", tt.perSecond)
	}
}

func TestLimit_FractionalRateAdmitsFirstRequest(t *testing.T) {
	e := newRateLimitedEcho(config.ServerConfig{RateLimit: 0.5})

	rec := getFrom(e, "192.0.2.1:1234", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = getFrom(e, "192.0.2.1:1234", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLimit_ZeroRateDisablesLimiter(t *testing.T) {
	e := newRateLimitedEcho(config.ServerConfig{RateLimit: 0})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, getFrom(e, "192.0.2.1:1234", "").Code)
	}
}

func TestLimit_ForwardedForDoesNotResetBucket(t *testing.T) {
	e := newRateLimitedEcho(config.ServerConfig{RateLimit: 0.5})

	rec := getFrom(e, "192.0.2.1:1234", "203.0.113.1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "192.0.2.1", rec.Body.String())

	rec = getFrom(e, "192.0.2.1:1234", "203.0.113.2")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestIPExtractor_TrustedProxyForwardsClient(t *testing.T) {
	e := newRateLimitedEcho(config.ServerConfig{TrustedProxies: []string{"10.0.0.0/8"}})

	rec := getFrom(e, "10.1.2.3:1234", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", rec.Body.String())

	rec = getFrom(e, "192.0.2.1:1234", "203.0.113.7")
	assert.Equal(t, "192.0.2.1", rec.Body.String())
}
