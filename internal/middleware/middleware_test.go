package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/config"
	"github.com/iliyamo/rental-booking/internal/utils"
)

const secret = "test-secret"

func protected(roles ...string) *echo.Echo {
	e := echo.New()
	g := e.Group("", JWTAuth(secret), RequireRole(roles...))
	g.GET("/me", func(c echo.Context) error {
		id, _ := UserID(c)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "role": Role(c)})
	})
	return e
}

func do(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRole(t *testing.T) {
	guest, _ := utils.NewAccessToken(secret, 7, utils.RoleGuest, time.Hour)
	host, _ := utils.NewAccessToken(secret, 3, utils.RoleHost, time.Hour)
	forged, _ := utils.NewAccessToken("other", 7, utils.RoleGuest, time.Hour)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "forged", header: "Bearer " + forged.Token, want: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + host.Token, want: http.StatusForbidden},
		{name: "allowed", header: "Bearer " + guest.Token, want: http.StatusOK},
	}

	e := protected(utils.RoleGuest)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.header)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	log := logrus.New()
	e := echo.New()
	e.Use(NewRedisCache(config.CacheConfig{Enabled: false}, nil, log))
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("got %d %q", rec.Code, rec.Body)
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Error("disabled cache should not tag responses")
	}
}

func TestTeeWriterDropsOversizedBodies(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &teeWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = w.Write([]byte("abc"))
	if w.overflow || w.body.String() != "abc" {
		t.Fatalf("after 3 bytes: overflow=%v body=%q", w.overflow, w.body.String())
	}
	_, _ = w.Write([]byte("de"))
	if !w.overflow || w.body.Len() != 0 {
		t.Errorf("after 5 bytes: overflow=%v body=%q", w.overflow, w.body.String())
	}
	if rec.Body.String() != "abcde" {
		t.Errorf("client got %q, want the whole body", rec.Body)
	}
}

func TestCacheKeySeparatesParamsAndUsers(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query_user"}

	ctxFor := func(id string, user int) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/properties/"+id, nil), httptest.NewRecorder())
		c.SetPath("/v1/properties/:id")
		c.SetParamNames("id")
		c.SetParamValues(id)
		c.Set(ctxUserID, user)
		c.Set(ctxRole, utils.RoleGuest)
		return c
	}

	a := cacheKey(cfg, ctxFor("1", 5), "0")
	if a != cacheKey(cfg, ctxFor("1", 5), "0") {
		t.Error("cache key is not stable")
	}
	if a == cacheKey(cfg, ctxFor("2", 5), "0") {
		t.Error("different path params share a cache key")
	}
	if a == cacheKey(cfg, ctxFor("1", 6), "0") {
		t.Error("different users share a cache key")
	}
	if a == cacheKey(cfg, ctxFor("1", 5), "1") {
		t.Error("different generations share a cache key")
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	if got, want := buildRateKey(cfg, c), "rl:ip:10.0.0.1:user:anon:route:POST /v1/bookings"; got != want {
		t.Errorf("buildRateKey() = %q, want %q", got, want)
	}
	c.Set(ctxUserID, 4)
	c.Set(ctxRole, utils.RoleGuest)
	cfg.KeyStrategy = "user"
	if got, want := buildRateKey(cfg, c), "rl:user:guest-4"; got != want {
		t.Errorf("buildRateKey() = %q, want %q", got, want)
	}
}

func TestDecodeBucketReply(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want bucketReply
		ok   bool
	}{
		{name: "granted", in: []interface{}{int64(1), int64(9), int64(0)}, want: bucketReply{granted: true, left: 9}, ok: true},
		{name: "denied", in: []interface{}{int64(0), int64(0), int64(1500)}, want: bucketReply{wait: 1500 * time.Millisecond}, ok: true},
		{name: "scalar", in: "nope"},
		{name: "short", in: []interface{}{int64(1)}},
		{name: "not integers", in: []interface{}{"1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeBucketReply(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("decodeBucketReply() = %+v, %v, want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
