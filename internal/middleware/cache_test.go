package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Poojithanaramala/client/internal/config"
)

func TestCachePayloadCodec(t *testing.T) {
	hdr := http.Header{
		"Content-Type": []string{"application/json"},
		"X-Custom":     []string{"a", "b"},
	}
	body := []byte(`{"items":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestCachePayloadCodecRejectsTruncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)

	// Header length pointing past the end of the payload.
	payload, err := encodePayload(http.StatusOK, http.Header{"A": []string{"b"}}, nil)
	require.NoError(t, err)
	_, _, _, ok = decodePayload(payload[:9])
	assert.False(t, ok)
}

func TestCacheKeyStability(t *testing.T) {
	cfg := config.LoadCacheConfig()
	e := echo.New()

	ctxFor := func(target, path string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath(path)
		return c
	}

	k1 := cacheKeyFrom(cfg, ctxFor("/v1/movies?page=1", "/v1/movies"))
	k2 := cacheKeyFrom(cfg, ctxFor("/v1/movies?page=1", "/v1/movies"))
	k3 := cacheKeyFrom(cfg, ctxFor("/v1/movies?page=2", "/v1/movies"))
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestCacheDisabledIsPassThrough(t *testing.T) {
	cfg := config.LoadCacheConfig()
	mw := NewRedisCache(cfg, nil) // no Redis: must not interfere

	e := echo.New()
	calls := 0
	h := mw(func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/movies", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, calls)
}
