package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/octree/geometry"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func TestHandleHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	HandleHealthCheck(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleReadyCheck(t *testing.T) {
	ready := false
	h := HandleReadyCheck(func() bool { return ready })

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	ready = true
	w = httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleVersion(t *testing.T) {
	w := httptest.NewRecorder()
	HandleVersion("v1.2.3")(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "v1.2.3", w.Body.String())
}

func TestHandleWithCORS(t *testing.T) {
	called := false
	h := HandleWithCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	t.Run("preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		require.False(t, called)
	})

	t.Run("request", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		require.True(t, called)
	})
}

func TestHandleJSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleSnapshot(func() any {
			return map[string]int{"step": 3}
		})(w, httptest.NewRequest(http.MethodGet, "/debug/octree", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))
		require.JSONEq(t, `{"step":3}`, w.Body.String())
	})

	t.Run("bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleJSON(func(r *http.Request) (any, error) {
			return nil, errors.New("nope").WithType(ErrTypeBadRequest)
		})(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("internal error", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleJSON(func(r *http.Request) (any, error) {
			return nil, errors.New("broken")
		})(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandleProbe(t *testing.T) {
	var probed geometry.Sphere
	h := HandleProbe(func(s geometry.Sphere) []uint32 {
		probed = s
		if s.Radius == 0 {
			return nil
		}
		return []uint32{2, 5}
	})

	t.Run("returns colliding ids", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/probe?x=1&y=2.5&z=-3&radius=4", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var ids []uint32
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
		require.Equal(t, []uint32{2, 5}, ids)
		require.Equal(t, geometry.NewSphere(geometry.NewVector3(1, 2.5, -3), 4), probed)
	})

	t.Run("returns an empty list", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/probe?x=1&y=2&z=3&radius=0", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("missing parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/probe?x=1&y=2&z=3", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/probe?x=a&y=2&z=3&radius=1", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative radius", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/probe?x=1&y=2&z=3&radius=-1", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
