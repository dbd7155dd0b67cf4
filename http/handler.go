package http

import (
	"net/http"
	"strconv"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/octree/geometry"
	"github.com/segmentio/encoding/json"
)

const (
	ErrTypeBadRequest = "http_bad_request"
)

func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func HandleReadyCheck(readinessCheck func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !readinessCheck() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func HandleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(version))
	}
}

// HandleWithCORS allows the given handler to be called from any origin.
func HandleWithCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// HandleJSON writes the value returned by fn as JSON. Errors typed with
// ErrTypeBadRequest result in a 400.
func HandleJSON(fn func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(r)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.IsType(err, ErrTypeBadRequest) {
				status = http.StatusBadRequest
			} else {
				logs.WithTag("path", r.URL.Path).Error(err)
			}

			http.Error(w, err.Error(), status)
			return
		}

		b, err := json.Marshal(v)
		if err != nil {
			logs.WithTag("path", r.URL.Path).
				Error(errors.New("encoding response failed").Wrap(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}

// HandleSnapshot serves the value returned by snapshot as JSON.
func HandleSnapshot(snapshot func() any) http.HandlerFunc {
	return HandleJSON(func(r *http.Request) (any, error) {
		return snapshot(), nil
	})
}

// HandleProbe serves the ids of the bodies colliding with the sphere described
// by the x, y, z and radius query parameters.
func HandleProbe(probe func(geometry.Sphere) []uint32) http.HandlerFunc {
	return HandleJSON(func(r *http.Request) (any, error) {
		sphere, err := parseSphere(r)
		if err != nil {
			return nil, err
		}

		ids := probe(sphere)
		if ids == nil {
			ids = []uint32{}
		}
		return ids, nil
	})
}

func parseSphere(r *http.Request) (geometry.Sphere, error) {
	var values [4]float32

	for i, key := range []string{"x", "y", "z", "radius"} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			return geometry.Sphere{}, errors.New("missing query parameter").
				WithType(ErrTypeBadRequest).
				WithTag("parameter", key)
		}

		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return geometry.Sphere{}, errors.New("invalid query parameter").
				WithType(ErrTypeBadRequest).
				WithTag("parameter", key).
				Wrap(err)
		}
		values[i] = float32(v)
	}

	if values[3] < 0 {
		return geometry.Sphere{}, errors.New("radius is negative").
			WithType(ErrTypeBadRequest).
			WithTag("radius", values[3])
	}

	return geometry.NewSphere(geometry.NewVector3(values[0], values[1], values[2]), values[3]), nil
}
