package infer

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"digitpad/canvas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterScalesToPercent(t *testing.T) {
	var seen canvas.Tensor
	clf := Func(func(_ context.Context, ten canvas.Tensor) ([]float32, error) {
		seen = ten
		return []float32{0, 0, 0, 0.75, 0, 0, 0, 0.25, 0, 0}, nil
	})

	g := canvas.NewGrid(canvas.Rows, canvas.Cols, 25)
	conf, err := NewAdapter(clf).Infer(context.Background(), g)
	require.NoError(t, err)

	assert.Equal(t, [4]int{1, 28, 28, 1}, seen.Shape)
	assert.InDelta(t, 75.0, conf[3], 1e-4)
	assert.InDelta(t, 25.0, conf[7], 1e-4)

	d, p := conf.Best()
	assert.Equal(t, 3, d)
	assert.InDelta(t, 75.0, p, 1e-4)
}

func TestAdapterErrors(t *testing.T) {
	g := canvas.NewGrid(canvas.Rows, canvas.Cols, 25)
	boom := errors.New("boom")

	_, err := NewAdapter(Func(func(context.Context, canvas.Tensor) ([]float32, error) {
		return nil, boom
	})).Infer(context.Background(), g)
	require.ErrorIs(t, err, boom)

	_, err = NewAdapter(Func(func(context.Context, canvas.Tensor) ([]float32, error) {
		return []float32{1, 2, 3}, nil
	})).Infer(context.Background(), g)
	require.ErrorIs(t, err, ErrShortOutput)
}

func TestNilClassifierIsZero(t *testing.T) {
	conf, err := NewAdapter(nil).Infer(context.Background(), canvas.NewGrid(28, 28, 25))
	require.NoError(t, err)
	assert.Equal(t, Confidences{}, conf)

	d, p := conf.Best()
	assert.Equal(t, 0, d)
	assert.Zero(t, p)
}

func TestTFServingPredict(t *testing.T) {
	g := canvas.NewGrid(canvas.Rows, canvas.Cols, 25)
	canvas.NewBrush(g).Ink(image.Pt(14*25, 14*25))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/models/mnist:predict", r.URL.Path)

		var req predictRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) ||
			!assert.Len(t, req.Instances, 1) ||
			!assert.Len(t, req.Instances[0], 28) ||
			!assert.Len(t, req.Instances[0][0], 28) ||
			!assert.Len(t, req.Instances[0][0][0], 1) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, float32(0), req.Instances[0][14][14][0])
		assert.Equal(t, float32(1), req.Instances[0][0][0][0])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictions": [][]float32{{0.1, 0.9, 0, 0, 0, 0, 0, 0, 0, 0}},
		})
	}))
	defer srv.Close()

	conf, err := NewAdapter(NewTFServing(srv.URL+"/", "mnist")).Infer(context.Background(), g)
	require.NoError(t, err)
	d, _ := conf.Best()
	assert.Equal(t, 1, d)
	assert.InDelta(t, 10.0, conf[0], 1e-4)
}

func TestTFServingErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Input to reshape is a tensor with 10 values"}`))
	}))
	defer srv.Close()

	_, err := NewTFServing(srv.URL, "mnist").Classify(context.Background(), canvas.NewGrid(28, 28, 25).Tensor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reshape")
}

func TestTFServingProbe(t *testing.T) {
	var state atomic.Value
	state.Store("AVAILABLE")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models/mnist/versions/3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"model_version_status":[{"version":"3","state":"` + state.Load().(string) + `"}]}`))
	}))
	defer srv.Close()

	s := NewTFServing(srv.URL, "mnist")
	s.Version = "3"
	require.NoError(t, s.Probe(context.Background()))

	state.Store("LOADING")
	require.Error(t, s.Probe(context.Background()))

	s.Version = ""
	require.Error(t, s.Probe(context.Background()), "unknown path is a probe failure")
}

func TestNestMatchesRowMajor(t *testing.T) {
	ten := canvas.Tensor{Shape: [4]int{1, 2, 3, 1}, Data: []float32{0, 1, 2, 3, 4, 5}}
	n := nest(ten)
	assert.Equal(t, [][][][]float32{{{{0}, {1}, {2}}, {{3}, {4}, {5}}}}, n)
}
