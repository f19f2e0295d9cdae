package infer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"digitpad/canvas"
)

// TFServing calls a TensorFlow Serving REST endpoint hosting the digit model.
type TFServing struct {
	BaseURL string
	Model   string
	// Version pins a model version; empty uses the server's latest.
	Version string
	Client  *http.Client
}

// NewTFServing returns a client for model at baseURL (e.g. http://localhost:8501).
func NewTFServing(baseURL, model string) *TFServing {
	return &TFServing{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type predictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float32 `json:"predictions"`
	Error       string      `json:"error"`
}

type modelStatus struct {
	ModelVersionStatus []struct {
		Version string `json:"version"`
		State   string `json:"state"`
	} `json:"model_version_status"`
	Error string `json:"error"`
}

func (s *TFServing) modelURL() string {
	u := s.BaseURL + "/v1/models/" + url.PathEscape(s.Model)
	if s.Version != "" {
		u += "/versions/" + url.PathEscape(s.Version)
	}
	return u
}

func (s *TFServing) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

// Probe checks that the model is loaded and AVAILABLE.
func (s *TFServing) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.modelURL(), nil)
	if err != nil {
		return fmt.Errorf("tfserving probe: %w", err)
	}
	var st modelStatus
	if err := s.do(req, &st); err != nil {
		return fmt.Errorf("tfserving probe %s: %w", s.Model, err)
	}
	for _, v := range st.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			return nil
		}
	}
	return fmt.Errorf("tfserving probe %s: no AVAILABLE version", s.Model)
}

// Classify posts t as a single instance and returns the first prediction row.
func (s *TFServing) Classify(ctx context.Context, t canvas.Tensor) ([]float32, error) {
	body, err := json.Marshal(predictRequest{Instances: nest(t)})
	if err != nil {
		return nil, fmt.Errorf("tfserving encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.modelURL()+":predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tfserving request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp predictResponse
	if err := s.do(req, &resp); err != nil {
		return nil, fmt.Errorf("tfserving predict: %w", err)
	}
	if len(resp.Predictions) == 0 {
		return nil, fmt.Errorf("tfserving predict: empty predictions")
	}
	return resp.Predictions[0], nil
}

func (s *TFServing) do(req *http.Request, out any) error {
	res, err := s.client().Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &e) == nil && e.Error != "" {
			return fmt.Errorf("%s: %s", res.Status, e.Error)
		}
		return fmt.Errorf("%s", res.Status)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// nest reshapes an NHWC tensor into the nested arrays the REST API expects.
func nest(t canvas.Tensor) [][][][]float32 {
	n, h, w, c := t.Shape[0], t.Shape[1], t.Shape[2], t.Shape[3]
	out := make([][][][]float32, n)
	for i := range out {
		out[i] = make([][][]float32, h)
		for y := range out[i] {
			out[i][y] = make([][]float32, w)
			for x := range out[i][y] {
				out[i][y][x] = make([]float32, c)
				for k := range out[i][y][x] {
					out[i][y][x][k] = t.At(i, y, x, k)
				}
			}
		}
	}
	return out
}
