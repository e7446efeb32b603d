package demo

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pneumoai/pneumo-api/internal/classify"
)

type stubPredictor struct {
	score float32
	calls int
}

func (s *stubPredictor) Predict(input []float32) (float32, error) {
	s.calls++
	return s.score, nil
}

func newTestRouter(t *testing.T, p classify.Predictor) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/classify", New(classify.NewPipeline(p), zap.NewNop()).Classify)
	return r
}

func uploadRequest(t *testing.T, withFile bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if withFile {
		part, err := w.CreateFormFile("image", "xray.png")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32))); err != nil {
			t.Fatalf("Failed to encode png: %v", err)
		}
		part.Write(buf.Bytes())
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/classify", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestClassifyNoImageIsPlaceholder(t *testing.T) {
	stub := &stubPredictor{score: 0.9}
	r := newTestRouter(t, stub)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, false))

	if rec.Code != http.StatusOK {
		t.Fatalf("Missing image should not be an error, got %d", rec.Code)
	}

	var resp Result
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Prediction != "No image provided" || resp.Confidence != 0 {
		t.Fatalf("Expected placeholder result, got %+v", resp)
	}
	if stub.calls != 0 {
		t.Fatalf("Model must not run without an image, ran %d times", stub.calls)
	}
}

func TestClassifyConfidenceInLabel(t *testing.T) {
	for _, tc := range []struct {
		name       string
		score      float32
		prediction string
		confidence float32
	}{
		// The demo uses threshold 0.5 and reports confidence in
		// the returned label, not the raw score.
		{"normal", 0.9, "Normal", 0.9},
		{"pneumonia", 0.2, "Pneumonia Detected", 0.8},
		{"at threshold", 0.5, "Normal", 0.5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, &stubPredictor{score: tc.score})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, uploadRequest(t, true))

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var resp Result
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Prediction != tc.prediction {
				t.Fatalf("Expected %q, got %q", tc.prediction, resp.Prediction)
			}
			if resp.Confidence < tc.confidence-1e-6 || resp.Confidence > tc.confidence+1e-6 {
				t.Fatalf("Expected confidence %f, got %f", tc.confidence, resp.Confidence)
			}
		})
	}
}
