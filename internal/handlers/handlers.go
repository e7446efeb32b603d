package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pneumoai/pneumo-api/internal/classify"
)

// The API classifies as Normal only above 0.8; the interactive demo
// uses 0.5. The stricter cutoff biases the endpoint toward flagging
// borderline X-rays as pneumonia.
const predictThreshold = 0.8

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// PredictionResponse is the success envelope. Confidence is the raw
// Normal-class score regardless of which label was chosen.
type PredictionResponse struct {
	Prediction string  `json:"prediction"`
	Confidence float32 `json:"confidence"`
}

// ErrorResponse keeps the prediction/confidence keys even on failure
// so clients can decode one shape for every outcome.
type ErrorResponse struct {
	Error      string  `json:"error"`
	Prediction string  `json:"prediction"`
	Confidence float32 `json:"confidence"`
}

type Handler struct {
	pipeline *classify.Pipeline
	log      *zap.Logger
}

func New(pipeline *classify.Pipeline, log *zap.Logger) *Handler {
	return &Handler{pipeline: pipeline, log: log}
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/predict", h.Predict)
}

// Health reports readiness. The model is loaded before the server
// starts listening, so once this answers the model is in memory.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "model_loaded": true})
}

func (h *Handler) Predict(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		// A part with an empty filename parses as a form value,
		// not a file; report it as "no file selected" like a
		// browser submitting an empty file input.
		if form, ferr := c.MultipartForm(); ferr == nil && form != nil {
			if _, ok := form.Value["image"]; ok {
				h.reject(c, http.StatusBadRequest, "No file selected")
				return
			}
		}
		h.reject(c, http.StatusBadRequest, "No image file provided")
		return
	}

	if file.Filename == "" {
		h.reject(c, http.StatusBadRequest, "No file selected")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		h.reject(c, http.StatusBadRequest, "Invalid file type. Please upload PNG or JPEG")
		return
	}

	content, err := file.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer content.Close()

	label, score, err := h.pipeline.Classify(content, predictThreshold)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info("classified x-ray",
		zap.String("filename", file.Filename),
		zap.String("prediction", string(label)),
		zap.Float32("confidence", score))

	c.JSON(http.StatusOK, PredictionResponse{
		Prediction: string(label),
		Confidence: score,
	})
}

func (h *Handler) reject(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Error: msg, Prediction: "Error"})
}

// fail collapses decode, shape and inference errors into one 500
// envelope; the error kinds stay distinguishable in the logs.
func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Error("failed to process image", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:      fmt.Sprintf("Error processing image: %v", err),
		Prediction: "Error",
	})
}
