// Package demo serves the interactive browser front end: a single
// upload page wired to the same classification pipeline as the API.
package demo

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pneumoai/pneumo-api/internal/classify"
)

const demoThreshold = 0.5

// Result is what the page displays. Unlike the API, confidence here
// is always confidence in the returned label: the raw score for
// Normal, its complement for Pneumonia.
type Result struct {
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

func (h *Handler) Register(r *gin.Engine, publicDir string) {
	r.Use(static.Serve("/", static.LocalFile(publicDir, true)))
	r.POST("/classify", h.Classify)
}

func (h *Handler) Classify(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		// Submitting without an image is not an error; the page
		// just shows a placeholder. The model is never invoked.
		c.JSON(http.StatusOK, Result{Prediction: "No image provided"})
		return
	}

	content, err := file.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer content.Close()

	label, score, err := h.pipeline.Classify(content, demoThreshold)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Result{
		Prediction: string(label),
		Confidence: classify.LabelConfidence(label, score),
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Error("failed to classify image", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      fmt.Sprintf("Error processing image: %v", err),
		"prediction": "Error",
		"confidence": 0,
	})
}
