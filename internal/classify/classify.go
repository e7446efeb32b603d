package classify

import (
	"fmt"
	"io"
)

// Label is one of the two classification outcomes.
type Label string

const (
	LabelNormal    Label = "Normal"
	LabelPneumonia Label = "Pneumonia Detected"
)

// Predictor runs one forward pass over a preprocessed tensor and
// returns the model's probability of the Normal class.
type Predictor interface {
	Predict(input []float32) (float32, error)
}

// Decide maps a raw score to a label. A score exactly equal to the
// threshold classifies as Normal.
func Decide(score, threshold float32) Label {
	if score >= threshold {
		return LabelNormal
	}
	return LabelPneumonia
}

// LabelConfidence converts the raw Normal-class score into confidence
// in the returned label: the score itself for Normal, its complement
// for Pneumonia. The HTTP API reports the raw score instead; the two
// front ends have always differed here and both conventions are kept.
func LabelConfidence(label Label, score float32) float32 {
	if label == LabelNormal {
		return score
	}
	return 1 - score
}

// Pipeline is the shared classification core consumed by both front
// ends: preprocess, infer, decide.
type Pipeline struct {
	predictor Predictor
}

func NewPipeline(p Predictor) *Pipeline {
	return &Pipeline{predictor: p}
}

// Classify runs the full pipeline on one uploaded image and returns
// the label together with the raw score. Callers pick their own
// confidence convention via LabelConfidence or the score itself.
func (p *Pipeline) Classify(r io.Reader, threshold float32) (Label, float32, error) {
	input, err := Preprocess(r)
	if err != nil {
		return "", 0, err
	}

	score, err := p.predictor.Predict(input)
	if err != nil {
		return "", 0, fmt.Errorf("prediction failed: %w", err)
	}

	return Decide(score, threshold), score, nil
}
