package classify

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"
)

type stubPredictor struct {
	score float32
	err   error
	calls int
}

func (s *stubPredictor) Predict(input []float32) (float32, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.score, nil
}

func TestDecideBoundary(t *testing.T) {
	// Equality classifies as Normal: the comparison is >=, not >.
	if got := Decide(0.5, 0.5); got != LabelNormal {
		t.Fatalf("Score equal to threshold should be Normal, got %q", got)
	}
	if got := Decide(0.49999, 0.5); got != LabelPneumonia {
		t.Fatalf("Score below threshold should be Pneumonia, got %q", got)
	}
	if got := Decide(0.8, 0.8); got != LabelNormal {
		t.Fatalf("Score equal to API threshold should be Normal, got %q", got)
	}
}

func TestDecideMonotonic(t *testing.T) {
	const threshold = 0.7
	seenNormal := false
	for score := float32(0); score <= 1.0; score += 0.01 {
		label := Decide(score, threshold)
		if label == LabelNormal {
			seenNormal = true
		} else if seenNormal {
			t.Fatalf("Label flipped back to Pneumonia at score %f", score)
		}
	}
	if !seenNormal {
		t.Fatal("Sweep never reached Normal")
	}
}

func TestLabelConfidence(t *testing.T) {
	if got := LabelConfidence(LabelNormal, 0.9); got != 0.9 {
		t.Fatalf("Normal confidence should be the raw score, got %f", got)
	}
	if got := LabelConfidence(LabelPneumonia, 0.2); got != 0.8 {
		t.Fatalf("Pneumonia confidence should be the complement, got %f", got)
	}
}

func TestPipelineClassify(t *testing.T) {
	img := encodePNG(t, uniformImage(100, 100, color.RGBA{128, 128, 128, 255}))

	for _, tc := range []struct {
		name  string
		score float32
		want  Label
	}{
		{"high score", 0.93, LabelNormal},
		{"low score", 0.12, LabelPneumonia},
		{"at threshold", 0.5, LabelNormal},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPipeline(&stubPredictor{score: tc.score})
			label, score, err := p.Classify(bytes.NewReader(img), 0.5)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if label != tc.want {
				t.Fatalf("Expected %q, got %q", tc.want, label)
			}
			if score != tc.score {
				t.Fatalf("Expected raw score %f, got %f", tc.score, score)
			}
		})
	}
}

func TestPipelineDecodeErrorSkipsPredictor(t *testing.T) {
	stub := &stubPredictor{score: 0.9}
	p := NewPipeline(stub)

	_, _, err := p.Classify(strings.NewReader("not an image"), 0.5)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Expected decode error, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("Predictor should not run on undecodable input, ran %d times", stub.calls)
	}
}

func TestPipelinePredictorError(t *testing.T) {
	p := NewPipeline(&stubPredictor{err: errors.New("session exploded")})

	img := encodePNG(t, uniformImage(50, 50, color.White))
	if _, _, err := p.Classify(bytes.NewReader(img), 0.5); err == nil {
		t.Fatal("Expected predictor error to propagate, got nil")
	}
}
