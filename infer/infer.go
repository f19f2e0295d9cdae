// Package infer turns a drawing grid into digit confidences using an external classifier.
package infer

import (
	"context"
	"errors"
	"fmt"

	"digitpad/canvas"
)

// Classes is the number of digit classes the classifier scores.
const Classes = 10

var ErrShortOutput = errors.New("infer: classifier returned fewer than 10 scores")

// Classifier maps a [1, 28, 28, 1] tensor in [0, 1] to per-class probabilities.
type Classifier interface {
	Classify(ctx context.Context, t canvas.Tensor) ([]float32, error)
}

// Func adapts a plain function to a Classifier.
type Func func(ctx context.Context, t canvas.Tensor) ([]float32, error)

func (f Func) Classify(ctx context.Context, t canvas.Tensor) ([]float32, error) {
	return f(ctx, t)
}

// Zero scores every class as 0. It stands in when no classifier is configured.
type Zero struct{}

func (Zero) Classify(context.Context, canvas.Tensor) ([]float32, error) {
	return make([]float32, Classes), nil
}

// Confidences holds one percentage per digit.
type Confidences [Classes]float64

// Best returns the digit with the highest confidence. Ties go to the lower digit.
func (c Confidences) Best() (digit int, pct float64) {
	for i, v := range c {
		if v > c[digit] {
			digit = i
		}
	}
	return digit, c[digit]
}

// Adapter packages grids for a Classifier and unpacks its scores.
type Adapter struct {
	c Classifier
}

func NewAdapter(c Classifier) *Adapter {
	if c == nil {
		c = Zero{}
	}
	return &Adapter{c: c}
}

// Infer classifies g and scales the first Classes scores to percentages.
func (a *Adapter) Infer(ctx context.Context, g *canvas.Grid) (Confidences, error) {
	var out Confidences
	scores, err := a.c.Classify(ctx, g.Tensor())
	if err != nil {
		return out, fmt.Errorf("classify: %w", err)
	}
	if len(scores) < Classes {
		return out, fmt.Errorf("%w (got %d)", ErrShortOutput, len(scores))
	}
	for i := range out {
		out[i] = float64(scores[i]) * 100
	}
	return out, nil
}
