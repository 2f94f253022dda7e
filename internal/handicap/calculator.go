package handicap

import (
	"math"
	"slices"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
)

const (
	// DefaultWindow is how many recent eligible rounds feed a handicap.
	DefaultWindow = 10
	// DefaultBestFraction is the share of the window that counts.
	DefaultBestFraction = 0.8
	// DefaultCoursePar is par for the nine holes.
	DefaultCoursePar = 36
)

// Result is a computed handicap and the gross scores it was derived from.
type Result struct {
	Value      float64
	Used       []int
	Considered int
}

// Calculator derives handicaps from recent gross scores.
type Calculator struct {
	window   int
	fraction float64
	par      int
}

// NewCalculator builds a calculator. Zero arguments fall back to the defaults.
func NewCalculator(window int, fraction float64, par int) *Calculator {
	if window <= 0 {
		window = DefaultWindow
	}
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultBestFraction
	}
	if par <= 0 {
		par = DefaultCoursePar
	}
	return &Calculator{window: window, fraction: fraction, par: par}
}

// Window returns how many recent scores the calculator asks for.
func (c *Calculator) Window() int {
	return c.window
}

// Calculate averages the lowest max(1, floor(fraction*count)) of the most
// recent window scores, subtracts par, floors at 0 and rounds to a tenth.
// gross must be ordered most recent first.
func (c *Calculator) Calculate(gross []int) (Result, error) {
	if len(gross) == 0 {
		return Result{}, domain.Validation("scores", "at least one eligible score is required")
	}
	if len(gross) > c.window {
		gross = gross[:c.window]
	}
	n := int(math.Floor(c.fraction * float64(len(gross))))
	if n < 1 {
		n = 1
	}
	sorted := slices.Clone(gross)
	slices.Sort(sorted)
	best := sorted[:n]

	sum := 0
	for _, g := range best {
		sum += g
	}
	avg := float64(sum) / float64(n)
	return Result{
		Value:      scores.Round1(math.Max(0, avg-float64(c.par))),
		Used:       slices.Clone(gross),
		Considered: len(gross),
	}, nil
}

// Manual normalizes an admin-entered handicap.
func Manual(v float64) float64 {
	return scores.Round1(math.Max(0, v))
}
