package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
	"github.com/preston-bernstein/golf-league-service/internal/handicap"
	"github.com/preston-bernstein/golf-league-service/internal/scoring"
	"github.com/preston-bernstein/golf-league-service/internal/standings"
)

// Rules are the league's tunable scoring and pairing rules.
type Rules struct {
	PointsTable     []float64     `yaml:"points_table"`
	Course          CourseRules   `yaml:"course"`
	Scoring         ScoringRules  `yaml:"scoring"`
	Handicap        HandicapRules `yaml:"handicap"`
	GolfersPerRound int           `yaml:"golfers_per_round"`
}

type CourseRules struct {
	HolePars    []int `yaml:"hole_pars"`
	StrokeIndex []int `yaml:"stroke_index"`
}

type ScoringRules struct {
	MaxHoleScore int `yaml:"max_hole_score"`
}

type HandicapRules struct {
	Window       int     `yaml:"window"`
	BestFraction float64 `yaml:"best_fraction"`
}

// DefaultRules returns the built-in league rules.
func DefaultRules() Rules {
	def := scoring.DefaultRules()
	return Rules{
		PointsTable: append([]float64(nil), standings.DefaultPointsTable...),
		Course: CourseRules{
			HolePars:    def.HolePars,
			StrokeIndex: def.StrokeIndex,
		},
		Scoring:         ScoringRules{MaxHoleScore: def.MaxHoleScore},
		Handicap:        HandicapRules{Window: handicap.DefaultWindow, BestFraction: handicap.DefaultBestFraction},
		GolfersPerRound: foursomes.GolfersPerRound,
	}
}

// LoadRules reads a YAML rules file over the defaults. An empty path returns
// the defaults. Unknown keys are rejected.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return Rules{}, fmt.Errorf("rules %s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes YAML rules over the defaults and validates the result.
func ParseRules(data []byte) (Rules, error) {
	rules := DefaultRules()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, err
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate reports the first rule that cannot be applied.
func (r Rules) Validate() error {
	switch {
	case len(r.PointsTable) == 0:
		return errors.New("points_table must not be empty")
	case len(r.Course.HolePars) != scores.Holes:
		return fmt.Errorf("course.hole_pars must list %d holes, got %d", scores.Holes, len(r.Course.HolePars))
	case len(r.Course.StrokeIndex) != scores.Holes:
		return fmt.Errorf("course.stroke_index must list %d holes, got %d", scores.Holes, len(r.Course.StrokeIndex))
	case r.Scoring.MaxHoleScore < 1:
		return errors.New("scoring.max_hole_score must be at least 1")
	case r.Handicap.Window < 1:
		return errors.New("handicap.window must be at least 1")
	case r.Handicap.BestFraction <= 0 || r.Handicap.BestFraction > 1:
		return errors.New("handicap.best_fraction must be in (0, 1]")
	case r.GolfersPerRound != foursomes.GolfersPerRound:
		return fmt.Errorf("golfers_per_round must be %d", foursomes.GolfersPerRound)
	}
	for i, p := range r.Course.HolePars {
		if p < 1 {
			return fmt.Errorf("course.hole_pars[%d] must be positive", i)
		}
	}
	return nil
}

// ScoringEngineRules converts the course and scoring sections for the scoring engine.
func (r Rules) ScoringEngineRules() scoring.Rules {
	return scoring.Rules{
		MaxHoleScore: r.Scoring.MaxHoleScore,
		HolePars:     append([]int(nil), r.Course.HolePars...),
		StrokeIndex:  append([]int(nil), r.Course.StrokeIndex...),
	}
}

// CoursePar sums the hole pars.
func (r Rules) CoursePar() int {
	total := 0
	for _, p := range r.Course.HolePars {
		total += p
	}
	return total
}
