package scores

import "testing"

func TestStateTransitions(t *testing.T) {
	cases := []struct {
		name  string
		score Score
		want  State
	}{
		{"empty", Score{HoleScores: make([]int, Holes)}, StateUnscored},
		{"partial", Score{HoleScores: []int{4, 5, 0, 0, 0, 0, 0, 0, 0}}, StatePartiallyEntered},
		{"full", Score{HoleScores: []int{4, 4, 4, 5, 3, 4, 3, 4, 5}}, StateFullyEntered},
		{"locked", Score{HoleScores: []int{4, 4, 4, 5, 3, 4, 3, 4, 5}, IsLocked: true}, StateLocked},
	}
	for _, tc := range cases {
		if got := tc.score.State(); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestCloneDoesNotShare(t *testing.T) {
	net := 28.0
	s := Score{HoleScores: []int{1, 2}, NetScore: &net}
	c := s.Clone()
	c.HoleScores[0] = 9
	*c.NetScore = 1
	if s.HoleScores[0] != 1 || *s.NetScore != 28 {
		t.Fatalf("clone shares state with original")
	}
}

func TestCompleteRequiresNineHoles(t *testing.T) {
	if (Score{HoleScores: []int{4, 4, 4}}).Complete() {
		t.Fatalf("short card should not be complete")
	}
}

func TestRound1RoundsHalfUp(t *testing.T) {
	cases := map[float64]float64{2.625: 2.6, 1.04: 1, 2.96: 3, 28: 28, -2.25: -2.2, 7.5: 7.5}
	for in, want := range cases {
		if got := Round1(in); got != want {
			t.Fatalf("Round1(%v) = %v, want %v", in, got, want)
		}
	}
}
