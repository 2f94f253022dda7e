package players

import "testing"

func TestPlayerVariants(t *testing.T) {
	member := Member("g1")
	if member.IsSubstitute() || member.IsExternal() {
		t.Fatalf("expected plain member, got %+v", member)
	}
	if member.Key() != "golfer:g1" {
		t.Fatalf("unexpected key %s", member.Key())
	}

	registeredSub := Substitute("s1", "g9")
	if !registeredSub.IsSubstitute() || registeredSub.IsExternal() {
		t.Fatalf("expected registered substitute, got %+v", registeredSub)
	}
	if registeredSub.Key() != "golfer:g9" {
		t.Fatalf("registered substitute should key by golfer, got %s", registeredSub.Key())
	}

	external := Substitute("s2", "")
	if !external.IsExternal() || !external.IsSubstitute() {
		t.Fatalf("expected external substitute, got %+v", external)
	}
	if external.Key() != "sub:s2" {
		t.Fatalf("unexpected key %s", external.Key())
	}
}

func TestPlayerValid(t *testing.T) {
	cases := []struct {
		p    Player
		want bool
	}{
		{Member("g1"), true},
		{Member(""), false},
		{Substitute("s1", ""), true},
		{Player{Kind: KindExternalSub, SubstituteID: "s1", GolferID: "g1"}, false},
		{Player{}, false},
	}
	for _, tc := range cases {
		if got := tc.p.Valid(); got != tc.want {
			t.Fatalf("Valid(%+v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}
