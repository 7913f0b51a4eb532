package leveling

import "testing"

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp, want int
	}{
		{-5, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{250, 3},
		{1000, 11},
	}
	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Fatalf("LevelForXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestXPForLevelIsInverseOfLevelForXP(t *testing.T) {
	for level := 1; level <= 20; level++ {
		start := XPForLevel(level)
		if got := LevelForXP(start); got != level {
			t.Fatalf("LevelForXP(XPForLevel(%d)) = %d", level, got)
		}
		if level > 1 && LevelForXP(start-1) != level-1 {
			t.Fatalf("xp just below level %d start should be level %d", level, level-1)
		}
	}
	if XPForLevel(0) != 0 {
		t.Fatalf("levels below 1 clamp to 1")
	}
}

func TestXPProgressWithinLevel(t *testing.T) {
	if got := XPProgressWithinLevel(150, 2); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := XPProgressWithinLevel(0, 1); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	// Stale level columns must not produce values outside [0,1].
	if got := XPProgressWithinLevel(500, 2); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
	if got := XPProgressWithinLevel(10, 5); got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
}

func TestApply(t *testing.T) {
	a := Apply(90, 1, 20)
	if a.TotalXP != 110 || a.Level != 2 || !a.LeveledUp() {
		t.Fatalf("unexpected award %+v", a)
	}
	same := Apply(90, 1, 0)
	if same.TotalXP != 90 || same.Level != 1 || same.LeveledUp() {
		t.Fatalf("zero gain must be a no-op, got %+v", same)
	}
	neg := Apply(90, 1, -40)
	if neg.TotalXP != 90 {
		t.Fatalf("negative gain must be ignored, got %+v", neg)
	}
}
