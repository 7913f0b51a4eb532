package envutil

import (
	"testing"
	"time"
)

func TestDurationAcceptsSecondsAndGoSyntax(t *testing.T) {
	t.Setenv("QL_TEST_DUR", "90")
	if got := Duration("QL_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("seconds: got %v", got)
	}
	t.Setenv("QL_TEST_DUR", "2h")
	if got := Duration("QL_TEST_DUR", time.Minute); got != 2*time.Hour {
		t.Fatalf("go syntax: got %v", got)
	}
	t.Setenv("QL_TEST_DUR", "soon")
	if got := Duration("QL_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("fallback: got %v", got)
	}
}

func TestIntBoolList(t *testing.T) {
	t.Setenv("QL_TEST_INT", "x")
	if got := Int("QL_TEST_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got %d", got)
	}
	t.Setenv("QL_TEST_BOOL", "yes")
	if !Bool("QL_TEST_BOOL", false) {
		t.Fatalf("Bool: expected true")
	}
	t.Setenv("QL_TEST_LIST", " a, ,b ")
	got := List("QL_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: got %v", got)
	}
}
