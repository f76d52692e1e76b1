package env

import "testing"

func TestGetFallsBackWhenUnsetOrBlank(t *testing.T) {
	t.Setenv("AMBASSADOR_TEST_VALUE", "   ")
	if got := Get("AMBASSADOR_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}

	t.Setenv("AMBASSADOR_TEST_VALUE", "console")
	if got := Get("AMBASSADOR_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}
