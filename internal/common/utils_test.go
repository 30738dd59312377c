package common

import "testing"

func TestEscapeComponent(t *testing.T) {
	tests := map[string]string{
		"New York":         "New%20York",
		"São Paulo":        "S%C3%A3o%20Paulo",
		"a&b=c":            "a%26b%3Dc",
		"https://x.test/?": "https%3A%2F%2Fx.test%2F%3F",
	}
	for in, want := range tests {
		if got := EscapeComponent(in); got != want {
			t.Errorf("EscapeComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" a, ,b,,c ")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("SplitList = %q", got)
	}
	if got := SplitList(""); len(got) != 0 {
		t.Errorf("SplitList(\"\") = %q", got)
	}
}
