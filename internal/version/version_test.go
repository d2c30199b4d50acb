package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	v, c, d := Info()
	if v == "" || c == "" || d == "" {
		t.Errorf("Info returned empty field: version=%q commit=%q date=%q", v, c, d)
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version=", "commit=", "date="} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
