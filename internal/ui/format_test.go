package ui

import (
	"testing"
	"time"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"seconds", now.Add(-45 * time.Second), "45s ago"},
		{"minutes", now.Add(-12 * time.Minute), "12m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-6 * 24 * time.Hour), "6d ago"},
		{"future clamps", now.Add(time.Minute), "0s ago"},
		{"zero", time.Time{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timeAgo(tt.at, now); got != tt.want {
				t.Fatalf("timeAgo() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten chars!", 18, "exactly ten chars!"},
		{"this is far too long", 10, "this is f…"},
		{"héllo wörld", 7, "héllo …"},
		{"anything", 0, ""},
		{"ab", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("  one\ntwo\nthree  "); got != "one" {
		t.Fatalf("firstLine() = %q, want %q", got, "one")
	}
	if got := firstLine("single"); got != "single" {
		t.Fatalf("firstLine() = %q, want %q", got, "single")
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "like"); got != "1 like" {
		t.Fatalf("plural(1) = %q", got)
	}
	if got := plural(3, "like"); got != "3 likes" {
		t.Fatalf("plural(3) = %q", got)
	}
}

func TestThemeCycle(t *testing.T) {
	start := themeByName("Amber")
	if start.Name != "Amber" {
		t.Fatalf("themeByName(Amber).Name = %q", start.Name)
	}
	if got := themeByName("nope"); got.Name != "Amber" {
		t.Fatalf("unknown theme fell back to %q, want Amber", got.Name)
	}

	seen := map[string]bool{}
	name := "Amber"
	for range themeNames() {
		seen[name] = true
		name = nextThemeName(name)
	}
	if name != "Amber" {
		t.Fatalf("cycle did not wrap, ended on %q", name)
	}
	for _, want := range themeNames() {
		if !seen[want] {
			t.Fatalf("cycle skipped theme %q", want)
		}
	}
}
