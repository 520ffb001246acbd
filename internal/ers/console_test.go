package ers

import (
	"strings"
	"testing"
)

func TestConsole(t *testing.T) {
	cases := []struct {
		cmd    string
		prefix string
	}{
		{"", "No command"},
		{"   ", "No command"},
		{"def9 scan", "Def9 Scan"},
		{"DEF9", "Def9 Scan"},
		{"Sniper", "Sniper"},
		{"enter sentinel", "Sentinel"},
		{"freezing now", "Freezing"},
		{"3MOR", "3MOR"},
		{"recovery", "Recovery/Hole"},
		{"dig a HOLE", "Recovery/Hole"},
		{"dance", "Unknown command."},
		// first matching keyword wins
		{"sniper then def9", "Def9 Scan"},
	}
	for _, c := range cases {
		if got := Console(c.cmd); !strings.HasPrefix(got, c.prefix) {
			t.Fatalf("Console(%q) = %q, want prefix %q", c.cmd, got, c.prefix)
		}
	}
}
