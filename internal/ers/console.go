package ers

import "strings"

// #region console
const (
	consoleEmpty   = "No command entered yet."
	consoleUnknown = "Unknown command."
)

type consoleRule struct {
	keywords []string
	reply    string
}

// consoleRules are matched in order by case-insensitive substring.
var consoleRules = []consoleRule{
	{[]string{"def9"}, "Def9 Scan: risk gate sweep; if gate is ORANGE/RED, hold action and reduce irreversible commitments."},
	{[]string{"sniper"}, "Sniper: lock onto one key objective and concentrate resources; avoid context switching."},
	{[]string{"sentinel"}, "Sentinel: lower output, raise monitoring; gather intelligence and sharpen risk awareness."},
	{[]string{"freezing"}, "Freezing: pause major decisions; only maintenance and safety actions."},
	{[]string{"3mor"}, "3MOR: Macro/Meso/Maintenance/Operational/Recovery layering to control load."},
	{[]string{"recovery", "hole"}, "Recovery/Hole: release pressure and recover; no irreversible decisions."},
}

// Console maps a free-text command to a canned explanation.
func Console(command string) string {
	raw := strings.TrimSpace(command)
	if raw == "" {
		return consoleEmpty
	}
	s := strings.ToLower(raw)
	for _, r := range consoleRules {
		for _, kw := range r.keywords {
			if strings.Contains(s, kw) {
				return r.reply
			}
		}
	}
	return consoleUnknown
}

// #endregion console
