package keys

import "strings"

// NormalizeAction standardizes action names so the same operation can be
// compared across applications ("New Tab", "new_tab" and "new tab" agree).
func NormalizeAction(name string) string {
	n := strings.ToLower(name)
	n = strings.ReplaceAll(n, "_", " ")
	n = strings.ReplaceAll(n, "-", " ")
	return strings.Join(strings.Fields(n), " ")
}
