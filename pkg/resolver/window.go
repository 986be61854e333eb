package resolver

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v4/process"
)

// StaticWindow is a window whose process name is already known.
type StaticWindow string

// ProcessName implements Window.
func (w StaticWindow) ProcessName() (string, bool) {
	return string(w), w != ""
}

// Windows converts process names into static windows.
func Windows(names ...string) []Window {
	out := make([]Window, 0, len(names))
	for _, n := range names {
		out = append(out, StaticWindow(n))
	}
	return out
}

// ProcessWindow resolves its process name from a PID on demand.
type ProcessWindow struct {
	PID int32
}

// ProcessName implements Window. Exited or inaccessible processes report
// false.
func (w ProcessWindow) ProcessName() (string, bool) {
	p, err := process.NewProcess(w.PID)
	if err != nil {
		return "", false
	}
	name, err := p.Name()
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// ProcessContext builds a context from the running processes: activePID (if
// positive) is the foreground window and every other distinct process name
// is a background window, sorted by name.
func ProcessContext(ctx context.Context, activePID int32) (ContextRoot, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return ContextRoot{}, fmt.Errorf("failed to list processes: %w", err)
	}

	var root ContextRoot
	if activePID > 0 {
		root.Foreground = []Window{ProcessWindow{PID: activePID}}
	}

	names := make(map[string]bool)
	for _, p := range procs {
		if p.Pid == activePID {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		names[name] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)
	root.Background = Windows(sorted...)
	return root, nil
}
