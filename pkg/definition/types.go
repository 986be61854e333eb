// Package definition loads declarative application definitions and resolves
// them into Applications for a single operating system.
package definition

import (
	"fmt"
	"runtime"
	"strings"
)

// OS names an operating system family as used in definition files.
type OS string

const (
	Windows OS = "windows"
	MacOS   OS = "macos"
	Linux   OS = "linux"
)

// CurrentOS maps runtime.GOOS onto the definition vocabulary. Unknown
// platforms fall back to Linux, whose process names are plain executables.
func CurrentOS() OS {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	default:
		return Linux
	}
}

// ParseOS accepts the definition names plus runtime.GOOS spellings.
func ParseOS(s string) (OS, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows":
		return Windows, nil
	case "macos", "darwin", "mac":
		return MacOS, nil
	case "linux":
		return Linux, nil
	case "":
		return CurrentOS(), nil
	}
	return "", fmt.Errorf("unknown os %q", s)
}

// FocusState determines which context bucket an action is offered from.
type FocusState int

const (
	Focused FocusState = iota
	Background
	Global
)

func (f FocusState) String() string {
	switch f {
	case Focused:
		return "focused"
	case Background:
		return "background"
	case Global:
		return "global"
	}
	return fmt.Sprintf("FocusState(%d)", int(f))
}

// ParseFocusState parses the lower-case names used in definition files.
func ParseFocusState(s string) (FocusState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "focused":
		return Focused, nil
	case "background":
		return Background, nil
	case "global":
		return Global, nil
	}
	return 0, fmt.Errorf("unknown focus state %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f FocusState) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Priority orders where an application's shortcuts sit in the OS input
// stack, from shortcuts the OS reserves down to in-document ones.
type Priority int

const (
	OSReserved Priority = iota
	GlobalRemapper
	OSGlobal
	UserOverrides
	ApplicationPriority
	ApplicationExtensions
	DocumentOrWebApp
)

var priorityNames = []string{
	"OSReserved",
	"GlobalRemapper",
	"OSGlobal",
	"UserOverrides",
	"Application",
	"ApplicationExtensions",
	"DocumentOrWebApp",
}

func (p Priority) String() string {
	if int(p) >= 0 && int(p) < len(priorityNames) {
		return priorityNames[p]
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// ParsePriority is case-insensitive. An empty string is the Application
// priority.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ApplicationPriority, nil
	}
	for i, name := range priorityNames {
		if strings.EqualFold(name, s) {
			return Priority(i), nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
