//go:build linux && cgo

package cmd

import (
	"github.com/grovetools/palette/pkg/hotkey"
	"github.com/grovetools/palette/pkg/hotkey/xhotkey"
)

func platformBackend() hotkey.Backend {
	return xhotkey.New()
}
