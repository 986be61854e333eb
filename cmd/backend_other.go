//go:build !windows && !(linux && cgo)

package cmd

import (
	"github.com/grovetools/palette/pkg/hotkey"
	"github.com/grovetools/palette/pkg/logger"
)

func platformBackend() hotkey.Backend {
	logger.NewLogger("hotkey").Warn("Global hotkeys are not supported on this platform")
	return hotkey.Unsupported{}
}
