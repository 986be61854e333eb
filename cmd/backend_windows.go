//go:build windows

package cmd

import (
	"github.com/grovetools/palette/pkg/hotkey"
	"github.com/grovetools/palette/pkg/hotkey/winhotkey"
)

func platformBackend() hotkey.Backend {
	return winhotkey.New()
}
