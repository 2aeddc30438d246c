// Package tui provides the interactive picker and add form for ccswitch
package tui

import (
	"os"
)

// IsTerminal checks if stdin is a terminal
func IsTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
