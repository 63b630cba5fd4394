//go:build windows

package inject

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// platformPaste sets the clipboard but cannot yet simulate Ctrl+V.
// TODO: SendInput for the Ctrl+V keystroke
func platformPaste(ctx context.Context, text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return fmt.Errorf("paste keystroke not yet implemented on Windows (text left on clipboard)")
}

// platformType implements keyboard typing for Windows
// TODO: Implement using Win32 SendInput API
func platformType(ctx context.Context, text string) error {
	return fmt.Errorf("type not yet implemented on Windows")
}
