//go:build linux

package inject

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/atotto/clipboard"
)

// platformPaste implements clipboard-paste strategy for Linux: set the
// clipboard, then simulate Ctrl+V with xdotool (X11) or wtype (Wayland).
func platformPaste(ctx context.Context, text string) error {
	oldClip, err := clipboard.ReadAll()
	if err != nil {
		oldClip = "" // If clipboard read fails, proceed anyway
	}

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}

	// Small delay to ensure clipboard managers have picked it up
	time.Sleep(50 * time.Millisecond)

	if err := sendPasteShortcut(ctx); err != nil {
		return err
	}

	time.Sleep(100 * time.Millisecond)

	// Restore old clipboard (best effort) unless the user changed it meanwhile
	currentClip, _ := clipboard.ReadAll()
	if currentClip == text {
		clipboard.WriteAll(oldClip)
	}

	return nil
}

func sendPasteShortcut(ctx context.Context) error {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		if _, err := exec.LookPath("wtype"); err == nil {
			return exec.CommandContext(ctx, "wtype", "-M", "ctrl", "-k", "v", "-m", "ctrl").Run()
		}
	}
	if _, err := exec.LookPath("xdotool"); err == nil {
		return exec.CommandContext(ctx, "xdotool", "key", "--clearmodifiers", "ctrl+v").Run()
	}
	return fmt.Errorf("no paste helper found (install xdotool or wtype)")
}

// platformType implements keyboard typing for Linux
func platformType(ctx context.Context, text string) error {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		if _, err := exec.LookPath("wtype"); err == nil {
			return exec.CommandContext(ctx, "wtype", text).Run()
		}
	}
	if _, err := exec.LookPath("xdotool"); err == nil {
		return exec.CommandContext(ctx, "xdotool", "type", "--clearmodifiers", text).Run()
	}
	return fmt.Errorf("no typing helper found (install xdotool or wtype)")
}
