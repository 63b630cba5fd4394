//go:build darwin

package inject

/*
#cgo LDFLAGS: -framework ApplicationServices -framework Carbon
#include <ApplicationServices/ApplicationServices.h>
#include <Carbon/Carbon.h>

static void postKey(CGEventSourceRef src, CGKeyCode key, bool down, CGEventFlags flags) {
    CGEventRef ev = CGEventCreateKeyboardEvent(src, key, down);
    CGEventSetFlags(ev, flags);
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
}

// Cmd+V as four HID events: both keys down with the command flag, then
// released in reverse order. Keycode 55 is Cmd, 9 is V.
void sendCmdV() {
    CGEventSourceRef src = CGEventSourceCreate(kCGEventSourceStateHIDSystemState);
    postKey(src, (CGKeyCode)55, true, kCGEventFlagMaskCommand);
    postKey(src, (CGKeyCode)9, true, kCGEventFlagMaskCommand);
    postKey(src, (CGKeyCode)9, false, 0);
    postKey(src, (CGKeyCode)55, false, 0);
    CFRelease(src);
}
*/
import "C"

import (
	"context"
	"fmt"
	"time"
	"unicode/utf16"

	"github.com/atotto/clipboard"
)

// platformPaste implements the clipboard-paste strategy for macOS: set the
// clipboard, synthesize Cmd+V as a CGEvent, then restore the clipboard.
func platformPaste(ctx context.Context, text string) error {
	oldClip, err := clipboard.ReadAll()
	if err != nil {
		oldClip = "" // If clipboard read fails, proceed anyway
	}

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}

	// Small delay to ensure the pasteboard has settled
	time.Sleep(50 * time.Millisecond)

	if err := ctx.Err(); err != nil {
		return err
	}
	C.sendCmdV()

	time.Sleep(100 * time.Millisecond)

	// Restore old clipboard (best effort) unless the user changed it meanwhile
	currentClip, _ := clipboard.ReadAll()
	if currentClip == text {
		clipboard.WriteAll(oldClip)
	}

	return nil
}

// platformType synthesizes one keyboard event per UTF-16 unit. The character
// rides on the event as a Unicode string, so virtual keycodes and the active
// keyboard layout never matter.
func platformType(ctx context.Context, text string) error {
	units := utf16.Encode([]rune(text))
	for i, u := range units {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := postUnicodeKeystroke(u); err != nil {
			return err
		}
		// Pace the events so the focused app keeps up
		if i < len(units)-1 {
			time.Sleep(10 * time.Millisecond)
		}
	}
	return nil
}

func postUnicodeKeystroke(unit uint16) error {
	source := C.CGEventSourceCreate(C.kCGEventSourceStateHIDSystemState)
	if source == 0 {
		return fmt.Errorf("failed to create event source")
	}
	defer C.CFRelease(C.CFTypeRef(source))

	event := C.CGEventCreateKeyboardEvent(source, 0, true)
	if event == 0 {
		return fmt.Errorf("failed to create keyboard event")
	}
	defer C.CFRelease(C.CFTypeRef(event))

	ch := C.UniChar(unit)
	C.CGEventKeyboardSetUnicodeString(event, 1, &ch)
	C.CGEventPost(C.kCGHIDEventTap, event)

	// Reuse the same event for the key-up edge
	C.CGEventSetType(event, C.kCGEventKeyUp)
	C.CGEventPost(C.kCGHIDEventTap, event)
	return nil
}
