//go:build linux

package hotkey

/*
#cgo pkg-config: x11 xtst
#include <X11/Xlib.h>
#include <X11/keysym.h>
#include <X11/extensions/XTest.h>
#include <stdlib.h>

Display* displayPtr = NULL;

int grabKey(int keycode, int modifiers) {
    if (displayPtr == NULL) {
        displayPtr = XOpenDisplay(NULL);
    }
    if (displayPtr == NULL) return 0;

    Window root = DefaultRootWindow(displayPtr);
    XGrabKey(displayPtr, keycode, modifiers, root, False, GrabModeAsync, GrabModeAsync);
    XSelectInput(displayPtr, root, KeyPressMask | KeyReleaseMask);
    XSync(displayPtr, False);

    return 1;
}

int checkEvent(int* keycode, int* pressed) {
    if (displayPtr == NULL) return 0;

    XEvent event;
    if (XPending(displayPtr) > 0) {
        XNextEvent(displayPtr, &event);
        if (event.type == KeyPress || event.type == KeyRelease) {
            *keycode = event.xkey.keycode;
            *pressed = (event.type == KeyPress) ? 1 : 0;
            return 1;
        }
    }
    return 0;
}
*/
import "C"

import (
	"fmt"
	"time"
)

// Keycodes for a standard pc105 layout, limited to keys that make sense as a
// push-to-talk chord.
var x11Keycodes = map[string]int{
	"space": 65,
	"f1":    67,
	"f2":    68,
	"f3":    69,
	"f4":    70,
	"f5":    71,
	"f6":    72,
	"f7":    73,
	"f8":    74,
	"f9":    75,
	"f10":   76,
	"f11":   95,
	"f12":   96,
}

var x11ModMasks = map[string]int{
	"shift":   1,  // ShiftMask
	"ctrl":    4,  // ControlMask
	"control": 4,
	"alt":     8,  // Mod1Mask
	"super":   64, // Mod4Mask
}

type linuxManager struct {
	callbacks *callbackRegistry
	stop      chan struct{}
}

// New creates a new Linux hotkey manager using X11
func New() (Manager, error) {
	mgr := &linuxManager{
		callbacks: newCallbackRegistry(),
		stop:      make(chan struct{}),
	}

	go mgr.eventLoop()

	return mgr, nil
}

func (m *linuxManager) Register(accel string, callback func(pressed bool)) error {
	c, err := parseAccel(accel)
	if err != nil {
		return err
	}

	keycode, ok := x11Keycodes[c.key]
	if !ok {
		return fmt.Errorf("unsupported key %q in accelerator %q", c.key, accel)
	}

	modifiers := 0
	for _, mod := range c.mods {
		mask, ok := x11ModMasks[mod]
		if !ok {
			return fmt.Errorf("unsupported modifier %q in accelerator %q", mod, accel)
		}
		modifiers |= mask
	}

	if C.grabKey(C.int(keycode), C.int(modifiers)) == 0 {
		return fmt.Errorf("failed to grab key for %q", accel)
	}

	m.callbacks.set(keycode, callback)
	return nil
}

func (m *linuxManager) eventLoop() {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			var keycode, pressed C.int
			if C.checkEvent(&keycode, &pressed) != 0 {
				if cb, ok := m.callbacks.get(int(keycode)); ok {
					cb(pressed == 1)
				}
			}
		}
	}
}

func (m *linuxManager) Unregister(accel string) error {
	// TODO: XUngrabKey implementation
	return nil
}

func (m *linuxManager) Close() error {
	close(m.stop)
	return nil
}
