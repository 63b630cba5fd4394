//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework Carbon
#include <Carbon/Carbon.h>

// Forward declaration for Go callback
extern void goHotkeyCallback(int pressed);

// Event handler for hotkeys
static OSStatus hotkeyHandler(EventHandlerCallRef nextHandler, EventRef theEvent, void* userData) {
    EventHotKeyID hkRef;
    GetEventParameter(theEvent, kEventParamDirectObject, typeEventHotKeyID, NULL, sizeof(hkRef), NULL, &hkRef);

    UInt32 eventKind = GetEventKind(theEvent);
    int pressed = (eventKind == kEventHotKeyPressed) ? 1 : 0;

    goHotkeyCallback(pressed);

    return noErr;
}

// Register hotkey with Carbon
static int registerHotkey(UInt32 keyCode, UInt32 modifiers) {
    EventTypeSpec eventTypes[2];
    eventTypes[0].eventClass = kEventClassKeyboard;
    eventTypes[0].eventKind = kEventHotKeyPressed;
    eventTypes[1].eventClass = kEventClassKeyboard;
    eventTypes[1].eventKind = kEventHotKeyReleased;

    EventHandlerUPP handlerUPP = NewEventHandlerUPP(hotkeyHandler);
    InstallApplicationEventHandler(handlerUPP, 2, eventTypes, NULL, NULL);

    EventHotKeyRef hotKeyRef;
    EventHotKeyID hotKeyID;
    hotKeyID.signature = 'htk1';
    hotKeyID.id = 1;

    OSStatus status = RegisterEventHotKey(keyCode, modifiers, hotKeyID, GetApplicationEventTarget(), 0, &hotKeyRef);

    return (status == noErr) ? 1 : 0;
}
*/
import "C"

import (
	"fmt"
)

// Carbon virtual keycodes for the supported chord keys.
var carbonKeycodes = map[string]uint32{
	"space": 49,
	"f1":    122,
	"f2":    120,
	"f3":    99,
	"f4":    118,
	"f5":    96,
	"f6":    97,
	"f7":    98,
	"f8":    100,
	"f9":    101,
	"f10":   109,
	"f11":   103,
	"f12":   111,
}

var carbonModMasks = map[string]uint32{
	"cmd":     0x100, // cmdKey
	"command": 0x100,
	"shift":   0x200, // shiftKey
	"alt":     0x800, // optionKey
	"option":  0x800,
	"ctrl":    0x1000, // controlKey
	"control": 0x1000,
}

type darwinManager struct {
	callback func(bool)
}

var globalManager *darwinManager

// New creates a new macOS hotkey manager using Carbon
func New() (Manager, error) {
	mgr := &darwinManager{}
	return mgr, nil
}

//export goHotkeyCallback
func goHotkeyCallback(pressed C.int) {
	if globalManager != nil && globalManager.callback != nil {
		globalManager.callback(pressed == 1)
	}
}

func (m *darwinManager) Register(accel string, callback func(pressed bool)) error {
	c, err := parseAccel(accel)
	if err != nil {
		return err
	}

	keyCode, ok := carbonKeycodes[c.key]
	if !ok {
		return fmt.Errorf("unsupported key %q in accelerator %q", c.key, accel)
	}

	var modifiers uint32
	for _, mod := range c.mods {
		mask, ok := carbonModMasks[mod]
		if !ok {
			return fmt.Errorf("unsupported modifier %q in accelerator %q", mod, accel)
		}
		modifiers |= mask
	}

	m.callback = callback
	globalManager = m

	if C.registerHotkey(C.UInt32(keyCode), C.UInt32(modifiers)) == 0 {
		return fmt.Errorf("failed to register hotkey %q", accel)
	}

	return nil
}

func (m *darwinManager) Unregister(accel string) error {
	// TODO: UnregisterEventHotKey implementation
	return nil
}

func (m *darwinManager) Close() error {
	globalManager = nil
	return nil
}
