//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework AVFoundation -framework Cocoa
#import <AVFoundation/AVFoundation.h>
#import <Cocoa/Cocoa.h>

int micAuthStatus() {
    return (int)[AVCaptureDevice authorizationStatusForMediaType:AVMediaTypeAudio];
}

void requestMicAccess() {
    [AVCaptureDevice requestAccessForMediaType:AVMediaTypeAudio completionHandler:^(BOOL granted) {}];
}

// Shows the system prompt on first call via kAXTrustedCheckOptionPrompt.
int axTrusted() {
    NSDictionary *options = @{(__bridge id)kAXTrustedCheckOptionPrompt: @YES};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}
*/
import "C"

import (
	"errors"
	"fmt"
)

// AVAuthorizationStatus values.
type micStatus int

const (
	micNotDetermined micStatus = iota
	micRestricted
	micDenied
	micAuthorized
)

// EnsurePermissions verifies the two grants the app cannot work without:
// microphone access for capture and accessibility access for the global
// hotkey monitor. A missing grant triggers the system prompt and returns an
// error; the user relaunches after approving.
func EnsurePermissions() error {
	if status := micStatus(C.micAuthStatus()); status != micAuthorized {
		fmt.Println("⚠️  Microphone permission required for push-to-talk capture")
		if status == micNotDetermined {
			C.requestMicAccess()
		}
		return errors.New("microphone permission not granted")
	}

	if C.axTrusted() != 1 {
		fmt.Println("⚠️  Accessibility permission required for the push-to-talk hotkey")
		fmt.Println("   Go to: System Settings → Privacy & Security → Accessibility")
		return errors.New("accessibility permission not granted")
	}

	return nil
}
