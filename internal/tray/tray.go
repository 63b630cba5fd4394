package tray

import (
	"context"
	"fmt"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/whisprhq/whispr/internal/audio"
	"github.com/whisprhq/whispr/internal/config"
	"github.com/whisprhq/whispr/internal/session"
)

// Engine is the slice of the capture engine the menu drives.
type Engine interface {
	ListDevices() ([]audio.Device, error)
	SelectDevice(name string) error
	CurrentDeviceName() string
	ConfigureSilenceRemoval(cfg audio.SilenceConfig)
	SetSaveRecordings(dir string)
}

// UI is the tray adapter: it renders session status transitions as the icon
// state and exposes the device and capture toggles from the settings store.
type UI struct {
	engine  Engine
	cfg     *config.Config
	version string
	commit  string
	log     zerolog.Logger

	// Menu items
	mStatus  *systray.MenuItem
	mDevices *systray.MenuItem
	mSilence *systray.MenuItem
	mSave    *systray.MenuItem
}

func New(engine Engine, cfg *config.Config, version, commit string, log zerolog.Logger) *UI {
	return &UI{
		engine:  engine,
		cfg:     cfg,
		version: version,
		commit:  commit,
		log:     log,
	}
}

// Notify implements session.Notifier; it runs on the hotkey goroutine and
// must not block.
func (u *UI) Notify(s session.Status) {
	u.updateStatus(s)
	if u.mStatus != nil {
		u.mStatus.SetTitle(string(s))
	}
}

func (u *UI) Run(ctx context.Context) error {
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	u.updateStatus(session.StatusReady)
	systray.SetTooltip("Push-to-talk dictation")

	u.mStatus = systray.AddMenuItem(string(session.StatusReady), "Session state")
	u.mStatus.Disable()
	systray.AddSeparator()

	u.mDevices = systray.AddMenuItem("Microphone", "Select audio input device")
	u.buildDeviceMenu()

	systray.AddSeparator()
	u.mSilence = systray.AddMenuItemCheckbox("Remove Silence", "Drop silent stretches while recording", u.cfg.Audio.RemoveSilence)
	u.mSave = systray.AddMenuItemCheckbox("Save Recordings", "Keep a WAV file per session", u.cfg.SaveRecordings)

	systray.AddSeparator()
	mAbout := systray.AddMenuItem("About", "About Whispr")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	// Event loop
	go u.handleEvents(mAbout, mQuit)
}

func (u *UI) handleEvents(mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mSilence.ClickedCh:
			u.toggleSilenceRemoval()
		case <-u.mSave.ClickedCh:
			u.toggleSaveRecordings()
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) buildDeviceMenu() {
	devices, err := u.engine.ListDevices()
	if err != nil {
		u.log.Error().Err(err).Msg("Failed to list audio devices")
		u.mDevices.Disable()
		return
	}

	current := u.engine.CurrentDeviceName()
	deviceItems := make(map[string]*systray.MenuItem)

	for _, dev := range devices {
		item := u.mDevices.AddSubMenuItem(dev.Name, "")
		if dev.Name == current || (current == "" && dev.Default) {
			item.Check()
		}
		deviceItems[dev.Name] = item

		go func(name string, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				if err := u.engine.SelectDevice(name); err != nil {
					u.log.Error().Err(err).Str("device", name).Msg("Failed to select device")
					continue
				}
				for n, itm := range deviceItems {
					if n != name {
						itm.Uncheck()
					}
				}
				menuItem.Check()
				u.cfg.Audio.DeviceName = name
				u.cfg.Save()
				u.log.Info().Str("device", name).Msg("Changed audio device")
			}
		}(dev.Name, item)
	}
}

func (u *UI) toggleSilenceRemoval() {
	u.cfg.Audio.RemoveSilence = !u.cfg.Audio.RemoveSilence
	if u.cfg.Audio.RemoveSilence {
		u.mSilence.Check()
	} else {
		u.mSilence.Uncheck()
	}
	// Takes effect at the next session start
	u.engine.ConfigureSilenceRemoval(audio.SilenceConfig{
		Enabled:   u.cfg.Audio.RemoveSilence,
		Threshold: u.cfg.Audio.SilenceThreshold,
		MinRun:    u.cfg.Audio.MinSilenceRun,
	})
	u.cfg.Save()
	u.log.Info().Bool("enabled", u.cfg.Audio.RemoveSilence).Msg("Toggled silence removal")
}

func (u *UI) toggleSaveRecordings() {
	u.cfg.SaveRecordings = !u.cfg.SaveRecordings
	if u.cfg.SaveRecordings {
		u.mSave.Check()
		u.engine.SetSaveRecordings(u.cfg.RecordingsDir)
	} else {
		u.mSave.Uncheck()
		u.engine.SetSaveRecordings("")
	}
	u.cfg.Save()
	u.log.Info().Bool("enabled", u.cfg.SaveRecordings).Msg("Toggled save recordings")
}

func (u *UI) showAbout() {
	fmt.Printf("Whispr %s (%s)\nPush-to-talk dictation\n", u.version, u.commit)
}

func (u *UI) onExit() {
	// Cleanup
}

// updateStatus sets the tray title with microphone emoji and status indicator
func (u *UI) updateStatus(s session.Status) {
	systray.SetTitle(fmt.Sprintf("🎤 %s", emojiForStatus(s)))
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(s session.Status) string {
	switch s {
	case session.StatusListening:
		return "🔴" // Red - capturing
	case session.StatusTranscribing:
		return "🟡" // Yellow - processing transcription
	default:
		return "🟢" // Green - ready
	}
}
