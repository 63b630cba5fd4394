package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// initPortAudio initializes PortAudio and returns the backend hooks the engine
// runs against. Streams are opened in the device's native format; conversion
// to the target format happens at drain time, not in the callback.
func initPortAudio() (openStreamFunc, listDevicesFunc, func(), error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, nil, nil, err
	}

	terminate := func() { portaudio.Terminate() }

	return openPortAudioStream, listPortAudioDevices, terminate, nil
}

func listPortAudioDevices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	defaultDevice, _ := portaudio.DefaultInputDevice()

	result := make([]Device, 0, len(devices))
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, Device{
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}
	return result, nil
}

func openPortAudioStream(deviceName string, process func([]float32)) (stream, Format, error) {
	var device *portaudio.DeviceInfo
	if deviceName == "" {
		d, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, Format{}, fmt.Errorf("%w: no default input device: %v", ErrDeviceOpen, err)
		}
		device = d
	} else {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, Format{}, fmt.Errorf("%w: %v", ErrDeviceEnumeration, err)
		}
		for _, d := range devices {
			if d.Name == deviceName && d.MaxInputChannels > 0 {
				device = d
				break
			}
		}
		if device == nil {
			return nil, Format{}, fmt.Errorf("%w: %q", ErrDeviceNotFound, deviceName)
		}
	}

	format := Format{
		SampleRate: int(device.DefaultSampleRate),
		Channels:   device.MaxInputChannels,
	}

	s, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: format.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(format.SampleRate),
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}, process)
	if err != nil {
		return nil, Format{}, fmt.Errorf("%w: %v", ErrDeviceOpen, err)
	}

	return s, format, nil
}
