package media

import "fmt"

// FrequencyUnitsPerKHz is the resolution of the tuner API: every
// frequency crossing the Device interface is in 1/16 kHz units.
const FrequencyUnitsPerKHz = 16

// TunerType classifies a tuner.
type TunerType int

// TunerRadio is an FM broadcast radio tuner.
const TunerRadio TunerType = iota + 1

// Tuner capability flags.
const (
	// TunerCapLow marks tuners reporting frequencies in 1/16 kHz units
	// instead of 1/16 MHz.
	TunerCapLow uint32 = 1 << iota

	// TunerCapStereo marks tuners able to receive stereo.
	TunerCapStereo
)

// AudioCapStereo marks audio inputs carrying a stereo signal.
const AudioCapStereo uint32 = 1 << 0

// Subchannels reports which subchannels a tuner currently receives.
// Both bits at once means the tuner does not know yet.
type Subchannels uint8

const (
	SubMono Subchannels = 1 << iota
	SubStereo
)

// AudioMode is the audio reception mode of a tuner.
type AudioMode int

const (
	AudioModeMono AudioMode = iota
	AudioModeStereo
)

// Deemphasis selects the audio de-emphasis time constant matching the
// broadcast standard of the region.
type Deemphasis int32

const (
	DeemphasisDisabled Deemphasis = iota
	Deemphasis50us
	Deemphasis75us
)

func (de Deemphasis) String() string {
	switch de {
	case DeemphasisDisabled:
		return "disabled"
	case Deemphasis50us:
		return "50 µs"
	case Deemphasis75us:
		return "75 µs"
	default:
		return fmt.Sprintf("Deemphasis(%d)", int32(de))
	}
}

// AudioInfo describes one audio input of a device.
type AudioInfo struct {
	Name       string
	Capability uint32
	Mode       uint32
}

// TunerInfo describes one tuner of a device together with its current
// reception state.
type TunerInfo struct {
	Name       string
	Type       TunerType
	Capability uint32

	// RangeLow and RangeHigh bound the tunable range, in 1/16 kHz units.
	RangeLow  uint32
	RangeHigh uint32

	RxSubchans Subchannels
	AudMode    AudioMode

	// Signal is the signal strength scaled into the full 16-bit range.
	Signal uint16

	// AFC is the automatic frequency control offset.
	AFC int32
}

// Device is the surface a tuner driver exposes to the host.
type Device interface {
	// AudioInfo describes the audio input with the given index.
	AudioInfo(index int) (AudioInfo, error)

	// TunerInfo describes the tuner with the given index together with
	// its current reception state.
	TunerInfo(index int) (TunerInfo, error)

	// SetTunerFrequency tunes the given tuner to a frequency in
	// 1/16 kHz units.
	SetTunerFrequency(tuner int, freq uint32) error
}
