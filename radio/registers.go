package radio

// Device addresses.
//
// The RDA5807 answers on three I2C addresses, each with its own register
// access style. This driver needs random access, so the chip has to be
// reachable at 0x11.
//
//goland:noinspection GoUnusedConst,GoUnnecessarilyExportedIdentifiers
const (
	// Address is the device address for random register access,
	// the mode this driver uses.
	Address = 0x11

	// SequentialAddress is the RDA5800 style sequential access address.
	SequentialAddress = 0x10

	// CompatAddress is the TEA5767 compatible sequential access address.
	CompatAddress = 0x60
)

// The 16-bit registers this driver works with.
//
//goland:noinspection GoUnusedConst,GoUnnecessarilyExportedIdentifiers,GoSnakeCaseUsage
const (
	// REG_CHIPID identifies the chip. The high byte carries the family
	// marker checked during probe.
	REG_CHIPID uint8 = 0x00

	// REG_CTRL holds the main control bits: power, mute, mono, bass
	// boost, seek and reset.
	REG_CTRL uint8 = 0x02

	// REG_CHAN selects band, channel spacing and channel, and triggers
	// a tune operation.
	REG_CHAN uint8 = 0x03

	// REG_IOCFG configures I/O behaviour, among it the de-emphasis
	// time constant.
	REG_IOCFG uint8 = 0x04

	// REG_INTM_THRESH_VOL mixes interrupt mode, seek SNR threshold and
	// the DAC volume into one register.
	REG_INTM_THRESH_VOL uint8 = 0x05

	// REG_SEEK_RESULT reports the outcome of a tune or seek operation
	// and the currently received channel.
	REG_SEEK_RESULT uint8 = 0x0A

	// REG_SIGNAL reports the received signal strength.
	REG_SIGNAL uint8 = 0x0B
)

// CHIPID_FAMILY is the chip ID high byte shared by the RDA58xx family.
//
//goland:noinspection GoSnakeCaseUsage
const CHIPID_FAMILY uint16 = 0x58

// REG_CTRL bits.
//
//goland:noinspection GoUnusedConst,GoUnnecessarilyExportedIdentifiers,GoSnakeCaseUsage
const (
	// MASK_CTRL_DHIZ takes the audio output out of high impedance.
	MASK_CTRL_DHIZ uint16 = 1 << 15

	// MASK_CTRL_DMUTE disables mute: the bit is set while audible.
	MASK_CTRL_DMUTE uint16 = 1 << 14

	// MASK_CTRL_MONO forces mono reception.
	MASK_CTRL_MONO uint16 = 1 << 13

	// MASK_CTRL_BASS enables bass boost.
	MASK_CTRL_BASS uint16 = 1 << 12

	// MASK_CTRL_SEEKUP selects the seek direction.
	MASK_CTRL_SEEKUP uint16 = 1 << 9

	// MASK_CTRL_SEEK starts a hardware seek.
	MASK_CTRL_SEEK uint16 = 1 << 8

	// MASK_CTRL_SKMODE stops a seek at the band limit instead of
	// wrapping around.
	MASK_CTRL_SKMODE uint16 = 1 << 7

	// MASK_CTRL_CLKMODE selects the reference clock frequency.
	MASK_CTRL_CLKMODE uint16 = 7 << 4

	// MASK_CTRL_SOFTRESET resets all registers to their defaults.
	MASK_CTRL_SOFTRESET uint16 = 1 << 1

	// MASK_CTRL_ENABLE powers the receiver up.
	MASK_CTRL_ENABLE uint16 = 1 << 0
)

// REG_CHAN fields.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers,GoSnakeCaseUsage
const (
	// SHIFT_CHAN_WRCHAN and MASK_CHAN_WRCHAN place the 10-bit channel
	// index to tune to.
	SHIFT_CHAN_WRCHAN        = 6
	MASK_CHAN_WRCHAN  uint16 = 0x3FF << SHIFT_CHAN_WRCHAN

	// MASK_CHAN_TUNE triggers a tune operation when written.
	MASK_CHAN_TUNE uint16 = 1 << 4

	// SHIFT_CHAN_BAND and MASK_CHAN_BAND select the frequency band.
	SHIFT_CHAN_BAND        = 2
	MASK_CHAN_BAND  uint16 = 0x3 << SHIFT_CHAN_BAND

	// SHIFT_CHAN_SPACE and MASK_CHAN_SPACE select the channel spacing.
	SHIFT_CHAN_SPACE        = 0
	MASK_CHAN_SPACE  uint16 = 0x3 << SHIFT_CHAN_SPACE
)

// REG_SEEK_RESULT bits.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers,GoSnakeCaseUsage
const (
	// MASK_SEEKRES_COMPLETE is set once a tune or seek operation has
	// finished.
	MASK_SEEKRES_COMPLETE uint16 = 1 << 14

	// MASK_SEEKRES_FAIL is set when a seek found no station.
	MASK_SEEKRES_FAIL uint16 = 1 << 13

	// MASK_SEEKRES_STEREO is set while a stereo signal is received.
	MASK_SEEKRES_STEREO uint16 = 1 << 10
)

// MASK_DEEMPHASIS selects the de-emphasis time constant in REG_IOCFG:
// set means 50 µs, clear means 75 µs.
//
//goland:noinspection GoSnakeCaseUsage
const MASK_DEEMPHASIS uint16 = 1 << 11

// DAC volume field in REG_INTM_THRESH_VOL.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers,GoSnakeCaseUsage
const (
	SHIFT_VOLUME_DAC        = 0
	MASK_VOLUME_DAC  uint16 = 0xF << SHIFT_VOLUME_DAC
)

// RSSI field in REG_SIGNAL.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers,GoSnakeCaseUsage
const (
	SHIFT_RSSI        = 9
	MASK_RSSI  uint16 = 0x7F << SHIFT_RSSI
)

// FM band limits with the widest band selected, in kHz.
const (
	FreqMinKHz = 76000
	FreqMaxKHz = 108000
)

// Volume range of the DAC volume field.
const (
	VolumeMin = 0
	VolumeMax = 15
)

// ChannelIndex converts a frequency in kHz to the channel index written
// to REG_CHAN, assuming the widest band and 50 kHz channel spacing. The
// frequency is rounded to the nearest channel.
func ChannelIndex(freqKHz uint32) uint16 {
	return uint16((freqKHz - FreqMinKHz + 25) / 50)
}

// ChannelFreqKHz is the inverse of ChannelIndex: the frequency in kHz
// of a channel index.
func ChannelFreqKHz(index uint16) uint32 {
	return FreqMinKHz + uint32(index)*50
}
