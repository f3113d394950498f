// Package radio implements the driver for the RDA5807 single-chip FM
// radio receiver.
//
// The main implementation is under the RDA5807Driver and it requires
// some additional configuration via the RDA5807Config structure. The
// driver exposes the receiver to the media package as a tuner device
// with three controls: mute, volume and de-emphasis.
//
// The RDA5807 has three ways of accessing its registers:
//     - I2C address 0x10: sequential access, RDA5800 style
//     - I2C address 0x11: random access
//     - I2C address 0x60: sequential access, TEA5767 compatible
// This driver uses random access, so the chip has to answer on
// address 0x11.
//
// To read about the register map of the receiver, see the RDA5807M
// programming guide published by RDA Microelectronics.
package radio

import (
	"fmt"
	"sync"

	"fmtuner/media"

	"github.com/hashicorp/go-multierror"
	"gobot.io/x/gobot"
	"gobot.io/x/gobot/drivers/i2c"
)

// RDA5807Driver holds the implementation to talk to the RDA5807 FM radio
// receiver over I2C.
//
// The chip is the only place register values live: the driver keeps no
// cache and every field change is a read-modify-write against the device,
// so bits outside the changed field are never disturbed.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers
type RDA5807Driver struct {
	name string

	i2cAddr      int
	conn         i2c.Connection
	i2cConnector i2c.Connector
	i2c.Config

	// mu serializes every read-modify-write sequence and every compound
	// control operation on this device session, so two concurrent
	// control changes can never interleave their register updates.
	mu sync.Mutex

	ctrls    *media.Handler
	registry *media.Registry

	startupFreqKHz uint32

	debugMode bool
	debugLog  func(format string, v ...interface{})
	log       func(format string, v ...interface{})
}

var _ media.Device = (*RDA5807Driver)(nil)

// Name of our device.
func (d *RDA5807Driver) Name() string {
	return d.name
}

// SetName set the name of our device.
func (d *RDA5807Driver) SetName(name string) {
	d.name = name
}

// Connection retrieves the i2c connection to the device.
func (d *RDA5807Driver) Connection() gobot.Connection {
	return d.i2cConnector.(gobot.Connection)
}

// Controls returns the control set registered for this device. It is nil
// until Start has probed the chip.
func (d *RDA5807Driver) Controls() *media.Handler {
	return d.ctrls
}

// Start probes the chip and brings the tuner online: it verifies the
// chip ID, registers the control set and the tuner device, and pushes
// the declared default control values to the chip.
func (d *RDA5807Driver) Start() error {
	bus := d.GetBusOrDefault(d.i2cConnector.GetDefaultBus())
	var err error
	d.conn, err = d.i2cConnector.GetConnection(d.GetAddressOrDefault(d.i2cAddr), bus)
	if err != nil {
		return err
	}

	chipid, err := d.readReg(REG_CHIPID)
	if err != nil {
		return fmt.Errorf("failed to read chip ID: %w", err)
	}
	if chipid&0xFF00 != CHIPID_FAMILY<<8 {
		return fmt.Errorf("%w: expected %02Xxx, got %04X", ErrDeviceMismatch, CHIPID_FAMILY, chipid)
	}
	d.log("Found FM radio receiver\n")

	ctrls := media.NewHandler()
	ctrls.NewBoolCtrl(media.CtrlAudioMute, "Mute", true, d.SetMuted)
	ctrls.NewIntCtrl(media.CtrlAudioVolume, "Volume", VolumeMin, VolumeMax, 1, 8,
		func(val int32) error { return d.SetVolume(int(val)) })
	ctrls.NewMenuCtrl(media.CtrlDeemphasis, "De-emphasis",
		int32(media.Deemphasis75us), 1<<uint(media.DeemphasisDisabled),
		int32(media.Deemphasis75us),
		func(val int32) error { return d.SetDeemphasis(media.Deemphasis(val)) })
	if err = ctrls.Err(); err != nil {
		return fmt.Errorf("failed to init controls: %w", err)
	}

	if err = d.registry.Register(d.name, d); err != nil {
		return err
	}
	d.ctrls = ctrls

	if err = ctrls.Setup(); err != nil {
		_ = d.registry.Unregister(d.name)
		d.ctrls = nil
		return fmt.Errorf("failed to set default control values: %w", err)
	}

	if d.startupFreqKHz != 0 {
		return d.SetFrequency(d.startupFreqKHz)
	}
	return nil
}

// Halt releases the device session. Removal causes no register traffic:
// the chip keeps whatever state it currently has.
func (d *RDA5807Driver) Halt() error {
	var result *multierror.Error
	if d.ctrls != nil {
		if err := d.registry.Unregister(d.name); err != nil {
			result = multierror.Append(result, err)
		}
		d.ctrls.Free()
		d.ctrls = nil
	}
	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		d.conn = nil
	}
	return result.ErrorOrNil()
}

// Suspend powers the receiver down. All other control bits stay as they
// are, so Resume can pick up where the session left off.
func (d *RDA5807Driver) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setEnabled(false)
}

// Resume powers the receiver back up, unless the mute control says it
// would be inaudible anyway, in which case the chip stays down and no
// bus traffic happens.
func (d *RDA5807Driver) Resume() error {
	muted, err := d.ctrls.Value(media.CtrlAudioMute)
	if err != nil {
		return err
	}
	if muted != 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setEnabled(true)
}

// readReg reads the 16-bit contents of a register: a one byte write of
// the register number followed by a two byte big-endian read.
func (d *RDA5807Driver) readReg(reg uint8) (uint16, error) {
	n, err := d.conn.Write([]byte{reg})
	if err != nil {
		return 0, err
	}
	if n != 1 {
		return 0, fmt.Errorf("%w: wrote %d of 1 byte of register number 0x%02X", ErrTransport, n, reg)
	}

	buf := make([]byte, 2)
	n, err = d.conn.Read(buf)
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, fmt.Errorf("%w: read %d of %d bytes from register 0x%02X", ErrTransport, n, len(buf), reg)
	}

	val := uint16(buf[0])<<8 | uint16(buf[1])
	if d.debugMode {
		d.debugLog("reg[%02X] = %04X\n", reg, val)
	}
	return val, nil
}

// writeReg writes a 16-bit register value in a single transaction:
// register number, high byte, low byte.
func (d *RDA5807Driver) writeReg(reg uint8, val uint16) error {
	buf := []byte{reg, uint8(val >> 8), uint8(val & 0xFF)}
	n, err := d.conn.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("%w: wrote %d of %d bytes to register 0x%02X", ErrTransport, n, len(buf), reg)
	}

	if d.debugMode {
		d.debugLog("reg[%02X] := %04X\n", reg, val)
	}
	return nil
}

// updateReg merges val into the bits of a register selected by mask.
// Bits outside the mask keep the value they currently have on the chip.
func (d *RDA5807Driver) updateReg(reg uint8, mask, val uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateRegLocked(reg, mask, val)
}

// updateRegLocked is updateReg for callers already holding d.mu, so a
// compound operation can keep the lock across several updates.
func (d *RDA5807Driver) updateRegLocked(reg uint8, mask, val uint16) error {
	cur, err := d.readReg(reg)
	if err != nil {
		return err
	}
	return d.writeReg(reg, (val&mask)|(cur&^mask))
}

// setEnabled powers the receiver up or down. Callers hold d.mu.
func (d *RDA5807Driver) setEnabled(enabled bool) error {
	var val uint16
	if enabled {
		val = MASK_CTRL_ENABLE
	}
	d.log("set enabled to %t\n", enabled)
	return d.updateRegLocked(REG_CTRL, MASK_CTRL_ENABLE, val)
}

// setMuted drives the mute disable bit: the bit is set while audible.
// Callers hold d.mu.
func (d *RDA5807Driver) setMuted(muted bool) error {
	var val uint16
	if !muted {
		val = MASK_CTRL_DMUTE
	}
	d.log("set mute to %t\n", muted)
	return d.updateRegLocked(REG_CTRL, MASK_CTRL_DMUTE, val)
}

// SetMuted mutes or unmutes the receiver. The receiver is additionally
// disabled while muted, to save power. The mute bit write is attempted
// even when the enable write fails, and the enable write's error takes
// priority over the mute write's own.
//
// TODO: The chip cannot seek while disabled; revisit the disable once
//       hardware seek is exposed.
func (d *RDA5807Driver) SetMuted(muted bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err1 := d.setEnabled(!muted)
	err2 := d.setMuted(muted)
	if err1 != nil {
		return err1
	}
	return err2
}

// SetVolume sets the DAC volume, from 0 (softest) to 15 (loudest).
func (d *RDA5807Driver) SetVolume(volume int) error {
	if volume < VolumeMin || volume > VolumeMax {
		return fmt.Errorf("%w: volume %d not in %d ... %d", ErrRange, volume, VolumeMin, VolumeMax)
	}

	d.log("set volume to %d\n", volume)
	return d.updateReg(REG_INTM_THRESH_VOL, MASK_VOLUME_DAC,
		uint16(volume)<<SHIFT_VOLUME_DAC)
}

// SetDeemphasis selects the de-emphasis time constant. The chip knows
// 50 µs (bit set) and 75 µs (bit clear).
func (d *RDA5807Driver) SetDeemphasis(de media.Deemphasis) error {
	var val uint16
	if de == media.Deemphasis50us {
		val = MASK_DEEMPHASIS
	}

	d.log("set de-emphasis to %v\n", de)
	return d.updateReg(REG_IOCFG, MASK_DEEMPHASIS, val)
}

// SetFrequency tunes the receiver to a frequency in kHz, rounded to the
// nearest 50 kHz channel. Frequencies outside the FM band fail before
// any bus traffic happens.
func (d *RDA5807Driver) SetFrequency(freqKHz uint32) error {
	d.log("set freq to %d kHz\n", freqKHz)

	if freqKHz < FreqMinKHz || freqKHz > FreqMaxKHz {
		return fmt.Errorf("%w: %d kHz not in %d kHz ... %d kHz bounds", ErrRange, freqKHz, FreqMinKHz, FreqMaxKHz)
	}

	var mask, val uint16

	// select widest band
	mask |= MASK_CHAN_BAND
	val |= 2 << SHIFT_CHAN_BAND
	// select 50 kHz channel spacing
	mask |= MASK_CHAN_SPACE
	val |= 2 << SHIFT_CHAN_SPACE
	// select frequency
	mask |= MASK_CHAN_WRCHAN
	val |= ChannelIndex(freqKHz) << SHIFT_CHAN_WRCHAN
	// start tune operation
	mask |= MASK_CHAN_TUNE
	val |= MASK_CHAN_TUNE

	return d.updateReg(REG_CHAN, mask, val)
}

// AudioInfo describes the single audio input of the receiver.
func (d *RDA5807Driver) AudioInfo(index int) (media.AudioInfo, error) {
	if index != 0 {
		return media.AudioInfo{}, media.ErrInvalidIndex
	}

	return media.AudioInfo{
		Name:       "Radio",
		Capability: media.AudioCapStereo,
	}, nil
}

// TunerInfo describes the single tuner of the receiver together with
// its current stereo indication and signal strength.
func (d *RDA5807Driver) TunerInfo(index int) (media.TunerInfo, error) {
	if index != 0 {
		return media.TunerInfo{}, media.ErrInvalidIndex
	}

	rxsub, signal, err := d.tunerStatus()
	if err != nil {
		return media.TunerInfo{}, err
	}

	return media.TunerInfo{
		Name:       "FM",
		Type:       media.TunerRadio,
		Capability: media.TunerCapLow | media.TunerCapStereo,
		RangeLow:   FreqMinKHz * media.FrequencyUnitsPerKHz,
		RangeHigh:  FreqMaxKHz * media.FrequencyUnitsPerKHz,
		RxSubchans: rxsub,
		// TODO: Implement forced mono (MASK_CTRL_MONO).
		AudMode: media.AudioModeStereo,
		Signal:  signal,
		AFC:     0,
	}, nil
}

// tunerStatus decodes the seek result and signal registers. Both reads
// happen under the session lock, so no concurrent register write can
// tear the status apart.
func (d *RDA5807Driver) tunerStatus() (media.Subchannels, uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	seekres, err := d.readReg(REG_SEEK_RESULT)
	if err != nil {
		return 0, 0, err
	}
	var rxsub media.Subchannels
	if seekres&(MASK_SEEKRES_COMPLETE|MASK_SEEKRES_FAIL) == MASK_SEEKRES_COMPLETE {
		// mono/stereo known
		if seekres&MASK_SEEKRES_STEREO != 0 {
			rxsub = media.SubStereo
		} else {
			rxsub = media.SubMono
		}
	} else {
		// mono/stereo unknown
		rxsub = media.SubMono | media.SubStereo
	}

	sig, err := d.readReg(REG_SIGNAL)
	if err != nil {
		return 0, 0, err
	}
	rssi := (sig & MASK_RSSI) >> SHIFT_RSSI

	// scale the 7-bit RSSI into the high bits of the 16-bit signal value
	return rxsub, rssi << (16 - 7), nil
}

// SetTunerFrequency tunes the receiver, with the frequency given in the
// media framework's 1/16 kHz units.
func (d *RDA5807Driver) SetTunerFrequency(tuner int, freq uint32) error {
	if tuner != 0 {
		return media.ErrInvalidIndex
	}

	return d.SetFrequency(freq * 625 / 10000)
}

// RDA5807Config holds the additional configuration needed for the
// RDA5807Driver.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers
type RDA5807Config struct {
	// StartupFrequencyKHz, when non-zero, is tuned right after the
	// default control values have been pushed to the chip.
	StartupFrequencyKHz uint32

	// Registry receives the tuner device registration during Start.
	Registry *media.Registry

	DebugMode bool
	DebugLog  func(format string, v ...interface{})
	Log       func(format string, v ...interface{})
}

// Validate ensures that our RDA5807Driver configuration is valid.
//
//noinspection GoUnnecessarilyExportedIdentifiers
func (c *RDA5807Config) Validate() error {
	if c.Log == nil {
		panic("logging function cannot be nil. Use something like log.Printf or an empty function instead")
	}
	if c.DebugMode && c.DebugLog == nil {
		panic("cannot use debugging mode without configuring a DebugLog function, e.g. log.Printf")
	}

	if c.Registry == nil {
		return fmt.Errorf("a media registry is required to expose the tuner")
	}

	if c.StartupFrequencyKHz != 0 &&
		(c.StartupFrequencyKHz < FreqMinKHz || c.StartupFrequencyKHz > FreqMaxKHz) {
		return fmt.Errorf("startup frequency not in %d kHz ... %d kHz bounds", FreqMinKHz, FreqMaxKHz)
	}

	return nil
}

// NewRDA5807Driver creates a new GoBot driver for our FM receiver.
func NewRDA5807Driver(connector i2c.Connector, cfg RDA5807Config, options ...func(i2c.Config)) (*RDA5807Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &RDA5807Driver{
		name:         gobot.DefaultName("RDA5807Driver"),
		i2cConnector: connector,
		Config:       i2c.NewConfig(),
		i2cAddr:      Address,

		registry:       cfg.Registry,
		startupFreqKHz: cfg.StartupFrequencyKHz,
		debugMode:      cfg.DebugMode,
		debugLog:       cfg.DebugLog,
		log:            cfg.Log,
	}

	for _, option := range options {
		option(res)
	}

	return res, nil
}
