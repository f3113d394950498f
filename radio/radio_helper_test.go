package radio

import (
	"errors"
	"fmt"
	"sync"

	"gobot.io/x/gobot/drivers/i2c"
)

// regWrite records one 3-byte register write seen on the bus.
type regWrite struct {
	reg uint8
	val uint16
}

// I2CTestAdaptor simulates the register file of an RDA5807 for passing
// i2c messages back and forth. The default read and write
// implementations keep a register map the way the chip would: a 1-byte
// write selects the register, a 2-byte read returns its contents
// big-endian and a 3-byte write stores a new value. Tests override
// i2cReadImpl or i2cWriteImpl to inject failures.
type I2CTestAdaptor struct {
	name string
	mtx  sync.Mutex

	regs    map[uint8]uint16
	lastReg uint8
	writes  []regWrite
	ops     int // bus transactions seen, reads and writes alike

	i2cConnectErr bool
	i2cReadImpl   func(t *I2CTestAdaptor, buff []byte) (int, error)
	i2cWriteImpl  func(t *I2CTestAdaptor, buff []byte) (int, error)
}

func NewI2cTestAdaptor() *I2CTestAdaptor {
	val := &I2CTestAdaptor{
		regs: map[uint8]uint16{
			REG_CHIPID: 0x5804,
		},
	}

	val.i2cReadImpl = func(t *I2CTestAdaptor, buff []byte) (int, error) {
		v := t.regs[t.lastReg]
		if len(buff) >= 2 {
			buff[0] = byte(v >> 8)
			buff[1] = byte(v)
		}
		return len(buff), nil
	}

	val.i2cWriteImpl = func(t *I2CTestAdaptor, buff []byte) (int, error) {
		switch len(buff) {
		case 1:
			t.lastReg = buff[0]
		case 3:
			v := uint16(buff[1])<<8 | uint16(buff[2])
			t.regs[buff[0]] = v
			t.writes = append(t.writes, regWrite{reg: buff[0], val: v})
		default:
			return 0, fmt.Errorf("unexpected %d byte transaction", len(buff))
		}
		return len(buff), nil
	}

	return val
}

// reset forgets the recorded bus traffic, keeping the register values.
func (t *I2CTestAdaptor) reset() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.writes = nil
	t.ops = 0
}

func (t *I2CTestAdaptor) Read(b []byte) (count int, err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.ops++
	return t.i2cReadImpl(t, b)
}

func (t *I2CTestAdaptor) Write(b []byte) (count int, err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.ops++
	return t.i2cWriteImpl(t, b)
}

func (t *I2CTestAdaptor) Close() error {
	return nil
}

func (t *I2CTestAdaptor) ReadByte() (val byte, err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return byte(t.regs[t.lastReg] >> 8), nil
}

func (t *I2CTestAdaptor) ReadByteData( /* reg */ uint8) (val uint8, err error) {
	return 0, errors.New("byte data access not supported")
}

func (t *I2CTestAdaptor) ReadWordData(reg uint8) (val uint16, err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.regs[reg], nil
}

func (t *I2CTestAdaptor) WriteByte(val byte) (err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.lastReg = val
	return nil
}

func (t *I2CTestAdaptor) WriteByteData( /* reg */ uint8, /* val */ uint8) (err error) {
	return errors.New("byte data access not supported")
}

func (t *I2CTestAdaptor) WriteWordData(reg uint8, val uint16) (err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.regs[reg] = val
	return nil
}

func (t *I2CTestAdaptor) WriteBlockData( /* reg */ uint8, /* b */ []byte) (err error) {
	return errors.New("block data access not supported")
}

func (t *I2CTestAdaptor) GetConnection( /* address */ int, /* bus */ int) (connection i2c.Connection, err error) {
	if t.i2cConnectErr {
		return nil, errors.New("invalid i2c connection")
	}
	return t, nil
}

func (t *I2CTestAdaptor) GetDefaultBus() int {
	return 0
}

func (t *I2CTestAdaptor) Name() string          { return t.name }
func (t *I2CTestAdaptor) SetName(n string)      { t.name = n }
func (t *I2CTestAdaptor) Connect() (err error)  { return }
func (t *I2CTestAdaptor) Finalize() (err error) { return }
