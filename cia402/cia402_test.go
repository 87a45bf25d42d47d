package cia402

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObj(t *testing.T) {
	sdo := Obj(ObjControlWord)
	assert.Equal(t, uint16(0x6040), sdo.Index)
	assert.True(t, sdo.Complete)
}

func TestControlWordEnable(t *testing.T) {
	data := make([]byte, 4)
	cw := ControlWordAt(1)

	cw.Enable(data)
	assert.Equal(t, CwEnableOp, cw.Word.Load(data))
	assert.True(t, cw.SwitchOn().Get(data))
	assert.True(t, cw.EnableVoltage().Get(data))
	assert.True(t, cw.QuickStop().Get(data))
	assert.True(t, cw.EnableOperation().Get(data))
	assert.False(t, cw.FaultReset().Get(data))
	assert.False(t, cw.Halt().Get(data))
}

func TestControlWordHaltCrossesBytes(t *testing.T) {
	data := make([]byte, 2)
	cw := ControlWordAt(0)

	cw.Halt().Set(data)
	assert.Equal(t, CwHalt, cw.Word.Load(data))
	assert.Equal(t, byte(0x01), data[1], "halt is bit 8, second byte")
}

func TestStatusWordOperational(t *testing.T) {
	data := make([]byte, 2)
	sw := StatusWordAt(0)

	assert.False(t, sw.Operational(data))

	sw.Word.Store(data, SwReadyToSwitchOn|SwSwitchedOn|SwOperationEnabled|SwVoltageEnabled)
	assert.True(t, sw.Operational(data))
	assert.True(t, sw.SwitchedOn().Get(data))
	assert.False(t, sw.TargetReached().Get(data))

	sw.Fault().Set(data)
	assert.False(t, sw.Operational(data))
}

func TestOperationModeString(t *testing.T) {
	assert.Equal(t, "profile position", ModeProfilePosition.String())
	assert.Equal(t, "synchronous torque", ModeSyncTorque.String())
	assert.Equal(t, "OperationMode(5)", OperationMode(5).String())
}
