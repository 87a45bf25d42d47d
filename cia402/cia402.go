// Package cia402 mirrors the CiA 402 drive profile ABI: standard
// object addresses, operation modes and the fixed bit layouts of the
// control and status words.
package cia402

import (
	"fmt"

	"github.com/fieldio/ecat"
	"github.com/fieldio/ecat/bitfield"
)

// Standard object dictionary indices of a CiA 402 servo drive.
const (
	ObjErrorCode       uint16 = 0x603F
	ObjControlWord     uint16 = 0x6040
	ObjStatusWord      uint16 = 0x6041
	ObjModeRequest     uint16 = 0x6060
	ObjModeDisplay     uint16 = 0x6061
	ObjPositionActual  uint16 = 0x6064
	ObjVelocityActual  uint16 = 0x606C
	ObjTargetTorque    uint16 = 0x6071
	ObjTorqueActual    uint16 = 0x6077
	ObjTargetPosition  uint16 = 0x607A
	ObjMaxVelocity     uint16 = 0x607F
	ObjProfileVelocity uint16 = 0x6081
	ObjProfileAccel    uint16 = 0x6083
	ObjProfileDecel    uint16 = 0x6084
	ObjTargetVelocity  uint16 = 0x60FF
)

// Obj returns the complete-access SDO address of a drive object.
func Obj(index uint16) ecat.Sdo { return ecat.SdoComplete(index) }

// OperationMode is the motion control loop a drive runs. Only a few of
// them are usually implemented by one drive.
type OperationMode int8

const (
	ModeOff                  OperationMode = 0
	ModeProfilePosition      OperationMode = 1
	ModeVelocity             OperationMode = 2
	ModeProfileVelocity      OperationMode = 3
	ModeTorqueProfile        OperationMode = 4
	ModeHoming               OperationMode = 6
	ModeInterpolatedPosition OperationMode = 7
	ModeSyncPosition         OperationMode = 8
	ModeSyncVelocity         OperationMode = 9
	ModeSyncTorque           OperationMode = 10
	ModeSyncTorqueCommutated OperationMode = 11
)

func (m OperationMode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeProfilePosition:
		return "profile position"
	case ModeVelocity:
		return "velocity"
	case ModeProfileVelocity:
		return "profile velocity"
	case ModeTorqueProfile:
		return "torque profile"
	case ModeHoming:
		return "homing"
	case ModeInterpolatedPosition:
		return "interpolated position"
	case ModeSyncPosition:
		return "synchronous position"
	case ModeSyncVelocity:
		return "synchronous velocity"
	case ModeSyncTorque:
		return "synchronous torque"
	case ModeSyncTorqueCommutated:
		return "synchronous torque with commutation"
	default:
		return fmt.Sprintf("OperationMode(%d)", int8(m))
	}
}

// Control word bit masks (object 0x6040).
const (
	CwSwitchOn        uint16 = 1 << 0
	CwEnableVoltage   uint16 = 1 << 1
	CwQuickStop       uint16 = 1 << 2
	CwEnableOperation uint16 = 1 << 3
	CwFaultReset      uint16 = 1 << 7
	CwHalt            uint16 = 1 << 8
)

// CwEnableOp is the canonical "operation enabled" command: switch on,
// voltage enabled, quick stop inactive, operation enabled.
const CwEnableOp = CwSwitchOn | CwEnableVoltage | CwQuickStop | CwEnableOperation

// Status word bit masks (object 0x6041).
const (
	SwReadyToSwitchOn  uint16 = 1 << 0
	SwSwitchedOn       uint16 = 1 << 1
	SwOperationEnabled uint16 = 1 << 2
	SwFault            uint16 = 1 << 3
	SwVoltageEnabled   uint16 = 1 << 4
	SwQuickStop        uint16 = 1 << 5
	SwSwitchOnDisabled uint16 = 1 << 6
	SwWarning          uint16 = 1 << 7
	SwTargetReached    uint16 = 1 << 10
)

// ControlWord is the fixed flag layout of object 0x6040 at a byte
// offset in the domain image.
type ControlWord struct {
	Word bitfield.Word16
}

// ControlWordAt places the layout at the byte offset of a registered
// control word field.
func ControlWordAt(byteOff int) ControlWord {
	return ControlWord{Word: bitfield.Word16{Byte: byteOff}}
}

func (c ControlWord) SwitchOn() bitfield.Flag        { return c.Word.FlagAt(0) }
func (c ControlWord) EnableVoltage() bitfield.Flag   { return c.Word.FlagAt(1) }
func (c ControlWord) QuickStop() bitfield.Flag       { return c.Word.FlagAt(2) }
func (c ControlWord) EnableOperation() bitfield.Flag { return c.Word.FlagAt(3) }
func (c ControlWord) FaultReset() bitfield.Flag      { return c.Word.FlagAt(7) }
func (c ControlWord) Halt() bitfield.Flag            { return c.Word.FlagAt(8) }

// Enable drives the word to the operation-enabled command.
func (c ControlWord) Enable(data []byte) {
	c.Word.Store(data, CwEnableOp)
}

// StatusWord is the fixed flag layout of object 0x6041.
type StatusWord struct {
	Word bitfield.Word16
}

// StatusWordAt places the layout at the byte offset of a registered
// status word field.
func StatusWordAt(byteOff int) StatusWord {
	return StatusWord{Word: bitfield.Word16{Byte: byteOff}}
}

func (s StatusWord) ReadyToSwitchOn() bitfield.Flag  { return s.Word.FlagAt(0) }
func (s StatusWord) SwitchedOn() bitfield.Flag       { return s.Word.FlagAt(1) }
func (s StatusWord) OperationEnabled() bitfield.Flag { return s.Word.FlagAt(2) }
func (s StatusWord) Fault() bitfield.Flag            { return s.Word.FlagAt(3) }
func (s StatusWord) VoltageEnabled() bitfield.Flag   { return s.Word.FlagAt(4) }
func (s StatusWord) SwitchOnDisabled() bitfield.Flag { return s.Word.FlagAt(6) }
func (s StatusWord) Warning() bitfield.Flag          { return s.Word.FlagAt(7) }
func (s StatusWord) TargetReached() bitfield.Flag    { return s.Word.FlagAt(10) }

// Operational reports whether the drive reached operation enabled
// without fault.
func (s StatusWord) Operational(data []byte) bool {
	return s.Word.Test(data, SwOperationEnabled) && !s.Fault().Get(data)
}
