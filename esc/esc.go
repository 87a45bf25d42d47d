// Package esc holds register addresses of the EtherCAT Slave
// Controller ABI. The mapping layer never touches these registers
// itself; they parameterize drivers and simulations that model the
// slave side.
package esc

// Identity and capability registers.
const (
	Type                 = 0x0000
	Revision             = 0x0001
	Build                = 0x0002
	FMMUsSupported       = 0x0004
	RAMSize              = 0x0006
	PortDescriptor       = 0x0007
	FeaturesSupported    = 0x0008
	ConfiguredStationAdr = 0x0010
	ConfiguredStationAls = 0x0012
)

// Data-link and application-layer registers.
const (
	DLControl    = 0x0100
	DLStatus     = 0x0110
	ALControl    = 0x0120
	ALStatus     = 0x0130
	ALStatusCode = 0x0134
	PDIControl   = 0x0140
)

// FMMU and sync manager channel blocks.
const (
	FMMUBase = 0x0600

	SyncManagerBase    = 0x0800
	SyncManagerChanLen = 0x08
	SmPhysStartAddrOff = 0x00
	SmLengthOff        = 0x02
	SmControlOff       = 0x04
	SmStatusOff        = 0x05
	SmActivateOff      = 0x06
	SmPDIControlOff    = 0x07
)

// SmPhysAddr returns the register address of sync manager channel idx.
func SmPhysAddr(idx uint8) uint16 {
	return SyncManagerBase + uint16(idx)*SyncManagerChanLen
}
