// Package ecat provides the process-data mapping layer of an EtherCAT
// master client in Go.
//
// It includes:
//   - Typed, byte-aligned Field views into the cyclic domain image
//   - SDO addressing (index, sub-index, complete access) and the driver
//     ABI types shared with the realtime master (AL states, sync manager
//     and PDO descriptors, working-counter states)
//   - The Master/SlaveConfig/Domain driver seam and a slog-based
//     logging decorator around it
//
// The realtime master itself (frame scheduling, device scanning, link
// and application-layer state machines) lives behind the Master
// interface and is not implemented here; package sim provides an
// in-memory stand-in for tests, examples and dry runs. Package mapping
// solves how required SDO entries are packed into PDOs and sync
// managers and hands out the resulting Fields.
package ecat
