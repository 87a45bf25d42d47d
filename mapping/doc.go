// Package mapping resolves which PDOs and sync managers carry the SDO
// entries an application needs cyclically, and hands out the typed
// Fields addressing them inside the domain image.
//
// Usage is a one-shot, pre-activation sequence per slave:
//   - declare entries with Registry.Require
//   - call Resolver.Resolve once per slave; it enumerates the slave's
//     static PDO/sync-manager inventories, solves the packing, writes
//     the configuration through the driver and registers every entry
//   - obtain Fields with FieldFor and use them cyclically after
//     activation
//
// Resolution is deterministic: identical requirements and inventories
// produce the identical solution. It is not safe for concurrent calls
// against the same Resolver; distinct slaves on distinct Resolvers may
// resolve in parallel.
package mapping
