// Package testutil provides testing utilities for the controller packages.
//
// This package is intended for use in tests, benchmarks and examples only.
// It provides a deterministic random source for transfers and a flat model
// of the address space to check controller reads against.
//
// # Random Transfers
//
//	rng := testutil.NewRNG(seed)
//	addr, length := rng.Transfer(jbod.MaxTransfer)
//	data := rng.Bytes(int(length))
//
// # Hot Blocks
//
//	addr, length := rng.HotTransfer(64, 1.5) // Zipfian over 64 blocks
//
// # Ground Truth
//
//	shadow := testutil.NewShadow()
//	shadow.Write(addr, data)
//	want := shadow.Read(addr, length)
package testutil
