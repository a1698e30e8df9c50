// Package mdadm provides a linear block controller over a JBOD device.
//
// The device is sixteen disks of 64 KiB, addressed in 256-byte blocks through
// a single 32-bit command word (package jbod). The Controller hides the disk
// and block geometry behind one 1 MiB address space and keeps a fixed-capacity
// LRU cache of whole blocks (package cache) in front of the device.
//
// # Quick Start
//
//	arr := device.New()
//	ctrl, _ := mdadm.New(arr, mdadm.WithCacheCapacity(64))
//	defer ctrl.Close(ctx)
//
//	_ = ctrl.Mount(ctx)
//	_, _ = ctrl.Write(ctx, 65535, 2, []byte{0xAA, 0xBB}) // spans disks 0 and 1
//	buf := make([]byte, 2)
//	_, _ = ctrl.Read(ctx, 65535, 2, buf)
//
// # Transfers
//
// Read and Write accept at most jbod.MaxTransfer bytes and must stay inside
// [0, jbod.MaxAddress). Arguments are checked before any device command is
// issued. Writes are read-modify-write per block, so neighbouring bytes of a
// partially covered block survive.
//
// # Persistence
//
// The device package simulates the array on memory, per-disk image files or a
// memory-mapped image. Package snapshot saves and restores its written blocks
// to any blobstore.BlobStore (local directory, S3, MinIO).
//
// # Errors
//
// Every error wraps one of ErrInvalidArgument, ErrInvalidState, ErrNotFound or
// ErrAlreadyPresent. Device failures are returned as *DeviceError.
package mdadm
