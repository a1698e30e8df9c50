// Package jbod defines the wire contract between the mdadm controller and a
// JBOD disk array.
//
// The array is 16 independent disks of 64 KiB each, divided into 256-byte
// blocks. Every interaction with the array is a single synchronous call that
// carries a 32-bit command word and, for block transfers, exactly one
// BlockSize buffer:
//
//	op := jbod.Encode(jbod.SeekToDisk, 3, 0)
//	err := dev.Execute(ctx, op, nil)
//
// # Command Word
//
//	bits 31-26  command
//	bits 25-22  disk id
//	bits 21-8   reserved (zero)
//	bits 7-0    block id
//
// READ_BLOCK and WRITE_BLOCK operate on the array's current disk/block cursor,
// which prior SEEK_TO_DISK and SEEK_TO_BLOCK commands establish. A transfer
// advances the block cursor by one.
package jbod
