// Package device provides an in-process JBOD disk array that executes
// jbod command words.
//
// The array behaves like the hardware it stands in for: it must be mounted
// before use, SEEK_TO_DISK and SEEK_TO_BLOCK position a cursor, and each
// READ_BLOCK or WRITE_BLOCK transfers one block at the cursor and advances it
// to the next block.
//
//	arr := device.New()                                   // in-memory disks
//	arr := device.New(device.WithStorage(st))             // file or mmap backed
//
//	_ = arr.Execute(ctx, jbod.Encode(jbod.Mount, 0, 0), nil)
//
// Besides the command interface, an Array tracks which blocks were ever
// written (a roaring bitmap per disk), counts commands, and can record a trace
// of every command it executed. Snapshots use ReadBlockAt, WriteBlockAt and
// Written to copy array contents without disturbing the cursor.
package device
