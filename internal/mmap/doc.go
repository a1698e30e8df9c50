// Package mmap maps disk-array image files into memory.
//
//	m, err := mmap.OpenWritable("array.img", 1<<20)
//	if err != nil { ... }
//	defer m.Close()
//
//	disk3, _ := m.Region(3*65536, 65536)
//	disk3.WriteAt(block, 17*256)
//	m.Sync()
//
// Writable mappings are MAP_SHARED, so stores reach the file; Sync forces them
// out. Open maps read-only.
//
// Unix uses mmap(2)/msync(2)/madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile/FlushViewOfFile and ignores access hints.
//
// Close is idempotent. Callers must not touch Bytes after Close returns.
package mmap
