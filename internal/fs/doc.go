// Package fs provides the file system seam used by file-backed disks and the
// local blob store.
//
//   - [LocalFS]: the os package
//   - [FaultyFS]: wraps another FileSystem and injects read, write and sync
//     failures into matching files, for exercising device error paths
//
// Operations take no context: local file I/O is not interruptible at the
// syscall level. Remote storage goes through blobstore instead.
package fs
