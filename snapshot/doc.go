// Package snapshot saves and restores the contents of a JBOD array to a
// blobstore.BlobStore.
//
// Only blocks that were ever written are stored. Each disk with written
// blocks becomes one image blob:
//
//	[magic "JBODIMG1"][compression u8][reserved 3][bitmapLen u32]
//	[roaring bitmap of written blocks][compressed payload]
//
// The payload is the written blocks concatenated in block order, framed by
// internal/compress. A manifest lists the disk images of a snapshot, and the
// CURRENT blob names the manifest of the latest snapshot:
//
//	snapshots/<id>/disk-NN.img
//	snapshots/<id>/MANIFEST
//	CURRENT
//
// CURRENT is written last, so a crashed Save never becomes visible. With an
// s3.DDBCommitStore the CURRENT update is a conditional DynamoDB write.
//
// Save and Restore read and write blocks directly, without moving the device
// cursor. Callers must not run controller reads or writes concurrently.
package snapshot
