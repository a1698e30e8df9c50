// Package blobstore provides the storage abstraction snapshots are written to.
//
// A BlobStore holds named, immutable blobs. Put replaces a blob atomically, so
// readers observe either the old or the new content. Implementations must be
// safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process, for tests and ephemeral arrays
//   - LocalStore: a local directory, atomic temp-file-and-rename writes
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - s3.DDBCommitStore: any BlobStore plus a DynamoDB commit log for CURRENT
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
