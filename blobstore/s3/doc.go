// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("arrays/prod/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	_, err = snapshot.Save(ctx, store, arr)
//
// For concurrent writers, wrap the store in a DDBCommitStore so that updating
// CURRENT is a conditional DynamoDB write instead of a blind S3 overwrite:
//
//	commits, err := s3.OpenCommitStore(ctx, "my-bucket", "mdadm-commits")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads with CRC32C checksums through the S3 transfer manager
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
