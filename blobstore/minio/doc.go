// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is an S3-compatible object storage system. This package uses the
// official MinIO Go client library and also works with other S3-compatible
// services such as Ceph, SeaweedFS and Garage.
//
// # Basic Usage
//
//	store, err := minio.New("localhost:9000", "arrays",
//	    minio.WithCredentials("minioadmin", "minioadmin"),
//	    minio.WithPrefix("prod/"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.EnsureBucket(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	_, err = snapshot.Save(ctx, store, arr)
package minio
