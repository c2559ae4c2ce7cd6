// Package storage provides object storage abstractions with pluggable
// backends.
//
// The transcription runner stages audio and collects job results through the
// Storage interface, so the same code path works against a bucket in the
// cloud or a directory on disk.
//
// # Backends
//
//   - storage/s3: Amazon S3 and S3-compatible storage
//   - storage/local: local filesystem storage for development and tests
//
// # Configuration
//
//	storage:
//	  provider: "s3"
//	  bucket: "asr-eval"
//	  region: "eu-west-1"
package storage
