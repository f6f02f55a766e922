// Package s3 uploads outputs reports to S3-compatible object storage such as
// Hetzner Object Storage.
//
// The bucket is created on first upload when it does not exist. Objects are
// keyed by stack name and run id so reports of successive runs never collide.
package s3
