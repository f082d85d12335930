// Package s3store pulls exported video objects out of the media bucket.
// It wraps the AWS SDK behind a small interface so tests can substitute
// a fake object API, and it checks local disk headroom before starting
// a batch of downloads.
package s3store
