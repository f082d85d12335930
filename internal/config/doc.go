// Package config loads, normalizes, and validates toolkit configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CLIENT_ID, CLIENT_SECRET, and S3_BUCKET_NAME. An adjacent .env file is
// loaded first so deployments migrated from the dotenv-based scripts keep
// working unchanged.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
