// Package explorer wraps the vendor's Explorer export API.
//
// The client authenticates with OAuth client credentials against the
// accounts endpoint, caches the bearer token with an expiry leeway, and
// posts date-ranged export requests to the Explorer endpoint. FlattenCases
// turns the per-case response into the per-media-file records the rest of
// the toolkit works with, parsing S3 locators and substituting the "N/A"
// placeholder for absent fields.
package explorer
