// Package grouping consolidates per-media-file video records into operations.
//
// The Explorer export returns one record per camera feed; a single surgical
// procedure often produces several overlapping feeds. Group partitions a
// flat record list into operations: a lone feed passes through unchanged,
// while feeds that share procedure, room, case date, and surgeon list and
// that sit within an hour of each other collapse into one consolidated
// operation carrying all segments.
//
// Grouping is pure and idempotent. It sorts an internal copy of the input,
// so callers may pass records in any order, and it never mutates the
// records it is given. Malformed timestamps degrade to a permissive merge
// rather than an error; the only error surfaced is ErrInvalidInput for
// records missing required fields.
package grouping
