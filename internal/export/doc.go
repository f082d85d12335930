// Package export writes the toolkit's JSON artifacts: sharing manifests
// built from the local catalog, flattened metadata exports from the
// Explorer API, and consolidated operation listings. All files are
// written atomically so a crashed run never leaves a truncated artifact.
package export
