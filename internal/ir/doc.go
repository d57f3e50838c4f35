// Package ir defines the data model shared by the narrative compiler:
// documents, tokens, artifacts, cache entries and validation results,
// plus the content fingerprint used for change detection and
// cross-document artifact deduplication.
package ir
