// Package drive wraps the Google Drive API for read-only file listing,
// search, and metadata lookup.
package drive
