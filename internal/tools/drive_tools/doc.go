// Package drive_tools provides read-only commands for browsing and
// searching Google Drive files.
package drive_tools
