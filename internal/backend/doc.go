// Package backend forwards commands to the local backend process that
// ships alongside the desktop shell.
package backend
