// Package sanitizer normalizes free-text input before validation and storage.
//
// All functions are idempotent.
package sanitizer
