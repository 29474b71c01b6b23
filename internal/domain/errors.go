package domain

import "errors"

// Domain errors represent error conditions in the assetship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrEntryNotFound is returned when a post folder has no entry file.
	ErrEntryNotFound = errors.New("assetship: entry file not found")

	// ErrUnresolved is returned when an image reference cannot be located
	// on disk or over the network.
	ErrUnresolved = errors.New("assetship: unresolved reference")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("assetship: invalid configuration")

	// ErrToolMissing is returned when a required external tool is not installed.
	ErrToolMissing = errors.New("assetship: required tool not found")

	// ErrContentDir is returned when the content directory does not exist.
	ErrContentDir = errors.New("assetship: content directory not found")

	// ErrUnknownProfile is returned for an unsupported migration kind.
	ErrUnknownProfile = errors.New("assetship: unknown migration kind")
)
