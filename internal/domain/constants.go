package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// MaxHistoryAnalysisRecords is the maximum number of records to analyze for stats
	MaxHistoryAnalysisRecords = 1000
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format for persisted records
	TimestampFormat = time.RFC3339Nano
	// DisplayTimestampFormat is the timestamp format shown to the user
	DisplayTimestampFormat = "2006-01-02 15:04:05"
)

// REPL constants
const (
	// DefaultPrompt is the interactive prompt shown when none is configured
	DefaultPrompt = "calc> "
)
