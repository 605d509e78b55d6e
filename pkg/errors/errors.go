package errors

// Error message constants for the imports-order application
const (
	// File processing errors
	ErrMsgFailedToReadFile       = "failed to read file"
	ErrMsgFailedToParseFile      = "failed to parse file"
	ErrMsgFailedToFormatFile     = "failed to format file"
	ErrMsgFailedToWriteFile      = "failed to write file"
	ErrMsgFailedToCheckImports   = "failed to check imports"
	ErrMsgFailedToResolveProfile = "failed to resolve profile"
	ErrMsgUnsupportedFileType    = "unsupported file type"
	ErrMsgNonContiguousImports   = "import statements are not contiguous"

	// Directory processing errors
	ErrMsgFailedToCheckPath       = "failed to check path"
	ErrMsgFailedToFindSourceFiles = "failed to find source files in directory"
	ErrMsgFailedToExpandGlob      = "failed to expand glob pattern"
	ErrMsgFilesFailedToProcess    = "%d files failed to process"
	ErrMsgViolationsFound         = "%d import order violations found"

	// Configuration errors
	ErrMsgFailedToReadConfig   = "failed to read config"
	ErrMsgFailedToDecodeConfig = "failed to decode config"
	ErrMsgFailedToWriteConfig  = "failed to write config"
	ErrMsgUnknownProfile       = "unknown profile"
	ErrMsgReservedProfile      = "profile name is empty or reserved"
	ErrMsgDuplicateProfile     = "duplicate profile"
	ErrMsgUnknownMatchKind     = "unknown match kind"
	ErrMsgInvalidPattern       = "invalid pattern"
	ErrMsgEmptyOrder           = "category order is empty"
	ErrMsgDuplicateCategory    = "duplicate category in order"
	ErrMsgUndefinedCategory    = "category is not part of the order"
	ErrMsgReservedCategory     = "category name is reserved"
	ErrMsgMissingMatcher       = "rule has no matcher"
	ErrMsgUnsupportedVersion   = "unsupported config version"
	ErrMsgUnknownFormat        = "unknown output format"

	// Watch errors
	ErrMsgFailedToStartWatcher = "failed to start watcher"

	// Info messages
	InfoMsgNoSourceFilesFound = "No source files found in: %s"
	InfoMsgProcessedFiles     = "Rewrote: %s"
	InfoMsgProcessedCount     = "Checked %d files"
	InfoMsgErrorCount         = ", %d files had errors"
	InfoMsgViolationCount     = ", %d violations"
	InfoMsgWatching           = "Watching %s for changes (Ctrl+C to stop)"
	InfoMsgConfigWritten      = "Wrote %s"
)
