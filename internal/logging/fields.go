package logging

// Field names for structured logging.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Request fields.
	FieldMode       = "mode"
	FieldLine       = "line"
	FieldColumn     = "column"
	FieldOffset     = "offset"
	FieldScopePath  = "scope_path"
	FieldStatements = "statements"
	FieldBlocks     = "blocks"
	FieldDuration   = "duration"
	FieldURI        = "uri"
	FieldMethod     = "method"

	// Run settings.
	FieldJobs   = "jobs"
	FieldWrite  = "write"
	FieldCheck  = "check"
	FieldFormat = "format"
	FieldIndent = "indent"

	// Run statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesChanged    = "files_changed"
	FieldFilesWritten    = "files_written"
	FieldFilesErrored    = "files_errored"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
