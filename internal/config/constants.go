package config

// Version is the current oric version.
// Set at build time via -ldflags, or by writing to this file.
var Version = "0.1.0"

const SourceFileExt = ".ori"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".ori"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates the process is running under `go test`. No code in
// this module sets or reads it.
var IsTestMode = false

// IsLSPMode indicates the process is running as a long-lived language
// server rather than a one-shot CLI invocation. No code in this module
// sets or reads it.
var IsLSPMode = false

// Option/Result constructor and type names of the two built-in 2-variant
// enums.
const (
	OptionTypeName = "Option"
	ResultTypeName = "Result"
	SomeCtorName   = "Some"
	NoneCtorName   = "None"
	OkCtorName     = "Ok"
	ErrCtorName    = "Err"
)
