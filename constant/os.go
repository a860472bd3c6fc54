package constant

// Platform identifiers matched against runtime.GOOS for terminal handling.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
