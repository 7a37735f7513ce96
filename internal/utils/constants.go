package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

const (
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "ctxgen execution failed"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// CodeFence opens and closes every rendered block.
	CodeFence = "```"
	// PathMarkerPrefix precedes the display path inside a rendered file block.
	PathMarkerPrefix = "// Path: "
	// EnvironmentPrefix namespaces environment overrides for CLI defaults.
	EnvironmentPrefix = "CTXGEN"
	// DotEnvFileName is the optional environment file read at startup.
	DotEnvFileName = ".env"
)
