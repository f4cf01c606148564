package config

// Default configuration values.
const (
	DefaultRulesFile       = ""
	DefaultOutputExtension = ".tsx"
	DefaultOutputInPlace   = false
	DefaultReportFormat    = "text"
	DefaultReportColor     = ColorAuto
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "text"
	DefaultMetricsTextfile = ""
)

// Report color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Accepted values of the enumerated settings.
var (
	ReportFormats = []string{"text", "json", "yaml"}
	ColorModes    = []string{ColorAuto, ColorAlways, ColorNever}
	LogLevels     = []string{"debug", "info", "warn", "error"}
	LogFormats    = []string{"text", "json"}
)
