package api

// Environment variables read by the nanofuse host tool (through
// cmdhelper.LoadConfig). nanofsctl takes its settings from its own
// flags and does not read them; blockfs itself never reads the
// environment.
const (
	// LogLevelEnv sets the log level: error, warning, basic, or debug.
	LogLevelEnv = "NANOFS_LOG_LEVEL"
	// ConfigFileEnv points at a YAML config file for nanofuse.
	ConfigFileEnv = "NANOFS_CONFIG_FILE"
)

// FSType is the value go-fuse reports as the filesystem type in
// /proc/self/mountinfo for a nanofuse mount, used by the mountinfo
// package to recognize our own mounts among a host's other mounts.
const FSType = "fuse.nanofuse"
