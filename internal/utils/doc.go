// Package utils exposes reusable helpers consumed by the CLI.
//
// ConfigurationLoader layers embedded defaults, an optional YAML file and
// RELEASECUT_* environment variables through Viper; LoggerFactory builds the
// zap loggers used for diagnostics and operator-facing console output.
package utils
