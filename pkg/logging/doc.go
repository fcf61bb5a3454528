// Package logging provides structured logging utilities for the GPU fleet prober.
//
// # Overview
//
// This package wraps the standard library slog package with prober-specific defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("gpuprobe", "v1.0.0")
//	    defer slog.Info("application started")
//
//	    // Use slog as normal
//	    slog.Info("probing host", "host", "ML-01")
//	    slog.Debug("remote command", "command", cmd)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("gpuprobe", "v2.0.0", "debug")
//	logger.Info("run starting", "hosts", 15)
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("cli", "v1.0.0", "warn")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug gpuprobe probe -c fleet.yaml
//	LOG_LEVEL=error gpuprobe hosts -c fleet.yaml
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "host probed",
//	    "module": "gpuprobe",
//	    "version": "v1.0.0",
//	    "host": "ML-01"
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "prober.(*Prober).probe",
//	        "file": "prober.go",
//	        "line": 142
//	    },
//	    "msg": "dialing host",
//	    "module": "gpuprobe",
//	    "version": "v1.0.0"
//	}
//
// # Best Practices
//
// 1. Set default logger early in main():
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("myapp", version)
//	    defer slog.Info("application started")
//	    // ...
//	}
//
// 2. Include context in log messages:
//
//	slog.Info("host probed",
//	    "host", "ML-01",
//	    "free_cards", 2,
//	    "duration_ms", 812,
//	)
//
// 3. Use appropriate log levels:
//
//	slog.Debug("raw output", "stdout", out) // Development/troubleshooting
//	slog.Info("run complete")               // Normal operations
//	slog.Warn("host unreachable")           // Potential issues
//	slog.Error("inventory invalid")         // Errors requiring action
//
// 4. Log errors with context:
//
//	slog.Error("failed to probe host",
//	    "error", err,
//	    "run_id", runID,
//	    "host", host.Name,
//	)
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging
//   - pkg/prober - Per-host probe logging
//   - pkg/remote - SSH session logging
//   - pkg/inventory - Configuration loading logging
//
// All components share consistent logging format and configuration.
package logging
