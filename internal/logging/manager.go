package logging

import (
	"fmt"
	"sync"

	"hireflow/internal/config"
)

// NewFromConfig builds a logger from the logging section. Without any
// enabled adapter it logs to stdout in the configured format.
func NewFromConfig(cfg config.LoggingConfig) (*MultiLogger, error) {
	logger := NewMultiLogger()
	logger.SetLevel(ParseLogLevel(cfg.Level))

	enabled := 0
	for _, ac := range cfg.Adapters {
		if !ac.Enabled {
			continue
		}
		adapter, err := CreateAdapter(ac)
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("failed to create adapter %s: %w", ac.Name, err)
		}
		if err := logger.AddAdapter(adapter); err != nil {
			adapter.Close()
			logger.Close()
			return nil, fmt.Errorf("failed to add adapter %s: %w", ac.Name, err)
		}
		enabled++
	}

	if enabled == 0 {
		logger.AddAdapter(NewStdoutAdapter("stdout", StdoutConfig{Format: cfg.Format}))
	}

	return logger, nil
}

// CreateAdapter creates a logging adapter from its configuration
func CreateAdapter(ac config.AdapterConfig) (LogAdapter, error) {
	switch ac.Type {
	case "stdout":
		return NewStdoutAdapter(ac.Name, StdoutConfig{
			Format:    getStringOption(ac.Options, "format", "json"),
			Colorized: getBoolOption(ac.Options, "colorized", false),
		}), nil
	case "file":
		return NewFileAdapter(ac.Name, FileConfig{
			FilePath:   getStringOption(ac.Options, "file_path", ""),
			Format:     getStringOption(ac.Options, "format", "json"),
			MaxSize:    int64(getIntOption(ac.Options, "max_size", 0)),
			MaxBackups: getIntOption(ac.Options, "max_backups", 10),
			Compress:   getBoolOption(ac.Options, "compress", false),
		})
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", ac.Type)
	}
}

var (
	globalMu     sync.RWMutex
	globalLogger *MultiLogger
)

// InitializeLogging installs the global logger from configuration
func InitializeLogging(cfg config.LoggingConfig) error {
	logger, err := NewFromConfig(cfg)
	if err != nil {
		return err
	}

	globalMu.Lock()
	previous := globalLogger
	globalLogger = logger
	globalMu.Unlock()

	if previous != nil {
		previous.Close()
	}
	return nil
}

// GetGlobalLogger returns the global logger, falling back to JSON on stdout
// when logging has not been initialized
func GetGlobalLogger() Logger {
	globalMu.RLock()
	logger := globalLogger
	globalMu.RUnlock()
	if logger != nil {
		return logger
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewMultiLogger()
		globalLogger.AddAdapter(NewStdoutAdapter("fallback_stdout", StdoutConfig{Format: "json"}))
	}
	return globalLogger
}

// CloseLogging closes the global logger
func CloseLogging() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger == nil {
		return nil
	}
	err := globalLogger.Close()
	globalLogger = nil
	return err
}

// LogWithRequestID returns the global logger tagged with a request id
func LogWithRequestID(requestID string) Logger {
	return GetGlobalLogger().WithField("request_id", requestID)
}

func getStringOption(options map[string]interface{}, key string, defaultValue string) string {
	if str, ok := options[key].(string); ok {
		return str
	}
	return defaultValue
}

func getIntOption(options map[string]interface{}, key string, defaultValue int) int {
	switch v := options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultValue
}

func getBoolOption(options map[string]interface{}, key string, defaultValue bool) bool {
	if b, ok := options[key].(bool); ok {
		return b
	}
	return defaultValue
}
