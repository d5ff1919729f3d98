package model

import "time"

// LogLevel is the severity of a processing log entry.
type LogLevel string

// Log level constants.
const (
	LevelInfo    LogLevel = "INFO"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
)

// ProcessingLogEntry is one decision recorded while processing a file.
type ProcessingLogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
	Level     LogLevel       `json:"level"`
	Message   string         `json:"message"`
}
