package models

// Severity classifies how close an entry is to its arrival time.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityNormal   Severity = "normal"
	SeverityInvalid  Severity = "invalid"
)
