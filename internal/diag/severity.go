package diag

// Severity orders diagnostics from informational to fatal.
type Severity uint8

const (
	// SevInfo marks facts about the input that need no action, such as an
	// empty program.
	SevInfo Severity = iota
	// SevWarning is for anomalies that do not stop decoding.
	SevWarning
	// SevError means no tree is produced for the file.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// AtLeast reports whether s is as severe as floor or more.
func (s Severity) AtLeast(floor Severity) bool {
	return s >= floor
}
