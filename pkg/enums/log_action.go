package enums

import "fmt"

// LogAction maps to the log_action enum in Postgres.
type LogAction string

const (
	LogActionAdd    LogAction = "ADD"
	LogActionRemove LogAction = "REMOVE"
	LogActionUpdate LogAction = "UPDATE"
)

var validLogActions = []LogAction{
	LogActionAdd,
	LogActionRemove,
	LogActionUpdate,
}

// IsValid reports whether the value matches the canonical log action enum.
func (a LogAction) IsValid() bool {
	for _, candidate := range validLogActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseLogAction converts raw input into LogAction.
func ParseLogAction(value string) (LogAction, error) {
	for _, candidate := range validLogActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid log action %q", value)
}
