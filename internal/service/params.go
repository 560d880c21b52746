package service

import "time"

// DigitParams is the input of SetDigits. Present is false when the request had no num parameter.
type DigitParams struct {
	Num     string
	Present bool
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "MODE_CHANGE", "DISPLAY_SET", "CLOCK_UPDATE", "ERROR"
}
