package utils

import "fmt"

// XError carries a reason plus whatever context helps diagnose a bad record.
type XError struct {
	Reason string
	Meta   any
}

func (xe XError) ToError() error {
	return fmt.Errorf("xerror: %v\nmeta: %v", xe.Reason, xe.Meta)
}
