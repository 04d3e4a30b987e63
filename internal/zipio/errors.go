package zipio

import "fmt"

// SecurityError reports an explicit reader limit being exceeded.
type SecurityError struct {
	Limit  string
	Detail string
}

func (e *SecurityError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("security: %s limit exceeded", e.Limit)
	}
	return fmt.Sprintf("security: %s limit exceeded: %s", e.Limit, e.Detail)
}

func newSecurityError(limit, detail string) error {
	return &SecurityError{Limit: limit, Detail: detail}
}
