// Package errors holds the typed domain errors returned to callers.
package errors

// DomainError is an expected, caller-recoverable failure identified by a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
