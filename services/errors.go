package services

// ServiceError is a typed error with an HTTP status code. Validation and
// missing-precondition failures carry 4xx codes and are user-correctable;
// upstream/storage failures carry 5xx codes and are retryable.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }
