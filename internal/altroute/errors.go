package altroute

import "fmt"

// errErrorResponse describes an error response in the logs.
type errErrorResponse struct {
	httpCode int
}

// Error implements error.
func (err *errErrorResponse) Error() string {
	return fmt.Sprintf("error response: %d", err.httpCode)
}
