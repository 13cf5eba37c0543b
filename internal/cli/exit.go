package cli

import "fmt"

// ExitError asks main to terminate with Code. Anything worth saying has
// already been written by the time it is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
