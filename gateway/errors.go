package gateway

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"google.golang.org/api/googleapi"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpAppend Operation = "append"
	OpWrite  Operation = "write"
)

// RemoteOperationError reports a failed Sheets API call along with the operation and range.
type RemoteOperationError struct {
	Op    Operation
	Range string
	Err   error
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("%v '%v' failed (%v)", e.Op, e.Range, e.Err)
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}

// IsUnauthorized returns true if the error is a Sheets API 401, i.e. the credential has
// been revoked or has expired.
func IsUnauthorized(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusUnauthorized
	}

	return false
}

// IsRateLimited returns true if the error is a Sheets API 429.
func IsRateLimited(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}

	return false
}
