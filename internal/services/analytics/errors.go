package analytics

import (
	"errors"

	"CryptoSeason/internal/domain/models"
	xhttp "CryptoSeason/pkg/http"
)

// FetchFailedMessage is the only text ever shown to users for a failed fetch.
const FetchFailedMessage = "Failed to fetch data. Please try again later."

// FetchError reports a failed analysis request. Error() is user-facing;
// the technical cause is available through Unwrap.
type FetchError struct {
	Asset  models.Asset
	Status int // HTTP status when the server answered, 0 otherwise
	Err    error
}

func (e *FetchError) Error() string { return FetchFailedMessage }

func (e *FetchError) Unwrap() error { return e.Err }

// Cause describes the underlying failure for logs.
func (e *FetchError) Cause() string {
	if e.Err == nil {
		return "unknown"
	}
	return e.Err.Error()
}

func newFetchError(asset models.Asset, err error) *FetchError {
	fe := &FetchError{Asset: asset, Err: err}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		fe.Status = se.Code
	}
	return fe
}

// IsFetchError reports whether err is (or wraps) a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
