package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

var (
	ErrUnavailable = errors.New("sharing service unavailable")
	ErrStoreOpen   = errors.New("failed to open note store")
)

// APIError is a non-2xx answer from the sharing service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sharing service: %s (status %d)", e.Message, e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case common.ErrorNotFound:
		return e.StatusCode == http.StatusNotFound
	case common.ErrAlreadyExists:
		return e.StatusCode == http.StatusConflict
	}
	return false
}
