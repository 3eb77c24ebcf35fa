package storage

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

var ErrCacheMiss = errors.New("cache miss")

// Error describes a failed object store call. StatusCode, RequestID and
// Header are filled when the backend reports them.
type Error struct {
	Provider   string
	Op         string
	Key        string
	StatusCode int
	RequestID  string
	Header     http.Header
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s %q: status %d: %v", e.Provider, e.Op, e.Key, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s %q: %v", e.Provider, e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("storage_provider", e.Provider),
		zap.String("storage_op", e.Op),
		zap.String("storage_key", e.Key),
	}
	if e.StatusCode != 0 {
		fields = append(fields, zap.Int("storage_status", e.StatusCode))
	}
	if e.RequestID != "" {
		fields = append(fields, zap.String("storage_request_id", e.RequestID))
	}
	if len(e.Header) > 0 {
		fields = append(fields, zap.Any("storage_headers", e.Header))
	}
	return fields
}

// ErrorFields returns the log fields of a storage Error anywhere in err's
// chain, or nil.
func ErrorFields(err error) []zap.Field {
	var se *Error
	if errors.As(err, &se) {
		return se.Fields()
	}
	return nil
}

var requestIDHeaders = []string{"X-Guploader-Uploadid", "X-Goog-Request-Id", "X-Request-Id", "Sb-Request-Id"}

func newError(provider, op, key string, err error) *Error {
	se := &Error{Provider: provider, Op: op, Key: key, Err: err}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		se.StatusCode = apiErr.Code
		se.Header = apiErr.Header
		for _, h := range requestIDHeaders {
			if id := apiErr.Header.Get(h); id != "" {
				se.RequestID = id
				break
			}
		}
	}
	return se
}
