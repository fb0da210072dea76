package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/todo/pkg/apperrors"
)

// ParseJSON decodes a body holding exactly one JSON value into dest.
// Decoding failures and trailing data are 422; a body cut off by
// MaxBytesMiddleware is 413.
func ParseJSON(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return apperrors.Unprocessable("Request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON value")
		}
		return decodeError(err)
	}
	return nil
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.Wrap(apperrors.CodePayloadTooLarge, "Request body too large", err)
	}
	return apperrors.Wrap(apperrors.CodeUnprocessable, "Invalid JSON body", err)
}

// ParsePathInt64 extracts and parses an int64 path parameter
func ParsePathInt64(r *http.Request, key string) (int64, error) {
	str := mux.Vars(r)[key]
	if str == "" {
		return 0, apperrors.Unprocessable(fmt.Sprintf("missing path parameter: %s", key))
	}
	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, apperrors.Unprocessable(fmt.Sprintf("invalid integer for %s: %s", key, str))
	}
	return val, nil
}
