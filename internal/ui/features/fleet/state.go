package fleet

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/haulwise/tmsadmin/internal/listing"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// stateParam carries the encoded table state between requests.
const stateParam = "state"

// ErrBadState is returned for table state that cannot be decoded.
var ErrBadState = errors.New("invalid table state")

// EncodeState serializes table state into a URL-safe token.
func EncodeState(s datatable.State) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode table state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeState parses a token made by EncodeState. An empty token is the
// zero state.
func DecodeState(token string) (datatable.State, error) {
	var s datatable.State
	if token == "" {
		return s, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrBadState, err)
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("%w: %v", ErrBadState, err)
	}
	return s, nil
}

// queryState reads the state of a list page link. A state token wins over
// the readable parameters page (1-based), size, sort (col[:desc]) and q.
func queryState(q url.Values) (datatable.State, error) {
	if token := q.Get(stateParam); token != "" {
		return DecodeState(token)
	}
	var s datatable.State
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return s, fmt.Errorf("%w: page %q", ErrBadState, v)
		}
		s.Pagination.PageIndex = n - 1
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return s, fmt.Errorf("%w: size %q", ErrBadState, v)
		}
		s.Pagination.PageSize = n
	}
	sorting, err := listing.ParseSort(q.Get("sort"))
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrBadState, err)
	}
	s.Sorting = sorting
	s.GlobalFilter = q.Get("q")
	return s, nil
}
