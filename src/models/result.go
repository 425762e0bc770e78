package models

import (
	"encoding/json"
	"fmt"
)

// -----------------------------------------------------------------------------
// Tagged request result
// -----------------------------------------------------------------------------

type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultHTTPError
	ResultNetworkFailure
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultHTTPError:
		return "http_error"
	case ResultNetworkFailure:
		return "network_failure"
	}
	return "unknown"
}

// MResult is Ok(status, data) | HttpError(status) | NetworkFailure(err).
type MResult struct {
	Kind   ResultKind
	Status int
	Data   json.RawMessage
	Err    error
}

func Ok(status int, data json.RawMessage) MResult {
	return MResult{Kind: ResultOK, Status: status, Data: data}
}

func HTTPError(status int) MResult {
	return MResult{Kind: ResultHTTPError, Status: status, Err: fmt.Errorf("bad status: %d", status)}
}

func NetworkFailure(err error) MResult {
	return MResult{Kind: ResultNetworkFailure, Err: err}
}

// Success reports whether the request produced a payload.
func (r MResult) Success() bool {
	return r.Kind == ResultOK
}

// Decode unmarshals the payload of a successful result into v.
func (r MResult) Decode(v interface{}) error {
	if r.Kind != ResultOK {
		return fmt.Errorf("no payload in %s result: %v", r.Kind, r.Err)
	}
	return json.Unmarshal(r.Data, v)
}
