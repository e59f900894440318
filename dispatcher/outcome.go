package dispatcher

import (
	"encoding/json"
	"strings"

	nethttp "github.com/kochabx/apiclient/core/net/http"
	"github.com/kochabx/apiclient/errors"
)

// Outcome is what a response (or its absence) turned into. It is one of
// Success, NoContent, SessionExpired, Failure or TransportError.
type Outcome interface {
	// Name is a stable snake_case label, used for logs and metrics
	Name() string
	isOutcome()
}

// Success is a 2xx response with a JSON body
type Success struct {
	Status  int
	Payload any
	Raw     []byte
}

// Decode unmarshals the raw body into v
func (s Success) Decode(v any) error {
	if err := json.Unmarshal(s.Raw, v); err != nil {
		return errors.Decode(s.Status, err)
	}
	return nil
}

// NoContent is a 204 response; no body is read
type NoContent struct{}

// SessionExpired is a 401 on any operation but login. The session has been
// cleared and the user sent to the login view by the time it is returned.
type SessionExpired struct{}

// Failure is any other non-2xx response with a JSON body
type Failure struct {
	Status  int
	Payload any
	Raw     []byte
	// Detail is the message shown when no failure callback is supplied
	Detail string
	Err    *errors.Error
}

// Decode unmarshals the raw error body into v
func (f Failure) Decode(v any) error {
	if err := json.Unmarshal(f.Raw, v); err != nil {
		return errors.Decode(f.Status, err)
	}
	return nil
}

// TransportError means no usable response: the network failed, or the body
// was not JSON. Err.Kind tells the two apart.
type TransportError struct {
	Err *errors.Error
}

func (Success) Name() string        { return "success" }
func (NoContent) Name() string      { return "no_content" }
func (SessionExpired) Name() string { return "session_expired" }
func (Failure) Name() string        { return "failure" }
func (TransportError) Name() string { return "transport_error" }

func (Success) isOutcome()        {}
func (NoContent) isOutcome()      {}
func (SessionExpired) isOutcome() {}
func (Failure) isOutcome()        {}
func (TransportError) isOutcome() {}

// interpret maps a response to an Outcome. Order matters: 204 before the
// 2xx range, and the 401 intercept only for non-login operations.
func interpret(op Operation, resp *nethttp.Response) Outcome {
	status := resp.StatusCode

	switch {
	case status == 204:
		return NoContent{}
	case status >= 200 && status < 300:
		payload, err := decodeBody(resp.Body)
		if err != nil {
			return TransportError{Err: errors.Decode(status, err)}
		}
		return Success{Status: status, Payload: payload, Raw: resp.Body}
	case status == 401 && op != OpLogin:
		return SessionExpired{}
	}

	payload, err := decodeBody(resp.Body)
	if err != nil {
		return TransportError{Err: errors.Decode(status, err)}
	}
	detail := detailOf(payload, resp.Body)
	return Failure{
		Status:  status,
		Payload: payload,
		Raw:     resp.Body,
		Detail:  detail,
		Err:     errors.FromStatus(status, detail),
	}
}

func decodeBody(body []byte) (any, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// detailOf extracts the "detail" field. Validation errors carry a list of
// {loc, msg, type} objects; their msg values are joined.
func detailOf(payload any, raw []byte) string {
	obj, ok := payload.(map[string]any)
	if !ok {
		return string(raw)
	}

	switch d := obj["detail"].(type) {
	case nil:
		return string(raw)
	case string:
		return d
	case []any:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok {
					msgs = append(msgs, msg)
				}
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	b, err := json.Marshal(obj["detail"])
	if err != nil {
		return string(raw)
	}
	return string(b)
}
