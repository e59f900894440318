package errors

// Kind classifies an error by where it came from and how callers should react
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalid: rejected before anything was sent
	KindInvalid
	// KindClient: the server answered 4xx (session expiry aside)
	KindClient
	// KindServer: 5xx or any other non-2xx status
	KindServer
	// KindSessionExpired: 401 on a non-login request
	KindSessionExpired
	// KindTransport: no response arrived
	KindTransport
	// KindDecode: the body could not be parsed
	KindDecode
)

var kindNames = [...]string{
	KindUnknown:        "unknown",
	KindInvalid:        "invalid",
	KindClient:         "client",
	KindServer:         "server",
	KindSessionExpired: "session_expired",
	KindTransport:      "transport",
	KindDecode:         "decode",
}

// String returns the snake_case name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// KindForStatus maps a non-2xx HTTP status to Client or Server.
func KindForStatus(status int) Kind {
	if status >= 400 && status < 500 {
		return KindClient
	}
	return KindServer
}

// FromStatus builds the error for a failed response
func FromStatus(status int, detail string) *Error {
	return New(KindForStatus(status), status, "%s", detail)
}

// Invalid creates a validation error; it never reaches the network
func Invalid(format string, args ...any) *Error {
	return New(KindInvalid, 400, format, args...)
}

// SessionExpired creates the error reported when a 401 resets the session
func SessionExpired(format string, args ...any) *Error {
	return New(KindSessionExpired, 401, format, args...)
}

// Transport wraps a network-level failure
func Transport(err error) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, KindTransport, 0, "%v", err)
}

// Decode wraps a response body parse failure
func Decode(status int, err error) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, KindDecode, status, "%v", err)
}
