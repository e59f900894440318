package dispatcher

import (
	"net/http"
	"strings"

	"github.com/kochabx/apiclient/errors"
)

// Operation is the logical verb of a request. OpLogin is a POST whose body
// is form-url-encoded, used only for the credential exchange endpoint.
type Operation string

const (
	OpGet    Operation = "get"
	OpPost   Operation = "post"
	OpPut    Operation = "put"
	OpPatch  Operation = "patch"
	OpDelete Operation = "delete"
	OpLogin  Operation = "login"
)

// ParseOperation accepts any letter case
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	if !op.Valid() {
		return "", errors.Invalid("unknown operation %q", s)
	}
	return op, nil
}

// Valid reports whether op is one of the known operations
func (op Operation) Valid() bool {
	switch op {
	case OpGet, OpPost, OpPut, OpPatch, OpDelete, OpLogin:
		return true
	}
	return false
}

// Method returns the HTTP method sent on the wire
func (op Operation) Method() string {
	switch op {
	case OpGet:
		return http.MethodGet
	case OpPost, OpLogin:
		return http.MethodPost
	case OpPut:
		return http.MethodPut
	case OpPatch:
		return http.MethodPatch
	case OpDelete:
		return http.MethodDelete
	}
	return ""
}

func (op Operation) String() string { return string(op) }
