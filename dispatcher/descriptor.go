package dispatcher

import (
	"encoding/json"
	"strings"

	nethttp "github.com/kochabx/apiclient/core/net/http"
	"github.com/kochabx/apiclient/errors"
)

// Params is a flat mapping of primitive values. In query strings and form
// bodies nil is sent as "null"; in JSON bodies it is null.
type Params map[string]any

// Descriptor describes one request
type Descriptor struct {
	Operation Operation
	Path      string
	Params    Params
}

// Get, Post, Put, Patch, Delete and Login build descriptors
func Get(path string, params Params) Descriptor    { return Descriptor{OpGet, path, params} }
func Post(path string, params Params) Descriptor   { return Descriptor{OpPost, path, params} }
func Put(path string, params Params) Descriptor    { return Descriptor{OpPut, path, params} }
func Patch(path string, params Params) Descriptor  { return Descriptor{OpPatch, path, params} }
func Delete(path string, params Params) Descriptor { return Descriptor{OpDelete, path, params} }
func Login(path string, params Params) Descriptor  { return Descriptor{OpLogin, path, params} }

// Validate checks the operation, that path is server-relative without a
// fragment and that every param is a primitive.
func (d Descriptor) Validate() error {
	if !d.Operation.Valid() {
		return errors.Invalid("unknown operation %q", d.Operation)
	}
	if d.Path == "" || !strings.HasPrefix(d.Path, "/") {
		return errors.Invalid("path %q must start with /", d.Path)
	}
	if strings.Contains(d.Path, "://") {
		return errors.Invalid("path %q must be server-relative", d.Path)
	}
	if strings.Contains(d.Path, "#") {
		return errors.Invalid("path %q must not carry a fragment", d.Path)
	}

	for _, k := range nethttp.SortedKeys(d.Params) {
		if !isPrimitive(d.Params[k]) {
			return errors.Invalid("param %q: unsupported type %T", k, d.Params[k])
		}
	}
	return nil
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}

// encoded is a descriptor turned into wire form
type encoded struct {
	query       string
	body        []byte
	contentType string
}

// encode applies the body policy: query string for get, form for login,
// JSON otherwise.
func (d Descriptor) encode() (encoded, error) {
	switch d.Operation {
	case OpGet:
		return encoded{query: nethttp.EncodeQuery(d.Params)}, nil
	case OpLogin:
		return encoded{
			body:        nethttp.EncodeForm(d.Params),
			contentType: nethttp.ContentTypeForm,
		}, nil
	}

	params := d.Params
	if params == nil {
		params = Params{}
	}
	body, err := nethttp.EncodeJSON(map[string]any(params))
	if err != nil {
		return encoded{}, errors.Wrap(err, errors.KindInvalid, 400, "encode params")
	}
	return encoded{body: body, contentType: nethttp.ContentTypeJSON}, nil
}
