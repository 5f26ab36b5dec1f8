package transport

import (
	"encoding/json"
)

// Response is the decoded {status, message, ...} body. Action-specific keys
// stay raw until a caller decodes them.
type Response struct {
	Status  string
	Message string
	fields  map[string]json.RawMessage
}

func (r *Response) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	r.fields = m
	r.Status, r.Message = "", ""
	if raw, ok := m["status"]; ok {
		_ = json.Unmarshal(raw, &r.Status)
	}
	if raw, ok := m["message"]; ok {
		_ = json.Unmarshal(raw, &r.Message)
	}
	return nil
}

// OK reports status == "success".
func (r *Response) OK() bool { return r.Status == "success" }

// Has reports whether key is present in the body.
func (r *Response) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// Raw returns the undecoded value of key.
func (r *Response) Raw(key string) (json.RawMessage, bool) {
	raw, ok := r.fields[key]
	return raw, ok
}

// Decode unmarshals key into out, or returns *ContractMismatchError when the
// key is absent.
func (r *Response) Decode(key string, out any) error {
	raw, ok := r.fields[key]
	if !ok {
		return &ContractMismatchError{Key: key}
	}
	return json.Unmarshal(raw, out)
}

// Err converts a non-success response into *ApplicationError.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	msg := r.Message
	if msg == "" {
		msg = defaultAppFailure
	}
	return &ApplicationError{Message: msg}
}

// NewResponse builds a Response from a decoded body, mainly for tests.
func NewResponse(status, message string, fields map[string]any) (*Response, error) {
	body := map[string]any{"status": status}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var r Response
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
