package httputil

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code. The body is
// marshaled before headers are written, so an encoding failure becomes a 500
// instead of a truncated 200.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// ProblemDetail is an RFC 7807 problem. Code is a machine-readable extension
// member clients branch on; Extra members are written at the top level.
type ProblemDetail struct {
	Type   string
	Title  string
	Status int
	Detail string
	Code   string
	Extra  map[string]interface{}
}

// NewProblem fills Type and Title from the status code
func NewProblem(status int, detail string) ProblemDetail {
	return ProblemDetail{
		Type:   errorTypeFromStatus(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

var standardMembers = map[string]bool{"type": true, "title": true, "status": true, "detail": true, "code": true}

// MarshalJSON flattens Extra next to the standard members
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Code != "" {
		m["code"] = p.Code
	}
	for k, v := range p.Extra {
		if !standardMembers[k] {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON collects unknown members into Extra
func (p *ProblemDetail) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"type":   &p.Type,
		"title":  &p.Title,
		"status": &p.Status,
		"detail": &p.Detail,
		"code":   &p.Code,
	}
	p.Extra = make(map[string]interface{})
	for k, v := range raw {
		if dest, ok := fields[k]; ok {
			if err := json.Unmarshal(v, dest); err != nil {
				return err
			}
			continue
		}
		var value interface{}
		if err := json.Unmarshal(v, &value); err != nil {
			return err
		}
		p.Extra[k] = value
	}
	return nil
}

// Strings returns an Extra member as a string slice. Missing or mistyped
// members yield nil.
func (p ProblemDetail) Strings(key string) []string {
	list, ok := p.Extra[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// RespondProblem writes p as application/problem+json
func RespondProblem(w http.ResponseWriter, p ProblemDetail) {
	payload, err := json.Marshal(p)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	w.Write(payload)
}

// RespondError writes an RFC 7807 Problem Details error response
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondProblem(w, NewProblem(status, detail))
}

// RespondErrorWithCode writes a problem carrying a machine-readable code and
// extension members
func RespondErrorWithCode(w http.ResponseWriter, status int, code, detail string, extras map[string]interface{}) {
	p := NewProblem(status, detail)
	p.Code = code
	p.Extra = extras
	RespondProblem(w, p)
}

// errorTypeFromStatus returns the RFC 7807 type URI for a status code
func errorTypeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.1"
	case http.StatusUnauthorized:
		return "https://datatracker.ietf.org/doc/html/rfc7235#section-3.1"
	case http.StatusForbidden:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.3"
	case http.StatusNotFound:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.4"
	case http.StatusConflict:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.8"
	case http.StatusInternalServerError:
		return "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.1"
	default:
		return "about:blank"
	}
}
