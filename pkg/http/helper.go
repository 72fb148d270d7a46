package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	apperrors "mentorbook/pkg/errors"

	"github.com/julienschmidt/httprouter"
)

// DecodeJSON decodes the request body into dst. The body may be bare or
// wrapped in a single-key resource envelope such as {"booking": {...}}.
func DecodeJSON(r *http.Request, envelope string, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return apperrors.InvalidInput("Failed to read request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return apperrors.InvalidInput("Request body is empty")
	}

	if envelope != "" {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapped); err == nil {
			if inner, ok := wrapped[envelope]; ok && len(wrapped) == 1 {
				if trimmed := bytes.TrimSpace(inner); len(trimmed) > 0 && trimmed[0] == '{' {
					body = inner
				}
			}
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.InvalidInput("Invalid JSON body").WithDetails(map[string]any{"reason": err.Error()})
	}
	return nil
}

// ParseID reads a positive integer path parameter.
func ParseID(ps httprouter.Params, name string) (int64, error) {
	raw := ps.ByName(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + raw)
	}
	return id, nil
}

// QueryInt64 reads an optional positive integer query parameter. Absent means 0.
func QueryInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + raw)
	}
	return v, nil
}
