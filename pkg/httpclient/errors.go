package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// downstreamError accepts both the {"error":{"code","message"}} envelope and a
// flat {"error":"..."} body.
type downstreamError struct {
	Error json.RawMessage `json:"error"`
}

type envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponseError consumes and closes a non-2xx response and turns it into an
// error carrying the matching pkg/errors sentinel.
func ParseResponseError(resp *http.Response, service string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (read body: %w)", service, resp.StatusCode, err)
	}

	code, message := "", string(body)
	var de downstreamError
	if json.Unmarshal(body, &de) == nil && len(de.Error) > 0 {
		var env envelope
		var flat string
		switch {
		case json.Unmarshal(de.Error, &env) == nil && env.Message != "":
			code, message = env.Code, env.Message
		case json.Unmarshal(de.Error, &flat) == nil:
			message = flat
		}
	}
	return mapStatus(resp.StatusCode, code, message, service)
}

func mapStatus(status int, code, message, service string) error {
	msg := fmt.Sprintf("%s: %s", service, message)

	switch status {
	case http.StatusNotFound:
		return apperrors.NotFound(service, message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(msg)
	case http.StatusConflict:
		return apperrors.Conflict(msg)
	case http.StatusUnauthorized:
		return apperrors.Unauthorized(msg)
	case http.StatusForbidden:
		return apperrors.Forbidden(msg)
	case http.StatusGone:
		return apperrors.Gone(msg)
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return apperrors.Unavailable(msg)
	}
	if status >= 500 {
		return fmt.Errorf("%s server error (%d%s): %s", service, status, codeSuffix(code), message)
	}
	return &apperrors.AppError{Code: code, Message: msg, Status: status}
}

func codeSuffix(code string) string {
	if code == "" {
		return ""
	}
	return "/" + code
}

// IsClientError reports whether status is a 4xx.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
