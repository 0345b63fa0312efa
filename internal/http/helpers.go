package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/internal/posts"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

var errMissingBody = errors.New("request body is required")

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	baseClean := strings.Trim(trimmedBase, "/")
	if baseClean == "" {
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	if strings.Trim(trimmedSuffix, "/") == "" {
		return "/" + baseClean
	}
	return "/" + baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return badRequest(errMissingBody)
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest(errMissingBody)
		}
		return badRequest(err)
	}
	return nil
}

func badRequest(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "malformed request body").
		WithTextCode("REQUEST_MALFORMED")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if raw, ok := payload.(json.RawMessage); ok {
		_, _ = w.Write(raw)
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

var categoryStatus = []struct {
	category goerrors.Category
	status   int
	code     string
}{
	{goerrors.CategoryValidation, http.StatusBadRequest, "validation_failed"},
	{goerrors.CategoryAuthz, http.StatusForbidden, "forbidden"},
	{goerrors.CategoryAuth, http.StatusUnauthorized, "unauthorized"},
	{goerrors.CategoryNotFound, http.StatusNotFound, "not_found"},
	{goerrors.CategoryExternal, http.StatusInternalServerError, "upstream_failed"},
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	status := http.StatusInternalServerError
	payload := errorResponse{Error: "internal_error", Message: "internal server error"}
	for _, entry := range categoryStatus {
		if goerrors.IsCategory(err, entry.category) {
			status = entry.status
			payload = errorResponse{Error: entry.code, Message: err.Error()}
			break
		}
	}

	var rich *goerrors.Error
	if errors.As(err, &rich) {
		if rich.TextCode != "" {
			payload.Error = rich.TextCode
		}
		if status != http.StatusInternalServerError || goerrors.IsCategory(err, goerrors.CategoryExternal) {
			payload.Message = describe(rich)
		}
	}
	return status, payload
}

func describe(rich *goerrors.Error) string {
	message := rich.Message
	if cause := errors.Unwrap(rich); cause != nil && cause.Error() != message {
		if message == "" {
			return cause.Error()
		}
		return message + ": " + cause.Error()
	}
	return message
}

func parseIssueID(value string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err == nil {
		err = posts.ValidateID(id)
	}
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid post id").
			WithTextCode("POST_ID_INVALID")
	}
	return id, nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
