package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/subtags/internal/api"
	"github.com/salmonumbrella/subtags/internal/output"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	w := stderrFromContext(ctx)
	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
	default:
		_, _ = fmt.Fprintln(w, err)
	}
}

type errorDetail struct {
	Message  string `json:"message" yaml:"message"`
	Type     string `json:"type" yaml:"type"`
	Category string `json:"category" yaml:"category"`
}

type errorEnvelope struct {
	Error errorDetail `json:"error" yaml:"error"`
}

// classifyError maps store errors to a type and a user/system category.
func classifyError(err error) (string, string) {
	var (
		authErr       api.AuthenticationError
		validationErr api.ValidationError
		notFoundErr   api.NotFoundError
		connectErr    api.ConnectError
		storeErr      api.StoreError
	)
	switch {
	case errors.As(err, &authErr):
		return "auth", "user"
	case errors.As(err, &validationErr):
		return "validation", "user"
	case errors.As(err, &notFoundErr):
		return "not_found", "user"
	case errors.As(err, &connectErr):
		return "anki_not_running", "user"
	case errors.As(err, &storeErr):
		return "store", "system"
	default:
		return "error", "system"
	}
}

func buildErrorEnvelope(err error) errorEnvelope {
	typ, category := classifyError(err)
	return errorEnvelope{Error: errorDetail{
		Message:  err.Error(),
		Type:     typ,
		Category: category,
	}}
}
