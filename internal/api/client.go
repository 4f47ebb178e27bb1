package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/salmonumbrella/subtags/internal/logging"
)

const (
	// DefaultBaseURL is where the AnkiConnect add-on listens by default
	DefaultBaseURL = "http://127.0.0.1:8765"
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
	// ProtocolVersion is the AnkiConnect API version spoken by this client
	ProtocolVersion = 6
)

// Client talks to a running Anki desktop app through the AnkiConnect add-on.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *log.Logger
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// WithBaseURL sets a custom AnkiConnect URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets a custom timeout for the HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithAPIKey sets the key required when AnkiConnect has "apiKey" configured
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new AnkiConnect client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.FromContext(context.Background())
	}
	return c
}

// Name returns the backend name
func (c *Client) Name() string {
	return "ankiconnect"
}

type request struct {
	Action  string      `json:"action"`
	Version int         `json:"version"`
	Params  interface{} `json:"params,omitempty"`
	Key     string      `json:"key,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// call invokes one AnkiConnect action and returns its raw result
func (c *Client) call(ctx context.Context, action string, params interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(request{
		Action:  action,
		Version: ProtocolVersion,
		Params:  params,
		Key:     c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	c.logger.Debug("ankiconnect request", logging.FieldAction, action, logging.FieldURL, c.baseURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return nil, ConnectError{
				Message: fmt.Sprintf("Anki is not reachable at %s. Start Anki and make sure the AnkiConnect add-on is installed.", c.baseURL),
			}
		}
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, AuthenticationError{Message: "AnkiConnect rejected the request origin"}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("AnkiConnect error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result response
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse AnkiConnect response: %w", err)
	}
	if result.Error != nil {
		return nil, classifyError(action, *result.Error)
	}
	return result.Result, nil
}

func classifyError(action, message string) error {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "api key"):
		return AuthenticationError{Message: "invalid AnkiConnect API key. Run 'subtags auth login' to store one."}
	case strings.Contains(lower, "unsupported action"):
		return StoreError{Message: fmt.Sprintf("%s: %s (update AnkiConnect)", action, message)}
	default:
		return StoreError{Message: fmt.Sprintf("%s: %s", action, message)}
	}
}

func (c *Client) decode(ctx context.Context, action string, params interface{}, out interface{}) error {
	raw, err := c.call(ctx, action, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s result: %w", action, err)
	}
	return nil
}

// Version returns the AnkiConnect API version reported by the add-on
func (c *Client) Version(ctx context.Context) (int, error) {
	var version int
	if err := c.decode(ctx, "version", nil, &version); err != nil {
		return 0, err
	}
	return version, nil
}

// AllTags returns every tag in the collection, sorted
func (c *Client) AllTags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := c.decode(ctx, "getTags", nil, &tags); err != nil {
		return nil, err
	}
	sort.Strings(tags)
	return slices.Compact(tags), nil
}

// NotesForCards maps card IDs to note IDs
func (c *Client) NotesForCards(ctx context.Context, cardIDs []int64) ([]int64, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}
	var notes []int64
	if err := c.decode(ctx, "cardsToNotes", map[string]interface{}{"cards": cardIDs}, &notes); err != nil {
		return nil, err
	}
	return uniqueIDs(notes), nil
}

type noteInfo struct {
	NoteID int64    `json:"noteId"`
	Tags   []string `json:"tags"`
}

// AddTags attaches tags to notes, reporting which tags were new per note
func (c *Client) AddTags(ctx context.Context, noteIDs []int64, tags []string) (ApplyResult, error) {
	noteIDs = uniqueIDs(noteIDs)
	result := ApplyResult{Notes: len(noteIDs)}
	if len(noteIDs) == 0 || len(tags) == 0 {
		return result, nil
	}

	var infos []noteInfo
	if err := c.decode(ctx, "notesInfo", map[string]interface{}{"notes": noteIDs}, &infos); err != nil {
		return ApplyResult{}, err
	}
	existing := make(map[int64][]string, len(infos))
	for _, info := range infos {
		if info.NoteID != 0 {
			existing[info.NoteID] = info.Tags
		}
	}

	for _, id := range noteIDs {
		have, ok := existing[id]
		if !ok {
			return ApplyResult{}, NotFoundError{Message: fmt.Sprintf("note not found: %d", id)}
		}
		if added := missingTags(have, tags); len(added) > 0 {
			result.Changes = append(result.Changes, NoteChange{NoteID: id, Added: added})
			result.TagsAdded += len(added)
		}
	}
	if result.TagsAdded == 0 {
		return result, nil
	}

	params := map[string]interface{}{
		"notes": noteIDs,
		"tags":  strings.Join(tags, " "),
	}
	if _, err := c.call(ctx, "addTags", params); err != nil {
		return ApplyResult{}, err
	}
	return result, nil
}

// Ensure Client implements TagStore at compile time
var _ TagStore = (*Client)(nil)
