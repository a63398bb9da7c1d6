// Package relay is the storefront's typed client for the relay backend.
// Every response is decoded from the relay envelope and validated against
// the dto struct tags before it is handed to a store.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	apivalidator "starmobiles/internal/delivery/api/validator"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	headerAPIKey = "apikey"

	codeValidationFailed = "VALIDATION_FAILED"

	msgTransport = "Unable to reach Star Mobiles. Check your connection and try again."
	msgServer    = "Something went wrong. Please try again."
	msgMalformed = "Unexpected response from the server"
)

// Config points the client at a relay.
type Config struct {
	BaseURL string // e.g. http://localhost:8080/api
	AnonKey string
	Timeout time.Duration
}

// Client talks to the relay. It is safe for concurrent use.
type Client struct {
	baseURL  string
	anonKey  string
	http     *http.Client
	validate *validator.Validate
	logger   *slog.Logger
}

// New builds a client. httpClient may be nil.
func New(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	apivalidator.RegisterTags(v)

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:  cfg.AnonKey,
		http:     httpClient,
		validate: v,
		logger:   logger,
	}
}

// Empty is the payload of calls that return no data.
type Empty struct{}

type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        any
	rawBody     io.Reader
	contentType string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

// call performs one round trip and decodes the envelope's data into T.
func call[T any](ctx context.Context, c *Client, req request) Result[T] {
	httpReq, relayErr := c.newRequest(ctx, req)
	if relayErr != nil {
		return Err[T](relayErr)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("Relay request failed",
			slog.String("method", req.method),
			slog.String("path", req.path),
			slog.Any("error", err),
		)

		return Err[T](&Error{Kind: KindTransport, Message: msgTransport, cause: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Err[T](&Error{Kind: KindTransport, Status: resp.StatusCode, Message: msgTransport, cause: err})
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		return Err[T](c.failure(req, resp.StatusCode, env, decodeErr))
	}
	if decodeErr != nil {
		return Err[T](c.malformed(req, resp.StatusCode, errors.Wrap(decodeErr, "decode envelope")))
	}

	var out T
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return Err[T](c.malformed(req, resp.StatusCode, errors.Wrap(err, "decode data")))
		}
	}
	if err := c.check(out); err != nil {
		return Err[T](c.malformed(req, resp.StatusCode, err))
	}

	return Result[T]{value: out, message: env.Message}
}

func (c *Client) newRequest(ctx context.Context, req request) (*http.Request, *Error) {
	body := req.rawBody
	contentType := req.contentType
	if req.body != nil {
		if err := c.check(req.body); err != nil {
			return nil, &Error{Kind: KindInvalid, Code: "VALIDATION_FAILED", Message: describeValidation(err), cause: err}
		}
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, &Error{Kind: KindInvalid, Message: "Invalid request", cause: err}
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: msgTransport, cause: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.anonKey != "" {
		httpReq.Header.Set(headerAPIKey, c.anonKey)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	return httpReq, nil
}

// failure maps a non-2xx response. The relay's message is kept for client
// errors; older relays put it in a bare "error" string. Validation failures
// carry the rejected fields in the error details.
func (c *Client) failure(req request, status int, env envelope, decodeErr error) *Error {
	relayErr := &Error{Kind: kindForStatus(status), Status: status}

	if decodeErr == nil {
		relayErr.Message = env.Message
		var legacy string
		var info errorInfo
		switch {
		case json.Unmarshal(env.Error, &legacy) == nil:
			if relayErr.Message == "" {
				relayErr.Message = legacy
			}
		case json.Unmarshal(env.Error, &info) == nil:
			relayErr.Code = info.Code
			if info.Code == codeValidationFailed && info.Details != "" {
				if relayErr.Message == "" {
					relayErr.Message = info.Details
				} else {
					relayErr.Message += ": " + info.Details
				}
			}
		}
	}

	if relayErr.Kind == KindServer {
		c.logger.Error("Relay returned a server error",
			slog.String("method", req.method),
			slog.String("path", req.path),
			slog.Int("status", status),
			slog.String("message", relayErr.Message),
		)
		relayErr.Message = msgServer
	}
	if relayErr.Message == "" {
		relayErr.Message = http.StatusText(status)
	}

	return relayErr
}

func (c *Client) malformed(req request, status int, err error) *Error {
	c.logger.Error("Relay response rejected",
		slog.String("method", req.method),
		slog.String("path", req.path),
		slog.Int("status", status),
		slog.Any("error", err),
	)

	return &Error{Kind: KindMalformed, Status: status, Message: msgMalformed, cause: err}
}

// check validates structs, pointers to structs and slices of either.
func (c *Client) check(v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		for i := range rv.Len() {
			if err := c.check(rv.Index(i).Interface()); err != nil {
				return errors.Wrapf(err, "item %d", i)
			}
		}

		return nil
	case reflect.Pointer:
		if rv.IsNil() {
			return errors.New("missing data")
		}
		if rv.Elem().Kind() != reflect.Struct {
			return nil
		}

		return errors.WithStack(c.validate.Struct(v))
	case reflect.Struct:
		return errors.WithStack(c.validate.Struct(v))
	default:
		return nil
	}
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required", "required_without":
			return fmt.Sprintf("%s is required", fe.Field())
		case "min":
			if fe.Kind() == reflect.String {
				return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
			}

			return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		default:
			return fmt.Sprintf("Invalid %s", strings.ToLower(fe.Field()))
		}
	}

	return "Invalid request"
}
