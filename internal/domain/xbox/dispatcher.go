package xbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kidpech/xbox_link_demo/pkg/response"
)

// Sentinel errors for deterministic status mapping.
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrUnknownAction    = errors.New("unknown action")
	ErrInvalidBody      = errors.New("invalid json body")
)

// Public error messages. Existing callers match on these strings.
const (
	msgMethodNotAllowed = "Method not allowed"
	msgUnknownAction    = "Unknown action"
	msgInvalidBody      = "Invalid JSON body"
)

const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, X-User-Id"
	corsMaxAge       = "86400"
)

// ObserveFunc is told about every dispatched call. err is nil on success.
type ObserveFunc func(action string, status int, err error)

// DispatcherOptions tunes the dispatcher.
type DispatcherOptions struct {
	// StrictActions answers unknown actions with 400 instead of the legacy 405.
	StrictActions bool
	Observe       ObserveFunc
}

type actionFunc func(ActionRequest) (any, error)

// Dispatcher routes gateway requests to the action builders.
type Dispatcher struct {
	actions map[string]actionFunc
	logger  *zap.Logger
	opts    DispatcherOptions
}

// NewDispatcher wires a Dispatcher over service.
func NewDispatcher(service *Service, logger *zap.Logger, opts DispatcherOptions) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		actions: map[string]actionFunc{
			ActionGetAuthURL:        service.GetAuthURL,
			ActionConnectFriend:     service.ConnectFriend,
			ActionSendFriendRequest: service.SendFriendRequest,
			ActionJoinGame:          service.JoinGame,
		},
		logger: logger,
		opts:   opts,
	}
}

// Handle answers one request. It never panics on caller input and every
// failure comes back as a JSON {"error": ...} body. Methods match exactly,
// so "post" is not POST.
func (d *Dispatcher) Handle(req Request) Response {
	switch req.Method {
	case http.MethodOptions:
		d.observe("", http.StatusOK, nil)
		return preflight()
	case http.MethodPost:
		return d.handlePost(req.Body)
	default:
		return d.fail("", ErrMethodNotAllowed)
	}
}

func (d *Dispatcher) handlePost(body string) Response {
	var req ActionRequest
	if strings.TrimSpace(body) == "" {
		body = "{}"
	}
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		d.logger.Debug("rejecting malformed body", zap.Error(err))
		return d.fail("", ErrInvalidBody)
	}

	action := req.Action.Value
	build, ok := d.actions[action]
	if !ok {
		return d.fail(action, ErrUnknownAction)
	}
	payload, err := build(req)
	if err != nil {
		return d.fail(action, err)
	}
	resp, err := jsonResponse(http.StatusOK, payload)
	if err != nil {
		return d.fail(action, fmt.Errorf("encode %s: %w", action, err))
	}
	d.logger.Debug("action handled", zap.String("action", action))
	d.observe(action, http.StatusOK, nil)
	return resp
}

func (d *Dispatcher) fail(action string, err error) Response {
	status, message := d.statusFor(err)
	if status >= http.StatusInternalServerError {
		d.logger.Error("action failed", zap.String("action", action), zap.Error(err))
	}
	d.observe(action, status, err)
	resp, encErr := jsonResponse(status, ErrorBody{Error: message})
	if encErr != nil {
		resp = Response{StatusCode: status, Headers: jsonHeaders(), Body: `{"error":"internal error"}`}
	}
	return resp
}

// statusFor maps dispatch errors onto the HTTP status and public message.
func (d *Dispatcher) statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, msgMethodNotAllowed
	case errors.Is(err, ErrUnknownAction):
		if d.opts.StrictActions {
			return http.StatusBadRequest, msgUnknownAction
		}
		return http.StatusMethodNotAllowed, msgMethodNotAllowed
	case errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest, msgInvalidBody
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (d *Dispatcher) observe(action string, status int, err error) {
	if d.opts.Observe != nil {
		d.opts.Observe(action, status, err)
	}
}

func preflight() Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  corsAllowOrigin,
			"Access-Control-Allow-Methods": corsAllowMethods,
			"Access-Control-Allow-Headers": corsAllowHeaders,
			"Access-Control-Max-Age":       corsMaxAge,
		},
		Body: "",
	}
}

func jsonResponse(status int, payload any) (Response, error) {
	body, err := response.EncodeJSON(payload)
	if err != nil {
		return Response{}, err
	}
	return Response{StatusCode: status, Headers: jsonHeaders(), Body: body}, nil
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": corsAllowOrigin,
	}
}
