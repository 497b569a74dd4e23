package xbox

import (
	"bytes"
	"encoding/json"
)

// Supported values of the "action" field.
const (
	ActionGetAuthURL        = "get_auth_url"
	ActionConnectFriend     = "connect_friend"
	ActionSendFriendRequest = "send_friend_request"
	ActionJoinGame          = "join_game"
)

// Actions lists every action the dispatcher understands.
func Actions() []string {
	return []string{ActionGetAuthURL, ActionConnectFriend, ActionSendFriendRequest, ActionJoinGame}
}

// Request is the gateway-shaped input of a single call.
type Request struct {
	Method  string            `json:"httpMethod"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body"`
}

// Response is the gateway-shaped output of a single call.
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// Field is a loosely typed body value. Strings are taken as-is, other JSON
// scalars keep their literal text, and null counts as absent.
type Field struct {
	Value   string
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = Field{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field{Value: s, Present: true}
		return nil
	}
	*f = Field{Value: string(data), Present: true}
	return nil
}

// Or returns the value, or def when the field was not sent.
func (f Field) Or(def string) string {
	if !f.Present {
		return def
	}
	return f.Value
}

// ActionRequest is the union of every action's body fields.
type ActionRequest struct {
	Action      Field `json:"action"`
	RedirectURI Field `json:"redirect_uri"`
	FriendID    Field `json:"friend_id"`
	FriendName  Field `json:"friend_name"`
	XboxToken   Field `json:"xbox_token"`
	Gamertag    Field `json:"gamertag"`
	PlayerXUID  Field `json:"player_xuid"`
	SessionID   Field `json:"session_id"`
}

// AuthURLResult answers get_auth_url.
type AuthURLResult struct {
	AuthURL string `json:"auth_url"`
	Status  string `json:"status"`
}

// ConnectFriendResult answers connect_friend.
type ConnectFriendResult struct {
	Success          bool   `json:"success"`
	Gamertag         string `json:"gamertag"`
	XUID             string `json:"xuid"`
	ProfileURL       string `json:"profile_url"`
	Status           string `json:"status"`
	CanJoinGame      bool   `json:"can_join_game"`
	FriendshipStatus string `json:"friendship_status"`
}

// FriendRequestResult answers send_friend_request.
type FriendRequestResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	FriendRequestID string `json:"friend_request_id"`
	Status          string `json:"status"`
}

// JoinGameResult answers join_game.
type JoinGameResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	GameSession string `json:"game_session"`
	JoinStatus  string `json:"join_status"`
	ETASeconds  int    `json:"eta_seconds"`
}

// ErrorBody is the shape of every failure payload.
type ErrorBody struct {
	Error string `json:"error"`
}
