package xbox

import "fmt"

const (
	defaultSessionID  = "default_session"
	profileURLBase    = "https://account.xbox.com/profile?gamertag="
	friendRequestIDPx = "FR_"
	joinETASeconds    = 5
)

// AuthURLBuilder produces the provider sign-in URL for a redirect target.
type AuthURLBuilder interface {
	AuthURL(redirectURI string) string
}

// Service builds the fabricated provider payloads. It holds no per-call state.
type Service struct {
	provider        AuthURLBuilder
	ids             IDGenerator
	defaultRedirect string
}

// NewService wires a Service.
func NewService(provider AuthURLBuilder, ids IDGenerator, defaultRedirect string) *Service {
	if ids == nil {
		ids = NewClockIDs(nil)
	}
	return &Service{
		provider:        provider,
		ids:             ids,
		defaultRedirect: defaultRedirect,
	}
}

// GetAuthURL returns the sign-in URL for the requested redirect.
func (s *Service) GetAuthURL(req ActionRequest) (any, error) {
	redirect := req.RedirectURI.Or(s.defaultRedirect)
	return AuthURLResult{
		AuthURL: s.provider.AuthURL(redirect),
		Status:  "ready",
	}, nil
}

// ConnectFriend pretends the friend's account was linked. xbox_token is
// accepted but never verified.
func (s *Service) ConnectFriend(req ActionRequest) (any, error) {
	gamertag := "AI_" + req.FriendName.Value
	return ConnectFriendResult{
		Success:          true,
		Gamertag:         gamertag,
		XUID:             "XUID_" + req.FriendID.Value,
		ProfileURL:       profileURLBase + gamertag,
		Status:           "connected",
		CanJoinGame:      true,
		FriendshipStatus: "pending",
	}, nil
}

// SendFriendRequest acknowledges a friend request with a fresh identifier.
func (s *Service) SendFriendRequest(req ActionRequest) (any, error) {
	id, err := s.ids.NextID(friendRequestIDPx)
	if err != nil {
		return nil, fmt.Errorf("friend request id: %w", err)
	}
	return FriendRequestResult{
		Success:         true,
		Message:         "Friend request sent to " + req.Gamertag.Value,
		FriendRequestID: id,
		Status:          "pending",
	}, nil
}

// JoinGame acknowledges a join into the requested session.
func (s *Service) JoinGame(req ActionRequest) (any, error) {
	return JoinGameResult{
		Success:     true,
		Message:     req.Gamertag.Value + " is joining the game!",
		GameSession: req.SessionID.Or(defaultSessionID),
		JoinStatus:  "connecting",
		ETASeconds:  joinETASeconds,
	}, nil
}

