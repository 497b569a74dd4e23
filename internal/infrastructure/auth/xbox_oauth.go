package auth

// Microsoft account endpoint used for Xbox Live sign-in.
const (
	XboxAuthorizeEndpoint = "https://login.live.com/oauth20_authorize.srf"
	XboxScope             = "XboxLive.signin%20XboxLive.offline_access"
	DefaultXboxClientID   = "demo_client_id"
)

// XboxLiveProvider builds authorization-code URLs without contacting Microsoft.
type XboxLiveProvider struct {
	ClientID string
}

// NewXboxLiveProvider falls back to the demo client id when clientID is empty.
func NewXboxLiveProvider(clientID string) XboxLiveProvider {
	if clientID == "" {
		clientID = DefaultXboxClientID
	}
	return XboxLiveProvider{ClientID: clientID}
}

// AuthURL interpolates the redirect URI as given; callers get back exactly what they sent.
func (p XboxLiveProvider) AuthURL(redirectURI string) string {
	return XboxAuthorizeEndpoint +
		"?client_id=" + p.ClientID +
		"&response_type=code" +
		"&redirect_uri=" + redirectURI +
		"&scope=" + XboxScope
}
