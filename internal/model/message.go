package model

// Window message tagging used when the dashboard hands its token to the extension.
const (
	WebappSource      = "fraudeye-webapp"
	TypeFraudeyeToken = "FRAUDEYE_TOKEN"
)

// WindowMessage is a same-window broadcast posted by the dashboard page.
// Data is left loose on purpose: listeners must check Source and Type before
// trusting anything else.
type WindowMessage struct {
	Source string `json:"source"`
	Type   string `json:"type"`
	Token  string `json:"token,omitempty"`
}

// IsTokenBroadcast reports whether m is the dashboard's token hand-off.
func (m WindowMessage) IsTokenBroadcast() bool {
	return m.Source == WebappSource && m.Type == TypeFraudeyeToken
}
