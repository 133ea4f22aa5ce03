package dto

// Tipos de frame do stream de perfil
const (
	FrameSession      = "session"
	FrameSignOut      = "sign_out"
	FrameReload       = "reload"
	FrameGuard        = "guard"
	FrameNavigateHome = "navigate_home"
	FrameProfile      = "profile"
	FrameRedirect     = "redirect"
	FrameError        = "error"
)

// ClientFrame é uma mensagem enviada pelo cliente no stream
type ClientFrame struct {
	Type         string `json:"type"`
	AccessToken  string `json:"access_token,omitempty"`
	RequiredRole string `json:"required_role,omitempty"`
}

// ServerFrame é uma mensagem enviada pelo servidor no stream
type ServerFrame struct {
	Type            string           `json:"type"`
	Profile         *ProfileResponse `json:"profile,omitempty"`
	State           string           `json:"state,omitempty"`
	RequiredRole    string           `json:"required_role,omitempty"`
	RedirectTo      string           `json:"redirect_to,omitempty"`
	RedirectAfterMs int64            `json:"redirect_after_ms,omitempty"`
	To              string           `json:"to,omitempty"`
	Code            string           `json:"code,omitempty"`
	Detail          string           `json:"detail,omitempty"`
}
