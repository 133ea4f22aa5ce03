package dto

import (
	"time"

	"github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/services"
)

// SessionResponse expõe os dados públicos da sessão (nunca o token)
type SessionResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LojaUsuarioResponse representa um vínculo ativo com uma loja
type LojaUsuarioResponse struct {
	LojaID string `json:"loja_id"`
	Funcao string `json:"funcao"`
	Status string `json:"status"`
}

// ProfileResponse é a forma pública do perfil resolvido
type ProfileResponse struct {
	State       string                `json:"state"`
	User        *SessionResponse      `json:"user"`
	UserProfile *UserResponse         `json:"user_profile"`
	UserRole    string                `json:"user_role"`
	UserLojas   []LojaUsuarioResponse `json:"user_lojas"`
	Loading     bool                  `json:"loading"`
	Error       *string               `json:"error"`
	ErrorCode   string                `json:"error_code,omitempty"`
}

// ToProfileResponse converte o perfil; translate recebe o código do erro
// (message ID) e pode ser nil
func ToProfileResponse(p services.ResolvedProfile, translate func(key string) string) ProfileResponse {
	resp := ProfileResponse{
		State:     string(p.State),
		UserRole:  p.UserRole.String(),
		UserLojas: make([]LojaUsuarioResponse, 0, len(p.UserLojas)),
		Loading:   p.Loading,
	}

	if p.User != nil {
		resp.User = &SessionResponse{
			ID:        p.User.Subject,
			Email:     p.User.Email.String(),
			ExpiresAt: p.User.ExpiresAt,
		}
	}

	if p.UserProfile != nil {
		user := ToUserResponse(p.UserProfile)
		resp.UserProfile = &user
	}

	for _, l := range p.UserLojas {
		resp.UserLojas = append(resp.UserLojas, LojaUsuarioResponse{
			LojaID: l.LojaID,
			Funcao: string(l.Funcao),
			Status: l.Status,
		})
	}

	if p.Err != nil {
		resp.ErrorCode = errors.Code(p.Err)
		message := p.Err.Error()
		if resp.ErrorCode != "" && translate != nil {
			message = translate(resp.ErrorCode)
		}
		resp.Error = &message
	}

	return resp
}
