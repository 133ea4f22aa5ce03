package entities

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidUserData = errors.New("invalid user data")
)

// User é o registro de perfil (tabela usuarios) associado a um subject do provedor de auth
type User struct {
	ID        string // subject id emitido pelo provedor de autenticação
	Nome      string
	Username  string
	Telefone  string
	AvatarURL *string
	Admin     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin verifica se o usuário tem a flag de administrador
func (u *User) IsAdmin() bool {
	return u.Admin
}

// ProfileChanges contém as alterações permitidas na edição de perfil.
// Campos nil não são alterados.
type ProfileChanges struct {
	Nome      *string
	Username  *string
	Telefone  *string
	AvatarURL *string
}

// Apply aplica as alterações de perfil. A flag admin nunca é alterada por aqui.
func (u *User) Apply(changes ProfileChanges) {
	if changes.Nome != nil {
		u.Nome = strings.TrimSpace(*changes.Nome)
	}
	if changes.Username != nil {
		u.Username = strings.TrimSpace(*changes.Username)
	}
	if changes.Telefone != nil {
		u.Telefone = strings.TrimSpace(*changes.Telefone)
	}
	if changes.AvatarURL != nil {
		avatar := strings.TrimSpace(*changes.AvatarURL)
		if avatar == "" {
			u.AvatarURL = nil
		} else {
			u.AvatarURL = &avatar
		}
	}
}

// Validate valida regras de negócio da entidade User
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}

	if u.Nome == "" {
		return errors.New("nome is required")
	}

	if len(u.Nome) < 2 {
		return errors.New("nome must be at least 2 characters")
	}

	if strings.ContainsAny(u.Username, " \t\n") {
		return errors.New("username must not contain whitespace")
	}

	return nil
}
