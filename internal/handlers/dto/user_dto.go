package dto

import (
	"time"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
)

// UpdateProfileRequest representa a edição do próprio perfil
type UpdateProfileRequest struct {
	Nome      *string `json:"nome" binding:"omitempty,min=2,max=100"`
	Username  *string `json:"username" binding:"omitempty,min=3,max=50"`
	Telefone  *string `json:"telefone" binding:"omitempty,e164"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

// ToChanges converte a requisição nas alterações de domínio
func (r UpdateProfileRequest) ToChanges() entities.ProfileChanges {
	return entities.ProfileChanges{
		Nome:      r.Nome,
		Username:  r.Username,
		Telefone:  r.Telefone,
		AvatarURL: r.AvatarURL,
	}
}

// ListUsersQuery são os filtros da listagem administrativa de usuários
type ListUsersQuery struct {
	Admin    *bool `form:"admin"`
	Page     int   `form:"page" binding:"omitempty,min=1"`
	PageSize int   `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UserListResponse é uma página de usuários
type UserListResponse struct {
	Items    []UserResponse `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// UserResponse representa a resposta de um usuário
type UserResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Username  string    `json:"username,omitempty"`
	Telefone  string    `json:"telefone,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Nome:      user.Nome,
		Username:  user.Username,
		Telefone:  user.Telefone,
		AvatarURL: user.AvatarURL,
		Admin:     user.Admin,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserResponses converte uma lista de entidades User para UserResponse
func ToUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}
