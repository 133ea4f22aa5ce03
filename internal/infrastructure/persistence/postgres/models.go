package postgres

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsuarioModel é o model GORM para perfis de usuário.
// O ID é o subject id do provedor de auth, nunca gerado aqui.
type UsuarioModel struct {
	ID        string  `gorm:"type:uuid;primaryKey"`
	Nome      string  `gorm:"type:varchar(500);not null"`
	Username  string  `gorm:"type:varchar(100);index"`
	Telefone  string  `gorm:"type:varchar(30)"`
	AvatarURL *string `gorm:"column:avatar_url;type:varchar(500)"`
	Admin     bool    `gorm:"not null;default:false"`
	CreatedAt int64   `gorm:"autoCreateTime;index"`
	UpdatedAt int64   `gorm:"autoUpdateTime"`
}

func (UsuarioModel) TableName() string {
	return "usuarios"
}

// LojaUsuarioModel é o model GORM para vínculos usuário-loja
type LojaUsuarioModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UsuarioID string `gorm:"type:uuid;not null;index:idx_loja_usuarios_usuario_status"`
	LojaID    string `gorm:"type:uuid;not null;index"`
	Funcao    string `gorm:"type:varchar(30);not null"`
	Status    string `gorm:"type:varchar(30);not null;index:idx_loja_usuarios_usuario_status"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

func (LojaUsuarioModel) TableName() string {
	return "loja_usuarios"
}

func (m *LojaUsuarioModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// PedidoModel é o model GORM para pedidos
type PedidoModel struct {
	ID           string  `gorm:"type:uuid;primaryKey"`
	LojaID       string  `gorm:"type:uuid;not null;index"`
	EntregadorID *string `gorm:"type:uuid;index"`
	Cliente      string  `gorm:"type:varchar(255);not null"`
	Endereco     string  `gorm:"type:varchar(500);not null"`
	Status       string  `gorm:"type:varchar(30);not null;index"`
	Valor        float64 `gorm:"type:numeric(12,2);not null"`
	CreatedAt    int64   `gorm:"autoCreateTime;index"`
	UpdatedAt    int64   `gorm:"autoUpdateTime"`
}

func (PedidoModel) TableName() string {
	return "pedidos"
}

func (m *PedidoModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
