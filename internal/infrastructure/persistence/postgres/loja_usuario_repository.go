package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/repositories"
)

// LojaUsuarioRepository implementa repositories.LojaUsuarioRepository
type LojaUsuarioRepository struct {
	db *gorm.DB
}

// NewLojaUsuarioRepository cria um novo LojaUsuarioRepository
func NewLojaUsuarioRepository(db *gorm.DB) repositories.LojaUsuarioRepository {
	return &LojaUsuarioRepository{db: db}
}

func (r *LojaUsuarioRepository) ListByUsuario(ctx context.Context, usuarioID, status string) ([]*entities.LojaUsuario, error) {
	var models []*LojaUsuarioModel

	err := dbFrom(ctx, r.db).
		Where("usuario_id = ? AND status = ?", usuarioID, status).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	lojas := make([]*entities.LojaUsuario, 0, len(models))
	for _, m := range models {
		lojas = append(lojas, &entities.LojaUsuario{
			ID:        m.ID,
			UsuarioID: m.UsuarioID,
			LojaID:    m.LojaID,
			Funcao:    entities.Funcao(m.Funcao),
			Status:    m.Status,
			CreatedAt: time.Unix(m.CreatedAt, 0),
		})
	}
	return lojas, nil
}
