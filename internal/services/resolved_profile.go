package services

import (
	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/errors"
)

// ProfileState é o estado da máquina de resolução de perfil
type ProfileState string

const (
	ProfileStateInit      ProfileState = "INIT"
	ProfileStateResolving ProfileState = "RESOLVING"
	ProfileStateResolved  ProfileState = "RESOLVED"
	ProfileStateDegraded  ProfileState = "DEGRADED"
)

// ResolvedProfile é a projeção derivada da sessão + perfil + vínculos ativos.
// Nunca é persistido.
type ResolvedProfile struct {
	State       ProfileState
	User        *entities.Session
	UserProfile *entities.User
	UserRole    entities.Role
	UserLojas   []*entities.LojaUsuario
	Loading     bool
	Err         error
}

func initialProfile() ResolvedProfile {
	return ResolvedProfile{
		State:     ProfileStateInit,
		UserRole:  entities.RoleVisitante,
		UserLojas: []*entities.LojaUsuario{},
		Loading:   true,
	}
}

// clone copia os slices para que consumidores não compartilhem estado com o dono
func (p ResolvedProfile) clone() ResolvedProfile {
	lojas := make([]*entities.LojaUsuario, len(p.UserLojas))
	for i, l := range p.UserLojas {
		cp := *l
		lojas[i] = &cp
	}
	p.UserLojas = lojas
	if p.UserProfile != nil {
		cp := *p.UserProfile
		p.UserProfile = &cp
	}
	if p.User != nil {
		cp := *p.User
		p.User = &cp
	}
	return p
}

// LojaIDs retorna os ids das lojas dos vínculos ativos, na ordem do perfil
func (p ResolvedProfile) LojaIDs() []string {
	ids := make([]string, 0, len(p.UserLojas))
	for _, l := range p.UserLojas {
		if l != nil {
			ids = append(ids, l.LojaID)
		}
	}
	return ids
}

// profileEvent é a entrada da função de transição
type profileEvent interface {
	isProfileEvent()
}

type (
	resolutionStarted   struct{ session *entities.Session }
	sessionAbsent       struct{}
	sessionLookupFailed struct{ err error }
	profileLookupFailed struct {
		session *entities.Session
		err     error
	}
	adminConfirmed struct {
		session *entities.Session
		user    *entities.User
	}
	membershipsFailed struct {
		session *entities.Session
		user    *entities.User
	}
	membershipsLoaded struct {
		session *entities.Session
		user    *entities.User
		lojas   []*entities.LojaUsuario
	}
)

func (resolutionStarted) isProfileEvent()   {}
func (sessionAbsent) isProfileEvent()       {}
func (sessionLookupFailed) isProfileEvent() {}
func (profileLookupFailed) isProfileEvent() {}
func (adminConfirmed) isProfileEvent()      {}
func (membershipsFailed) isProfileEvent()   {}
func (membershipsLoaded) isProfileEvent()   {}

// transition é a única função que produz novos perfis a partir de eventos
func transition(prev ResolvedProfile, ev profileEvent) ResolvedProfile {
	switch e := ev.(type) {
	case resolutionStarted:
		next := prev
		next.State = ProfileStateResolving
		next.User = e.session
		next.Loading = true
		return next

	case sessionAbsent:
		return ResolvedProfile{
			State:     ProfileStateResolved,
			UserRole:  entities.RoleVisitante,
			UserLojas: []*entities.LojaUsuario{},
		}

	case sessionLookupFailed:
		return ResolvedProfile{
			State:     ProfileStateDegraded,
			UserRole:  entities.RoleVisitante,
			UserLojas: []*entities.LojaUsuario{},
			Err:       errors.Wrap(errors.ErrAuthLookupFailure, e.err),
		}

	case profileLookupFailed:
		return ResolvedProfile{
			State:     ProfileStateDegraded,
			User:      e.session,
			UserRole:  entities.RoleVisitante,
			UserLojas: []*entities.LojaUsuario{},
			Err:       errors.Wrap(errors.ErrProfileNotFound, e.err),
		}

	case adminConfirmed:
		return ResolvedProfile{
			State:       ProfileStateResolved,
			User:        e.session,
			UserProfile: e.user,
			UserRole:    entities.RoleAdmin,
			UserLojas:   []*entities.LojaUsuario{},
		}

	case membershipsFailed:
		// usuário conhecido, papel desconhecido: degrada sem expor erro
		return ResolvedProfile{
			State:       ProfileStateDegraded,
			User:        e.session,
			UserProfile: e.user,
			UserRole:    entities.RoleVisitante,
			UserLojas:   []*entities.LojaUsuario{},
		}

	case membershipsLoaded:
		active := activeOnly(e.lojas)
		return ResolvedProfile{
			State:       ProfileStateResolved,
			User:        e.session,
			UserProfile: e.user,
			UserRole:    deriveRole(active),
			UserLojas:   active,
		}
	}

	return prev
}

// deriveRole aplica a prioridade gerente > entregador > visitante
func deriveRole(lojas []*entities.LojaUsuario) entities.Role {
	role := entities.RoleVisitante
	for _, l := range lojas {
		if !l.IsActive() {
			continue
		}
		switch l.Funcao {
		case entities.FuncaoGerente:
			return entities.RoleGerente
		case entities.FuncaoEntregador:
			role = entities.RoleEntregador
		}
	}
	return role
}

func activeOnly(lojas []*entities.LojaUsuario) []*entities.LojaUsuario {
	active := make([]*entities.LojaUsuario, 0, len(lojas))
	for _, l := range lojas {
		if l != nil && l.IsActive() {
			active = append(active, l)
		}
	}
	return active
}
