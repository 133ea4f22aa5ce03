package services

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/entregas-backend/internal/domain/errors"
)

var _ = Describe("transition", func() {
	session := newSession(subjectA)
	user := newUser(subjectA, false)

	It("starts in INIT with loading and no role", func() {
		p := initialProfile()
		Expect(p.State).To(Equal(ProfileStateInit))
		Expect(p.Loading).To(BeTrue())
		Expect(p.UserRole).To(Equal(entities.RoleVisitante))
		Expect(p.UserLojas).To(BeEmpty())
	})

	It("keeps the previous profile while RESOLVING", func() {
		prev := transition(initialProfile(), adminConfirmed{session: session, user: newUser(subjectA, true)})
		next := transition(prev, resolutionStarted{session: session})

		Expect(next.State).To(Equal(ProfileStateResolving))
		Expect(next.Loading).To(BeTrue())
		Expect(next.UserRole).To(Equal(entities.RoleAdmin))
	})

	DescribeTable("terminal events",
		func(ev profileEvent, state ProfileState, role entities.Role, hasProfile bool, code error) {
			p := transition(transition(initialProfile(), resolutionStarted{session: session}), ev)

			Expect(p.Loading).To(BeFalse())
			Expect(p.State).To(Equal(state))
			Expect(p.UserRole).To(Equal(role))
			Expect(p.UserLojas).NotTo(BeNil())
			if hasProfile {
				Expect(p.UserProfile).NotTo(BeNil())
			} else {
				Expect(p.UserProfile).To(BeNil())
			}
			if code == nil {
				Expect(p.Err).NotTo(HaveOccurred())
			} else {
				Expect(p.Err).To(MatchError(code))
			}
		},
		Entry("no session", sessionAbsent{}, ProfileStateResolved, entities.RoleVisitante, false, nil),
		Entry("session lookup failure", sessionLookupFailed{err: errors.New("timeout")},
			ProfileStateDegraded, entities.RoleVisitante, false, domainerrors.ErrAuthLookupFailure),
		Entry("profile not found", profileLookupFailed{session: session},
			ProfileStateDegraded, entities.RoleVisitante, false, domainerrors.ErrProfileNotFound),
		Entry("profile fetch error", profileLookupFailed{session: session, err: errors.New("boom")},
			ProfileStateDegraded, entities.RoleVisitante, false, domainerrors.ErrProfileNotFound),
		Entry("admin", adminConfirmed{session: session, user: newUser(subjectA, true)},
			ProfileStateResolved, entities.RoleAdmin, true, nil),
		Entry("membership failure", membershipsFailed{session: session, user: user},
			ProfileStateDegraded, entities.RoleVisitante, true, nil),
		Entry("memberships", membershipsLoaded{session: session, user: user, lojas: []*entities.LojaUsuario{
			ativo(subjectA, "L1", entities.FuncaoEntregador),
		}}, ProfileStateResolved, entities.RoleEntregador, true, nil),
	)

	It("clears the session when there is none", func() {
		prev := transition(initialProfile(), adminConfirmed{session: session, user: newUser(subjectA, true)})
		p := transition(prev, sessionAbsent{})

		Expect(p.User).To(BeNil())
		Expect(p.UserProfile).To(BeNil())
		Expect(p.UserLojas).To(BeEmpty())
	})
})

var _ = Describe("deriveRole", func() {
	DescribeTable("role priority",
		func(expected entities.Role, lojas ...*entities.LojaUsuario) {
			Expect(deriveRole(lojas)).To(Equal(expected))
		},
		Entry("no memberships", entities.RoleVisitante),
		Entry("only entregador", entities.RoleEntregador,
			ativo(subjectA, "L1", entities.FuncaoEntregador),
			ativo(subjectA, "L2", entities.FuncaoEntregador)),
		Entry("gerente first", entities.RoleGerente,
			ativo(subjectA, "L1", entities.FuncaoGerente),
			ativo(subjectA, "L2", entities.FuncaoEntregador)),
		Entry("gerente last", entities.RoleGerente,
			ativo(subjectA, "L1", entities.FuncaoEntregador),
			ativo(subjectA, "L2", entities.FuncaoGerente)),
		Entry("inactive gerente ignored", entities.RoleEntregador,
			membership(subjectA, "L1", entities.FuncaoGerente, "inativo"),
			ativo(subjectA, "L2", entities.FuncaoEntregador)),
		Entry("only inactive", entities.RoleVisitante,
			membership(subjectA, "L1", entities.FuncaoGerente, "suspenso")),
		Entry("unknown funcao", entities.RoleVisitante,
			ativo(subjectA, "L1", entities.Funcao("caixa"))),
	)

	It("drops inactive memberships from the published list", func() {
		p := transition(initialProfile(), membershipsLoaded{
			session: newSession(subjectA),
			user:    newUser(subjectA, false),
			lojas: []*entities.LojaUsuario{
				membership(subjectA, "L1", entities.FuncaoGerente, "inativo"),
				ativo(subjectA, "L2", entities.FuncaoEntregador),
			},
		})

		Expect(p.UserRole).To(Equal(entities.RoleEntregador))
		Expect(p.LojaIDs()).To(Equal([]string{"L2"}))
	})
})

var _ = Describe("ResolvedProfile.clone", func() {
	It("does not share memberships with the original", func() {
		p := transition(initialProfile(), membershipsLoaded{
			session: newSession(subjectA),
			user:    newUser(subjectA, false),
			lojas:   []*entities.LojaUsuario{ativo(subjectA, "L1", entities.FuncaoEntregador)},
		})

		cp := p.clone()
		cp.UserLojas[0].LojaID = "alterada"
		cp.UserProfile.Nome = "alterado"

		Expect(p.UserLojas[0].LojaID).To(Equal("L1"))
		Expect(p.UserProfile.Nome).NotTo(Equal("alterado"))
	})
})
