package services

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/testutil"
)

var _ = Describe("ProfileLoader", func() {
	var (
		ctx    context.Context
		users  *testutil.UserRepository
		lojas  *testutil.LojaUsuarioRepository
		loader *ProfileLoader
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = testutil.NewUserRepository()
		lojas = testutil.NewLojaUsuarioRepository()
		loader = NewProfileLoader(users, lojas, testLogger)
	})

	It("resolves visitante without touching the store when there is no session", func() {
		p := loader.Load(ctx, nil)

		Expect(p.State).To(Equal(ProfileStateResolved))
		Expect(p.UserRole).To(Equal(entities.RoleVisitante))
		Expect(p.UserLojas).To(BeEmpty())
		Expect(p.Err).NotTo(HaveOccurred())
		Expect(users.Calls()).To(BeZero())
	})

	It("reports ProfileNotFound when the user does not exist", func() {
		p := loader.Load(ctx, newSession(subjectA))

		Expect(p.UserRole).To(Equal(entities.RoleVisitante))
		Expect(p.User).NotTo(BeNil())
		Expect(p.UserProfile).To(BeNil())
		Expect(p.Err).To(MatchError(domainerrors.ErrProfileNotFound))
		Expect(lojas.Calls()).To(BeZero())
	})

	It("reports ProfileNotFound wrapping the store error", func() {
		cause := errors.New("connection refused")
		users.Err = cause

		p := loader.Load(ctx, newSession(subjectA))

		Expect(p.Err).To(MatchError(domainerrors.ErrProfileNotFound))
		Expect(p.Err).To(MatchError(cause))
	})

	It("skips the membership lookup for admins", func() {
		users.Put(newUser(subjectA, true))
		lojas.Set(ativo(subjectA, "L1", entities.FuncaoEntregador))

		p := loader.Load(ctx, newSession(subjectA))

		Expect(p.UserRole).To(Equal(entities.RoleAdmin))
		Expect(p.UserLojas).To(BeEmpty())
		Expect(lojas.Calls()).To(BeZero())
	})

	It("degrades to visitante keeping the profile when memberships fail", func() {
		users.Put(newUser(subjectA, false))
		lojas.Err = errors.New("timeout")

		p := loader.Load(ctx, newSession(subjectA))

		Expect(p.State).To(Equal(ProfileStateDegraded))
		Expect(p.UserRole).To(Equal(entities.RoleVisitante))
		Expect(p.UserProfile).NotTo(BeNil())
		Expect(p.Err).NotTo(HaveOccurred())
	})

	It("only queries active memberships of the subject", func() {
		users.Put(newUser(subjectA, false))
		lojas.Set(
			membership(subjectA, "L1", entities.FuncaoGerente, "inativo"),
			ativo(subjectA, "L2", entities.FuncaoEntregador),
			ativo(subjectB, "L3", entities.FuncaoGerente),
		)

		p := loader.Load(ctx, newSession(subjectA))

		Expect(p.UserRole).To(Equal(entities.RoleEntregador))
		Expect(p.LojaIDs()).To(Equal([]string{"L2"}))
	})
})
