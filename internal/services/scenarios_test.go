package services

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/testutil"
)

var _ = Describe("Delivery dashboard flows", func() {
	var (
		ctx   context.Context
		auth  *testutil.AuthProvider
		users *testutil.UserRepository
		lojas *testutil.LojaUsuarioRepository
	)

	start := func() *RoleResolver {
		r := NewRoleResolver(auth, NewProfileLoader(users, lojas, testLogger), testLogger)
		DeferCleanup(r.Close)
		Expect(r.Start(ctx)).To(Succeed())
		return r
	}

	BeforeEach(func() {
		ctx = context.Background()
		auth = testutil.NewAuthProvider(newSession(subjectA))
		users = testutil.NewUserRepository()
		lojas = testutil.NewLojaUsuarioRepository()
	})

	It("admin sees every order in the original order", func() {
		users.Put(newUser(subjectA, true))
		lojas.Set(ativo(subjectA, "L1", entities.FuncaoEntregador))

		p := start().Profile()
		Expect(p.UserRole).To(Equal(entities.RoleAdmin))

		input := pedidos("L1", "L2", "L3", "L1", "L2", "L3", "L1", "L2", "L3", "L1")
		Expect(FiltrarPedidosPorUsuario(input, p.UserRole, p.UserLojas)).To(Equal(input))
	})

	It("entregador sees only the orders of its store", func() {
		users.Put(newUser(subjectA, false))
		lojas.Set(ativo(subjectA, "L2", entities.FuncaoEntregador))

		p := start().Profile()
		Expect(p.UserRole).To(Equal(entities.RoleEntregador))

		input := pedidos("L1", "L2", "L2", "L3")
		out := FiltrarPedidosPorUsuario(input, p.UserRole, p.UserLojas)
		Expect(out).To(Equal([]*entities.Pedido{input[1], input[2]}))
	})

	It("user without memberships is denied by an entregador guard", func() {
		users.Put(newUser(subjectA, false))

		p := start().Profile()
		Expect(p.UserRole).To(Equal(entities.RoleVisitante))

		timer := &fakeTimer{}
		guard := NewGuard(entities.RoleEntregador, GuardOptions{
			RedirectDelay: 2 * time.Second,
			AfterFunc:     timer.AfterFunc,
		})
		DeferCleanup(guard.Close)

		Expect(guard.Observe(p)).To(Equal(GuardDenied))
		Expect(timer.scheduled).To(Equal(1))
	})

	It("recovers from a transient membership failure with a reload", func() {
		users.Put(newUser(subjectA, false))
		lojas.Set(ativo(subjectA, "L1", entities.FuncaoGerente))
		lojas.Err = errors.New("connection reset")

		r := start()
		p := r.Profile()
		Expect(p.UserRole).To(Equal(entities.RoleVisitante))
		Expect(p.UserProfile).NotTo(BeNil())
		Expect(p.Err).NotTo(HaveOccurred())

		lojas.Err = nil

		p = r.Reload(ctx)
		Expect(p.UserRole).To(Equal(entities.RoleGerente))
		Expect(p.State).To(Equal(ProfileStateResolved))
	})
})
