package services

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/entregas-backend/internal/domain/errors"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
	"github.com/rafabene/entregas-backend/internal/testutil"
)

// profileRecorder guarda tudo o que um assinante recebeu
type profileRecorder struct {
	mu       sync.Mutex
	profiles []ResolvedProfile
}

func (r *profileRecorder) record(p ResolvedProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = append(r.profiles, p)
}

func (r *profileRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.profiles)
}

func (r *profileRecorder) states() []ProfileState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ProfileState, len(r.profiles))
	for i, p := range r.profiles {
		out[i] = p.State
	}
	return out
}

func (r *profileRecorder) last() ResolvedProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.profiles) == 0 {
		return ResolvedProfile{}
	}
	return r.profiles[len(r.profiles)-1]
}

var _ = Describe("RoleResolver", func() {
	var (
		ctx      context.Context
		auth     *testutil.AuthProvider
		users    *testutil.UserRepository
		lojas    *testutil.LojaUsuarioRepository
		resolver *RoleResolver
	)

	roleOf := func() entities.Role { return resolver.Profile().UserRole }
	loading := func() bool { return resolver.Profile().Loading }

	BeforeEach(func() {
		ctx = context.Background()
		auth = testutil.NewAuthProvider(nil)
		users = testutil.NewUserRepository(newUser(subjectA, false), newUser(subjectB, false))
		lojas = testutil.NewLojaUsuarioRepository(
			ativo(subjectA, "L1", entities.FuncaoEntregador),
			ativo(subjectB, "L2", entities.FuncaoGerente),
		)
		resolver = NewRoleResolver(auth, NewProfileLoader(users, lojas, testLogger), testLogger)
	})

	AfterEach(func() {
		resolver.Close()
	})

	Describe("Start", func() {
		It("is loading before the first resolution", func() {
			p := resolver.Profile()
			Expect(p.State).To(Equal(ProfileStateInit))
			Expect(p.Loading).To(BeTrue())
		})

		It("resolves the current session once", func() {
			auth.Emit(ports.AuthEventSignedIn, newSession(subjectA))

			Expect(resolver.Start(ctx)).To(Succeed())

			p := resolver.Profile()
			Expect(p.State).To(Equal(ProfileStateResolved))
			Expect(p.UserRole).To(Equal(entities.RoleEntregador))
			Expect(p.LojaIDs()).To(Equal([]string{"L1"}))
		})

		It("rejects a second start", func() {
			Expect(resolver.Start(ctx)).To(Succeed())
			Expect(resolver.Start(ctx)).To(MatchError(ErrResolverStarted))
		})

		It("degrades when the session query fails", func() {
			auth.SessionErr = errors.New("network down")

			Expect(resolver.Start(ctx)).To(Succeed())

			p := resolver.Profile()
			Expect(p.State).To(Equal(ProfileStateDegraded))
			Expect(p.UserRole).To(Equal(entities.RoleVisitante))
			Expect(p.Err).To(MatchError(domainerrors.ErrAuthLookupFailure))
		})
	})

	Describe("session events", func() {
		BeforeEach(func() {
			Expect(resolver.Start(ctx)).To(Succeed())
		})

		It("follows sign in and sign out", func() {
			auth.Emit(ports.AuthEventSignedIn, newSession(subjectB))
			Eventually(roleOf).Should(Equal(entities.RoleGerente))

			Expect(resolver.SignOut(ctx)).To(Succeed())
			Eventually(func() *entities.Session { return resolver.Profile().User }).Should(BeNil())
			Eventually(roleOf).Should(Equal(entities.RoleVisitante))
			Expect(resolver.Profile().UserProfile).To(BeNil())
		})

		It("discards a resolution superseded by a newer event", func() {
			release := make(chan struct{})
			users.BeforeFind = func(_ context.Context, id string) error {
				if id == subjectA {
					<-release
				}
				return nil
			}

			auth.Emit(ports.AuthEventSignedIn, newSession(subjectA))
			auth.Emit(ports.AuthEventSignedIn, newSession(subjectB))

			Eventually(loading).Should(BeFalse())
			Expect(roleOf()).To(Equal(entities.RoleGerente))

			close(release)

			Consistently(roleOf, 100*time.Millisecond).Should(Equal(entities.RoleGerente))
			Expect(resolver.Profile().User.Subject).To(Equal(subjectB))
		})
	})

	Describe("Subscribe", func() {
		It("delivers the current snapshot and every publish in order", func() {
			rec := &profileRecorder{}
			resolver.Subscribe(rec.record)

			Expect(resolver.Start(ctx)).To(Succeed())

			Eventually(rec.states).Should(Equal([]ProfileState{
				ProfileStateInit,
				ProfileStateResolving,
				ProfileStateResolved,
			}))
		})

		It("stops delivering after Unsubscribe, which is idempotent", func() {
			rec := &profileRecorder{}
			sub := resolver.Subscribe(rec.record)
			Expect(resolver.Start(ctx)).To(Succeed())
			Eventually(rec.count).Should(Equal(3))

			sub.Unsubscribe()
			sub.Unsubscribe()

			auth.Emit(ports.AuthEventSignedIn, newSession(subjectA))
			Eventually(roleOf).Should(Equal(entities.RoleEntregador))
			Consistently(rec.count, 50*time.Millisecond).Should(Equal(3))
		})

		It("hands out copies that do not affect the resolver", func() {
			auth.Emit(ports.AuthEventSignedIn, newSession(subjectA))
			Expect(resolver.Start(ctx)).To(Succeed())

			p := resolver.Profile()
			p.UserLojas[0].LojaID = "adulterada"

			Expect(resolver.Profile().LojaIDs()).To(Equal([]string{"L1"}))
		})
	})

	Describe("Reload", func() {
		It("picks up membership changes for the current session", func() {
			auth.Emit(ports.AuthEventSignedIn, newSession(subjectA))
			Expect(resolver.Start(ctx)).To(Succeed())
			Expect(roleOf()).To(Equal(entities.RoleEntregador))

			lojas.Set(ativo(subjectA, "L1", entities.FuncaoGerente))

			p := resolver.Reload(ctx)
			Expect(p.UserRole).To(Equal(entities.RoleGerente))
			Expect(p.Loading).To(BeFalse())
		})
	})

	Describe("Close", func() {
		It("releases the auth subscription and rejects a later start", func() {
			Expect(resolver.Start(ctx)).To(Succeed())
			Expect(auth.Subscribers()).To(Equal(1))

			resolver.Close()
			resolver.Close()

			Expect(auth.Subscribers()).To(BeZero())
			Expect(resolver.Start(ctx)).To(MatchError(ErrResolverClosed))
		})

		It("prevents in-flight resolutions from publishing", func() {
			Expect(resolver.Start(ctx)).To(Succeed())

			rec := &profileRecorder{}
			resolver.Subscribe(rec.record)
			Eventually(rec.count).Should(Equal(1))

			release := make(chan struct{})
			users.BeforeFind = func(context.Context, string) error {
				<-release
				return nil
			}

			auth.Emit(ports.AuthEventSignedIn, newSession(subjectA))
			Eventually(loading).Should(BeTrue())

			resolver.Close()
			close(release)

			Consistently(loading, 100*time.Millisecond).Should(BeTrue())
			Expect(rec.last().UserRole).NotTo(Equal(entities.RoleEntregador))
		})
	})
})
