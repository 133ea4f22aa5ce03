package services

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
	"github.com/rafabene/entregas-backend/internal/domain/repositories"
	"github.com/rafabene/entregas-backend/internal/testutil"
)

var _ = Describe("PedidoService", func() {
	var (
		repo    *testutil.PedidoRepository
		service *PedidoService
	)

	BeforeEach(func() {
		repo = &testutil.PedidoRepository{Pedidos: pedidos("L1", "L2", "L3")}
		service = NewPedidoService(repo, testLogger)
	})

	It("filters by the profile role and stores", func() {
		profile := ResolvedProfile{
			UserRole:  entities.RoleEntregador,
			UserLojas: []*entities.LojaUsuario{ativo(subjectA, "L3", entities.FuncaoEntregador)},
		}

		out, err := service.ListVisible(context.Background(), profile, repositories.PedidoFilters{Limit: 10})

		Expect(err).NotTo(HaveOccurred())
		Expect(lojaIDsOf(out)).To(Equal([]string{"L3"}))
		Expect(repo.LastFilters.Limit).To(Equal(10))
		Expect(repo.LastFilters.LojaIDs).To(Equal([]string{"L3"}))
	})

	It("does not scope the query for admin", func() {
		out, err := service.ListVisible(context.Background(), ResolvedProfile{UserRole: entities.RoleAdmin},
			repositories.PedidoFilters{LojaIDs: []string{"L1"}})

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(3))
		Expect(repo.LastFilters.LojaIDs).To(BeNil())
	})

	It("skips the query when the profile has no stores", func() {
		out, err := service.ListVisible(context.Background(), ResolvedProfile{UserRole: entities.RoleVisitante},
			repositories.PedidoFilters{Limit: 10})

		Expect(err).NotTo(HaveOccurred())
		Expect(out).NotTo(BeNil())
		Expect(out).To(BeEmpty())
		Expect(repo.LastFilters.Limit).To(BeZero())
	})

	It("propagates store errors", func() {
		repo.Err = errors.New("boom")

		_, err := service.ListVisible(context.Background(), ResolvedProfile{UserRole: entities.RoleAdmin}, repositories.PedidoFilters{})
		Expect(err).To(MatchError("boom"))
	})
})
