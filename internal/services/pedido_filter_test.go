package services

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/entregas-backend/internal/domain/entities"
)

func lojaIDsOf(ps []*entities.Pedido) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.LojaID
	}
	return out
}

var _ = Describe("FiltrarPedidosPorUsuario", func() {
	input := pedidos("L1", "L2", "L2", "L3", "L1")

	It("returns the same slice for admin", func() {
		out := FiltrarPedidosPorUsuario(input, entities.RoleAdmin, nil)

		Expect(out).To(HaveLen(len(input)))
		Expect(&out[0]).To(BeIdenticalTo(&input[0]))
	})

	It("keeps the single store of a gerente", func() {
		out := FiltrarPedidosPorUsuario(input, entities.RoleGerente, []*entities.LojaUsuario{
			ativo(subjectA, "L1", entities.FuncaoGerente),
		})

		Expect(lojaIDsOf(out)).To(Equal([]string{"L1", "L1"}))
		Expect(out[0]).To(BeIdenticalTo(input[0]))
		Expect(out[1]).To(BeIdenticalTo(input[4]))
	})

	// regressão: gerente com duas lojas não vê nada
	It("returns nothing for a gerente with two stores", func() {
		out := FiltrarPedidosPorUsuario(input, entities.RoleGerente, []*entities.LojaUsuario{
			ativo(subjectA, "L1", entities.FuncaoGerente),
			ativo(subjectA, "L2", entities.FuncaoEntregador),
		})

		Expect(out).NotTo(BeNil())
		Expect(out).To(BeEmpty())
	})

	It("keeps every store of an entregador in input order", func() {
		out := FiltrarPedidosPorUsuario(input, entities.RoleEntregador, []*entities.LojaUsuario{
			ativo(subjectA, "L3", entities.FuncaoEntregador),
			ativo(subjectA, "L2", entities.FuncaoEntregador),
		})

		Expect(lojaIDsOf(out)).To(Equal([]string{"L2", "L2", "L3"}))
	})

	DescribeTable("returns an empty, non-nil slice",
		func(role entities.Role, lojas []*entities.LojaUsuario) {
			out := FiltrarPedidosPorUsuario(input, role, lojas)
			Expect(out).NotTo(BeNil())
			Expect(out).To(BeEmpty())
		},
		Entry("visitante", entities.RoleVisitante, []*entities.LojaUsuario{ativo(subjectA, "L1", entities.FuncaoEntregador)}),
		Entry("gerente without stores", entities.RoleGerente, nil),
		Entry("entregador without stores", entities.RoleEntregador, []*entities.LojaUsuario{}),
		Entry("unknown role", entities.Role("dono"), []*entities.LojaUsuario{ativo(subjectA, "L1", entities.FuncaoGerente)}),
	)

	DescribeTable("is idempotent",
		func(role entities.Role, lojas []*entities.LojaUsuario) {
			once := FiltrarPedidosPorUsuario(input, role, lojas)
			twice := FiltrarPedidosPorUsuario(once, role, lojas)
			Expect(twice).To(Equal(once))
		},
		Entry("admin", entities.RoleAdmin, nil),
		Entry("gerente", entities.RoleGerente, []*entities.LojaUsuario{ativo(subjectA, "L2", entities.FuncaoGerente)}),
		Entry("entregador", entities.RoleEntregador, []*entities.LojaUsuario{
			ativo(subjectA, "L1", entities.FuncaoEntregador),
			ativo(subjectA, "L3", entities.FuncaoEntregador),
		}),
		Entry("visitante", entities.RoleVisitante, nil),
	)

	It("does not modify the input", func() {
		before := lojaIDsOf(input)
		FiltrarPedidosPorUsuario(input, entities.RoleEntregador, []*entities.LojaUsuario{
			ativo(subjectA, "L2", entities.FuncaoEntregador),
		})
		Expect(lojaIDsOf(input)).To(Equal(before))
	})

	It("skips nil orders and nil memberships", func() {
		withNils := []*entities.Pedido{nil, input[0], nil, input[1]}

		Expect(func() {
			out := FiltrarPedidosPorUsuario(withNils, entities.RoleGerente, []*entities.LojaUsuario{
				nil,
				ativo(subjectA, "L1", entities.FuncaoGerente),
			})
			Expect(lojaIDsOf(out)).To(Equal([]string{"L1"}))

			out = FiltrarPedidosPorUsuario(withNils, entities.RoleEntregador, []*entities.LojaUsuario{
				ativo(subjectA, "L2", entities.FuncaoEntregador),
				nil,
			})
			Expect(lojaIDsOf(out)).To(Equal([]string{"L2"}))

			out = FiltrarPedidosPorUsuario(withNils, entities.RoleGerente, []*entities.LojaUsuario{nil})
			Expect(out).NotTo(BeNil())
			Expect(out).To(BeEmpty())
		}).NotTo(Panic())
	})
})
