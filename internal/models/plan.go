package models

import "time"

// PlanType тип тарифного плана, зеркалит роль пользователя (кроме админа).
type PlanType string

const (
	// PlanProducer план производителя.
	PlanProducer PlanType = "producer"
	// PlanBuyer план покупателя.
	PlanBuyer PlanType = "buyer"
)

// Valid проверяет, что тип плана входит в закрытый список.
func (p PlanType) Valid() bool {
	return p == PlanProducer || p == PlanBuyer
}

// Role возвращает роль, которой соответствует план.
func (p PlanType) Role() Role {
	return Role(p)
}

// Plan описывает тарифный план: каноничную цену в основных единицах валюты
// и длительность оплачиваемого периода. Цена в копейках/сантимах (minor units)
// считается строго один раз на границе с платёжным шлюзом.
type Plan struct {
	Type         PlanType
	Amount       int // цена в основных единицах валюты (F CFA)
	PeriodYears  int
	PeriodMonths int
}

// PeriodEnd вычисляет дату окончания периода, начинающегося в from.
func (p Plan) PeriodEnd(from time.Time) time.Time {
	return from.AddDate(p.PeriodYears, p.PeriodMonths, 0)
}

// AmountMinorUnits возвращает цену плана в минимальных единицах валюты (x100).
func (p Plan) AmountMinorUnits() int {
	return p.Amount * 100
}

// Catalog каталог планов: единственный источник каноничных цен.
// Сумма из запроса клиента сверяется с каталогом и никогда не берётся на веру.
type Catalog map[PlanType]Plan

// DefaultCatalog возвращает каталог планов по умолчанию.
func DefaultCatalog() Catalog {
	return Catalog{
		PlanProducer: {Type: PlanProducer, Amount: 500, PeriodYears: 1},
		PlanBuyer:    {Type: PlanBuyer, Amount: 1000, PeriodMonths: 1},
	}
}

// Find возвращает план по типу и признак его наличия в каталоге.
func (c Catalog) Find(p PlanType) (Plan, bool) {
	plan, ok := c[p]
	return plan, ok
}
