package access

import "github.com/agrichain/subscription-platform/internal/models"

// Предопределённые классы ресурсов платформы.
var (
	// Dashboard общий кабинет: любая роль, требуется оплаченная подписка.
	Dashboard = Resource{
		Name:                 "dashboard",
		RequiresSubscription: true,
	}
	// ProducerDashboard кабинет производителя.
	ProducerDashboard = Resource{
		Name:                 "producer-dashboard",
		AllowedRoles:         []models.Role{models.RoleProducer, models.RoleAdmin},
		RequiresSubscription: true,
	}
	// BuyerDashboard кабинет покупателя.
	BuyerDashboard = Resource{
		Name:                 "buyer-dashboard",
		AllowedRoles:         []models.Role{models.RoleBuyer, models.RoleAdmin},
		RequiresSubscription: true,
	}
	// AdminPanel административная панель: только admin, подписка не проверяется.
	AdminPanel = Resource{
		Name:         "admin-panel",
		AllowedRoles: []models.Role{models.RoleAdmin},
	}
)

var registry = map[string]Resource{
	Dashboard.Name:         Dashboard,
	ProducerDashboard.Name: ProducerDashboard,
	BuyerDashboard.Name:    BuyerDashboard,
	AdminPanel.Name:        AdminPanel,
}

// ResourceByName возвращает зарегистрированный ресурс по имени.
func ResourceByName(name string) (Resource, bool) {
	res, ok := registry[name]
	return res, ok
}
