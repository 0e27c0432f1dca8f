// Package metrics регистрирует счётчики Prometheus для платёжного
// потока и решений политики доступа.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsInitiated количество инициированных платёжных сессий по планам.
	PaymentsInitiated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_initiated_total",
		Help: "Number of initiated payment sessions.",
	}, []string{"plan_type"})

	// PaymentsVerified количество сверок платежей по исходам.
	PaymentsVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_verified_total",
		Help: "Number of payment verifications by outcome.",
	}, []string{"outcome"})

	// AccessDecisions количество решений политики доступа по типу решения.
	AccessDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "access_decisions_total",
		Help: "Number of access decisions by decision kind.",
	}, []string{"decision"})
)
