package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsCommitted tracks simulated payments written to the log, by destination category
	PaymentsCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspay_payments_committed_total",
			Help: "Total number of simulated payments committed",
		},
		[]string{"category"},
	)

	// ConfirmationsRequested tracks sends that hit the confirmation gate
	ConfirmationsRequested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspay_confirmations_requested_total",
			Help: "Total number of sends that required explicit confirmation",
		},
		[]string{"category"},
	)

	// ConfirmationsDeclined tracks risky sends the user backed out of
	ConfirmationsDeclined = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspay_confirmations_declined_total",
			Help: "Total number of risky sends cancelled at the confirmation gate",
		},
		[]string{"category"},
	)

	// Lookups tracks classifications by outcome
	Lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspay_lookups_total",
			Help: "Total number of address classifications",
		},
		[]string{"category", "found"},
	)

	// RegistryMutations tracks admin changes to the address registry
	RegistryMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspay_registry_mutations_total",
			Help: "Total number of registry mutations",
		},
		[]string{"op"},
	)

	// StorageErrors tracks failed reads and writes against the local store
	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspay_storage_errors_total",
			Help: "Total number of local storage errors",
		},
		[]string{"record", "op"},
	)

	// AdminLogins tracks login attempts by result
	AdminLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspay_admin_logins_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"result"},
	)

	// TransactionLogSize tracks the number of persisted transactions
	TransactionLogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crosspay_transaction_log_size",
			Help: "Number of transactions currently held in the bounded log",
		},
	)
)
