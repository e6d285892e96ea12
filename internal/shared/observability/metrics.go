package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	InsertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symtab_inserts_total",
		Help: "Insert attempts into the current scope, by outcome.",
	}, []string{"outcome"})

	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symtab_lookups_total",
		Help: "Name resolutions through the scope chain, by outcome.",
	}, []string{"outcome"})

	RemovesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symtab_removes_total",
		Help: "Remove attempts against the current scope, by outcome.",
	}, []string{"outcome"})

	ScopesEnteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symtab_scopes_entered_total",
		Help: "Total number of scope tables created, including roots.",
	})

	ScopesExitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symtab_scopes_exited_total",
		Help: "Total number of scope tables destroyed by exit or teardown.",
	})

	RootExitRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symtab_root_exit_rejected_total",
		Help: "Exit requests ignored because only the root scope remained.",
	})

	ChainLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "symtab_chain_length",
		Help:    "Bucket chain length observed after a successful insert.",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16},
	})

	ScriptCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symtab_script_commands_total",
		Help: "Script commands executed, by command letter.",
	}, []string{"command"})
)

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeDuplicate = "duplicate"
	OutcomeNotFound  = "not_found"
)
