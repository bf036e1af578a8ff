package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the keystore module.
// Tracks writes, lookup hit rates, live sizes and operation durations.
type Metrics struct {
	EntriesWritten    *prometheus.CounterVec
	EntryLookups      *prometheus.CounterVec
	Entries           prometheus.Gauge
	SetMembersAdded   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New creates the keystore metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EntriesWritten: f.NewCounterVec(prometheus.CounterOpts{
			Name: "keystore_entries_written_total",
			Help: "Entry writes by outcome (created or updated)",
		}, []string{"outcome"}),
		EntryLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "keystore_entry_lookups_total",
			Help: "Entry lookups by result (hit or miss)",
		}, []string{"result"}),
		Entries: f.NewGauge(prometheus.GaugeOpts{
			Name: "keystore_entries",
			Help: "Number of stored entries",
		}),
		SetMembersAdded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "keystore_set_members_added_total",
			Help: "Set member additions by outcome (added or present)",
		}, []string{"outcome"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "keystore_operation_duration_seconds",
			Help:    "Duration of keystore service operations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"op"}),
	}
}

// ObserveWrite records an entry write.
func (m *Metrics) ObserveWrite(created bool) {
	outcome := "updated"
	if created {
		outcome = "created"
	}
	m.EntriesWritten.WithLabelValues(outcome).Inc()
}

// ObserveLookup records an entry lookup.
func (m *Metrics) ObserveLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.EntryLookups.WithLabelValues(result).Inc()
}

// SetEntries records the current entry count.
func (m *Metrics) SetEntries(n int) {
	m.Entries.Set(float64(n))
}

// ObserveMemberAdd records a set member addition.
func (m *Metrics) ObserveMemberAdd(added bool) {
	outcome := "present"
	if added {
		outcome = "added"
	}
	m.SetMembersAdded.WithLabelValues(outcome).Inc()
}

// ObserveOperation records the duration of op.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
