/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry's prometheus collectors.
type Metrics struct {
	Portals     *prometheus.GaugeVec
	Lookups     *prometheus.CounterVec
	Saves       *prometheus.CounterVec
	LoadRecords *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Portals: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "portalnetwork_portals",
			Help: "Number of registered portals by state",
		}, []string{"state"}),
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portalnetwork_lookups_total",
			Help: "Portal lookups by kind (address, position) and result (hit, miss)",
		}, []string{"kind", "result"}),
		Saves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portalnetwork_saves_total",
			Help: "Document saves by result (ok, error)",
		}, []string{"result"}),
		LoadRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portalnetwork_load_records_total",
			Help: "Persisted portal records processed at load by outcome (loaded, skipped)",
		}, []string{"outcome"}),
	}
}

// ObserveLookup records the result of a lookup of the given kind.
func (m *Metrics) ObserveLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.Lookups.WithLabelValues(kind, result).Inc()
}

// ObserveSave records the result of a document save.
func (m *Metrics) ObserveSave(err error) {
	if err != nil {
		m.Saves.WithLabelValues("error").Inc()
		return
	}
	m.Saves.WithLabelValues("ok").Inc()
}

// SetPortals publishes the current portal counts.
func (m *Metrics) SetPortals(valid, invalid int) {
	m.Portals.WithLabelValues("valid").Set(float64(valid))
	m.Portals.WithLabelValues("invalid").Set(float64(invalid))
}
