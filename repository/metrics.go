/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCommitted  = "committed"
	outcomeRolledBack = "rolled_back"
	outcomeBeginFail  = "begin_failed"
	outcomeCommitFail = "commit_failed"
	outcomePanicked   = "panicked"
)

// TxMetrics counts units of work by operation and outcome and records their duration.
type TxMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewTxMetrics registers the transaction collectors with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewTxMetrics(reg prometheus.Registerer) *TxMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &TxMetrics{
		total: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dabas_transactions_total",
			Help: "Units of work executed, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dabas_transaction_duration_seconds",
			Help:    "Duration of units of work from begin to commit or rollback.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *TxMetrics) observe(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
