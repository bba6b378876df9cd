/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates the Prometheus metrics of the service.
type Collector struct {
	registry           *prometheus.Registry
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	rulesCreated       prometheus.Counter
	rulesDeleted       prometheus.Counter
}

var (
	collector *Collector
	once      sync.Once
)

// GetCollector returns the singleton metrics collector.
func GetCollector() *Collector {
	once.Do(func() {
		registry := prometheus.NewRegistry()
		collector = &Collector{
			registry: registry,
			evaluationsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
				Name: "approval_evaluations_total",
				Help: "Total number of delivery request evaluations by outcome",
			}, []string{"outcome"}),
			evaluationDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
				Name:    "approval_evaluation_duration_seconds",
				Help:    "Time taken to evaluate a delivery request against the rule set",
				Buckets: prometheus.DefBuckets,
			}),
			rulesCreated: promauto.With(registry).NewCounter(prometheus.CounterOpts{
				Name: "approval_rules_created_total",
				Help: "Total number of approval rules created",
			}),
			rulesDeleted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
				Name: "approval_rules_deleted_total",
				Help: "Total number of approval rules deleted",
			}),
		}
	})
	return collector
}

// RecordEvaluation records an evaluation outcome ("approved" or "rejected")
// with its duration in seconds.
func (c *Collector) RecordEvaluation(approved bool, seconds float64) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	c.evaluationsTotal.WithLabelValues(outcome).Inc()
	c.evaluationDuration.Observe(seconds)
}

// RecordRuleCreated increments the rule creation counter.
func (c *Collector) RecordRuleCreated() {
	c.rulesCreated.Inc()
}

// RecordRuleDeleted increments the rule deletion counter.
func (c *Collector) RecordRuleDeleted() {
	c.rulesDeleted.Inc()
}

// Handler exposes the registry over HTTP for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
