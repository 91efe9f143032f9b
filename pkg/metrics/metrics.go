// Package metrics 定义服务的 Prometheus 指标。
//
// 指标通过 promauto 注册到默认 Registry，由 /metrics 端点暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ── HTTP ──

// HTTPRequests 按路由模板、方法、状态码统计的请求数
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "infofix",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by route, method and status code.",
}, []string{"route", "method", "status"})

// HTTPLatency 请求耗时分布
var HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "infofix",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "method"})

// ── 值班登记册 ──

// RegistryMutations 登记册写操作结果统计
// op: create | update | delete；kind: attendance | merit；result: ok | validation | not_found | persistence
var RegistryMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "infofix",
	Subsystem: "registry",
	Name:      "mutations_total",
	Help:      "Duty registry mutations by operation, record kind and result.",
}, []string{"op", "kind", "result"})

// RegistrySize 本地登记册中的记录数
var RegistrySize = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "infofix",
	Subsystem: "registry",
	Name:      "records",
	Help:      "Records held by the in-memory duty registry, by collection.",
}, []string{"collection"})

// SourceLoadFailures 数据源加载失败次数（失败时回落为空集合）
var SourceLoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "infofix",
	Subsystem: "registry",
	Name:      "source_load_failures_total",
	Help:      "Failed source fetches that degraded to an empty collection.",
}, []string{"collection"})

// ── 绩效评分 ──

// ScorecardsComputed 评分计算次数，按时间粒度
var ScorecardsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "infofix",
	Subsystem: "performance",
	Name:      "scorecards_computed_total",
	Help:      "Scorecards computed by window granularity.",
}, []string{"granularity"})

// TierAssignments 评分落入各等级的次数
var TierAssignments = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "infofix",
	Subsystem: "performance",
	Name:      "tier_assignments_total",
	Help:      "Tier classifications produced by scorecard computation.",
}, []string{"tier"})
