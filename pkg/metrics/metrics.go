package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP 指标
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// 业务指标
var (
	discountsAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discounts_applied_total",
			Help: "Total number of successfully applied discounts",
		},
		[]string{"discount_type"},
	)

	discountAmountTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discount_amount_total",
			Help: "Total discount amount granted, by discount type",
		},
		[]string{"discount_type"},
	)

	// 活动下线必须上报触发条件（预算耗尽 / 过期），方便排查"活动怎么没了"
	campaignDeactivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_deactivations_total",
			Help: "Total number of lazy campaign deactivations, by cause",
		},
		[]string{"cause"},
	)
)

// RecordHTTPRequest 记录一次 HTTP 请求
func RecordHTTPRequest(method, endpoint, status string, durationSeconds float64) {
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordDiscountApplied 记录一次折扣核销
func RecordDiscountApplied(discountType string, amount float64) {
	discountsAppliedTotal.WithLabelValues(discountType).Inc()
	discountAmountTotal.WithLabelValues(discountType).Add(amount)
}

// RecordCampaignDeactivated 记录一次活动惰性下线
func RecordCampaignDeactivated(cause string) {
	campaignDeactivationsTotal.WithLabelValues(cause).Inc()
}
