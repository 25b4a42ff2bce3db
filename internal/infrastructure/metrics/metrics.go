package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PartnerMetrics содержит метрики партнерского сервиса
type PartnerMetrics struct {
	// Регистрации и входы
	SignupsTotal prometheus.CounterVec
	LoginsTotal  prometheus.CounterVec

	// Лицензии
	LicensesGrantedTotal prometheus.CounterVec
	LicensesRevokedTotal prometheus.CounterVec
	LicensesRefusedTotal prometheus.CounterVec

	// Комиссии
	CommissionPoolTotal   prometheus.CounterVec
	CommissionChainDepth  prometheus.Histogram
	CommissionChainErrors prometheus.CounterVec
	PlatformFeeTotal      prometheus.Counter

	// Объемы и ранги
	VolumeLotsTotal   prometheus.CounterVec
	VolumeRewardTotal prometheus.CounterVec
	RankChangesTotal  prometheus.CounterVec

	// HTTP
	HTTPRequestDuration prometheus.HistogramVec
}

// NewPartnerMetrics регистрирует метрики в reg
func NewPartnerMetrics(reg prometheus.Registerer) *PartnerMetrics {
	factory := promauto.With(reg)

	return &PartnerMetrics{
		SignupsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partner_signups_total",
				Help: "Количество регистраций по типу аккаунта",
			},
			[]string{"kind"},
		),

		LoginsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partner_logins_total",
				Help: "Количество попыток входа по типу аккаунта и результату",
			},
			[]string{"kind", "result"},
		),

		LicensesGrantedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "licenses_granted_total",
				Help: "Количество выданных лицензий",
			},
			[]string{"platform"},
		),

		LicensesRevokedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "licenses_revoked_total",
				Help: "Количество отозванных лицензий",
			},
			[]string{"platform"},
		),

		LicensesRefusedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "licenses_refused_total",
				Help: "Количество отказов в выдаче лицензии",
			},
			[]string{"reason"},
		),

		CommissionPoolTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_pool_usd_total",
				Help: "Сумма рассчитанных комиссионных пулов в USD",
			},
			[]string{"source_rank"},
		),

		CommissionChainDepth: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "commission_chain_upliners",
				Help:    "Количество аплайнеров в рассчитанных цепочках",
				Buckets: prometheus.LinearBuckets(0, 2, 10),
			},
		),

		CommissionChainErrors: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_chain_errors_total",
				Help: "Ошибки построения реферальной цепочки",
			},
			[]string{"error_type"},
		),

		PlatformFeeTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "commission_platform_fee_usd_total",
				Help: "Сумма комиссии платформы в рассчитанных распределениях",
			},
		),

		VolumeLotsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partner_volume_lots_total",
				Help: "Учтенный торговый объем в лотах",
			},
			[]string{"rank"},
		),

		VolumeRewardTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partner_volume_reward_usd_total",
				Help: "Учтенное вознаграждение в USD",
			},
			[]string{"rank"},
		),

		RankChangesTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partner_rank_changes_total",
				Help: "Количество повышений ранга",
			},
			[]string{"from", "to"},
		),

		HTTPRequestDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Время обработки HTTP запроса в секундах",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms, 10ms, 20ms...
			},
			[]string{"method", "route", "status"},
		),
	}
}

// RecordSignup записывает регистрацию
func (m *PartnerMetrics) RecordSignup(kind string) {
	m.SignupsTotal.WithLabelValues(kind).Inc()
}

// RecordLogin записывает попытку входа
func (m *PartnerMetrics) RecordLogin(kind string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.LoginsTotal.WithLabelValues(kind, result).Inc()
}

// knownPlatforms bounds the platform label; anything else counts as "other".
var knownPlatforms = map[string]string{
	"MT4":     "MT4",
	"MT5":     "MT5",
	"CTRADER": "cTrader",
}

func platformLabel(platform string) string {
	if label, ok := knownPlatforms[strings.ToUpper(strings.TrimSpace(platform))]; ok {
		return label
	}
	return "other"
}

func (m *PartnerMetrics) RecordLicenseGranted(platform string) {
	m.LicensesGrantedTotal.WithLabelValues(platformLabel(platform)).Inc()
}

func (m *PartnerMetrics) RecordLicenseRevoked(platform string) {
	m.LicensesRevokedTotal.WithLabelValues(platformLabel(platform)).Inc()
}

func (m *PartnerMetrics) RecordLicenseRefused(reason string) {
	m.LicensesRefusedTotal.WithLabelValues(reason).Inc()
}

// RecordDistribution записывает рассчитанное распределение комиссии
func (m *PartnerMetrics) RecordDistribution(sourceRank string, pool, platformFee float64, upliners int) {
	m.CommissionPoolTotal.WithLabelValues(sourceRank).Add(pool)
	m.PlatformFeeTotal.Add(platformFee)
	m.CommissionChainDepth.Observe(float64(upliners))
}

func (m *PartnerMetrics) RecordChainError(errorType string) {
	m.CommissionChainErrors.WithLabelValues(errorType).Inc()
}

// RecordVolume записывает учтенный объем
func (m *PartnerMetrics) RecordVolume(rank string, lots, rewardUSD float64) {
	m.VolumeLotsTotal.WithLabelValues(rank).Add(lots)
	m.VolumeRewardTotal.WithLabelValues(rank).Add(rewardUSD)
}

func (m *PartnerMetrics) RecordRankChange(from, to string) {
	m.RankChangesTotal.WithLabelValues(from, to).Inc()
}

// RecordHTTPRequest записывает время обработки запроса
func (m *PartnerMetrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
}
