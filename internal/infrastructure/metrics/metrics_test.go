package metrics_test

import (
	"fmt"
	"testing"

	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPartnerMetrics(t *testing.T) {
	m := metrics.NewPartnerMetrics(prometheus.NewRegistry())

	m.RecordLogin("partner", true)
	m.RecordLogin("partner", false)
	m.RecordLogin("partner", false)
	m.RecordLicenseGranted("MT5")
	m.RecordDistribution("Vàng", 200, 10, 2)
	m.RecordRankChange("Đồng", "Bạc")

	require.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("partner", "success")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("partner", "failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.LicensesGrantedTotal.WithLabelValues("MT5")))
	require.Equal(t, 200.0, testutil.ToFloat64(m.CommissionPoolTotal.WithLabelValues("Vàng")))
	require.Equal(t, 10.0, testutil.ToFloat64(m.PlatformFeeTotal))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RankChangesTotal.WithLabelValues("Đồng", "Bạc")))
}

func TestLicensePlatformLabel(t *testing.T) {
	m := metrics.NewPartnerMetrics(prometheus.NewRegistry())

	m.RecordLicenseGranted(" mt5 ")
	m.RecordLicenseGranted("MT5")
	m.RecordLicenseGranted("ctrader")
	for i := 0; i < 50; i++ {
		m.RecordLicenseGranted(fmt.Sprintf("platform-%d", i))
	}
	m.RecordLicenseRevoked("whatever")

	require.Equal(t, 2.0, testutil.ToFloat64(m.LicensesGrantedTotal.WithLabelValues("MT5")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.LicensesGrantedTotal.WithLabelValues("cTrader")))
	require.Equal(t, 50.0, testutil.ToFloat64(m.LicensesGrantedTotal.WithLabelValues("other")))
	require.Equal(t, 3, testutil.CollectAndCount(m.LicensesGrantedTotal))
	require.Equal(t, 1.0, testutil.ToFloat64(m.LicensesRevokedTotal.WithLabelValues("other")))
}
