package app

import (
	"strconv"

	"github.com/calehh/valreg-app/tx"
	"github.com/calehh/valreg-app/types"
	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "valreg"

type Metrics struct {
	txs     *prometheus.CounterVec
	rewards prometheus.Histogram
}

var defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// DefaultMetrics is registered on the registry the node exposes.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		txs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "txs_total",
			Help:      "Executed txs by type and result code.",
		}, []string{"type", "code"}),
		rewards: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "reward_payout",
			Help:      "Reward paid per successful claim, in token units.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 12),
		}),
	}
}

func (m *Metrics) observe(btx *tx.RegTx, res *abcitypes.ExecTxResult) {
	tp := txType(btx)
	m.txs.WithLabelValues(tp.String(), strconv.FormatUint(uint64(res.Code), 10)).Inc()
	if tp != tx.RegTxTypeClaimReward || res.Code != 0 || len(res.Events) == 0 {
		return
	}
	if event := types.DecodeEventStake(res.Events[0]); event != nil {
		m.rewards.Observe(float64(event.Amount))
	}
}
