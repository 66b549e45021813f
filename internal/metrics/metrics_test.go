package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/gosuda/aicrm/internal/metrics"
)

func TestDispatchActions_Counts(t *testing.T) {
	t.Parallel()

	c := metrics.DispatchActions.WithLabelValues("metrics_test_action")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(c), 1e-9)
}

func TestObserveLLM_OutcomeLabel(t *testing.T) {
	t.Parallel()

	metrics.ObserveLLM("metrics_test_ok", time.Now(), nil)
	metrics.ObserveLLM("metrics_test_err", time.Now(), errors.New("boom"))

	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.LLMRequestDuration), 2)
}
