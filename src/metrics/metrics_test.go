package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	turns := DialogueTurnsTotal.WithLabelValues("sendMoney", "idle")
	before := testutil.ToFloat64(turns)
	turns.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(turns))

	before = testutil.ToFloat64(ExtractorFailuresTotal)
	ExtractorFailuresTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ExtractorFailuresTotal))
}

func TestTransitionsExposition(t *testing.T) {
	StateTransitionsTotal.Reset()
	StateTransitionsTotal.WithLabelValues("idle", "confirmation").Inc()

	expected := `
# HELP assistant_state_transitions_total Conversation state transitions
# TYPE assistant_state_transitions_total counter
assistant_state_transitions_total{from="idle",to="confirmation"} 1
`
	err := testutil.CollectAndCompare(StateTransitionsTotal, strings.NewReader(expected))
	assert.NoError(t, err)
}
