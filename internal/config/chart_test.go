package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewChartConfigHolderDefaults(t *testing.T) {
	holder, err := NewChartConfigHolder(zaptest.NewLogger(t))
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, "411", cfg.ClientPrefix)
	assert.Equal(t, "701", cfg.SalesPrefix)
	assert.InDelta(t, 0.18, cfg.StandardVatRate, 1e-9)
	assert.NotNil(t, cfg.FailurePolicies)
}
