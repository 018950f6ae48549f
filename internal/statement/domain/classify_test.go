package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCashMovement(t *testing.T) {
	tests := []struct {
		name     string
		counters []string
		want     CashFlowCategory
	}{
		{"fixed asset purchase", []string{"244000"}, CashFlowInvesting},
		{"loan drawdown", []string{"162000"}, CashFlowFinancing},
		{"capital injection", []string{"101000"}, CashFlowFinancing},
		{"retained result is not financing", []string{"130000"}, CashFlowOperating},
		{"client settlement", []string{"411000"}, CashFlowOperating},
		{"supplier payment", []string{"401000"}, CashFlowOperating},
		{"mixed with fixed asset wins", []string{"411000", "244000"}, CashFlowInvesting},
		{"no counter accounts", nil, CashFlowOperating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCashMovement(tt.counters))
		})
	}
}

func TestEquityComponentOf(t *testing.T) {
	assert.Equal(t, EquityCapital, EquityComponentOf("101000"))
	assert.Equal(t, EquityReserves, EquityComponentOf("110000"))
	assert.Equal(t, EquityRetainedEarnings, EquityComponentOf("120000"))
	assert.Equal(t, EquityNetResult, EquityComponentOf("130000"))
	assert.Equal(t, EquityOther, EquityComponentOf("140000"))
	assert.Equal(t, EquityOther, EquityComponentOf("162000"))
}
