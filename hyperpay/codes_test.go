package hyperpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want Outcome
	}{
		{"000.000.100", OutcomeSuccess},
		{"000.000.000", OutcomeSuccess},
		{"000.100.110", OutcomeSuccess},
		{"000.100.112", OutcomeSuccess},
		{"000.300.000", OutcomeSuccess},
		{"000.600.000", OutcomeSuccess},
		{"000.200.000", OutcomePending},
		{"000.200.100", OutcomePending},
		{"100.400.000", OutcomeFailure},
		{"800.100.153", OutcomeFailure},
		{"000.400.101", OutcomeFailure},
		{"000.100.212", OutcomeFailure},
		{"", OutcomeFailure},
		{"garbage", OutcomeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.code))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "pending", OutcomePending.String())
	assert.Equal(t, "failure", OutcomeFailure.String())
}
