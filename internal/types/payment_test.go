//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRecord_ZeroValueIsLocked(t *testing.T) {
	var record PaymentRecord

	assert.False(t, record.Paid)
	assert.False(t, record.Used)
	assert.False(t, record.CanRecord)
	assert.Equal(t, StateLocked, record.State())
}

func TestPaymentRecord_State(t *testing.T) {
	tests := []struct {
		name   string
		record PaymentRecord
		want   GateState
	}{
		{"unknown token", PaymentRecord{}, StateLocked},
		{"paid and armed", PaymentRecord{Paid: true, CanRecord: true}, StateUnlocked},
		{"paid and spent", PaymentRecord{Paid: true, Used: true}, StateConsumed},
		{"re-paid after use", PaymentRecord{Paid: true, Used: true, CanRecord: true}, StateUnlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.State())
		})
	}
}

func TestPaymentRecord_JSONShape(t *testing.T) {
	jsonBytes, err := json.Marshal(PaymentRecord{Paid: true, CanRecord: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"paid":true,"used":false,"canRecord":true}`, string(jsonBytes))
}
