package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/errors"
	"github.com/NVIDIA/gpu-fleet-probe/pkg/smi"
)

func TestIsAvailable_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		free  int
		total int
		util  int
		want  bool
	}{
		{"exactly half free and half utilized", 50, 100, 50, false},
		{"just above both thresholds", 51, 100, 49, true},
		{"ratio boundary fails even with low util", 50, 100, 49, false},
		{"util boundary fails even with free memory", 51, 100, 50, false},
		{"idle card", 81020, 81559, 0, true},
		{"busy card", 1203, 81559, 97, false},
		{"full memory free but saturated", 100, 100, 100, false},
	}

	p := DefaultPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.IsAvailable(smi.Sample{FreeMemoryMiB: tt.free, TotalMemoryMiB: tt.total, UtilizationPercent: tt.util})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAvailable_ZeroTotal(t *testing.T) {
	_, err := DefaultPolicy().IsAvailable(smi.Sample{Index: 3, FreeMemoryMiB: 0, TotalMemoryMiB: 0})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestClassify(t *testing.T) {
	samples := []smi.Sample{
		{Index: 0, FreeMemoryMiB: 80000, TotalMemoryMiB: 81559, UtilizationPercent: 0},
		{Index: 1, FreeMemoryMiB: 100, TotalMemoryMiB: 81559, UtilizationPercent: 90},
		{Index: 2, FreeMemoryMiB: 60000, TotalMemoryMiB: 81559, UtilizationPercent: 10},
	}

	cards, err := DefaultPolicy().Classify(samples)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.True(t, cards[0].Available)
	assert.False(t, cards[1].Available)
	assert.True(t, cards[2].Available)

	free := Available(cards)
	require.Len(t, free, 2)
	assert.Equal(t, 0, free[0].Index)
	assert.Equal(t, 2, free[1].Index)
}

func TestClassify_Empty(t *testing.T) {
	cards, err := DefaultPolicy().Classify(nil)
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Empty(t, Available(cards))
}

func TestClassify_ZeroTotalFailsAll(t *testing.T) {
	samples := []smi.Sample{
		{Index: 0, FreeMemoryMiB: 80000, TotalMemoryMiB: 81559},
		{Index: 1, FreeMemoryMiB: 0, TotalMemoryMiB: 0},
	}
	cards, err := DefaultPolicy().Classify(samples)
	require.Error(t, err)
	assert.Nil(t, cards)
}

func TestCustomPolicy(t *testing.T) {
	p := Policy{MinFreeRatio: 0.9, MaxUtilization: 10}
	ok, err := p.IsAvailable(smi.Sample{FreeMemoryMiB: 85, TotalMemoryMiB: 100, UtilizationPercent: 0})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.IsAvailable(smi.Sample{FreeMemoryMiB: 95, TotalMemoryMiB: 100, UtilizationPercent: 9})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestZeroRatio(t *testing.T) {
	p := Policy{MinFreeRatio: 0, MaxUtilization: 50}
	ok, err := p.IsAvailable(smi.Sample{FreeMemoryMiB: 1, TotalMemoryMiB: 100, UtilizationPercent: 0})
	require.NoError(t, err)
	assert.True(t, ok, "any free memory beats a zero ratio")

	ok, err = p.IsAvailable(smi.Sample{FreeMemoryMiB: 0, TotalMemoryMiB: 100, UtilizationPercent: 0})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"default", DefaultPolicy(), false},
		{"zero ratio allowed", Policy{MinFreeRatio: 0, MaxUtilization: 50}, false},
		{"ratio of one never matches", Policy{MinFreeRatio: 1, MaxUtilization: 50}, true},
		{"negative ratio", Policy{MinFreeRatio: -0.1, MaxUtilization: 50}, true},
		{"zero utilization never matches", Policy{MinFreeRatio: 0.5, MaxUtilization: 0}, true},
		{"utilization above 100", Policy{MinFreeRatio: 0.5, MaxUtilization: 101}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
