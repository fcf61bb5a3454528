package smi

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/gpu-fleet-probe/pkg/errors"
)

func TestFieldCommand(t *testing.T) {
	assert.Equal(t, "nvidia-smi --query-gpu=memory.free --format=csv", FieldMemoryFree.Command())
	assert.Equal(t, "nvidia-smi --query-gpu=memory.total --format=csv", FieldMemoryTotal.Command())
	assert.Equal(t, "nvidia-smi --query-gpu=utilization.gpu --format=csv", FieldUtilizationGPU.Command())
}

func TestParseColumn(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    []int
		wantErr bool
	}{
		{
			name:   "header plus rows with trailing blank line",
			output: "header\n100 MiB\n200 MiB\n\n",
			want:   []int{100, 200},
		},
		{
			name:   "newline terminated",
			output: "memory.free [MiB]\n81020 MiB\n1203 MiB\n",
			want:   []int{81020, 1203},
		},
		{
			name:   "missing trailing newline drops last row",
			output: "memory.free [MiB]\n81020 MiB\n1203 MiB",
			want:   []int{81020},
		},
		{
			name:   "utilization percent",
			output: "utilization.gpu [%]\n0 %\n97 %\n",
			want:   []int{0, 97},
		},
		{
			name:   "carriage returns tolerated",
			output: "memory.total [MiB]\r\n81559 MiB\r\n",
			want:   []int{81559},
		},
		{
			name:   "empty output",
			output: "",
			want:   []int{},
		},
		{
			name:   "header only",
			output: "memory.free [MiB]\n",
			want:   []int{},
		},
		{
			name:    "not available",
			output:  "memory.free [MiB]\n[N/A]\n",
			wantErr: true,
		},
		{
			name:    "garbage row",
			output:  "header\nNo devices were found\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColumn(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeParse, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssemble(t *testing.T) {
	samples, err := Assemble([]int{100, 51}, []int{200, 100}, []int{3, 49})
	require.NoError(t, err)
	assert.Equal(t, []Sample{
		{Index: 0, FreeMemoryMiB: 100, TotalMemoryMiB: 200, UtilizationPercent: 3},
		{Index: 1, FreeMemoryMiB: 51, TotalMemoryMiB: 100, UtilizationPercent: 49},
	}, samples)
}

func TestAssemble_Empty(t *testing.T) {
	samples, err := Assemble([]int{}, []int{}, []int{})
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestAssemble_LengthMismatch(t *testing.T) {
	_, err := Assemble([]int{1, 2}, []int{1, 2}, []int{1})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeParse, errors.CodeOf(err))
}

type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, command string) (string, string, error) {
	f.calls = append(f.calls, command)
	if err := f.errs[command]; err != nil {
		return "", "", err
	}
	return f.outputs[command], "", nil
}

func TestQuery(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		FieldMemoryFree.Command():     "memory.free [MiB]\n40000 MiB\n10 MiB\n",
		FieldMemoryTotal.Command():    "memory.total [MiB]\n81559 MiB\n81559 MiB\n",
		FieldUtilizationGPU.Command(): "utilization.gpu [%]\n0 %\n100 %\n",
	}}

	samples, err := Query(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, Sample{Index: 1, FreeMemoryMiB: 10, TotalMemoryMiB: 81559, UtilizationPercent: 100}, samples[1])
	assert.Equal(t, []string{
		FieldMemoryFree.Command(),
		FieldMemoryTotal.Command(),
		FieldUtilizationGPU.Command(),
	}, r.calls)
}

func TestQuery_RunErrorStopsEarly(t *testing.T) {
	r := &fakeRunner{
		outputs: map[string]string{FieldMemoryFree.Command(): "h\n1 MiB\n"},
		errs: map[string]error{
			FieldMemoryTotal.Command(): errors.New(errors.ErrCodeCommandFailed, "exit status 9"),
		},
	}

	_, err := Query(context.Background(), r)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCommandFailed, errors.CodeOf(err))
	assert.Len(t, r.calls, 2)
}

func TestQuery_Mismatch(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		FieldMemoryFree.Command():     "h\n1 MiB\n2 MiB\n",
		FieldMemoryTotal.Command():    "h\n4 MiB\n",
		FieldUtilizationGPU.Command(): "h\n0 %\n0 %\n",
	}}

	_, err := Query(context.Background(), r)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeParse, errors.CodeOf(err))
}

func TestQuery_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &fakeRunner{}
	_, err := Query(ctx, r)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err))
	assert.Empty(t, r.calls)
}

func ExampleParseColumn() {
	values, _ := ParseColumn("memory.free [MiB]\n81020 MiB\n1203 MiB\n")
	fmt.Println(values)
	// Output: [81020 1203]
}
