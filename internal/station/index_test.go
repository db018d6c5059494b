package station

import (
	"testing"

	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(DefaultNames())
	require.NoError(t, err)
	return idx
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		names     []string
		wantErr   bool
		errString string
	}{
		{name: "default list", names: DefaultNames()},
		{name: "empty list", names: nil, wantErr: true, errString: "station list is empty"},
		{name: "blank name", names: []string{"vasai", "  "}, wantErr: true, errString: "empty"},
		{name: "duplicate after normalizing", names: []string{"Vasai", "vasai "}, wantErr: true, errString: "duplicate station"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := New(tt.names)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, idx)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.names, idx.Names())
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	names := []string{"vasai", "nalasopara", "virar"}
	idx, err := New(names)
	require.NoError(t, err)

	names[0] = "dahanu"
	assert.Equal(t, 0, idx.IndexOf("vasai"))
	assert.Equal(t, -1, idx.IndexOf("dahanu"))

	got := idx.Names()
	got[1] = "mutated"
	assert.Equal(t, 1, idx.IndexOf("nalasopara"))
}

func TestIndexOf(t *testing.T) {
	idx := newDefaultIndex(t)

	assert.Equal(t, 0, idx.IndexOf("vasai"))
	assert.Equal(t, 1, idx.IndexOf("  NalaSopara "))
	assert.Equal(t, 2, idx.IndexOf("VIRAR"))
	assert.Equal(t, -1, idx.IndexOf("dadar"))
	assert.Equal(t, -1, idx.IndexOf(""))
}

func TestValidate(t *testing.T) {
	idx := newDefaultIndex(t)

	assert.NoError(t, idx.Validate("Virar"))

	err := idx.Validate("borivali")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	err = idx.ValidateRange(domain.StationRange{From: "vasai", To: ""})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestNormalizeRange(t *testing.T) {
	idx := newDefaultIndex(t)

	r, err := idx.NormalizeRange(domain.StationRange{From: " Virar ", To: "VASAI"})
	require.NoError(t, err)
	assert.Equal(t, domain.StationRange{From: "virar", To: "vasai"}, r)

	_, err = idx.NormalizeRange(domain.StationRange{From: "virar", To: "churchgate-x"})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestContains_MatchesSubsetForAllPairs(t *testing.T) {
	idx := newDefaultIndex(t)
	names := idx.Names()

	for _, jf := range names {
		for _, jt := range names {
			for _, lf := range names {
				for _, lt := range names {
					js, je := minMax(idx.IndexOf(jf), idx.IndexOf(jt))
					ls, le := minMax(idx.IndexOf(lf), idx.IndexOf(lt))
					want := ls <= js && je <= le

					assert.Equal(t, want, idx.Contains(jf, jt, lf, lt), "job %s-%s labor %s-%s", jf, jt, lf, lt)
				}
			}
		}
	}
}

func TestContains_UnknownStation(t *testing.T) {
	idx := newDefaultIndex(t)

	assert.False(t, idx.Contains("vasai", "andheri", "vasai", "virar"))
	assert.False(t, idx.Contains("vasai", "virar", "", "virar"))
}

func TestOverlapStrength_Bounds(t *testing.T) {
	idx := newDefaultIndex(t)
	names := idx.Names()

	for _, jf := range names {
		for _, jt := range names {
			for _, lf := range names {
				for _, lt := range names {
					s := idx.OverlapStrength(jf, jt, lf, lt)
					assert.GreaterOrEqual(t, s, 0.0)
					assert.LessOrEqual(t, s, 1.0)

					if idx.Contains(jf, jt, lf, lt) {
						assert.Equal(t, 1.0, s, "contained span must be fully covered")
					}
				}
			}
			assert.Equal(t, 1.0, idx.OverlapStrength(jf, jt, jf, jt))
			assert.Equal(t, 1.0, idx.OverlapStrength(jf, jt, jt, jf))
		}
	}
}

func TestOverlapStrength_DisjointAndUnknown(t *testing.T) {
	idx := newDefaultIndex(t)

	assert.Equal(t, 0.0, idx.OverlapStrength("vasai", "vasai", "virar", "virar"))
	assert.Equal(t, 0.0, idx.OverlapStrength("vasai", "nalasopara", "thane", "virar"))
}

func TestScenario_ReversedJobRange(t *testing.T) {
	idx := newDefaultIndex(t)

	// job virar->vasai spans [0,2], laborer vasai->nalasopara spans [0,1]
	assert.False(t, idx.Contains("Virar", "Vasai", "vasai", "nalasopara"))
	assert.InDelta(t, 2.0/3.0, idx.OverlapStrength("Virar", "Vasai", "vasai", "nalasopara"), 1e-9)
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
