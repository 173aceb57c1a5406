package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMargin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"0", "0px 0px 0px 0px"},
		{"0%", "0% 0% 0% 0%"},
		{"10px", "10px 10px 10px 10px"},
		{"10px 20%", "10px 20% 10px 20%"},
		{"1px 2px 3px", "1px 2px 3px 2px"},
		{"1px 2px 3px 4px", "1px 2px 3px 4px"},
		{"-5px", "-5px -5px -5px -5px"},
		{"  12.5%  ", "12.5% 12.5% 12.5% 12.5%"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			m, err := ParseMargin(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}

	for _, bad := range []string{"", "10", "10em", "px", "1px 2px 3px 4px 5px", "NaN%"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			t.Parallel()
			_, err := ParseMargin(bad)
			require.ErrorIs(t, err, ErrInvalidMargin)
		})
	}
}

func TestLengthResolve(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5, Length{Value: 50, Percent: true}.Resolve(10))
	assert.Equal(t, 3, Length{Value: 3}.Resolve(100))
	assert.Equal(t, -2, Length{Value: -25, Percent: true}.Resolve(8))
}

func TestOptionsConfig(t *testing.T) {
	t.Parallel()

	cfg, err := Options{}.Config()
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, cfg.Thresholds)
	assert.Equal(t, "0% 0% 0% 0%", cfg.Margin.String())
	assert.Nil(t, cfg.Root)

	in := []float64{0.75, 0.25}
	cfg, err = Options{Threshold: in}.Config()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, cfg.Thresholds)
	assert.Equal(t, []float64{0.75, 0.25}, in, "caller slice must not be reordered")

	_, err = Options{Threshold: []float64{-0.1}}.Config()
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}
