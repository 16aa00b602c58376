package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse(" 1000.50 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1000.5")))

	for _, s := range []string{"", "   ", "abc", "1,000", "NaN"} {
		_, err := Parse(s)
		assert.Error(t, err, "%q", s)
	}
}

func TestOrZero(t *testing.T) {
	assert.True(t, OrZero("12.5").Equal(decimal.RequireFromString("12.5")))
	assert.True(t, OrZero("").IsZero())
	assert.True(t, OrZero("n/a").IsZero())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"119.6400", "119.64"},
		{"8.33333333333", "8.3333333"},
		{"0.00000005", "0.0000001"},
		{"-6.30", "-6.3"},
		{"100", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(Must(tt.in)))
		})
	}
}

func TestExact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"119.6400", "119.64"},
		{"0.00000005", "0.00000005"},
		{"0.000001199", "0.000001199"},
		{"1000", "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Exact(Must(tt.in)))
		})
	}

	// 0.0000153 × 15.2% is 0.0000023256; half of it must stay exactly half
	year := Percent(Must("0.0000153"), Must("15.2"))
	assert.Equal(t, "0.0000023256", Exact(year))
	assert.Equal(t, "0.0000011628", Exact(year.Div(Must("2"))))
}

func TestPercentAndRatio(t *testing.T) {
	assert.Equal(t, "5.95", Format(Percent(Must("8.5"), Must("70"))))
	assert.Equal(t, "0.5982", Format(Percent(Must("119.64"), Must("0.5"))))

	assert.Equal(t, "25", Format(Ratio(Must("50"), Must("200"))))
	assert.True(t, Ratio(Must("10"), decimal.Zero).IsZero())
}
