package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearBounds_ValidateRange(t *testing.T) {
	b := DefaultYearBounds

	tests := []struct {
		name    string
		start   int
		end     int
		wantErr string
	}{
		{"full window", 2010, 2023, ""},
		{"single year", 2018, 2018, ""},
		{"start after end", 2020, 2015, "year range"},
		{"start below bounds", 2005, 2015, "start year"},
		{"end above bounds", 2015, 2030, "end year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.ValidateRange(tt.start, tt.end)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSelection))
			var sel *InvalidSelectionError
			require.ErrorAs(t, err, &sel)
			assert.Equal(t, tt.wantErr, sel.Field)
		})
	}
}

func TestYearBounds_ValidateYear(t *testing.T) {
	b := DefaultYearBounds
	require.NoError(t, b.ValidateYear(2010))
	require.NoError(t, b.ValidateYear(2023))

	err := b.ValidateYear(2024)
	require.ErrorIs(t, err, ErrInvalidSelection)
	assert.Contains(t, err.Error(), "2024 is outside 2010-2023")
}

func TestNormalizeCountryCode(t *testing.T) {
	code, err := NormalizeCountryCode(" ind ")
	require.NoError(t, err)
	assert.Equal(t, "IND", code)

	for _, bad := range []string{"", "US", "USAA", "U1A"} {
		_, err := NormalizeCountryCode(bad)
		assert.ErrorIs(t, err, ErrInvalidSelection, bad)
	}
}

func TestNormalizeIndicatorCode(t *testing.T) {
	code, err := NormalizeIndicatorCode("ny.gdp.pcap.cd")
	require.NoError(t, err)
	assert.Equal(t, IndicatorGDPPerCapita, code)

	_, err = NormalizeIndicatorCode("GDP")
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestTimeframe_Years(t *testing.T) {
	tests := []struct {
		tf        Timeframe
		wantStart int
		wantEnd   int
	}{
		{TimeframeFiveYears, 2019, 2023},
		{TimeframeTenYears, 2014, 2023},
		{TimeframeAll, 2010, 2023},
		{"", 2019, 2023},
	}
	for _, tt := range tests {
		start, end, err := tt.tf.Years(DefaultYearBounds)
		require.NoError(t, err)
		assert.Equal(t, tt.wantStart, start, string(tt.tf))
		assert.Equal(t, tt.wantEnd, end, string(tt.tf))
	}

	_, _, err := Timeframe("century").Years(DefaultYearBounds)
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestTimeframe_ClampsToBounds(t *testing.T) {
	start, end, err := TimeframeTenYears.Years(YearBounds{Min: 2018, Max: 2020})
	require.NoError(t, err)
	assert.Equal(t, 2018, start)
	assert.Equal(t, 2020, end)
}

func TestTrendOf(t *testing.T) {
	assert.Equal(t, TrendPositive, TrendOf(0.3))
	assert.Equal(t, TrendNegative, TrendOf(-0.3))
	assert.Equal(t, TrendNegative, TrendOf(0))
}

func TestIndicatorLabel(t *testing.T) {
	assert.Equal(t, "GDP per Capita", IndicatorLabel(IndicatorGDPPerCapita))
	assert.Equal(t, "Indicator", IndicatorLabel("XX.UNKNOWN"))
}

func TestSetClock(t *testing.T) {
	fixed := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	assert.Equal(t, fixed, Now())
}
