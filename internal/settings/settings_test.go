package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEmptyUsesDefaults(t *testing.T) {
	for _, raw := range []string{"", "null", "{}"} {
		resolved, err := Resolve([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, Defaults(), resolved, raw)
	}

	d := Defaults()
	assert.Equal(t, time.Friday, d.WeeklyDay)
	assert.Equal(t, 18, d.WeeklyHour)
	assert.True(t, d.BriefingEnabled)
	assert.Equal(t, 7, d.BriefingHour)
}

func TestResolveFullSettings(t *testing.T) {
	raw := `{
		"version": 1,
		"weeklyReport": {"day": "Mon", "time": "09:30"},
		"morningBriefing": {"enabled": false, "time": "8:15"}
	}`

	resolved, err := Resolve([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, time.Monday, resolved.WeeklyDay)
	assert.Equal(t, 9, resolved.WeeklyHour)
	assert.Equal(t, 30, resolved.WeeklyMinute)
	assert.False(t, resolved.BriefingEnabled)
	assert.Equal(t, 8, resolved.BriefingHour)
	assert.Equal(t, 15, resolved.BriefingMinute)
}

func TestResolvePartialSettingsKeepsOtherDefaults(t *testing.T) {
	resolved, err := Resolve([]byte(`{"morningBriefing": {"time": "06:00"}}`))
	require.NoError(t, err)

	assert.True(t, resolved.BriefingEnabled)
	assert.Equal(t, 6, resolved.BriefingHour)
	assert.Equal(t, time.Friday, resolved.WeeklyDay)
	assert.Equal(t, 18, resolved.WeeklyHour)
}

func TestResolveUnknownWeekdayFallsBackToFriday(t *testing.T) {
	resolved, err := Resolve([]byte(`{"weeklyReport": {"day": "Funday", "time": "10:00"}}`))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Problems, 1)
	assert.Equal(t, time.Friday, resolved.WeeklyDay)
	assert.Equal(t, 10, resolved.WeeklyHour)
}

func TestResolveBadTimeFallsBackPerField(t *testing.T) {
	resolved, err := Resolve([]byte(`{"morningBriefing": {"enabled": false, "time": "99:99"}}`))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.False(t, resolved.BriefingEnabled)
	assert.Equal(t, 7, resolved.BriefingHour)
}

func TestResolveMalformedJSON(t *testing.T) {
	resolved, err := Resolve([]byte(`{"weeklyReport":`))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, Defaults(), resolved)
}

func TestResolveWrongTypeIsConfigError(t *testing.T) {
	resolved, err := Resolve([]byte(`{"morningBriefing": {"enabled": "yes"}}`))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, Defaults(), resolved)
}

func TestResolveWrongTypeKeepsValidSiblings(t *testing.T) {
	raw := `{
		"weeklyReport": {"day": "Mon", "time": "09:00"},
		"morningBriefing": {"enabled": "yes", "time": "06:00"}
	}`

	resolved, err := Resolve([]byte(raw))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "morningBriefing.enabled")
	assert.Equal(t, time.Monday, resolved.WeeklyDay)
	assert.Equal(t, 9, resolved.WeeklyHour)
	assert.True(t, resolved.BriefingEnabled)
	assert.Equal(t, 6, resolved.BriefingHour)
}

func TestResolveWrongSectionTypeKeepsOtherSection(t *testing.T) {
	resolved, err := Resolve([]byte(`{"weeklyReport": "Mon", "morningBriefing": {"time": "05:30"}}`))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, time.Friday, resolved.WeeklyDay)
	assert.Equal(t, 18, resolved.WeeklyHour)
	assert.Equal(t, 5, resolved.BriefingHour)
	assert.Equal(t, 30, resolved.BriefingMinute)
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"Fri":       time.Friday,
		"friday":    time.Friday,
		"SUNDAY":    time.Sunday,
		" tue ":     time.Tuesday,
		"wed":       time.Wednesday,
		"Saturday":  time.Saturday,
		"thu":       time.Thursday,
		"monday":    time.Monday,
		"Wednesday": time.Wednesday,
	}
	for in, want := range cases {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWeekday("fr")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("18:00")
	require.NoError(t, err)
	assert.Equal(t, 18, h)
	assert.Equal(t, 0, m)

	_, _, err = ParseClock("6pm")
	assert.Error(t, err)
}
