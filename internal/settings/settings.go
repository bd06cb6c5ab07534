// Package settings resolves a team's schedule configuration from the JSON
// settings blob stored on the team row.
package settings

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonschema"
)

// CurrentVersion is the settings layout this package understands.
const CurrentVersion = 1

// Documented defaults, applied per field.
const (
	DefaultWeeklyDay       = time.Friday
	DefaultWeeklyTime      = "18:00"
	DefaultBriefingEnabled = true
	DefaultBriefingTime    = "07:00"
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(schemaJSON)
	if err != nil {
		panic(fmt.Sprintf("settings: failed to compile embedded schema: %v", err))
	}
	compiledSchema = schema
}

// Resolved holds typed schedule values with every default applied.
type Resolved struct {
	Version         int
	WeeklyDay       time.Weekday
	WeeklyHour      int
	WeeklyMinute    int
	BriefingEnabled bool
	BriefingHour    int
	BriefingMinute  int
}

// Defaults returns the fully-defaulted configuration.
func Defaults() Resolved {
	r := Resolved{
		Version:         CurrentVersion,
		WeeklyDay:       DefaultWeeklyDay,
		BriefingEnabled: DefaultBriefingEnabled,
	}
	r.WeeklyHour, r.WeeklyMinute, _ = ParseClock(DefaultWeeklyTime)
	r.BriefingHour, r.BriefingMinute, _ = ParseClock(DefaultBriefingTime)
	return r
}

// ConfigError lists the settings problems that were replaced by defaults.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid schedule settings: " + strings.Join(e.Problems, "; ")
}

func (e *ConfigError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Resolve parses and validates raw settings. It always returns a usable
// Resolved value; a non-nil *ConfigError reports which fields fell back.
func Resolve(raw []byte) (Resolved, error) {
	resolved := Defaults()
	cfgErr := &ConfigError{}

	if len(strings.TrimSpace(string(raw))) == 0 || string(raw) == "null" {
		return resolved, nil
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		cfgErr.add("settings are not a JSON object: %v", err)
		return resolved, cfgErr
	}

	result := compiledSchema.Validate(doc)
	if !result.IsValid() {
		for field, evalErr := range result.Errors {
			cfgErr.add("%s: %s", field, evalErr.Error())
		}
	}

	// Each field decodes on its own; a wrongly-typed value defaults only itself.
	var top map[string]json.RawMessage
	_ = json.Unmarshal(raw, &top)

	var version int
	if decodeField(cfgErr, top, "version", "version", &version) && version > CurrentVersion {
		cfgErr.add("unsupported settings version %d", version)
	}

	if wr, ok := decodeSection(cfgErr, top, "weeklyReport"); ok {
		var day, clock string
		if decodeField(cfgErr, wr, "day", "weeklyReport.day", &day) && day != "" {
			d, err := ParseWeekday(day)
			if err != nil {
				cfgErr.add("weeklyReport.day: %v", err)
			} else {
				resolved.WeeklyDay = d
			}
		}
		if decodeField(cfgErr, wr, "time", "weeklyReport.time", &clock) && clock != "" {
			h, m, err := ParseClock(clock)
			if err != nil {
				cfgErr.add("weeklyReport.time: %v", err)
			} else {
				resolved.WeeklyHour, resolved.WeeklyMinute = h, m
			}
		}
	}

	if mb, ok := decodeSection(cfgErr, top, "morningBriefing"); ok {
		var enabled bool
		var clock string
		if decodeField(cfgErr, mb, "enabled", "morningBriefing.enabled", &enabled) {
			resolved.BriefingEnabled = enabled
		}
		if decodeField(cfgErr, mb, "time", "morningBriefing.time", &clock) && clock != "" {
			h, m, err := ParseClock(clock)
			if err != nil {
				cfgErr.add("morningBriefing.time: %v", err)
			} else {
				resolved.BriefingHour, resolved.BriefingMinute = h, m
			}
		}
	}

	if len(cfgErr.Problems) > 0 {
		return resolved, cfgErr
	}
	return resolved, nil
}

// decodeSection returns the named nested object. A missing or null section
// reports false without a problem.
func decodeSection(cfgErr *ConfigError, fields map[string]json.RawMessage, name string) (map[string]json.RawMessage, bool) {
	var section map[string]json.RawMessage
	if !decodeField(cfgErr, fields, name, name, &section) || section == nil {
		return nil, false
	}
	return section, true
}

// decodeField unmarshals fields[name] into dst. It reports false when the
// field is absent, null or of the wrong type; only the last is a problem.
func decodeField(cfgErr *ConfigError, fields map[string]json.RawMessage, name, path string, dst any) bool {
	value, ok := fields[name]
	if !ok || string(value) == "null" {
		return false
	}
	if err := json.Unmarshal(value, dst); err != nil {
		cfgErr.add("%s: wrong type, using default", path)
		return false
	}
	return true
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full weekday names and three-letter abbreviations,
// case-insensitively.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if day, ok := weekdayNames[n]; ok {
		return day, nil
	}
	if len(n) == 3 {
		for full, day := range weekdayNames {
			if strings.HasPrefix(full, n) {
				return day, nil
			}
		}
	}
	return DefaultWeeklyDay, fmt.Errorf("unknown weekday %q", name)
}

// ParseClock parses an "HH:MM" wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}
