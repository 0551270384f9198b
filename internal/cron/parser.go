package cron

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldSpec describes one schedule field for validation and error text.
type fieldSpec struct {
	name string
	min  int
	max  int
}

var fieldSpecs = [5]fieldSpec{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day", 1, 31},
	{"month", 1, 12},
	{"weekday", 0, 6},
}

// ParseLine parses one job line of the form
//
//	minute hour day month weekday | command
//
// where each schedule field is either "*" (wildcard) or an integer within
// its valid range, and command is free text. Returns a descriptive error
// for any malformed line; nothing is cached or persisted by this call.
func ParseLine(line string) (Job, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Job{}, fmt.Errorf("empty cron line")
	}

	schedule, command, found := strings.Cut(line, "|")
	if !found {
		return Job{}, fmt.Errorf("missing '|' separator (expected: minute hour day month weekday | command)")
	}

	command = strings.TrimSpace(command)
	if command == "" {
		return Job{}, fmt.Errorf("empty command after '|'")
	}

	fields := strings.Fields(schedule)
	if len(fields) != 5 {
		return Job{}, fmt.Errorf("expected 5 schedule fields, got %d", len(fields))
	}

	var values [5]int
	for i, field := range fields {
		v, err := parseField(field, fieldSpecs[i])
		if err != nil {
			return Job{}, err
		}
		values[i] = v
	}

	return Job{
		Minute:  values[0],
		Hour:    values[1],
		Day:     values[2],
		Month:   values[3],
		Weekday: values[4],
		Command: command,
	}, nil
}

// parseField parses one schedule field: "*" or an in-range integer.
func parseField(field string, spec fieldSpec) (int, error) {
	if field == "*" {
		return Wildcard, nil
	}

	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("invalid %s field %q (expected * or a number)", spec.name, field)
	}
	if v < spec.min || v > spec.max {
		return 0, fmt.Errorf("%s %d out of range (%d-%d)", spec.name, v, spec.min, spec.max)
	}
	return v, nil
}
