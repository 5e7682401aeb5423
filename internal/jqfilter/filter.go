// Package jqfilter evaluates jq expressions on the JSON representation of
// records.
package jqfilter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Filter is a compiled jq expression that must evaluate to a single boolean.
type Filter struct {
	query *gojq.Query
}

func New(jqQuery string) (*Filter, error) {
	query, err := gojq.Parse(jqQuery)
	if err != nil {
		return nil, fmt.Errorf("parsing jq query %q failed: %w", jqQuery, err)
	}

	return &Filter{query: query}, nil
}

func (f *Filter) String() string {
	return f.query.String()
}

func goJQIterToSlice(iter gojq.Iter) ([]any, []error) {
	var result []any
	var errors []error

	for {
		res, ok := iter.Next()
		if !ok {
			return result, errors
		}

		if err, isErr := res.(error); isErr {
			errors = append(errors, err)
			continue
		}

		result = append(result, res)
	}
}

func errString(errs []error) string {
	var result strings.Builder

	for i, err := range errs {
		if i > 0 {
			result.WriteString("; ")
		}

		result.WriteString(fmt.Sprintf("error %d: %s", i, err))
	}

	return result.String()
}

// Match returns true if the filter evaluates to true for the JSON
// representation of v.
func (f *Filter) Match(ctx context.Context, v any) (bool, error) {
	var un any

	data, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("marshaling record to json failed: %w", err)
	}

	if err := json.Unmarshal(data, &un); err != nil {
		return false, fmt.Errorf("unmarshaling json failed: %w", err)
	}

	result, errors := goJQIterToSlice(f.query.RunWithContext(ctx, un))
	if len(errors) != 0 {
		return false, fmt.Errorf("json query returned errors, query: %q, errors: %s", f.query.String(), errString(errors))
	}

	if len(result) == 0 {
		return false, fmt.Errorf("json query returned 0 results, expected 1, query: %q", f.query.String())
	}

	if len(result) > 1 {
		return false, fmt.Errorf("json query returned multiple results, expected 1, query: %q, result: '%+v'", f.query.String(), result)
	}

	val, ok := result[0].(bool)
	if !ok {
		return false, fmt.Errorf(
			"json query returned non-bool result: %+v (%T), query: %q",
			result[0], result[0], f.query.String(),
		)
	}

	return val, nil
}

// Select returns the elements of records for that the filter evaluates to
// true. The order of records is kept.
func Select[T any](ctx context.Context, f *Filter, records []T) ([]T, error) {
	result := make([]T, 0, len(records))

	for i, r := range records {
		match, err := f.Match(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		if match {
			result = append(result, r)
		}
	}

	return result, nil
}
