package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLess      = "less"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreater   = "greater"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorIn        = "in"
	FilterOperatorLike      = "like"
	FilterOperatorIsNull    = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "<>",
	FilterOperatorLess:      "<",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreater:   ">",
	FilterOperatorGreaterEq: ">=",
}

// Filter is a single predicate on a column. ArgName overrides the named
// parameter when the same field appears twice in one group.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) argName() string {
	if f.ArgName != "" {
		return f.ArgName
	}

	return f.Field
}

// GetWhereClause renders the predicate with named parameters. An IN filter over an
// empty slice renders FALSE so it never matches.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	column, name := f.column(), f.argName()

	if op, ok := comparisons[f.Operator]; ok {
		args[name] = f.Value

		return fmt.Sprintf("%s %s :%s", column, op, name), args
	}

	switch f.Operator {
	case FilterOperatorLike:
		args[name] = fmt.Sprintf("%%%v%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", column, name), args
	case FilterOperatorIsNull:
		return column + " IS NULL", args
	case FilterOperatorIn:
		values := reflect.ValueOf(f.Value)
		if values.Kind() != reflect.Slice && values.Kind() != reflect.Array {
			args[name] = f.Value

			return fmt.Sprintf("%s = :%s", column, name), args
		}

		if values.Len() == 0 {
			return "FALSE", args
		}

		named := make([]string, values.Len())
		for idx := range values.Len() {
			key := fmt.Sprintf("%s_%d", name, idx)
			args[key] = values.Index(idx).Interface()
			named[idx] = ":" + key
		}

		return fmt.Sprintf("%s IN (%s)", column, strings.Join(named, ", ")), args
	default:
		return "", args
	}
}

// FilterGroup joins Filters and nested FilterGroups with Operator, AND when unset.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, filter := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch fill := filter.(type) {
		case Filter:
			where, arg = fill.GetWhereClause()
		case FilterGroup:
			where, arg = fill.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		clauses = append(clauses, where)
		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(clauses, " "+operator+" ") + ")", args
}
