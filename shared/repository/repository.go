package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"slotwise/infras/otel"
	"slotwise/infras/postgres"
	"slotwise/shared/constant"
	"slotwise/shared/dto"
	"slotwise/shared/logger"
	"strings"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Repository runs named queries for the table behind T. Columns come from the
// db tags of T and of its embedded structs.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []string
	tx            *sqlx.Tx
}

func NewRepository[T any](entity, table, primaryColumn string, db *postgres.Connection, otel otel.Otel) Repository[T] {
	var zero T

	return Repository[T]{
		db:            db,
		otel:          otel,
		table:         table,
		entity:        entity,
		primaryColumn: primaryColumn,
		columns:       dbColumns(reflect.TypeOf(zero)),
	}
}

// WithTx returns a copy of the repository that runs every read and write on tx.
func (repo Repository[T]) WithTx(tx *sqlx.Tx) Repository[T] {
	repo.tx = tx

	return repo
}

func (repo *Repository[T]) reader() preparer {
	if repo.tx != nil {
		return repo.tx
	}

	return repo.db.Read
}

func (repo *Repository[T]) writer() execer {
	if repo.tx != nil {
		return repo.tx
	}

	return repo.db.Write
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

// fail records err on the scope and the log, then wraps it with the action.
func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

func (repo *Repository[T]) prepare(ctx context.Context, scope otel.Scope, query string) (*sqlx.NamedStmt, error) {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.reader().PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, repo.fail(scope, "prepare statement", err)
	}

	return stmt, nil
}

func (repo *Repository[T]) exec(ctx context.Context, scope otel.Scope, action, query string, arg any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.writer().NamedExecContext(ctx, query, arg); err != nil {
		return repo.fail(scope, action, err)
	}

	return nil
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, len(repo.columns))
	for i, col := range repo.columns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.columns, ", "), strings.Join(placeholders, ", "))
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	return repo.exec(ctx, scope, "insert data", repo.insertQuery(), model)
}

// InsertBulk writes every model in one multi-row statement. An empty slice is
// a no-op.
func (repo *Repository[T]) InsertBulk(ctx context.Context, models []T) error {
	if len(models) == 0 {
		return nil
	}

	ctx, scope := repo.scope(ctx, "InsertBulk")
	defer scope.End()

	scope.SetAttribute("rows", len(models))

	return repo.exec(ctx, scope, "bulk insert data", repo.insertQuery(), models)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	stmt, err := repo.prepare(ctx, scope, fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.table, where))
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	var exist bool
	if err = stmt.GetContext(ctx, &exist, args); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the first matching row, or the zero T when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	var model T

	where, args := whereClause(filter)

	stmt, err := repo.prepare(ctx, scope, fmt.Sprintf("SELECT %s FROM %s%s", repo.Columns(ctx, columns...), repo.table, where))
	if err != nil {
		return model, err
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &model, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	where, args := whereClause(filter)

	var query strings.Builder

	fmt.Fprintf(&query, "SELECT %s FROM %s%s", repo.Columns(ctx, columns...), repo.table, where)

	if params.SortBy != "" && params.SortDir != "" {
		fmt.Fprintf(&query, " ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		args["offset"] = params.Offset()

		query.WriteString(" LIMIT :limit OFFSET :offset")
	}

	stmt, err := repo.prepare(ctx, scope, query.String())
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var models []T
	if err = stmt.SelectContext(ctx, &models, args); err != nil {
		return nil, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := whereClause(filter)

	stmt, err := repo.prepare(ctx, scope, fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s", repo.table, repo.primaryColumn, repo.table, where))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var count int
	if err = stmt.GetContext(ctx, &count, args); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Delete")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	return repo.exec(ctx, scope, "delete data", fmt.Sprintf("DELETE FROM %s%s", repo.table, where), args)
}

// Update sets the given columns on every matching row. Column names are
// sorted so the statement text is stable.
func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Update")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	assignments := make([]string, 0, len(fields))
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, fields)

	query := fmt.Sprintf("UPDATE %s SET %s%s", repo.table, strings.Join(assignments, ", "), where)

	return repo.exec(ctx, scope, "update data", query, args)
}

// Select runs a raw named query and scans every row into dest.
func (repo *Repository[T]) Select(ctx context.Context, dest any, query string, args map[string]any) error {
	ctx, scope := repo.scope(ctx, "Select")
	defer scope.End()

	stmt, err := repo.prepare(ctx, scope, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if err = stmt.SelectContext(ctx, dest, args); err != nil {
		return repo.fail(scope, "select data", err)
	}

	return nil
}

// Columns returns the table-qualified select list, restricted to columns when
// any are given.
func (repo *Repository[T]) Columns(_ context.Context, columns ...string) string {
	selected := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(columns) > 0 && !slices.Contains(columns, col) {
			continue
		}

		selected = append(selected, repo.table+"."+col)
	}

	return strings.Join(selected, ", ")
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}

func dbColumns(reflectType reflect.Type) []string {
	var columns []string

	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, dbColumns(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}
