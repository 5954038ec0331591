package sheetssql

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// TimeLayout is how time.Time fields are stored
const TimeLayout = time.RFC3339

var timeType = reflect.TypeOf(time.Time{})

// Select reads every row of T's table.
// The header and type rows are skipped and columns are matched to fields by header.
func Select[T any](ctx context.Context, db *DB) ([]T, error) {
	return SelectWhere(ctx, db, func(T) bool { return true })
}

// SelectWhere reads the rows of T's table for which keep returns true
func SelectWhere[T any](ctx context.Context, db *DB, keep func(T) bool) ([]T, error) {
	var model T
	t := reflect.TypeOf(model)
	tableName := toSnakeCase(t.Name())

	values, err := db.client.GetValues(ctx, db.spreadsheetID, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", tableName, err)
	}

	if len(values) < 3 {
		return []T{}, nil
	}

	columnIndexes := make(map[string]int)
	for i, header := range values[0] {
		if headerStr, ok := header.(string); ok {
			columnIndexes[headerStr] = i
		}
	}

	fieldMap := make(map[string]int)
	for i := 0; i < t.NumField(); i++ {
		if columnName := t.Field(i).Tag.Get("ssql_header"); columnName != "" {
			fieldMap[columnName] = i
		}
	}

	results := make([]T, 0, len(values)-2)
	for rowIdx, row := range values[2:] {
		result := reflect.New(t).Elem()

		for columnName, colIdx := range columnIndexes {
			fieldIdx, ok := fieldMap[columnName]
			if !ok || colIdx >= len(row) || row[colIdx] == nil {
				continue
			}

			if err := setFieldValue(result.Field(fieldIdx), row[colIdx]); err != nil {
				return nil, fmt.Errorf("table %s row %d, column %s: %w", tableName, rowIdx+3, columnName, err)
			}
		}

		record := result.Interface().(T)
		if keep(record) {
			results = append(results, record)
		}
	}

	return results, nil
}

// setFieldValue converts a cell to the field's Go type and sets it
func setFieldValue(field reflect.Value, cellValue interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	cellStr := fmt.Sprint(cellValue)

	if field.Type() == timeType {
		if cellStr == "" {
			field.Set(reflect.ValueOf(time.Time{}))
			return nil
		}
		ts, err := time.Parse(TimeLayout, cellStr)
		if err != nil {
			return fmt.Errorf("failed to parse time: %w", err)
		}
		field.Set(reflect.ValueOf(ts))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(cellStr)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cellStr == "" {
			field.SetInt(0)
			return nil
		}
		intVal, err := strconv.ParseInt(cellStr, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse int: %w", err)
		}
		field.SetInt(intVal)

	case reflect.Bool:
		if cellStr == "" {
			field.SetBool(false)
			return nil
		}
		boolVal, err := strconv.ParseBool(cellStr)
		if err != nil {
			return fmt.Errorf("failed to parse bool: %w", err)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}

	return nil
}

// cellValue converts a field to the value stored in the sheet
func cellValue(field reflect.Value) interface{} {
	if field.Type() == timeType {
		ts := field.Interface().(time.Time)
		if ts.IsZero() {
			return ""
		}
		return ts.UTC().Format(TimeLayout)
	}
	return field.Interface()
}

// Insert appends models as rows of their table, in one request
func Insert[T any](ctx context.Context, db *DB, models ...T) error {
	if len(models) == 0 {
		return nil
	}

	t := reflect.TypeOf(models[0])
	tableName := toSnakeCase(t.Name())

	rows := make([][]interface{}, 0, len(models))
	for _, model := range models {
		v := reflect.ValueOf(model)
		row := make([]interface{}, 0, t.NumField())

		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).Tag.Get("ssql_header") == "" {
				continue
			}
			row = append(row, cellValue(v.Field(i)))
		}

		rows = append(rows, row)
	}

	return db.InsertRows(ctx, tableName, rows)
}
