package sheetssql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestDraw struct {
	ID      string    `ssql_header:"id" ssql_type:"uuid"`
	Round   string    `ssql_header:"round" ssql_type:"text"`
	DrawnAt time.Time `ssql_header:"drawn_at" ssql_type:"timestamp"`
}

type TestAward struct {
	ID        string `ssql_header:"id" ssql_type:"uuid"`
	DrawID    string `ssql_header:"draw_id" ssql_type:"uuid"`
	EntryName string `ssql_header:"entry_name" ssql_type:"text"`
	Prize     string `ssql_header:"prize" ssql_type:"text"`
	Rank      int    `ssql_header:"rank" ssql_type:"int"`
}

func TestSchemaFromModels_SingleModel(t *testing.T) {
	schema, err := SchemaFromModels(TestDraw{})
	require.NoError(t, err)

	require.Len(t, schema.Tables, 1)
	table := schema.Tables[0]

	assert.Equal(t, "test_draw", table.Name)
	assert.Equal(t, []Column{
		{Name: "id", Type: "uuid"},
		{Name: "round", Type: "text"},
		{Name: "drawn_at", Type: "timestamp"},
	}, table.Columns)
}

func TestSchemaFromModels_MultipleModels(t *testing.T) {
	schema, err := SchemaFromModels(TestDraw{}, &TestAward{})
	require.NoError(t, err)

	require.Len(t, schema.Tables, 2)
	assert.Equal(t, "test_draw", schema.Tables[0].Name)
	assert.Equal(t, "test_award", schema.Tables[1].Name)
	assert.Len(t, schema.Tables[1].Columns, 5)
}

func TestSchemaFromModels_InvalidModels(t *testing.T) {
	type MissingHeader struct {
		ID string `ssql_type:"uuid"`
	}
	type MissingType struct {
		ID string `ssql_header:"id"`
	}
	type Empty struct{}

	tests := []struct {
		name    string
		model   interface{}
		wantErr string
	}{
		{"missing header", MissingHeader{}, "missing 'ssql_header' tag"},
		{"missing type", MissingType{}, "missing 'ssql_type' tag"},
		{"no fields", Empty{}, "has no fields"},
		{"not a struct", "draw", "must be a struct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SchemaFromModels(tt.model)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "test_draw", TableName(TestDraw{}))
	assert.Equal(t, "test_award", TableName(&TestAward{}))
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Draw", "draw"},
		{"Leftover", "leftover"},
		{"TestAward", "test_award"},
		{"UUID", "u_u_i_d"},
		{"simple", "simple"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, toSnakeCase(tt.input))
		})
	}
}

func TestNewDB_CreatesMissingTables(t *testing.T) {
	mock := newMockSheetsClient()

	schema, err := SchemaFromModels(TestDraw{}, TestAward{})
	require.NoError(t, err)

	_, err = NewDB(context.Background(), mock, "db-sheet", schema)
	require.NoError(t, err)

	assert.Equal(t, []string{"test_draw", "test_award"}, mock.created)
	assert.Equal(t, []interface{}{"id", "round", "drawn_at"}, mock.tables["test_draw"][0])
	assert.Equal(t, []interface{}{"uuid", "text", "timestamp"}, mock.tables["test_draw"][1])
}

func TestNewDB_VerifiesExistingTables(t *testing.T) {
	mock := newMockSheetsClient()
	mock.tables["test_draw"] = [][]interface{}{
		{"id", "round", "drawn_at"},
		{"uuid", "text", "timestamp"},
	}

	schema, err := SchemaFromModels(TestDraw{})
	require.NoError(t, err)

	_, err = NewDB(context.Background(), mock, "db-sheet", schema)
	require.NoError(t, err)
	assert.Empty(t, mock.created)
}

func TestNewDB_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]interface{}
		wantErr string
	}{
		{
			name:    "missing type row",
			rows:    [][]interface{}{{"id", "round", "drawn_at"}},
			wantErr: "missing header or type row",
		},
		{
			name:    "extra column",
			rows:    [][]interface{}{{"id", "round", "drawn_at", "notes"}, {"uuid", "text", "timestamp", "text"}},
			wantErr: "expected 3 columns, found 4",
		},
		{
			name:    "renamed column",
			rows:    [][]interface{}{{"id", "name", "drawn_at"}, {"uuid", "text", "timestamp"}},
			wantErr: "expected header 'round'",
		},
		{
			name:    "wrong type",
			rows:    [][]interface{}{{"id", "round", "drawn_at"}, {"uuid", "text", "date"}},
			wantErr: "expected type 'timestamp'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockSheetsClient()
			mock.tables["test_draw"] = tt.rows

			schema, err := SchemaFromModels(TestDraw{})
			require.NoError(t, err)

			_, err = NewDB(context.Background(), mock, "db-sheet", schema)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewDB_ListError(t *testing.T) {
	mock := newMockSheetsClient()
	mock.titlesErr = errors.New("not found")

	_, err := NewDB(context.Background(), mock, "db-sheet", &Schema{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get existing sheets")
}
