package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/rlsgen/internal/schema"
)

func newMockClient(t *testing.T) (*SQLClient, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &SQLClient{db: db}, mock
}

func tableInfoRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"})
}

func foreignKeyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "seq", "table", "from", "to", "on_update", "on_delete", "match"})
}

func expectSQLiteTable(mock sqlmock.Sqlmock, table string, info func() *sqlmock.Rows, fks *sqlmock.Rows) {
	pragma := func(name string) string {
		return regexp.QuoteMeta("PRAGMA " + name + "(" + table + ")")
	}
	mock.ExpectQuery(pragma("table_info")).WillReturnRows(info())
	mock.ExpectQuery(pragma("table_info")).WillReturnRows(info())
	mock.ExpectQuery(pragma("foreign_key_list")).WillReturnRows(fks)
}

func TestSQLiteExtractSchema(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("members").AddRow("organizations"))

	expectSQLiteTable(mock, "members",
		func() *sqlmock.Rows {
			return tableInfoRows().
				AddRow(0, "id", "TEXT", 1, nil, 1).
				AddRow(1, "user_id", "TEXT", 0, nil, 0).
				AddRow(2, "organization_id", "TEXT", 0, nil, 0)
		},
		foreignKeyRows().AddRow(0, 0, "organizations", "organization_id", nil, "NO ACTION", "NO ACTION", "NONE"),
	)
	expectSQLiteTable(mock, "organizations",
		func() *sqlmock.Rows {
			return tableInfoRows().
				AddRow(0, "id", "TEXT", 1, nil, 1).
				AddRow(1, "name", "TEXT", 1, "'unnamed'", 0)
		},
		foreignKeyRows(),
	)

	s, err := NewSQLiteExtractor(client).ExtractSchema(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, s.Tables, 2)
	members := s.Table("members")
	require.NotNil(t, members)
	assert.Equal(t, "main", members.Schema)
	assert.Equal(t, []schema.Column{
		{Name: "id", Type: "TEXT", IsPrimaryKey: true},
		{Name: "user_id", Type: "TEXT", Nullable: true},
		{Name: "organization_id", Type: "TEXT", IsForeignKey: true, Nullable: true},
	}, members.Columns)

	// the omitted parent column resolves to the parent's primary key
	assert.Equal(t, []schema.Relationship{
		{SourceTable: "members", SourceColumn: "organization_id", TargetTable: "organizations", TargetColumn: "id"},
	}, members.Relationships)

	rel, ok := s.FindRelationship("organizations", "members")
	require.True(t, ok)
	assert.Equal(t, "organization_id", rel.TargetColumn)
}

func TestSQLiteExtractSchemaRequestedTables(t *testing.T) {
	client, mock := newMockClient(t)

	expectSQLiteTable(mock, "organizations",
		func() *sqlmock.Rows { return tableInfoRows().AddRow(0, "id", "INTEGER", 1, nil, 1) },
		foreignKeyRows(),
	)

	s, err := NewSQLiteExtractor(client).ExtractSchema(context.Background(), []string{"organizations"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, s.Tables, 1)
	assert.Equal(t, "organizations", s.Tables[0].Name)
}

func TestSQLiteDropsUnresolvableForeignKey(t *testing.T) {
	client, mock := newMockClient(t)

	expectSQLiteTable(mock, "members",
		func() *sqlmock.Rows {
			return tableInfoRows().
				AddRow(0, "id", "TEXT", 1, nil, 1).
				AddRow(1, "organization_id", "TEXT", 0, nil, 0).
				AddRow(2, "team_id", "TEXT", 0, nil, 0)
		},
		foreignKeyRows().
			AddRow(0, 0, "organizations", "organization_id", nil, "NO ACTION", "NO ACTION", "NONE").
			AddRow(1, 0, "teams", "team_id", "id", "NO ACTION", "NO ACTION", "NONE"),
	)

	// organizations is not extracted, so its key column cannot be resolved
	s, err := NewSQLiteExtractor(client).ExtractSchema(context.Background(), []string{"members"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []schema.Relationship{
		{SourceTable: "members", SourceColumn: "team_id", TargetTable: "teams", TargetColumn: "id"},
	}, s.Table("members").Relationships)
}

func TestSQLiteCompositePrimaryKeyOrder(t *testing.T) {
	client, mock := newMockClient(t)

	info := func() *sqlmock.Rows {
		return tableInfoRows().
			AddRow(0, "team_id", "TEXT", 1, nil, 2).
			AddRow(1, "user_id", "TEXT", 1, nil, 1)
	}
	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA table_info(team_members)")).WillReturnRows(info())

	pk, err := NewSQLiteExtractor(client).primaryKey(context.Background(), "team_members")
	require.NoError(t, err)
	assert.Equal(t, []string{"user_id", "team_id"}, pk)
}

func TestSQLiteExtractSchemaError(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA table_info(members)")).WillReturnError(errors.New("no such table"))

	_, err := NewSQLiteExtractor(client).ExtractSchema(context.Background(), []string{"members"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to extract table members")
	assert.Contains(t, err.Error(), "no such table")
}

func TestMySQLExtractSchema(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("app").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("members"))
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("app", "members").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable"}).
			AddRow("id", "char(36)", "NO").
			AddRow("organization_id", "char(36)", "YES"))
	mock.ExpectQuery("constraint_name = 'PRIMARY'").
		WithArgs("app", "members").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))
	mock.ExpectQuery("referenced_table_name IS NOT NULL").
		WithArgs("app", "members").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "referenced_table_name", "referenced_column_name"}).
			AddRow("organization_id", "organizations", "id"))

	s, err := NewMySQLExtractor(client, "app").ExtractSchema(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, s.Tables, 1)
	members := s.Tables[0]
	assert.Equal(t, "app", members.Schema)
	assert.Equal(t, []schema.Column{
		{Name: "id", Type: "char(36)", IsPrimaryKey: true},
		{Name: "organization_id", Type: "char(36)", IsForeignKey: true, Nullable: true},
	}, members.Columns)
	assert.Equal(t, []schema.Relationship{
		{SourceTable: "members", SourceColumn: "organization_id", TargetTable: "organizations", TargetColumn: "id"},
	}, members.Relationships)
}

func TestMySQLListTablesError(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("FROM information_schema.tables").WillReturnError(errors.New("access denied"))

	_, err := NewMySQLExtractor(client, "app").ExtractSchema(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get table names")
}

func TestParseDatabaseName(t *testing.T) {
	tests := []struct {
		dsn     string
		want    string
		wantErr bool
	}{
		{dsn: "user:pass@tcp(localhost:3306)/app", want: "app"},
		{dsn: "user@unix(/tmp/mysql.sock)/shop?parseTime=true", want: "shop"},
		{dsn: "user:pass@tcp(localhost:3306)/", wantErr: true},
		{dsn: "not a dsn", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			got, err := ParseDatabaseName(tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePostgresType(t *testing.T) {
	length := 64

	tests := []struct {
		dataType string
		udtName  string
		maxLen   *int
		want     string
	}{
		{dataType: "timestamp with time zone", want: "timestamptz"},
		{dataType: "character varying", maxLen: &length, want: "varchar(64)"},
		{dataType: "character varying", want: "varchar"},
		{dataType: "ARRAY", udtName: "_int4", want: "integer[]"},
		{dataType: "USER-DEFINED", udtName: "member_role", want: "member_role"},
		{dataType: "uuid", udtName: "uuid", want: "uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.dataType+"/"+tt.udtName, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePostgresType(tt.dataType, tt.udtName, tt.maxLen))
		})
	}
}
