package lambdaexec

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	db "github.com/cwf-platform/dbops/database"
)

type fakeInvoker struct {
	lastInput *lambda.InvokeInput
	output    *lambda.InvokeOutput
	err       error
}

func (f *fakeInvoker) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.lastInput = params
	return f.output, f.err
}

// payloadWithBody wraps rows JSON the way the function responds: the body
// field is a JSON string, not a nested object.
func payloadWithBody(t *testing.T, rowsJSON string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]string{"body": `{"rows": ` + rowsJSON + `}`})
	require.NoError(t, err)
	return body
}

func TestQuerySendsSQLPayload(t *testing.T) {
	fake := &fakeInvoker{output: &lambda.InvokeOutput{Payload: payloadWithBody(t, `[]`)}}
	client := NewWithAPI(fake, "cwf-db-migration")

	_, err := client.Query(context.Background(), "SELECT 1;")
	require.NoError(t, err)

	require.NotNil(t, fake.lastInput)
	assert.Equal(t, "cwf-db-migration", aws.ToString(fake.lastInput.FunctionName))
	assert.JSONEq(t, `{"sql": "SELECT 1;"}`, string(fake.lastInput.Payload))
}

func TestQueryReturnsRows(t *testing.T) {
	fake := &fakeInvoker{output: &lambda.InvokeOutput{Payload: payloadWithBody(t, `[{"a": 1}, {"a": 2}]`)}}
	client := NewWithAPI(fake, "cwf-db-migration")

	rows, err := client.Query(context.Background(), "SELECT a FROM t;")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.JSONEq(t, `{"a": 1}`, string(rows[0]))
}

func TestQueryMissingBody(t *testing.T) {
	fake := &fakeInvoker{output: &lambda.InvokeOutput{Payload: []byte(`{"statusCode": 500}`)}}
	client := NewWithAPI(fake, "cwf-db-migration")

	rows, err := client.Query(context.Background(), "SELECT 1;")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestQueryFunctionError(t *testing.T) {
	fake := &fakeInvoker{output: &lambda.InvokeOutput{
		FunctionError: aws.String("Unhandled"),
		Payload:       []byte(`{"errorMessage": "timeout"}`),
	}}
	client := NewWithAPI(fake, "cwf-db-migration")

	_, err := client.Query(context.Background(), "SELECT 1;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unhandled")
}

func TestQueryInvokeError(t *testing.T) {
	fake := &fakeInvoker{err: errors.New("AccessDeniedException")}
	client := NewWithAPI(fake, "cwf-db-migration")

	_, err := client.Query(context.Background(), "SELECT 1;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDeniedException")
}

func TestTables(t *testing.T) {
	rows := `[
		{"table_name": "users", "columns": [
			{"column": "id", "type": "integer", "nullable": "NO", "is_pk": true},
			{"column": "email", "type": "text", "nullable": "YES", "is_pk": false}
		]}
	]`
	fake := &fakeInvoker{output: &lambda.InvokeOutput{Payload: payloadWithBody(t, rows)}}
	client := NewWithAPI(fake, "cwf-db-migration")

	tables, err := client.Tables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)

	assert.Equal(t, "users", tables[0].Name)
	require.Len(t, tables[0].Columns, 2)
	assert.Equal(t, db.Column{Name: "id", Type: "integer", Nullable: false, IsPrimary: true}, tables[0].Columns[0])
	assert.Equal(t, db.Column{Name: "email", Type: "text", Nullable: true, IsPrimary: false}, tables[0].Columns[1])
}

func TestTablesColumnsAsString(t *testing.T) {
	// json_agg output can arrive pre-serialized as a string
	rows := `[
		{"table_name": "users", "columns": "[{\"column\": \"id\", \"type\": \"integer\", \"nullable\": \"NO\", \"is_pk\": true}]"}
	]`
	fake := &fakeInvoker{output: &lambda.InvokeOutput{Payload: payloadWithBody(t, rows)}}
	client := NewWithAPI(fake, "cwf-db-migration")

	tables, err := client.Tables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Columns, 1)
	assert.True(t, tables[0].Columns[0].IsPrimary)
}

func TestRelationships(t *testing.T) {
	rows := `[
		{"from_table": "posts", "to_table": "users", "from_column": "user_id"}
	]`
	fake := &fakeInvoker{output: &lambda.InvokeOutput{Payload: payloadWithBody(t, rows)}}
	client := NewWithAPI(fake, "cwf-db-migration")

	rels, err := client.Relationships(context.Background())
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, db.Relationship{FromTable: "posts", ToTable: "users", FromColumn: "user_id"}, rels[0])
}
