// Package lambdaexec runs SQL against a remote database by invoking the
// Lambda function that sits in front of it. The function accepts a payload of
// {"sql": <query>} and answers with a JSON body containing a "rows" array.
package lambdaexec

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	db "github.com/cwf-platform/dbops/database"
)

// InvokeAPI is the slice of the Lambda client this package uses.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

type Client struct {
	api          InvokeAPI
	functionName string
}

// New builds a Client against the real Lambda service in the given region.
func New(ctx context.Context, functionName, region string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %v", err)
	}
	return &Client{
		api:          lambda.NewFromConfig(cfg),
		functionName: functionName,
	}, nil
}

// NewWithAPI builds a Client over an existing Lambda API, real or fake.
func NewWithAPI(api InvokeAPI, functionName string) *Client {
	return &Client{api: api, functionName: functionName}
}

type queryRequest struct {
	SQL string `json:"sql"`
}

type invokeResponse struct {
	Body string `json:"body"`
}

type responseBody struct {
	Rows []json.RawMessage `json:"rows"`
}

// Query invokes the function with the given SQL and returns the raw result
// rows. A response without a body yields no rows.
func (c *Client) Query(ctx context.Context, sqlText string) ([]json.RawMessage, error) {
	payload, err := json.Marshal(queryRequest{SQL: sqlText})
	if err != nil {
		return nil, fmt.Errorf("encoding query payload: %v", err)
	}

	out, err := c.api.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(c.functionName),
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("invoking %s: %v", c.functionName, err)
	}
	if out.FunctionError != nil {
		return nil, fmt.Errorf("function %s failed: %s: %s", c.functionName, *out.FunctionError, out.Payload)
	}

	var resp invokeResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, fmt.Errorf("parsing invoke response: %v", err)
	}
	if resp.Body == "" {
		return nil, nil
	}

	var body responseBody
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		return nil, fmt.Errorf("parsing response body: %v", err)
	}
	return body.Rows, nil
}

type tableRow struct {
	TableName string          `json:"table_name"`
	Columns   json.RawMessage `json:"columns"`
}

type relationshipRow struct {
	FromTable  string `json:"from_table"`
	ToTable    string `json:"to_table"`
	FromColumn string `json:"from_column"`
}

func (c *Client) Tables(ctx context.Context) ([]db.Table, error) {
	rows, err := c.Query(ctx, db.TablesQuery)
	if err != nil {
		return nil, err
	}

	var tables []db.Table
	for _, row := range rows {
		var tr tableRow
		if err := json.Unmarshal(row, &tr); err != nil {
			return nil, fmt.Errorf("parsing table row: %v", err)
		}
		columns, err := db.DecodeColumns(tr.Columns)
		if err != nil {
			return nil, fmt.Errorf("decoding columns for %s: %v", tr.TableName, err)
		}
		tables = append(tables, db.Table{
			Name:    tr.TableName,
			Columns: columns,
		})
	}
	return tables, nil
}

func (c *Client) Relationships(ctx context.Context) ([]db.Relationship, error) {
	rows, err := c.Query(ctx, db.RelationshipsQuery)
	if err != nil {
		return nil, err
	}

	var rels []db.Relationship
	for _, row := range rows {
		var rr relationshipRow
		if err := json.Unmarshal(row, &rr); err != nil {
			return nil, fmt.Errorf("parsing relationship row: %v", err)
		}
		rels = append(rels, db.Relationship{
			FromTable:  rr.FromTable,
			ToTable:    rr.ToTable,
			FromColumn: rr.FromColumn,
		})
	}
	return rels, nil
}
