package render

import (
	"fmt"
	"io"

	"cloud.google.com/go/bigquery"
)

// LedgerSchema infers the BigQuery table schema of LedgerRow.
func LedgerSchema() (bigquery.Schema, error) {
	schema, err := bigquery.InferSchema(LedgerRow{})
	if err != nil {
		return nil, fmt.Errorf("LedgerSchema: infer: %w", err)
	}
	return schema, nil
}

// WriteLedgerSchema writes the schema as the JSON field list accepted by
// `bq load --schema`.
func WriteLedgerSchema(w io.Writer) error {
	schema, err := LedgerSchema()
	if err != nil {
		return err
	}
	data, err := schema.ToJSONFields()
	if err != nil {
		return fmt.Errorf("WriteLedgerSchema: encode: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("WriteLedgerSchema: write: %w", err)
	}
	return nil
}

// WriteLedgerSchemaFile writes cash_rec_schema.json.
func (r *Renderer) WriteLedgerSchemaFile() (string, error) {
	return r.writeFile(LedgerSchemaFileName, WriteLedgerSchema)
}
