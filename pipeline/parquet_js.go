//go:build js

package pipeline

import "fmt"

func marshalSummariesParquet([]Entry) ([]byte, error) {
	return nil, fmt.Errorf("parquet output is not available in js builds; use jsonl or csv")
}
