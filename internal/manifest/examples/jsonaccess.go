package examples

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/microbench/internal/bench"
)

// JSONFieldAccess compares decoding a whole document with encoding/json
// against extracting single fields with gjson.
func JSONFieldAccess() *bench.Benchmark {
	return &bench.Benchmark{
		Name:        "json-field-access",
		Description: "Read a nested field and an array length from an encoded document",
		Cases: []bench.Case{
			{Name: "encoding/json", Description: "Unmarshal into a struct", Fn: accessStdlib},
			{Name: "gjson", Description: "Path lookups without decoding", Fn: accessGJSON},
		},
		Scenarios:       documentScenarios(),
		GeneratePayload: encodedDocument,
	}
}

// fieldSummary is what both access candidates extract.
type fieldSummary struct {
	Score float64
	Roles int
}

func encodedPayload(args bench.CallArgs) ([]byte, error) {
	data, ok := args.Payload.([]byte)
	if !ok {
		return nil, fmt.Errorf("expected encoded document payload, got %T", args.Payload)
	}
	return data, nil
}

func readStdlib(data []byte) (fieldSummary, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fieldSummary{}, err
	}
	return fieldSummary{Score: doc.Meta.Score, Roles: len(doc.Roles)}, nil
}

func readGJSON(data []byte) (fieldSummary, error) {
	if !gjson.ValidBytes(data) {
		return fieldSummary{}, fmt.Errorf("invalid json document")
	}
	results := gjson.GetManyBytes(data, "meta.score", "roles.#")
	if !results[0].Exists() {
		return fieldSummary{}, fmt.Errorf("meta.score not found")
	}
	return fieldSummary{Score: results[0].Float(), Roles: int(results[1].Int())}, nil
}

func accessStdlib(_ context.Context, args bench.CallArgs) error {
	data, err := encodedPayload(args)
	if err != nil {
		return err
	}
	s, err := readStdlib(data)
	sink = s
	return err
}

func accessGJSON(_ context.Context, args bench.CallArgs) error {
	data, err := encodedPayload(args)
	if err != nil {
		return err
	}
	s, err := readGJSON(data)
	sink = s
	return err
}
