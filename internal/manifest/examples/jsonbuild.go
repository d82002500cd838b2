package examples

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/wesleyorama2/microbench/internal/bench"
)

// JSONBuild compares struct marshaling with encoding/json against building
// the same document field by field with sjson.
func JSONBuild() *bench.Benchmark {
	return &bench.Benchmark{
		Name:        "json-build",
		Description: "Serialize a document with encoding/json or sjson",
		Cases: []bench.Case{
			{Name: "encoding/json", Description: "json.Marshal of the struct", Fn: buildStdlib},
			{Name: "sjson", Description: "Set fields into an empty object", Fn: buildSJSON},
		},
		Scenarios: documentScenarios(),
		GeneratePayload: func(s bench.Scenario) any {
			return NewDocument(s)
		},
	}
}

func documentPayload(args bench.CallArgs) (*Document, error) {
	doc, ok := args.Payload.(*Document)
	if !ok || doc == nil {
		return nil, fmt.Errorf("expected *Document payload, got %T", args.Payload)
	}
	return doc, nil
}

func marshalStdlib(doc *Document) ([]byte, error) {
	return json.Marshal(doc)
}

func marshalSJSON(doc *Document) ([]byte, error) {
	buf := []byte(`{}`)
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		buf, err = sjson.SetBytes(buf, path, value)
	}

	set("id", doc.ID)
	set("name", doc.Name)
	set("active", doc.Active)
	set("roles", doc.Roles)
	set("meta.score", doc.Meta.Score)
	set("meta.flags", doc.Meta.Flags)

	return buf, err
}

func buildStdlib(_ context.Context, args bench.CallArgs) error {
	doc, err := documentPayload(args)
	if err != nil {
		return err
	}
	out, err := marshalStdlib(doc)
	sink = out
	return err
}

func buildSJSON(_ context.Context, args bench.CallArgs) error {
	doc, err := documentPayload(args)
	if err != nil {
		return err
	}
	out, err := marshalSJSON(doc)
	sink = out
	return err
}
