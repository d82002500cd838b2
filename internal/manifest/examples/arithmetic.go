package examples

import (
	"context"
	"fmt"
	"time"

	"github.com/AlekSi/pointer"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/config"
)

// Operands is the add-vs-multiply payload.
type Operands struct {
	A int `json:"a"`
	B int `json:"b"`
}

// AddVsMultiply compares integer addition with multiplication.
func AddVsMultiply() *bench.Benchmark {
	return &bench.Benchmark{
		Name:        "add-vs-multiply",
		Description: "Benchmark comparing addition vs multiplication performance",
		Cases: []bench.Case{
			{Name: "addition", Description: "Simple addition operation", Fn: add},
			{Name: "multiplication", Description: "Simple multiplication operation", Fn: multiply},
		},
		Scenarios: []bench.Scenario{
			{
				Name:        "small",
				Description: "Small numbers",
				Params:      map[string]any{},
				Iterations:  pointer.ToInt(100_000),
				TimeLimit:   pointer.ToDuration(5 * time.Second),
			},
			{
				Name:        "large",
				Description: "Large numbers",
				Params:      map[string]any{},
				Iterations:  pointer.ToInt(100_000),
				TimeLimit:   pointer.ToDuration(5 * time.Second),
			},
		},
		GeneratePayload: operandsFor,
	}
}

// operandsFor picks operands by scenario name; params "a" and "b" override.
func operandsFor(s bench.Scenario) any {
	ops := Operands{A: 1_000_000, B: 2_000_000}
	if s.Name == "small" {
		ops = Operands{A: 1, B: 2}
	}
	if v, ok := s.Params["a"]; ok {
		if a, err := config.AsInt("params.a", v); err == nil {
			ops.A = a
		}
	}
	if v, ok := s.Params["b"]; ok {
		if b, err := config.AsInt("params.b", v); err == nil {
			ops.B = b
		}
	}
	return ops
}

func operands(args bench.CallArgs) (Operands, error) {
	ops, ok := args.Payload.(Operands)
	if !ok {
		return Operands{}, fmt.Errorf("expected Operands payload, got %T", args.Payload)
	}
	return ops, nil
}

func add(_ context.Context, args bench.CallArgs) error {
	ops, err := operands(args)
	if err != nil {
		return err
	}
	sink = ops.A + ops.B
	return nil
}

func multiply(_ context.Context, args bench.CallArgs) error {
	ops, err := operands(args)
	if err != nil {
		return err
	}
	sink = ops.A * ops.B
	return nil
}
