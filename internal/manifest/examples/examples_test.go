package examples

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/manifest"
)

func TestRegister(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, 3)
	assert.Equal(t, "add-vs-multiply", list[0].Name)
	assert.Equal(t, "json-build", list[1].Name)
	assert.Equal(t, "json-field-access", list[2].Name)

	// registering twice collides
	assert.Error(t, Register(reg))
}

func TestAll_CandidatesSucceed(t *testing.T) {
	ctx := context.Background()
	for _, b := range All() {
		require.NoError(t, manifest.Validate(b), b.Name)
		for _, s := range b.Scenarios {
			payload := b.GeneratePayload(s)
			for _, c := range b.Cases {
				err := c.Fn(ctx, bench.CallArgs{Params: s.Params, Payload: payload})
				assert.NoError(t, err, "%s/%s/%s", b.Name, s.Name, c.Name)
			}
		}
	}
}

func TestCandidates_RejectWrongPayload(t *testing.T) {
	ctx := context.Background()
	for _, b := range All() {
		for _, c := range b.Cases {
			err := c.Fn(ctx, bench.CallArgs{Payload: struct{}{}})
			assert.Error(t, err, "%s/%s", b.Name, c.Name)
		}
	}
}

func TestOperandsFor(t *testing.T) {
	tests := []struct {
		name     string
		scenario bench.Scenario
		want     Operands
	}{
		{"small", bench.Scenario{Name: "small"}, Operands{A: 1, B: 2}},
		{"large", bench.Scenario{Name: "large"}, Operands{A: 1_000_000, B: 2_000_000}},
		{"params override", bench.Scenario{Name: "small", Params: map[string]any{"a": 7, "b": "9"}}, Operands{A: 7, B: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, operandsFor(tt.scenario))
		})
	}
}

func TestNewDocument_Sizes(t *testing.T) {
	tests := []struct {
		scenario bench.Scenario
		roles    int
		flags    int
	}{
		{bench.Scenario{Name: "small"}, 1, 2},
		{bench.Scenario{Name: "medium"}, 5, 10},
		{bench.Scenario{Name: "large"}, 1000, 1000},
		{bench.Scenario{Name: "custom", Params: map[string]any{"roles": 3, "flags": 0}}, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.scenario.Name, func(t *testing.T) {
			doc := NewDocument(tt.scenario)
			assert.Len(t, doc.Roles, tt.roles)
			assert.Len(t, doc.Meta.Flags, tt.flags)
			assert.Equal(t, 95.5, doc.Meta.Score)
		})
	}

	assert.Equal(t, []string{"user"}, NewDocument(bench.Scenario{Name: "small"}).Roles)
	assert.Equal(t, "role_999", NewDocument(bench.Scenario{Name: "large"}).Roles[999])
}

func TestFieldAccess_Agree(t *testing.T) {
	for _, name := range []string{"small", "medium", "large"} {
		data := encodedDocument(bench.Scenario{Name: name}).([]byte)

		std, err := readStdlib(data)
		require.NoError(t, err)
		fast, err := readGJSON(data)
		require.NoError(t, err)

		assert.Equal(t, std, fast, name)
		assert.Equal(t, 95.5, fast.Score)
	}

	_, err := readGJSON([]byte(`{"roles":`))
	assert.Error(t, err)
	_, err = readGJSON([]byte(`{"roles":[]}`))
	assert.Error(t, err)
}

func TestBuild_Agree(t *testing.T) {
	for _, name := range []string{"small", "medium", "large"} {
		doc := NewDocument(bench.Scenario{Name: name})

		std, err := marshalStdlib(doc)
		require.NoError(t, err)
		built, err := marshalSJSON(doc)
		require.NoError(t, err)

		assert.JSONEq(t, string(std), string(built), name)

		var back Document
		require.NoError(t, json.Unmarshal(built, &back))
		assert.Equal(t, *doc, back)
	}
}
