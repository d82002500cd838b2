package examples

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/AlekSi/pointer"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/config"
)

// Document is the record serialized and queried by the JSON benchmarks.
type Document struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Active bool     `json:"active"`
	Roles  []string `json:"roles"`
	Meta   Meta     `json:"meta"`
}

// Meta is the nested part of a Document.
type Meta struct {
	Score float64 `json:"score"`
	Flags []int   `json:"flags"`
}

// documentSizes maps scenario names to role and flag counts.
var documentSizes = map[string][2]int{
	"small":  {1, 2},
	"medium": {5, 10},
	"large":  {1000, 1000},
}

var mediumRoles = []string{"user", "admin", "editor", "viewer", "contributor"}

func documentScenarios() []bench.Scenario {
	names := []string{"small", "medium", "large"}
	out := make([]bench.Scenario, 0, len(names))
	for _, name := range names {
		size := documentSizes[name]
		out = append(out, bench.Scenario{
			Name:        name,
			Description: fmt.Sprintf("%d roles, %d flags", size[0], size[1]),
			Params:      map[string]any{},
			Iterations:  pointer.ToInt(1_000_000),
			TimeLimit:   pointer.ToDuration(5 * time.Second),
		})
	}
	return out
}

// NewDocument builds the document for a scenario. Unknown scenario names get
// the large shape; params "roles" and "flags" override the counts.
func NewDocument(s bench.Scenario) *Document {
	size, ok := documentSizes[s.Name]
	if !ok {
		size = documentSizes["large"]
	}
	if v, ok := s.Params["roles"]; ok {
		if n, err := config.AsInt("params.roles", v); err == nil && n >= 0 {
			size[0] = n
		}
	}
	if v, ok := s.Params["flags"]; ok {
		if n, err := config.AsInt("params.flags", v); err == nil && n >= 0 {
			size[1] = n
		}
	}

	return &Document{
		ID:     1,
		Name:   "John Doe",
		Active: true,
		Roles:  roles(size[0]),
		Meta: Meta{
			Score: 95.5,
			Flags: flags(size[1]),
		},
	}
}

func roles(n int) []string {
	switch n {
	case 1:
		return []string{"user"}
	case len(mediumRoles):
		return append([]string(nil), mediumRoles...)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("role_%d", i)
	}
	return out
}

func flags(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// encodedDocument is the payload generator for benchmarks that read JSON.
func encodedDocument(s bench.Scenario) any {
	data, err := json.Marshal(NewDocument(s))
	if err != nil {
		panic(err)
	}
	return data
}
