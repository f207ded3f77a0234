package pajek

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/strongraph/strongraph/internal/dimacs"
	"github.com/strongraph/strongraph/internal/extract"
)

var testInst = &dimacs.Instance{
	Variables: 5,
	Names:     []string{"", "base", "gui", "aux_helper", "", "net stack"},
	Aux:       []bool{false, false, false, true, false, false},
}

func TestWriteArcs(t *testing.T) {
	edges := []extract.Edge{
		{Src: 2, Dst: 1},
		{Src: 5, Dst: 1},
		{Src: 5, Dst: 2},
	}

	var sb strings.Builder
	if err := WriteArcs(&sb, testInst, edges); err != nil {
		t.Fatalf("WriteArcs(): %s", err)
	}

	// The header counts all variables; vertex lines skip the auxiliary
	// variable 3 and the unnamed variable 4.
	want := `*Vertices 5
1 "base"
2 "gui"
5 "net stack"
*Arcs
2 1
5 1
5 2
`
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("WriteArcs(): mismatch (-want, +got):\n%s", diff)
	}
}

func TestWriteEdges(t *testing.T) {
	edges := []extract.Edge{{Src: 1, Dst: 5}}

	var sb strings.Builder
	if err := WriteEdges(&sb, testInst, edges); err != nil {
		t.Fatalf("WriteEdges(): %s", err)
	}

	want := `*Vertices 5
1 "base"
2 "gui"
5 "net stack"
*Edges
1 5
`
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("WriteEdges(): mismatch (-want, +got):\n%s", diff)
	}
}

func TestWriteEdges_empty(t *testing.T) {
	var sb strings.Builder
	if err := WriteEdges(&sb, testInst, nil); err != nil {
		t.Fatalf("WriteEdges(): %s", err)
	}

	want := `*Vertices 5
1 "base"
2 "gui"
5 "net stack"
*Edges
`
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("WriteEdges(): mismatch (-want, +got):\n%s", diff)
	}
}

func TestWriteFeatures(t *testing.T) {
	var sb strings.Builder
	if err := WriteFeatures(&sb, testInst, []int{1, 4, 5}); err != nil {
		t.Fatalf("WriteFeatures(): %s", err)
	}

	// The unnamed variable 4 is skipped, consistent with the vertex lines.
	want := `1 "base"
5 "net stack"
`
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("WriteFeatures(): mismatch (-want, +got):\n%s", diff)
	}
}

func TestWriteFeatures_empty(t *testing.T) {
	var sb strings.Builder
	if err := WriteFeatures(&sb, testInst, nil); err != nil {
		t.Fatalf("WriteFeatures(): %s", err)
	}
	if sb.String() != "" {
		t.Errorf("WriteFeatures(): want empty output, got %q", sb.String())
	}
}
