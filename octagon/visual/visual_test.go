package visual

import (
	"strings"
	"testing"

	"github.com/k-vikingsson/soct/numdom"
	"github.com/k-vikingsson/soct/octagon"
)

func TestDotHasOneNodePerVertexAndOneEdgePerGraphEdge(t *testing.T) {
	d := octagon.Top()
	x := numdom.Variable{Index: 0, Name: "x", Type: numdom.Int}
	d.Set(x, numdom.FiniteInterval(0, 10))

	verts, edges := d.DebugGraph()
	g := Dot(d)
	if len(g.Nodes) != len(verts) {
		t.Fatalf("Dot produced %d nodes, want %d (one per DebugGraph vertex)", len(g.Nodes), len(verts))
	}
	if len(g.Edges) != len(edges) {
		t.Fatalf("Dot produced %d edges, want %d (one per DebugGraph edge)", len(g.Edges), len(edges))
	}
}

func TestWriteDotProducesValidDigraphSyntax(t *testing.T) {
	d := octagon.Top()
	x, y := numdom.Variable{Index: 0, Name: "x", Type: numdom.Int}, numdom.Variable{Index: 1, Name: "y", Type: numdom.Int}
	d.Set(x, numdom.FiniteInterval(0, 10))
	d.Assign(y, numdom.Var(x).Plus(numdom.NewLinearExpression(3)))

	var buf strings.Builder
	if err := WriteDot(d, &buf); err != nil {
		t.Fatalf("WriteDot returned an error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "digraph") {
		t.Fatalf("WriteDot output should be a digraph, got: %s", out)
	}
	if !strings.Contains(out, "x+") && !strings.Contains(out, "x-") {
		t.Fatalf("WriteDot output should label a vertex after variable x, got: %s", out)
	}
}
