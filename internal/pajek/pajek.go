// Package pajek serializes analysis results: dependency graphs in the Pajek
// .net format and core/dead feature lists as plain text.
package pajek

import (
	"bufio"
	"fmt"
	"io"

	"github.com/strongraph/strongraph/internal/dimacs"
	"github.com/strongraph/strongraph/internal/extract"
)

// WriteArcs writes a directed graph (requires edges) in Pajek format.
func WriteArcs(w io.Writer, inst *dimacs.Instance, edges []extract.Edge) error {
	return writeNet(w, inst, "*Arcs", edges)
}

// WriteEdges writes an undirected graph (excludes pairs) in Pajek format.
func WriteEdges(w io.Writer, inst *dimacs.Instance, edges []extract.Edge) error {
	return writeNet(w, inst, "*Edges", edges)
}

// writeNet writes the vertex section followed by the given edge section.
//
// The *Vertices header declares the maximum variable index rather than the
// number of listed vertices, so edge endpoints stay valid even though only
// named, non-auxiliary variables get a vertex line.
func writeNet(w io.Writer, inst *dimacs.Instance, section string, edges []extract.Edge) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "*Vertices %d\n", inst.Variables)
	for v := 1; v <= inst.Variables; v++ {
		if !inst.Named(v) || inst.IsAux(v) {
			continue
		}
		fmt.Fprintf(bw, "%d \"%s\"\n", v, inst.Names[v])
	}

	fmt.Fprintf(bw, "%s\n", section)
	for _, e := range edges {
		fmt.Fprintf(bw, "%d %d\n", e.Src, e.Dst)
	}

	return bw.Flush()
}

// WriteFeatures writes one `index "name"` line per variable. It is used for
// the core and dead feature lists; vars must already exclude auxiliary
// variables. Unnamed variables are skipped, matching the vertex sections of
// the graph files.
func WriteFeatures(w io.Writer, inst *dimacs.Instance, vars []int) error {
	bw := bufio.NewWriter(w)
	for _, v := range vars {
		if !inst.Named(v) {
			continue
		}
		fmt.Fprintf(bw, "%d \"%s\"\n", v, inst.Names[v])
	}
	return bw.Flush()
}
