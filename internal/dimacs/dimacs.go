// Package dimacs reads DIMACS CNF files into an immutable clause database.
//
// On top of the standard format, the reader understands the variable-name
// comment convention used by variability-model encoders: a comment of the
// form "c <var> <name tokens...>" assigns a name to a variable. Names
// starting with "aux_" mark encoder-introduced auxiliary variables, which
// are excluded from analysis outputs.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rhartert/dimacs"
)

// AuxPrefix marks the names of encoder-introduced auxiliary variables.
const AuxPrefix = "aux_"

// Instance is a parsed CNF formula. It is created by Load or Read and never
// mutated afterwards, so it can be shared freely across goroutines.
type Instance struct {
	// Variables is the number of variables declared by the problem header.
	// Variables are identified by integers in [1, Variables].
	Variables int

	// Clauses holds the problem clauses as signed DIMACS-style literals.
	Clauses [][]int

	// Names maps variables to their declared names. The slice has length
	// Variables+1 (index 0 unused); unnamed variables hold the empty string.
	Names []string

	// Aux flags variables whose name starts with AuxPrefix. The slice has
	// length Variables+1 (index 0 unused).
	Aux []bool
}

// Named reports whether variable v has a declared name.
func (inst *Instance) Named(v int) bool {
	return inst.Names[v] != ""
}

// IsAux reports whether variable v is an encoder-introduced auxiliary
// variable.
func (inst *Instance) IsAux(v int) bool {
	return inst.Aux[v]
}

// builder implements dimacs.Builder and accumulates the instance while the
// file is being read.
type builder struct {
	headerSeen bool
	variables  int
	clauses    [][]int

	// Variable names are buffered in a map because name comments usually
	// precede the problem header.
	names map[int]string
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if b.headerSeen {
		return fmt.Errorf("found a second problem header")
	}
	if problem != "cnf" {
		return fmt.Errorf("problems of type %q are not supported", problem)
	}
	if nVars < 0 || nClauses < 0 {
		return fmt.Errorf("invalid problem header: %d variables, %d clauses", nVars, nClauses)
	}
	b.headerSeen = true
	b.variables = nVars
	b.clauses = make([][]int, 0, nClauses)
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	if !b.headerSeen {
		return fmt.Errorf("found a clause before the problem header")
	}
	clause := make([]int, len(tmpClause))
	for i, l := range tmpClause {
		if l == 0 || l > b.variables || l < -b.variables {
			return fmt.Errorf("literal %d out of range in clause %v", l, tmpClause)
		}
		clause[i] = l
	}
	b.clauses = append(b.clauses, clause)
	return nil
}

func (b *builder) Comment(text string) error {
	// Tolerate both conventions: the raw comment line ("c 3 name") or the
	// comment's content only ("3 name").
	fields := strings.Fields(text)
	if len(fields) > 0 && fields[0] == "c" {
		fields = fields[1:]
	}
	if len(fields) < 2 {
		return nil // not a variable-name comment
	}
	v, err := strconv.Atoi(fields[0])
	if err != nil || v <= 0 {
		return nil // not a variable-name comment
	}

	// The full tail of the comment is the name; repeated declarations for the
	// same variable overwrite earlier ones.
	b.names[v] = strings.Join(fields[1:], " ")
	return nil
}

// Read parses a DIMACS CNF formula from r.
func Read(r io.Reader) (*Instance, error) {
	b := &builder{names: map[int]string{}}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, err
	}
	if !b.headerSeen {
		return nil, fmt.Errorf("no problem header found")
	}

	inst := &Instance{
		Variables: b.variables,
		Clauses:   b.clauses,
		Names:     make([]string, b.variables+1),
		Aux:       make([]bool, b.variables+1),
	}
	for v, name := range b.names {
		if v > inst.Variables {
			continue // name for an undeclared variable carries no information
		}
		inst.Names[v] = name
		inst.Aux[v] = strings.HasPrefix(name, AuxPrefix)
	}
	return inst, nil
}

// Load parses the DIMACS CNF file at the given path. Files ending in ".gz"
// are transparently decompressed.
func Load(filename string) (*Instance, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := io.Reader(file)
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("error reading %q: %w", filename, err)
		}
		defer gz.Close()
		r = gz
	}

	inst, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse %q: %w", filename, err)
	}
	return inst, nil
}
