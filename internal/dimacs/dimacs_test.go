package dimacs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var simpleInstance = &Instance{
	Variables: 3,
	Clauses:   [][]int{{1, -2}, {-3, 2}},
	Names:     []string{"", "base", "gui", "aux_tseitin helper"},
	Aux:       []bool{false, false, false, true},
}

const simpleCNF = `c feature model fixture
c 1 base
c 2 gui
c 3 aux_tseitin helper
p cnf 3 2
1 -2 0
-3 2 0
`

func TestRead(t *testing.T) {
	got, err := Read(strings.NewReader(simpleCNF))

	if err != nil {
		t.Fatalf("Read(): want no error, got %s", err)
	}
	if diff := cmp.Diff(simpleInstance, got); diff != "" {
		t.Errorf("Read(): mismatch (-want, +got):\n%s", diff)
	}
}

func TestRead_nameConvention(t *testing.T) {
	testCases := []struct {
		desc      string
		input     string
		wantNames []string
		wantAux   []bool
	}{
		{
			desc: "multi token names keep the full tail",
			input: "c 1 feature with spaces\n" +
				"p cnf 1 0\n",
			wantNames: []string{"", "feature with spaces"},
			wantAux:   []bool{false, false},
		},
		{
			desc: "last declaration wins",
			input: "c 1 first\n" +
				"c 1 second\n" +
				"p cnf 1 0\n",
			wantNames: []string{"", "second"},
			wantAux:   []bool{false, false},
		},
		{
			desc: "names after the header are honored",
			input: "p cnf 2 1\n" +
				"1 2 0\n" +
				"c 2 late\n",
			wantNames: []string{"", "", "late"},
			wantAux:   []bool{false, false, false},
		},
		{
			desc: "undeclared variables are ignored",
			input: "c 9 ghost\n" +
				"p cnf 1 0\n",
			wantNames: []string{"", ""},
			wantAux:   []bool{false, false},
		},
		{
			desc: "free form comments are ignored",
			input: "c this is not a name\n" +
				"c -3 neither is this\n" +
				"p cnf 1 0\n",
			wantNames: []string{"", ""},
			wantAux:   []bool{false, false},
		},
		{
			desc: "aux prefix flags the variable",
			input: "c 1 aux_42\n" +
				"p cnf 1 0\n",
			wantNames: []string{"", "aux_42"},
			wantAux:   []bool{false, true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := Read(strings.NewReader(tc.input))

			if err != nil {
				t.Fatalf("Read(): want no error, got %s", err)
			}
			if diff := cmp.Diff(tc.wantNames, got.Names); diff != "" {
				t.Errorf("Read(): names mismatch (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantAux, got.Aux); diff != "" {
				t.Errorf("Read(): aux mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestRead_errors(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
	}{
		{desc: "empty input", input: ""},
		{desc: "comments only", input: "c nothing here\n"},
		{desc: "literal above declared range", input: "p cnf 2 1\n5 0\n"},
		{desc: "literal below declared range", input: "p cnf 2 1\n-5 0\n"},
		{desc: "unsupported problem type", input: "p wcnf 2 1\n1 2 0\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := Read(strings.NewReader(tc.input))

			if err == nil {
				t.Errorf("Read(): want error, got instance %+v", got)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	for _, file := range []string{"testdata/simple.cnf", "testdata/simple.cnf.gz"} {
		t.Run(file, func(t *testing.T) {
			got, err := Load(file)

			if err != nil {
				t.Fatalf("Load(): want no error, got %s", err)
			}
			if diff := cmp.Diff(simpleInstance, got); diff != "" {
				t.Errorf("Load(): mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_noFile(t *testing.T) {
	if _, err := Load("testdata/does_not_exist.cnf"); err == nil {
		t.Errorf("Load(): want error, got none")
	}
}

func TestInstance_helpers(t *testing.T) {
	if !simpleInstance.Named(1) || simpleInstance.Named(0) {
		t.Errorf("Named(): unexpected result")
	}
	if simpleInstance.IsAux(2) || !simpleInstance.IsAux(3) {
		t.Errorf("IsAux(): unexpected result")
	}
}
