package analyzer

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/strongraph/strongraph/internal/extract"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const chainCNF = `c 1 a
c 2 b
c 3 c
p cnf 3 2
1 -2 0
2 -3 0
`

const coreDeadCNF = `c 1 a
c 2 b
p cnf 2 2
1 0
-1 -2 0
`

func TestAnalyze(t *testing.T) {
	input := writeInput(t, "chain.cnf", chainCNF)

	res, err := Analyze(Config{Input: input})
	require.NoError(t, err)

	require.Equal(t, 3, res.Variables)
	require.Equal(t, 2, res.Clauses)
	require.Empty(t, res.Core)
	require.Empty(t, res.Dead)
	wantRequires := []extract.Edge{
		{Src: 2, Dst: 1},
		{Src: 3, Dst: 1},
		{Src: 3, Dst: 2},
	}
	if diff := cmp.Diff(wantRequires, res.Requires); diff != "" {
		t.Errorf("requires mismatch (-want, +got):\n%s", diff)
	}
	require.Empty(t, res.Excludes)

	wantFiles := map[string]string{
		"chain__requires.net": "*Vertices 3\n1 \"a\"\n2 \"b\"\n3 \"c\"\n*Arcs\n2 1\n3 1\n3 2\n",
		"chain__excludes.net": "*Vertices 3\n1 \"a\"\n2 \"b\"\n3 \"c\"\n*Edges\n",
		"chain__core.txt":     "",
		"chain__dead.txt":     "",
	}
	require.Len(t, res.Files, len(wantFiles))
	for _, path := range res.Files {
		want, ok := wantFiles[filepath.Base(path)]
		require.True(t, ok, "unexpected output file %s", path)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		if diff := cmp.Diff(want, string(got)); diff != "" {
			t.Errorf("%s content mismatch (-want, +got):\n%s", filepath.Base(path), diff)
		}
	}
}

func TestAnalyze_coreAndDead(t *testing.T) {
	input := writeInput(t, "model.dimacs", coreDeadCNF)
	outDir := filepath.Join(t.TempDir(), "out") // created by the analyzer

	res, err := Analyze(Config{Input: input, OutputDir: outDir})
	require.NoError(t, err)

	require.Equal(t, []int{1}, res.Core)
	require.Equal(t, []int{2}, res.Dead)
	require.Empty(t, res.Requires)
	require.Empty(t, res.Excludes)

	core, err := os.ReadFile(filepath.Join(outDir, "model__core.txt"))
	require.NoError(t, err)
	require.Equal(t, "1 \"a\"\n", string(core))

	dead, err := os.ReadFile(filepath.Join(outDir, "model__dead.txt"))
	require.NoError(t, err)
	require.Equal(t, "2 \"b\"\n", string(dead))
}

// TestAnalyze_deterministic checks two runs over the same input produce
// byte-identical output files.
func TestAnalyze_deterministic(t *testing.T) {
	input := writeInput(t, "chain.cnf", chainCNF)
	dirA := filepath.Join(t.TempDir(), "a")
	dirB := filepath.Join(t.TempDir(), "b")

	threads := 2
	if runtime.NumCPU() < threads {
		threads = 1
	}

	resA, err := Analyze(Config{Input: input, OutputDir: dirA, Threads: threads})
	require.NoError(t, err)
	resB, err := Analyze(Config{Input: input, OutputDir: dirB, Threads: threads})
	require.NoError(t, err)

	require.Len(t, resB.Files, len(resA.Files))
	for i, fileA := range resA.Files {
		a, err := os.ReadFile(fileA)
		require.NoError(t, err)
		b, err := os.ReadFile(resB.Files[i])
		require.NoError(t, err)
		require.Equal(t, string(a), string(b), "output %s differs between runs", filepath.Base(fileA))
	}
}

func TestAnalyze_errors(t *testing.T) {
	valid := writeInput(t, "ok.cnf", chainCNF)
	unsat := writeInput(t, "unsat.cnf", "p cnf 1 2\n1 0\n-1 0\n")
	malformed := writeInput(t, "broken.cnf", "c no header\n1 0\n")
	asFile := writeInput(t, "not_a_dir", "x")

	testCases := []struct {
		desc     string
		cfg      Config
		wantKind Kind
		wantExit int
	}{
		{
			desc:     "missing file",
			cfg:      Config{Input: filepath.Join(t.TempDir(), "missing.cnf")},
			wantKind: KindLoad,
			wantExit: 1,
		},
		{
			desc:     "malformed file",
			cfg:      Config{Input: malformed},
			wantKind: KindLoad,
			wantExit: 1,
		},
		{
			desc:     "unsatisfiable formula",
			cfg:      Config{Input: unsat},
			wantKind: KindLoad,
			wantExit: 1,
		},
		{
			desc:     "unknown detector",
			cfg:      Config{Input: valid, Detector: "magic"},
			wantKind: KindConfig,
			wantExit: 1,
		},
		{
			desc:     "too many workers",
			cfg:      Config{Input: valid, Threads: runtime.NumCPU() + 1},
			wantKind: KindConfig,
			wantExit: 1,
		},
		{
			desc:     "negative workers",
			cfg:      Config{Input: valid, Threads: -1},
			wantKind: KindConfig,
			wantExit: 1,
		},
		{
			desc:     "output directory is a file",
			cfg:      Config{Input: valid, OutputDir: asFile},
			wantKind: KindOutput,
			wantExit: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Analyze(tc.cfg)

			require.Error(t, err)
			require.Equal(t, tc.wantKind, KindOf(err))
			require.Equal(t, tc.wantExit, ExitCode(err))
		})
	}
}

func TestExitCode_success(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
}

func TestBaseName(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{input: "model.cnf", want: "model"},
		{input: "model.dimacs", want: "model"},
		{input: "model.cnf.gz", want: "model"},
		{input: filepath.Join("some", "dir", "model.cnf"), want: "model"},
		{input: "model", want: "model"},
	}

	for _, tc := range testCases {
		if got := BaseName(tc.input); got != tc.want {
			t.Errorf("BaseName(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}
