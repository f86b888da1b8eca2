package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/semverpop/cmd/semverpop/commands"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
	"github.com/Sumatoshi-tech/semverpop/pkg/persist"
)

const violationsHeader = "groupId:artifactId:major:violations/methods:callables\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// renameCorpus holds one method rename reported on both sides and one
// genuine extension.
func renameCorpus(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "breaking_changes.txt"), violationsHeader+
		"org.x:lib:1:2/10:[1/1.0.1//a.B.m()I, 2/1.0.1//a.B.n()I]\n"+
		"org.x:lib:2:0/12:[]\n"+
		"org.y:other:1:0/4:[]\n")
	writeFile(t, filepath.Join(dir, "api_extensions.txt"), violationsHeader+
		"org.x:lib:1:1/10:[3/1.0.1//a.B.renamed()I]\n"+
		"org.y:other:1:1/4:[4/1.1.0//c.D.f()V]\n")
	writeFile(t, filepath.Join(dir, "artifacts.txt"), "org.x:lib\norg.y:other\norg.z:quiet\n")
	writeFile(t, filepath.Join(dir, "mvn.expanded_coords.txt"),
		"org.x:lib:1.0.0\norg.x:lib:1.0.1\norg.y:other:1.0.0\norg.y:other:1.1.0\norg.y:other:1.1.1\n")

	return dir
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "semverpop.yaml")
	writeFile(t, path, "logging:\n  level: error\n"+body)

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color"))

	err := cmd.Execute()

	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "semverpop")
}

func TestAnalyze_PrintsSummary(t *testing.T) {
	t.Parallel()

	corpusDir := renameCorpus(t)

	out, err := run(t, "analyze", "--config", writeConfig(t, ""), "--corpus", corpusDir, "--no-charts")
	require.NoError(t, err)

	assert.Contains(t, out, "Corpus")
	assert.Contains(t, out, "with breaking changes")
	assert.Contains(t, out, "removed as method duplicates")
	assert.Contains(t, out, "releases with illegal API extensions")
	assert.Contains(t, out, "Breaking changes per artifact")
	assert.NotContains(t, out, "popularity:")
}

func TestAnalyze_WritesCharts(t *testing.T) {
	t.Parallel()

	corpusDir := renameCorpus(t)
	outDir := filepath.Join(t.TempDir(), "plots")

	_, err := run(t, "analyze", "--config", writeConfig(t, ""), "--corpus", corpusDir, "-o", outDir)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(outDir, "analyze.html"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestAnalyze_ComparesPopularity(t *testing.T) {
	t.Parallel()

	corpusDir := renameCorpus(t)
	writeFile(t, filepath.Join(corpusDir, "popularity", "org.x:lib$1.0.1", "degree.bin"),
		"1,0.5\n2,0.7\n5,0.1\n6,0.2\n7,0.3\n8,na\n")

	cfg := writeConfig(t, "popularity:\n  metrics: [degree, eigenvector]\n")

	out, err := run(t, "analyze", "--config", cfg, "--corpus", corpusDir, "--no-charts")
	require.NoError(t, err)

	assert.Contains(t, out, "popularity: degree")
	assert.Contains(t, out, "t-test greater")
	assert.NotContains(t, out, "popularity: eigenvector")
}

func TestAnalyze_MalformedRecord(t *testing.T) {
	t.Parallel()

	corpusDir := renameCorpus(t)
	writeFile(t, filepath.Join(corpusDir, "breaking_changes.txt"), violationsHeader+"org.x:lib:1:2-10:[]\n")

	_, err := run(t, "analyze", "--config", writeConfig(t, ""), "--corpus", corpusDir, "--no-charts")
	require.ErrorIs(t, err, model.ErrMalformedRecord)
}

func TestAnalyze_MalformedCallable(t *testing.T) {
	t.Parallel()

	corpusDir := renameCorpus(t)
	writeFile(t, filepath.Join(corpusDir, "api_extensions.txt"), violationsHeader+"org.x:lib:1:1/10:[nodescriptor]\n")

	_, err := run(t, "analyze", "--config", writeConfig(t, ""), "--corpus", corpusDir, "--no-charts")
	require.ErrorIs(t, err, model.ErrMalformedCallable)
}

func TestDedup_ExportsSnapshotAndDatabase(t *testing.T) {
	t.Parallel()

	corpusDir := renameCorpus(t)
	outDir := t.TempDir()
	snapPath := filepath.Join(outDir, "reconciled.json.lz4")
	dbPath := filepath.Join(outDir, "runs.db")

	out, err := run(t, "dedup", "--config", writeConfig(t, ""), "--corpus", corpusDir,
		"--out", snapPath, "--sqlite", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Duplicate removal")
	assert.Contains(t, out, "total removed")

	snap, err := persist.LoadSnapshot(snapPath)
	require.NoError(t, err)
	require.Len(t, snap.APIExtensions, 3)
	assert.Equal(t, model.Coordinate{GroupID: "org.x", ArtifactID: "lib"}, snap.APIExtensions[0].Coordinate)
	assert.Empty(t, snap.APIExtensions[0].Callables)
	assert.Zero(t, snap.APIExtensions[0].Violations)
	assert.Equal(t, 1, snap.APIExtensions[1].Violations)
	assert.NotEmpty(t, snap.RunID)

	// The analysis can resume from the exported snapshot.
	out, err = run(t, "analyze", "--config", writeConfig(t, ""), "--corpus", corpusDir,
		"--snapshot", snapPath, "--no-charts")
	require.NoError(t, err)
	assert.Contains(t, out, "removed as method duplicates")

	_, err = os.Stat(dbPath)
	require.NoError(t, err)
}

func TestDedup_SingleCategory(t *testing.T) {
	t.Parallel()

	corpusDir := renameCorpus(t)
	cfg := writeConfig(t, "dedup:\n  categories: [return]\n")

	out, err := run(t, "dedup", "--config", cfg, "--corpus", corpusDir)
	require.NoError(t, err)
	assert.Contains(t, out, "return")
	assert.NotContains(t, out, "method ")
}

func TestCutoff_FindsBalancePoint(t *testing.T) {
	t.Parallel()

	corpusDir := t.TempDir()
	for _, dir := range []string{"org.x:lib$1.0", "org.y:other$2.0"} {
		writeFile(t, filepath.Join(corpusDir, "popularity", dir, "degree.bin"),
			"a,8\nb,7\nc,6\nd,5\ne,4\nf,3\ng,2\nh,1\ni,0\n")
	}

	cfg := writeConfig(t, `cutoff:
  metric: degree
  bins: 4
  min_samples: 4
  degree: 1
  points: 50
  epsilon: 1
`)

	out, err := run(t, "cutoff", "--config", cfg, "--corpus", corpusDir, "--no-charts")
	require.NoError(t, err)
	assert.Contains(t, out, "cutoff: degree")
	assert.Contains(t, out, "balance point x")
	assert.Contains(t, out, "unused methods")
}

func TestCutoff_NoGroups(t *testing.T) {
	t.Parallel()

	corpusDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(corpusDir, "popularity"), 0o750))

	_, err := run(t, "cutoff", "--config", writeConfig(t, ""), "--corpus", corpusDir, "--metric", "degree")
	require.ErrorIs(t, err, model.ErrEmptyInput)
}

func TestPackages_WindowRatios(t *testing.T) {
	t.Parallel()

	corpusDir := t.TempDir()
	writeFile(t, filepath.Join(corpusDir, "breaking_changes.txt"), violationsHeader+
		"org.a:lib:1:1/10:[]\n"+
		"org.b:lib:1:1/10:[]\n"+
		"org.c:lib:1:1/10:[]\n"+
		"org.d:lib:1:0/10:[]\n")
	writeFile(t, filepath.Join(corpusDir, "api_extensions.txt"), violationsHeader)

	deps := map[string]string{
		"org.a_lib_1.0": "d1\nd2\nd3\nd4\n",
		"org.b_lib_1.0": "d1\n",
		"org.c_lib_1.0": "d5\nd6\nd7\n",
		"org.d_lib_1.0": "d8\n",
	}
	for dir, body := range deps {
		writeFile(t, filepath.Join(corpusDir, "dependents", dir, "dependents.txt"), body)
	}

	out, err := run(t, "packages", "--config", writeConfig(t, ""), "--corpus", corpusDir,
		"--windows", "2", "--degree", "1", "--no-charts")
	require.NoError(t, err)
	assert.Contains(t, out, "package popularity")
	assert.Contains(t, out, "fit coefficient x^1")
}

func TestUnknownConfigFile(t *testing.T) {
	t.Parallel()

	_, err := run(t, "dedup", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDedup_MultiParameterRename(t *testing.T) {
	t.Parallel()

	corpusDir := t.TempDir()
	writeFile(t, filepath.Join(corpusDir, "breaking_changes.txt"), violationsHeader+
		"org.x:lib:1:2/10:[1/1.0.1//org.x/C.m(/java.lang/Integer,/java.lang/String)V, 2/1.0.1//org.x/C.n()V]\n")
	writeFile(t, filepath.Join(corpusDir, "api_extensions.txt"), violationsHeader+
		"org.x:lib:1:1/10:[3/1.0.1//org.x/C.renamed(/java.lang/Integer,/java.lang/String)V]\n")

	snapPath := filepath.Join(t.TempDir(), "reconciled.json")

	_, err := run(t, "dedup", "--config", writeConfig(t, ""), "--corpus", corpusDir, "--out", snapPath)
	require.NoError(t, err)

	snap, err := persist.LoadSnapshot(snapPath)
	require.NoError(t, err)
	require.Len(t, snap.BreakingChanges, 1)
	assert.Len(t, snap.BreakingChanges[0].Callables, 2)
	assert.Zero(t, snap.APIExtensions[0].Violations)
}
