package cmd

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oneconcern/tico/pkg/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ExitMocks struct {
	mock.Mock
	fatalCalls int
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	m.fatalCalls++
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	m.fatalCalls++
}

// https://github.com/stretchr/testify/issues/610
func MakeFatalfMock(m *ExitMocks) func(string, ...interface{}) {
	return func(format string, v ...interface{}) {
		m.Fatalf(format, v...)
	}
}

func MakeFatallnMock(m *ExitMocks) func(...interface{}) {
	return func(v ...interface{}) {
		m.Fatalln(v...)
	}
}

var (
	exitMocks *ExitMocks
	testRoot  string
)

func setupTests(t *testing.T) func() {
	dir, err := ioutil.TempDir("", "tico-cli")
	require.NoError(t, err)
	testRoot = dir

	exitMocks = new(ExitMocks)
	logFatalf = MakeFatalfMock(exitMocks)
	logFatalln = MakeFatallnMock(exitMocks)
	stdin = strings.NewReader("")

	return func() {
		_ = os.RemoveAll(dir)
	}
}

// resetFlags restores the defaults between runs of the same command tree
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCmd(t *testing.T, args ...string) string {
	var out bytes.Buffer
	resetFlags(rootCmd)
	rootCmd.SetOutput(&out)
	rootCmd.SetArgs(append(args, "--repo", testRoot))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func writeTestFile(t *testing.T, rel, content string) string {
	pth := filepath.Join(testRoot, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(pth), 0700))
	require.NoError(t, ioutil.WriteFile(pth, []byte(content), 0600))
	return pth
}

func TestInit(t *testing.T) {
	cleanup := setupTests(t)
	defer cleanup()

	out := runCmd(t, "init", "--user", "alice")
	assert.Contains(t, out, "for alice")
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.DirExists(t, filepath.Join(testRoot, engine.DefaultMetaDir))

	// negative test
	runCmd(t, "init", "--user", "alice")
	require.Equal(t, 1, exitMocks.fatalCalls)
}

func TestNotInitialized(t *testing.T) {
	cleanup := setupTests(t)
	defer cleanup()

	runCmd(t, "status")
	require.Equal(t, 1, exitMocks.fatalCalls)
	_, err := os.Stat(filepath.Join(testRoot, engine.DefaultMetaDir))
	assert.True(t, os.IsNotExist(err))
}

func TestCommitWorkflow(t *testing.T) {
	cleanup := setupTests(t)
	defer cleanup()

	runCmd(t, "init", "--user", "alice")
	a := writeTestFile(t, "a.txt", "alpha")
	b := writeTestFile(t, "dir/b.txt", "beta")

	out := runCmd(t, "add", a)
	assert.Contains(t, out, "added a.txt")

	out = runCmd(t, "status")
	assert.Contains(t, out, "On branch main")
	assert.Contains(t, out, "Tracked (staged)")
	assert.Contains(t, out, "Untracked")
	assert.Contains(t, out, "dir/b.txt")

	out = runCmd(t, "commit", "-m", "first", "--no")
	assert.Contains(t, out, "[main ")
	assert.Contains(t, out, "1 file(s) changed")

	out = runCmd(t, "commit", "--no")
	assert.Contains(t, out, "nothing to commit")

	stdin = strings.NewReader("y\n")
	out = runCmd(t, "commit", "-m", "second")
	assert.Contains(t, out, "commit untracked files? (y/n)")
	assert.Contains(t, out, "dir/b.txt")
	assert.Contains(t, out, "1 file(s) changed")

	out = runCmd(t, "status")
	assert.Contains(t, out, "Your directory is up to date.")

	out = runCmd(t, "log", "--short")
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.True(t, strings.Index(out, "second") < strings.Index(out, "first"), "newest commit comes first")

	var h engine.History
	require.NoError(t, json.Unmarshal([]byte(runCmd(t, "log", "--format", "json")), &h))
	require.Len(t, h.Commits, 2)
	assert.Equal(t, "alice", h.Commits[0].Author)
	assert.Equal(t, "first", h.Commits[0].Message)

	out = runCmd(t, "undo")
	assert.Contains(t, out, "removed commit "+h.Commits[1].ID)
	_, err := os.Stat(b)
	assert.True(t, os.IsNotExist(err))

	out = runCmd(t, "log")
	assert.Contains(t, out, "Removed commits:")
	assert.Contains(t, out, h.Commits[1].ID)

	runCmd(t, "rmcommit")
	require.Equal(t, 0, exitMocks.fatalCalls)
	runCmd(t, "undo")
	require.Equal(t, 1, exitMocks.fatalCalls)
}

func TestUnaddAliases(t *testing.T) {
	cleanup := setupTests(t)
	defer cleanup()

	runCmd(t, "init", "--user", "alice")
	a := writeTestFile(t, "a.txt", "alpha")
	b := writeTestFile(t, "b.txt", "beta")
	runCmd(t, "add", a, b)

	out := runCmd(t, "rmadd", a)
	assert.Contains(t, out, "removed a.txt")
	out = runCmd(t, "rm", b)
	assert.Contains(t, out, "removed b.txt")

	out = runCmd(t, "status")
	assert.Contains(t, out, "Untracked")
	assert.NotContains(t, out, "(staged)")
	require.Equal(t, 0, exitMocks.fatalCalls)
}

func TestCommitYesFromFlag(t *testing.T) {
	cleanup := setupTests(t)
	defer cleanup()

	runCmd(t, "init", "--user", "alice")
	writeTestFile(t, "a.txt", "alpha")

	out := runCmd(t, "commit", "--yes")
	assert.NotContains(t, out, "(y/n)")
	assert.Contains(t, out, "New commit")
	require.Equal(t, 0, exitMocks.fatalCalls)
}

func TestCheckoutAndExport(t *testing.T) {
	cleanup := setupTests(t)
	defer cleanup()

	runCmd(t, "init", "--user", "alice")
	a := writeTestFile(t, "a.txt", "v1")
	runCmd(t, "add", a)
	runCmd(t, "commit", "-m", "v1")
	writeTestFile(t, "a.txt", "v2")
	runCmd(t, "add", a)
	runCmd(t, "commit", "-m", "v2")

	var h engine.History
	require.NoError(t, json.Unmarshal([]byte(runCmd(t, "log", "--format", "json")), &h))
	require.Len(t, h.Commits, 2)

	out := runCmd(t, "checkout", h.Commits[0].ID[:8])
	assert.Contains(t, out, "at commit "+h.Commits[0].ID)
	content, err := ioutil.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(content))

	target := filepath.Join(testRoot, "..", filepath.Base(testRoot)+"-export")
	defer os.RemoveAll(target)
	out = runCmd(t, "push", target)
	assert.Contains(t, out, "exported 1 file(s)")
	content, err = ioutil.ReadFile(filepath.Join(target, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(content))

	runCmd(t, "checkout", "zzzz")
	require.Equal(t, 1, exitMocks.fatalCalls)

	out = runCmd(t, "gc")
	assert.Contains(t, out, "removed 0 object(s)")
}

func TestBranches(t *testing.T) {
	cleanup := setupTests(t)
	defer cleanup()

	runCmd(t, "init", "--user", "alice")
	a := writeTestFile(t, "a.txt", "alpha")
	runCmd(t, "add", a)
	runCmd(t, "commit", "-m", "on main")

	out := runCmd(t, "branch", "dev")
	assert.Contains(t, out, "switched to a new branch dev")
	_, err := os.Stat(a)
	assert.True(t, os.IsNotExist(err))

	var branches []engine.BranchInfo
	require.NoError(t, json.Unmarshal([]byte(runCmd(t, "branch", "list", "--format", "json")), &branches))
	require.Len(t, branches, 2)
	for _, b := range branches {
		assert.Equal(t, b.Name == "dev", b.Current)
	}

	out = runCmd(t, "branch", "list")
	assert.Contains(t, out, "*")
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "1 commit(s)")

	out = runCmd(t, "branch", "main")
	assert.Contains(t, out, "switched to branch main")
	_, err = os.Stat(a)
	assert.NoError(t, err)
	require.Equal(t, 0, exitMocks.fatalCalls)
}

func TestUser(t *testing.T) {
	cleanup := setupTests(t)
	defer cleanup()

	runCmd(t, "init", "--user", "alice")
	assert.Equal(t, "alice\n", runCmd(t, "user", "show"))

	runCmd(t, "user", "set", "bob")
	assert.Equal(t, "bob\n", runCmd(t, "user", "show"))

	runCmd(t, "user", "set", " ")
	require.Equal(t, 1, exitMocks.fatalCalls)
}

func TestConfigAndVersion(t *testing.T) {
	cleanup := setupTests(t)
	defer cleanup()

	out := runCmd(t, "config", "dump")
	assert.Contains(t, out, "metadata: .tico")

	var v VersionInfo
	require.NoError(t, json.Unmarshal([]byte(runCmd(t, "version", "--format", "json")), &v))
	assert.Equal(t, "dev", v.Version)

	runCmd(t, "version", "--format", "xml")
	require.Equal(t, 1, exitMocks.fatalCalls)
}

func TestConfirm(t *testing.T) {
	for _, answer := range []string{"y\n", "Y", "yes\n", " yes "} {
		ok, err := confirm(strings.NewReader(answer))
		require.NoError(t, err)
		assert.True(t, ok, answer)
	}
	for _, answer := range []string{"n\n", "", "maybe\n"} {
		ok, err := confirm(strings.NewReader(answer))
		require.NoError(t, err)
		assert.False(t, ok, answer)
	}
}
