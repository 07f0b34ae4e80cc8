package host

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/flavor/go/apphost/pkg/apphost/binding"
	apperrors "github.com/provide-io/flavor/go/apphost/pkg/apphost/errors"
	"github.com/provide-io/flavor/go/apphost/pkg/utils/shellparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "host_test",
		Level: hclog.Trace,
	})
}

// boundRegion returns a Capacity-sized region holding path.
func boundRegion(path string) binding.Source {
	buf := make([]byte, binding.Capacity)
	copy(buf, path)
	return binding.Bytes(buf)
}

func unboundRegion() binding.Source {
	buf := make([]byte, binding.Capacity)
	n := copy(buf, binding.PlaceholderHi)
	copy(buf[n:], binding.PlaceholderLo)
	return binding.Bytes(buf)
}

func newLauncher(t *testing.T, exePath string, src binding.Source, env ...string) (*Launcher, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return &Launcher{
		ExePath: exePath,
		Source:  src,
		Env:     append([]string{EnvExecMode + "=spawn", "PATH=" + os.Getenv("PATH")}, env...),
		Stdout:  &stdout,
		Stderr:  &stderr,
		Logger:  testLogger(),
	}, &stdout, &stderr
}

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh scripts")
	}
}

func writeScript(t *testing.T, dir, name, body string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), mode))
	return path
}

func TestRunUnbound(t *testing.T) {
	l, _, stderr := newLauncher(t, "/opt/host/myhost", unboundRegion())

	code := l.Run(nil)

	assert.Equal(t, ExitNotBound, code)
	assert.Contains(t, stderr.String(), "not bound to an application")
	assert.Contains(t, stderr.String(), "myhost")
}

func TestRunBindingTooLong(t *testing.T) {
	l, _, stderr := newLauncher(t, "/opt/host/myhost", binding.Bytes(bytes.Repeat([]byte{'a'}, 1100)))

	code := l.Run(nil)

	assert.Equal(t, ExitBindingTooLong, code)
	assert.Contains(t, stderr.String(), "1024 byte limit")
}

func TestRunAppNotFound(t *testing.T) {
	dir := t.TempDir()
	l, _, stderr := newLauncher(t, filepath.Join(dir, "host"), boundRegion("MyApp.dll"))

	code := l.Run(nil)

	assert.Equal(t, ExitAppNotFound, code)
	assert.Contains(t, stderr.String(), "MyApp.dll")
}

func TestRunSpawnsBoundApp(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "app"), 0o755))
	writeScript(t, dir, "app/run.sh", `echo "args:$*"; echo "app:$APPHOST_APP_PATH"; exit 3`, 0o755)

	hostPath := filepath.Join(dir, "host")
	l, stdout, _ := newLauncher(t, hostPath, boundRegion("app/run.sh"))

	code := l.Run([]string{"one", "two"})

	assert.Equal(t, 3, code)
	assert.Contains(t, stdout.String(), "args:one two")
	assert.Contains(t, stdout.String(), "app:"+filepath.Join(dir, "app", "run.sh"))
}

func TestRunThroughRuntime(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	// Not executable: the runtime loads it
	writeScript(t, dir, "entry.sh", `echo "flag:$X"; exit 7`, 0o644)

	l, stdout, _ := newLauncher(t, filepath.Join(dir, "host"), boundRegion("entry.sh"),
		EnvRuntime+"=sh",
		EnvRuntimeArgs+"=-e",
		"X=set")

	code := l.Run(nil)

	assert.Equal(t, 7, code)
	assert.Contains(t, stdout.String(), "flag:set")
}

func TestRunInvalidRuntimeArgs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entry"), []byte("x"), 0o644))

	l, _, _ := newLauncher(t, filepath.Join(dir, "host"), boundRegion("entry"),
		EnvRuntime+"=sh",
		EnvRuntimeArgs+`=-c "unterminated`)

	assert.Equal(t, ExitInvalidArgs, l.Run(nil))
}

func TestRunCLIInfo(t *testing.T) {
	l, stdout, _ := newLauncher(t, "/opt/host/myhost", unboundRegion(), EnvCLI+"=yes")

	assert.Equal(t, 0, l.Run(nil))
	assert.Contains(t, stdout.String(), "Binding: disabled")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MyApp.dll"), []byte("x"), 0o644))
	l, stdout, _ = newLauncher(t, filepath.Join(dir, "host"), boundRegion("MyApp.dll"), EnvCLI+"=1")

	assert.Equal(t, 0, l.Run([]string{"info"}))
	assert.Contains(t, stdout.String(), "Binding: enabled")
	assert.Contains(t, stdout.String(), "Application: MyApp.dll")
	assert.Contains(t, stdout.String(), "Resolved: ✓")
}

func TestRunCLIUnknownCommand(t *testing.T) {
	l, _, stderr := newLauncher(t, "/opt/host/myhost", unboundRegion(), EnvCLI+"=on")

	assert.Equal(t, ExitInvalidArgs, l.Run([]string{"frobnicate"}))
	assert.Contains(t, stderr.String(), "frobnicate")
}

func TestResolveAppPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
	app := filepath.Join(dir, "lib", "MyApp.dll")
	require.NoError(t, os.WriteFile(app, []byte("x"), 0o644))
	host := filepath.Join(dir, "host")

	got, err := resolveAppPath(host, "lib/MyApp.dll")
	require.NoError(t, err)
	assert.Equal(t, app, got)

	got, err = resolveAppPath(host, app)
	require.NoError(t, err)
	assert.Equal(t, app, got)

	_, err = resolveAppPath(host, "")
	assert.True(t, errors.Is(err, apperrors.ErrAppNotFound))

	_, err = resolveAppPath(host, "lib")
	assert.True(t, errors.Is(err, apperrors.ErrAppNotFound))
}

func TestResolveAppPathFollowsHostSymlink(t *testing.T) {
	requireUnix(t)
	realDir := t.TempDir()
	links := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(realDir, "host"), []byte("bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(realDir, "MyApp.dll"), []byte("x"), 0o644))
	link := filepath.Join(links, "host")
	require.NoError(t, os.Symlink(filepath.Join(realDir, "host"), link))

	got, err := resolveAppPath(link, "MyApp.dll")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(realDir, "MyApp.dll"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, 0, ExitCodeFor(nil))
	assert.Equal(t, ExitNotBound, ExitCodeFor(apperrors.ErrNotBound))
	assert.Equal(t, ExitBindingTooLong, ExitCodeFor(apperrors.ErrBindingTooLong))
	assert.Equal(t, ExitAppNotFound, ExitCodeFor(apperrors.ErrAppNotFound))
	assert.Equal(t, ExitInvalidArgs, ExitCodeFor(shellparse.ErrUnclosedQuote))
	assert.Equal(t, ExitExecutionError, ExitCodeFor(errors.New("boom")))
}

func TestIsTrue(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "on", "Yes"} {
		assert.True(t, isTrue(v), v)
	}
	for _, v := range []string{"", "0", "off", "no", "maybe"} {
		assert.False(t, isTrue(v), v)
	}
}

func TestUseExec(t *testing.T) {
	logger := testLogger()
	assert.False(t, useExec([]string{EnvExecMode + "=spawn"}, logger))
	if runtime.GOOS == "windows" {
		assert.False(t, useExec(nil, logger))
	} else {
		assert.True(t, useExec(nil, logger))
		assert.True(t, useExec([]string{EnvExecMode + "=EXEC"}, logger))
	}
}

func TestChildEnvAndRedaction(t *testing.T) {
	env := childEnv([]string{"A=1"}, "/h", "/a")
	assert.Equal(t, []string{"A=1", EnvHostPath + "=/h", EnvAppPath + "=/a"}, env)
	assert.Equal(t, "/a", getenv(env, EnvAppPath, ""))
	assert.Equal(t, "2", getenv([]string{"A=1", "A=2"}, "A", ""))

	assert.True(t, isSensitiveKey("GITHUB_TOKEN"))
	assert.True(t, isSensitiveKey("db_password"))
	assert.False(t, isSensitiveKey("HOME"))
}

func TestDiagnose(t *testing.T) {
	assert.Empty(t, Diagnose(binding.Result{State: binding.StateEnabled, Path: "x"}, "/h"))
	assert.True(t, strings.HasPrefix(Diagnose(binding.Result{State: binding.StateDisabled}, "/opt/h"), "This executable is not bound"))
	assert.Contains(t, Diagnose(binding.Result{State: binding.StateMalformed}, "/opt/h"), "1024")
}
