package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const manifest = `
package: billing
actions:
  - type: ChargeCard
    expects:
      - key: amount
        type: int
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "billing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))
	return path
}

func TestGenerateToStdout(t *testing.T) {
	path := writeManifest(t, t.TempDir())

	out, err := execute(t, "generate", "-m", path)
	require.NoError(t, err)
	require.Contains(t, out, "package billing")
	require.Contains(t, out, "func (ChargeCard) Contract() *goservice.Contract")
	require.NotContains(t, out, "func (ChargeCard) Amount(")
}

func TestGenerateToFileWithAccessors(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir)
	output := filepath.Join(dir, "contracts_gen.go")

	_, err := execute(t, "generate", "-m", path, "-o", output, "--accessors")
	require.NoError(t, err)

	src, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Contains(t, string(src), "func (ChargeCard) Amount(ctx *goservice.Context) (int, error)")
}

func TestGenerateAccessorsFromSettings(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir)
	config := filepath.Join(dir, "goservice.yaml")
	require.NoError(t, os.WriteFile(config, []byte("define_context_accessors: true\n"), 0o644))

	out, err := execute(t, "generate", "-m", path, "--config", config)
	require.NoError(t, err)
	require.Contains(t, out, "func (ChargeCard) Amount(")
}

func TestGenerateRequiresManifest(t *testing.T) {
	_, err := execute(t, "generate")
	require.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir)

	out, err := execute(t, "check", path)
	require.NoError(t, err)
	require.Contains(t, out, "ok (1 actions)")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("package: billing\n"), 0o644))
	_, err = execute(t, "check", bad)
	require.Error(t, err)
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion := version
	t.Cleanup(func() { version = originalVersion })
	version = "1.2.3"

	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "goservice-gen 1.2.3")
}
