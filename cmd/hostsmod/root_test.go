package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostsmod/internal/edit"
)

const base = "127.0.0.1\tlocalhost\n::1\tlocalhost ip6-localhost\n"

// setup points the command at temporary files and captures its output
func setup(t *testing.T, euid, uid int) (hosts string, buf *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	hosts = filepath.Join(dir, "hosts")
	cfg := filepath.Join(dir, "hostsmod.yaml")
	require.NoError(t, os.WriteFile(hosts, []byte(base), 0o644))
	require.NoError(t, os.WriteFile(cfg, []byte("whitelist:\n  - foo\n"), 0o644))

	buf = &bytes.Buffer{}
	prevOutput, prevEuid, prevUid := output, geteuid, getuid
	output = buf
	geteuid = func() int { return euid }
	getuid = func() int { return uid }

	configFile, hostsFile = cfg, hosts
	dryRun, verbose, force, sampleConfig = false, false, false, false

	t.Cleanup(func() {
		output, geteuid, getuid = prevOutput, prevEuid, prevUid
		dryRun, verbose, force, sampleConfig = false, false, false, false
		for _, name := range []string{"config", "hosts-file"} {
			if f := rootCmd.Flags().Lookup(name); f != nil {
				f.Changed = false
			}
		}
	})
	return hosts, buf
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunRoot_Define(t *testing.T) {
	hosts, buf := setup(t, 0, 0)

	require.NoError(t, runRoot(rootCmd, []string{"203.0.113.5+=foo"}))
	assert.Equal(t, base+"203.0.113.5          \tfoo\n", readFile(t, hosts))
	assert.Contains(t, buf.String(), "hosts file updated")
}

func TestRunRoot_NoChanges(t *testing.T) {
	hosts, buf := setup(t, 0, 0)

	require.NoError(t, runRoot(rootCmd, []string{"-foo"}))
	assert.Equal(t, base, readFile(t, hosts))
	assert.Contains(t, buf.String(), "no changes, not modifying hosts file")
}

func TestRunRoot_DryRun(t *testing.T) {
	hosts, buf := setup(t, 0, 0)
	dryRun = true

	require.NoError(t, runRoot(rootCmd, []string{"192.0.2.1=foo"}))
	assert.Equal(t, base, readFile(t, hosts))

	out := buf.String()
	assert.Contains(t, out, "original contents:\n>>>\n"+base+"<<<\n")
	assert.Contains(t, out, "generated:\n>>>\n")
	assert.Contains(t, out, "+192.0.2.1")
	assert.Contains(t, out, dryRunBanner)
	assert.Contains(t, out, "hosts file not modified")
}

func TestRunRoot_NotRootForcesDryRun(t *testing.T) {
	hosts, buf := setup(t, 1000, 1000)

	require.NoError(t, runRoot(rootCmd, []string{"192.0.2.1=foo"}))
	assert.True(t, dryRun)
	assert.Equal(t, base, readFile(t, hosts))
	assert.Contains(t, buf.String(), dryRunBanner)
}

func TestRunRoot_NotWhitelisted(t *testing.T) {
	hosts, _ := setup(t, 0, 0)

	err := runRoot(rootCmd, []string{"192.0.2.1=bar"})
	assert.True(t, errors.Is(err, edit.ErrNotWhitelisted))
	assert.Equal(t, base, readFile(t, hosts))
}

func TestRunRoot_InvalidAction(t *testing.T) {
	setup(t, 0, 0)

	err := runRoot(rootCmd, []string{"foo"})
	assert.True(t, errors.Is(err, edit.ErrInvalidAction))
}

func TestRunRoot_SetuidRefusesOverrides(t *testing.T) {
	hosts, _ := setup(t, 0, 1000)
	require.NoError(t, rootCmd.ParseFlags([]string{"--hosts-file", hosts}))

	err := runRoot(rootCmd, []string{"192.0.2.1=foo"})
	assert.True(t, errors.Is(err, errSetuidOverride))
	assert.Equal(t, base, readFile(t, hosts))
}

func TestRunRoot_SampleConfig(t *testing.T) {
	_, buf := setup(t, 0, 0)
	sampleConfig = true

	require.NoError(t, runRoot(rootCmd, nil))
	assert.Contains(t, buf.String(), "whitelist:")
	assert.Contains(t, buf.String(), "somerandomhost.with.tld")
	assert.NotContains(t, buf.String(), "enable_dangerous_operations")
}

func TestLongHelp(t *testing.T) {
	help := longHelp("myhost")
	assert.Contains(t, help, "  - localhost\n")
	assert.Contains(t, help, "  - myhost <- current hostname\n")
	assert.Contains(t, help, "  - ip6-allrouters\n")
}

func TestUnifiedDiff(t *testing.T) {
	diff := unifiedDiff("hosts", "a\nb\n", "a\nc\n")
	assert.Contains(t, diff, "--- hosts\n")
	assert.Contains(t, diff, "+++ hosts (generated)\n")
	assert.Contains(t, diff, "-b\n")
	assert.Contains(t, diff, "+c\n")

	assert.Empty(t, unifiedDiff("hosts", "a\n", "a\n"))
}
