package hostsfile

import (
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostsmod/internal/edit"
	"hostsmod/internal/guard"
	"hostsmod/internal/hosts"
	"hostsmod/pkg/models"
)

const base = "127.0.0.1\tlocalhost\n::1\tlocalhost ip6-localhost\n"

func writeHosts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hosts")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readHosts(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newManager(path string, mutate func(*Options), allowed ...string) *Manager {
	opts := Options{
		Path:      path,
		Whitelist: edit.NewWhitelist(allowed...),
		Guard:     guard.New(guard.Resolve("testhost"), false),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return NewManager(opts)
}

func addr(s string) netip.Addr {
	return netip.MustParseAddr(s)
}

func TestRun_Define(t *testing.T) {
	path := writeHosts(t, base)
	m := newManager(path, nil, "foo")

	res, err := m.Run([]models.Action{models.Define(addr("203.0.113.5"), "foo")})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, res.Written)
	assert.Equal(t, base, res.Original)

	want := base + "203.0.113.5          \tfoo\n"
	assert.Equal(t, want, res.Generated)
	assert.Equal(t, want, readHosts(t, path))
	assert.NoFileExists(t, path+DefaultSuffix)
}

func TestRun_RemoveKeepsLayout(t *testing.T) {
	content := "# static\n127.0.0.1\tlocalhost\n\n\n10.0.0.1   foo    bar # lab\n10.0.0.2 baz\n"
	path := writeHosts(t, content)

	_, err := newManager(path, nil, "foo").Run([]models.Action{models.Remove("foo")})
	require.NoError(t, err)
	assert.Equal(t, "# static\n127.0.0.1\tlocalhost\n\n10.0.0.1   bar # lab\n10.0.0.2 baz\n", readHosts(t, path))
}

func TestRun_NotWhitelistedLeavesFile(t *testing.T) {
	content := base + "10.0.0.1 bar\n"
	path := writeHosts(t, content)

	res, err := newManager(path, nil, "foo").Run([]models.Action{
		models.Define(addr("192.0.2.1"), "foo"),
		models.DefineExclusive(addr("192.0.2.2"), "bar"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, edit.ErrNotWhitelisted))
	assert.False(t, res.Written)
	assert.Equal(t, content, readHosts(t, path))
	assert.NoFileExists(t, path+DefaultSuffix)
}

func TestRun_DryRun(t *testing.T) {
	path := writeHosts(t, base)
	m := newManager(path, func(o *Options) { o.DryRun = true }, "foo")

	res, err := m.Run([]models.Action{models.DefineExclusive(addr("192.0.2.1"), "foo")})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.False(t, res.Written)
	assert.Contains(t, res.Generated, "192.0.2.1")
	assert.Equal(t, base, readHosts(t, path))
}

func TestRun_NoChangeSkipsWrite(t *testing.T) {
	content := base + "192.0.2.1 foo\n\n\n"
	path := writeHosts(t, content)

	res, err := newManager(path, nil, "foo").Run([]models.Action{models.Define(addr("192.0.2.1"), "foo")})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.False(t, res.Written)
	assert.Equal(t, content, readHosts(t, path))
}

func TestRun_ExclusiveMappingAlreadyPresent(t *testing.T) {
	content := base + "10.0.0.5\tfoo\n"
	path := writeHosts(t, content)

	res, err := newManager(path, nil, "foo").Run([]models.Action{models.DefineExclusive(addr("10.0.0.5"), "foo")})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.False(t, res.Written)
	assert.Equal(t, content, readHosts(t, path))
}

func TestRun_ForceRewrites(t *testing.T) {
	content := base + "192.0.2.1 foo\n\n\n"
	path := writeHosts(t, content)
	m := newManager(path, func(o *Options) { o.Force = true }, "foo")

	res, err := m.Run(nil)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.True(t, res.Written)
	assert.Equal(t, base+"192.0.2.1 foo\n", readHosts(t, path))
}

func TestRun_StaleFile(t *testing.T) {
	path := writeHosts(t, base)
	require.NoError(t, os.WriteFile(path+DefaultSuffix, []byte("leftover"), 0o644))

	_, err := newManager(path, nil, "foo").Run([]models.Action{models.Define(addr("192.0.2.1"), "foo")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStaleFile))
	assert.Equal(t, base, readHosts(t, path))
	assert.Equal(t, "leftover", readHosts(t, path+DefaultSuffix))
}

func TestRun_CustomSuffix(t *testing.T) {
	path := writeHosts(t, base)
	require.NoError(t, os.WriteFile(path+DefaultSuffix, []byte("leftover"), 0o644))
	m := newManager(path, func(o *Options) { o.Suffix = ".tmp" }, "foo")

	res, err := m.Run([]models.Action{models.Define(addr("192.0.2.1"), "foo")})
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.NoFileExists(t, path+".tmp")
}

func TestRun_GuardViolationLeavesFile(t *testing.T) {
	path := writeHosts(t, base)

	_, err := newManager(path, nil, "localhost").Run([]models.Action{models.Remove("localhost")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, guard.ErrMembershipChanged))
	assert.Equal(t, base, readHosts(t, path))
}

func TestRun_DangerousOperations(t *testing.T) {
	path := writeHosts(t, base)
	m := newManager(path, func(o *Options) {
		o.Guard = guard.New(guard.Resolve("testhost"), true)
	}, "localhost")

	_, err := m.Run([]models.Action{models.Remove("localhost")})
	require.NoError(t, err)
	assert.Equal(t, "::1\tip6-localhost\n", readHosts(t, path))
}

func TestRun_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"not utf8", "127.0.0.1 localhost\n\xff\xfe\n", ErrNotUTF8},
		{"parse error", "127.0.0.1 localhost\nnot an entry\n", hosts.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeHosts(t, tt.content)
			_, err := newManager(path, nil).Run(nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), err.Error())
		})
	}
}

func TestRun_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts")
	_, err := newManager(path, nil).Run(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad(t *testing.T) {
	path := writeHosts(t, base+"\n\n")
	m := newManager(path, nil)
	require.NoError(t, m.Load())

	parts := m.Parts()
	require.Len(t, parts, 2)
	assert.True(t, parts[1].MatchesHostname("ip6-localhost"))
}

func TestWriteAtomic_PreservesMode(t *testing.T) {
	path := writeHosts(t, base)
	require.NoError(t, os.Chmod(path, 0o600))

	require.NoError(t, WriteAtomic(path, "", []byte("10.0.0.1 a\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, "10.0.0.1 a\n", readHosts(t, path))
}

func TestWriteAtomic_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts")

	require.NoError(t, WriteAtomic(path, ".staging", []byte("x\n")))
	assert.Equal(t, "x\n", readHosts(t, path))
	assert.NoFileExists(t, path+".staging")
}
