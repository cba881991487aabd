// Package hostsfile reads, edits and atomically replaces a hosts file.
package hostsfile

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"unicode/utf8"

	"hostsmod/internal/edit"
	"hostsmod/internal/guard"
	"hostsmod/internal/hosts"
	"hostsmod/pkg/models"
	"hostsmod/pkg/utils"
)

// DefaultPath is the system hosts file
const DefaultPath = "/etc/hosts"

// ErrNotUTF8 indicates the hosts file is not valid UTF-8
var ErrNotUTF8 = errors.New("hostsfile: hosts file is not valid UTF-8")

// Options configures a Manager
type Options struct {
	// Path of the hosts file, DefaultPath if empty
	Path string
	// Suffix of the staging file, DefaultSuffix if empty
	Suffix string
	// DryRun computes the new contents without writing them
	DryRun bool
	// Force rewrites the file even when the actions change nothing
	Force bool
	// Whitelist holds the hostnames actions may touch
	Whitelist edit.Whitelist
	// Guard protects system mappings. Nil protects the built-in table
	// resolved with the current hostname.
	Guard *guard.Guard
}

// Result describes a run
type Result struct {
	Original  string
	Generated string
	// Changed reports whether the actions altered the file contents
	Changed bool
	// Written reports whether the file was replaced
	Written bool
}

// Manager handles edits of a single hosts file. Runs are serialized.
type Manager struct {
	opts   Options
	parser *hosts.Parser
	engine *edit.Engine

	mu       sync.Mutex
	original string
	parts    []models.Part
}

// NewManager creates a new hosts file manager
func NewManager(opts Options) *Manager {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	if opts.Guard == nil {
		name, err := os.Hostname()
		utils.CheckWarn(err, "determine hostname")
		opts.Guard = guard.New(guard.Resolve(name), false)
	}
	return &Manager{
		opts:   opts,
		parser: hosts.NewParser(),
		engine: edit.NewEngine(opts.Whitelist),
	}
}

// Path returns the hosts file the manager edits
func (m *Manager) Path() string {
	return m.opts.Path
}

// Load reads and parses the hosts file
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.opts.Path)
	if err != nil {
		return utils.WrapPathError(err, "read", m.opts.Path)
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: %s", ErrNotUTF8, m.opts.Path)
	}

	parts, err := m.parser.ParseHosts(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", m.opts.Path, err)
	}

	m.original = string(data)
	m.parts = hosts.Trim(parts)
	return nil
}

// Parts returns a copy of the parts read by the last Load
func (m *Manager) Parts() []models.Part {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneParts(m.parts)
}

// Run loads the hosts file, applies actions and replaces the file with the
// result. Nothing is written on failure, in dry-run mode or when the
// actions change nothing.
func (m *Manager) Run(actions []models.Action) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.load(); err != nil {
		return nil, err
	}
	res := &Result{Original: m.original}

	before := models.CloneParts(m.parts)
	presence := m.opts.Guard.Snapshot(before)

	parts, err := m.engine.Apply(m.parts, actions)
	if err != nil {
		return res, err
	}
	res.Changed = !models.EqualParts(parts, before)

	if !res.Changed && !m.opts.DryRun && !m.opts.Force {
		res.Generated = res.Original
		return res, nil
	}

	parts = hosts.Compact(hosts.Trim(parts))
	if err := m.opts.Guard.Check(presence, parts); err != nil {
		return res, err
	}
	res.Generated = hosts.Render(parts)

	if m.opts.DryRun {
		return res, nil
	}

	if err := WriteAtomic(m.opts.Path, m.opts.Suffix, []byte(res.Generated)); err != nil {
		return res, err
	}
	res.Written = true
	m.original = res.Generated
	m.parts = parts

	log.Printf("Wrote %d lines to %s", len(parts), m.opts.Path)
	return res, nil
}
