package models

import (
	"fmt"
	"net/netip"
	"strings"
)

// AddrColumn is the minimum width of the address column of a rendered entry
const AddrColumn = 21

// Kind identifies the variant of a Part
type Kind int

const (
	KindEmpty Kind = iota
	KindComment
	KindEntry
	KindCommentedEntry
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindComment:
		return "Comment"
	case KindEntry:
		return "Entry"
	case KindCommentedEntry:
		return "CommentedEntry"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Family is the address family of an entry
type Family int

const (
	FamilyNone Family = iota
	FamilyIPv4
	FamilyIPv6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "IPv4"
	case FamilyIPv6:
		return "IPv6"
	}
	return "none"
}

// FamilyOf returns the family of addr. IPv4-mapped IPv6 addresses are IPv6.
func FamilyOf(addr netip.Addr) Family {
	switch {
	case addr.Is4():
		return FamilyIPv4
	case addr.Is6():
		return FamilyIPv6
	}
	return FamilyNone
}

// Part is one line of a hosts file.
//
// Entry and CommentedEntry use Addr, Hostnames and the optional trailing
// comment. Comment and Empty only use Text: the text after '#' or the raw
// whitespace of the line.
//
// Parts produced by the parser remember the line they were read from and
// render it verbatim until they are replaced. An entry also remembers its
// lead, the source text up to its first hostname, so an entry whose
// hostnames were edited keeps its original address column.
type Part struct {
	Kind       Kind
	Addr       netip.Addr
	Hostnames  []string
	Comment    string
	HasComment bool
	Text       string

	source    string
	hasSource bool
	lead      string
}

// NewEntry returns an active entry without layout information
func NewEntry(addr netip.Addr, hostnames ...string) Part {
	return Part{Kind: KindEntry, Addr: addr, Hostnames: hostnames}
}

// NewCommentedEntry returns a disabled entry without layout information
func NewCommentedEntry(addr netip.Addr, hostnames ...string) Part {
	return Part{Kind: KindCommentedEntry, Addr: addr, Hostnames: hostnames}
}

// NewComment returns a comment line; text excludes the leading '#'
func NewComment(text string) Part {
	return Part{Kind: KindComment, Text: text}
}

// NewEmpty returns a blank line holding the given whitespace
func NewEmpty(whitespace string) Part {
	return Part{Kind: KindEmpty, Text: whitespace}
}

// WithComment returns a copy of an entry carrying a trailing comment
func (p Part) WithComment(text string) Part {
	p.Comment = text
	p.HasComment = true
	return p
}

// WithSource returns a copy of p that renders as line while unchanged.
// lead is the prefix of line preceding the first hostname of an entry.
func (p Part) WithSource(line, lead string) Part {
	p.source = line
	p.hasSource = true
	p.lead = lead
	return p
}

// Source returns the line p was parsed from, if any
func (p Part) Source() (string, bool) {
	return p.source, p.hasSource
}

// WithHostnames returns an edited copy of an entry. The verbatim source line
// is dropped, the lead is kept.
func (p Part) WithHostnames(hostnames []string) Part {
	p.Hostnames = hostnames
	p.source = ""
	p.hasSource = false
	return p
}

// IsEntry reports whether p is an Entry or a CommentedEntry
func (p Part) IsEntry() bool {
	return p.Kind == KindEntry || p.Kind == KindCommentedEntry
}

// IsEmpty reports whether p is a blank line
func (p Part) IsEmpty() bool {
	return p.Kind == KindEmpty
}

// IsCommented reports whether p is a disabled entry
func (p Part) IsCommented() bool {
	return p.Kind == KindCommentedEntry
}

// MatchesAddr reports whether p is an entry for addr. Disabled entries match.
func (p Part) MatchesAddr(addr netip.Addr) bool {
	return p.IsEntry() && p.Addr == addr
}

// MatchesHostname reports whether host is one of p's hostnames or aliases.
// Disabled entries match.
func (p Part) MatchesHostname(host string) bool {
	if !p.IsEntry() {
		return false
	}
	for _, h := range p.Hostnames {
		if h == host {
			return true
		}
	}
	return false
}

// Family returns the address family of an entry, FamilyNone otherwise
func (p Part) Family() Family {
	if !p.IsEntry() {
		return FamilyNone
	}
	return FamilyOf(p.Addr)
}

// Line renders p without its line terminator
func (p Part) Line() string {
	if p.hasSource {
		return p.source
	}
	switch p.Kind {
	case KindEmpty:
		return p.Text
	case KindComment:
		return "#" + p.Text
	case KindCommentedEntry:
		if p.lead != "" {
			return p.entryBody()
		}
		return "# " + p.entryBody()
	case KindEntry:
		return p.entryBody()
	}
	return ""
}

func (p Part) entryBody() string {
	var b strings.Builder
	if p.lead != "" {
		b.WriteString(p.lead)
	} else {
		fmt.Fprintf(&b, "%-*s\t", AddrColumn, p.Addr.String())
	}
	b.WriteString(strings.Join(p.Hostnames, " "))
	if p.HasComment {
		b.WriteString(" #")
		b.WriteString(p.Comment)
	}
	return b.String()
}

// Equal reports whether p and o hold the same data and render identically
func (p Part) Equal(o Part) bool {
	if p.Kind != o.Kind || p.Addr != o.Addr || p.Text != o.Text {
		return false
	}
	if p.HasComment != o.HasComment || p.Comment != o.Comment {
		return false
	}
	if len(p.Hostnames) != len(o.Hostnames) {
		return false
	}
	for i := range p.Hostnames {
		if p.Hostnames[i] != o.Hostnames[i] {
			return false
		}
	}
	return p.Line() == o.Line()
}

// Clone returns a deep copy of p
func (p Part) Clone() Part {
	if p.Hostnames != nil {
		p.Hostnames = append([]string(nil), p.Hostnames...)
	}
	return p
}

// String formats p for diagnostics
func (p Part) String() string {
	switch p.Kind {
	case KindEntry, KindCommentedEntry:
		s := fmt.Sprintf("%s(%s, %q", p.Kind, p.Addr, p.Hostnames)
		if p.HasComment {
			s += fmt.Sprintf(", #%q", p.Comment)
		}
		return s + ")"
	}
	return fmt.Sprintf("%s(%q)", p.Kind, p.Text)
}

// CloneParts returns a deep copy of parts
func CloneParts(parts []Part) []Part {
	if parts == nil {
		return nil
	}
	out := make([]Part, len(parts))
	for i, p := range parts {
		out[i] = p.Clone()
	}
	return out
}

// EqualParts reports whether two sequences are structurally equal
func EqualParts(a, b []Part) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
