package utils

import (
	"net/netip"
	"unicode"
)

// IsBlank reports whether r separates fields on a hosts line
func IsBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// IsAddrRune reports whether r may appear in an address token
func IsAddrRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		return true
	case r == ':' || r == '.':
		return true
	}
	return false
}

// IsHostnameRune reports whether r may appear in a hostname or alias
func IsHostnameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_' || r == '.'
}

// IsHostname reports whether s is a non-empty run of hostname runes
func IsHostname(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsHostnameRune(r) {
			return false
		}
	}
	return true
}

// ParseAddrToken parses s as an IPv4 or IPv6 literal. Only the characters of
// an address token are accepted, so zones and brackets are rejected.
func ParseAddrToken(s string) (netip.Addr, bool) {
	if s == "" {
		return netip.Addr{}, false
	}
	for _, r := range s {
		if !IsAddrRune(r) {
			return netip.Addr{}, false
		}
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr, true
}

// SplitAddrToken splits the longest leading address token off s
func SplitAddrToken(s string) (token, rest string) {
	for i, r := range s {
		if !IsAddrRune(r) {
			return s[:i], s[i:]
		}
	}
	return s, ""
}
