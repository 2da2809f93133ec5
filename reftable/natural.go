package reftable

import (
	"sort"
	"strings"
)

// NaturalLess compares ids case-insensitively, with runs of digits compared
// by numeric value, so that "id9" sorts before "id10".  Ties are broken by
// the raw strings to keep the order total.
func NaturalLess(a, b string) bool {
	if c := naturalCompare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c < 0
	}
	return a < b
}

// SortNatural sorts ids in place with NaturalLess.
func SortNatural(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return NaturalLess(ids[i], ids[j]) })
}

func naturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ei, ej := digitEnd(a, i), digitEnd(b, j)
			if c := compareDigits(a[i:ei], b[j:ej]); c != 0 {
				return c
			}
			i, j = ei, ej
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digitEnd(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// compareDigits compares two digit runs by value, then by length so that
// "01" sorts after "1".
func compareDigits(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	switch {
	case len(ta) != len(tb):
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	case ta != tb:
		return strings.Compare(ta, tb)
	case len(a) != len(b):
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return 0
}
