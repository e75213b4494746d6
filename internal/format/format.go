// Package format serializes a matched value.Value projection to JSON
// text, with knobs for ascii escaping, indentation width, key sorting,
// and newline style.
package format

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/Beluki/MQLite/internal/value"
)

// Newline selects the line-ending sequence written between indented
// lines. It only matters when Indent is non-negative: unindented output
// has no newlines to rewrite.
type Newline int

const (
	NewlineSystem Newline = iota
	NewlineUnix
	NewlineDOS
	NewlineMac
)

// String returns the literal newline sequence for n.
func (n Newline) String() string {
	switch n {
	case NewlineUnix:
		return "\n"
	case NewlineDOS:
		return "\r\n"
	case NewlineMac:
		return "\r"
	case NewlineSystem:
		if runtime.GOOS == "windows" {
			return "\r\n"
		}
		return "\n"
	default:
		return "\n"
	}
}

// ParseNewline maps one of the four --newline flag choices to a Newline.
func ParseNewline(s string) (Newline, error) {
	switch s {
	case "system":
		return NewlineSystem, nil
	case "unix":
		return NewlineUnix, nil
	case "dos":
		return NewlineDOS, nil
	case "mac":
		return NewlineMac, nil
	default:
		return 0, fmt.Errorf("format: unknown newline mode %q", s)
	}
}

// Options configures Dump's output.
type Options struct {
	// ASCII escapes every non-ASCII codepoint as \uXXXX (surrogate pairs
	// for codepoints above U+FFFF), matching json.dumps(ensure_ascii=True).
	ASCII bool

	// Indent is the number of spaces per nesting level. A negative
	// Indent disables indentation: the result is a single compact line
	// with no newlines, so Newline is ignored.
	Indent int

	// SortKeys orders each object's keys lexicographically before
	// writing them, instead of the value's declaration order.
	SortKeys bool

	Newline Newline
}

// DefaultOptions returns four-space indent, declaration-order keys,
// ascii passthrough, and system newlines.
func DefaultOptions() Options {
	return Options{Indent: 4, Newline: NewlineSystem}
}

// Dump renders v as a JSON document under opts.
func Dump(v value.Value, opts Options) string {
	var b strings.Builder
	e := &encoder{w: &b, opts: opts}
	e.encode(v, 0)

	text := b.String()
	if opts.Indent < 0 {
		return text
	}
	if nl := opts.Newline.String(); nl != "\n" {
		text = strings.ReplaceAll(text, "\n", nl)
	}
	return text
}

type encoder struct {
	w    *strings.Builder
	opts Options
}

func (e *encoder) encode(v value.Value, depth int) {
	switch tv := v.(type) {
	case nil:
		e.w.WriteString("null")
	case value.Null:
		e.w.WriteString("null")
	case value.Bool:
		if bool(tv) {
			e.w.WriteString("true")
		} else {
			e.w.WriteString("false")
		}
	case value.Number:
		e.encodeNumber(tv)
	case value.String:
		e.encodeString(string(tv))
	case value.Array:
		e.encodeArray(tv, depth)
	case *value.Object:
		e.encodeObject(tv, depth)
	default:
		// Unreachable for well-formed matcher output.
		e.w.WriteString("null")
	}
}

func (e *encoder) encodeNumber(n value.Number) {
	f := float64(n)
	if f == float64(int64(f)) && !isNegativeZero(f) {
		e.w.WriteString(strconv.FormatInt(int64(f), 10))
		return
	}
	e.w.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}

func isNegativeZero(f float64) bool {
	return f == 0 && strconv.FormatFloat(f, 'g', -1, 64) == "-0"
}

// encodeString escapes exactly what JSON requires (quote, backslash,
// and control characters) plus, when ASCII is set, every codepoint
// outside the printable ASCII range, the same set json.dumps escapes
// under ensure_ascii=True.
func (e *encoder) encodeString(s string) {
	e.w.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			e.w.WriteString(`\"`)
		case '\\':
			e.w.WriteString(`\\`)
		case '\n':
			e.w.WriteString(`\n`)
		case '\r':
			e.w.WriteString(`\r`)
		case '\t':
			e.w.WriteString(`\t`)
		case '\b':
			e.w.WriteString(`\b`)
		case '\f':
			e.w.WriteString(`\f`)
		default:
			switch {
			case r < 0x20:
				fmt.Fprintf(e.w, `\u%04x`, r)
			case e.opts.ASCII && r > 0x7e:
				e.writeEscapedRune(r)
			default:
				e.w.WriteRune(r)
			}
		}
	}
	e.w.WriteByte('"')
}

func (e *encoder) writeEscapedRune(r rune) {
	if r > 0xffff {
		r1, r2 := utf16SurrogatePair(r)
		fmt.Fprintf(e.w, `\u%04x\u%04x`, r1, r2)
		return
	}
	fmt.Fprintf(e.w, `\u%04x`, r)
}

func utf16SurrogatePair(r rune) (rune, rune) {
	const (
		surr1 = 0xd800
		surr2 = 0xdc00
		surrSelf = 0x10000
	)
	r -= surrSelf
	return surr1 + (r>>10)&0x3ff, surr2 + r&0x3ff
}

func (e *encoder) encodeArray(arr value.Array, depth int) {
	if len(arr) == 0 {
		e.w.WriteString("[]")
		return
	}

	e.w.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			e.w.WriteByte(',')
		}
		e.newlineIndent(depth + 1)
		e.encode(item, depth+1)
	}
	e.newlineIndent(depth)
	e.w.WriteByte(']')
}

func (e *encoder) encodeObject(obj *value.Object, depth int) {
	keys := obj.Keys()
	if len(keys) == 0 {
		e.w.WriteString("{}")
		return
	}

	if e.opts.SortKeys {
		sorted := append([]string(nil), keys...)
		sort.Strings(sorted)
		keys = sorted
	}

	e.w.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.w.WriteByte(',')
		}
		e.newlineIndent(depth + 1)
		e.encodeString(k)
		e.w.WriteByte(':')
		if e.opts.Indent >= 0 {
			e.w.WriteByte(' ')
		}
		v, _ := obj.Get(k)
		e.encode(v, depth+1)
	}
	e.newlineIndent(depth)
	e.w.WriteByte('}')
}

// newlineIndent writes a '\n' plus Indent*depth spaces when indenting
// is enabled, or nothing when Indent is negative (compact mode). The
// '\n' is rewritten to the configured Newline after the full document
// is assembled, rather than threading the newline style through encoding.
func (e *encoder) newlineIndent(depth int) {
	if e.opts.Indent < 0 {
		return
	}
	e.w.WriteByte('\n')
	e.w.WriteString(strings.Repeat(" ", e.opts.Indent*depth))
}
