// Package step parses the entity graph of a STEP (ISO 10303-21) interchange
// file and rewrites face-entity name fields in place. It is deliberately not
// a general STEP codec: the original physical lines are retained verbatim,
// parsing only builds an id→record index plus the shell's ordered face-id
// list, and injection touches nothing but the bytes between one quote pair
// per face record.
package step

import (
	"fmt"
	"strings"
)

// Shell record keywords whose argument list is an ordered set of face ids.
// ORIENTED_CLOSED_SHELL is excluded on purpose: it references shells, not
// faces.
var shellKeywords = map[string]bool{
	"CLOSED_SHELL": true,
	"OPEN_SHELL":   true,
}

// faceKeyword is the only record kind whose name field is ever rewritten.
const faceKeyword = "ADVANCED_FACE"

// Record is one logical `#<id> = <body>` entity record.
type Record struct {
	ID   int
	Body string // continuation-joined text after the '=' sign
	Line int    // physical line index of the record header

	lineCount int // physical lines spanned, including continuations
}

// File is a parsed interchange file. The physical lines are kept exactly as
// read; Records and ShellFaces are an index over them, never a re-encoding.
type File struct {
	Records map[int]*Record
	Order   []int // record ids in file order
	Shells  []int // shell record ids in file order
	// ShellFaces is the authoritative face-entity order: every face id
	// referenced by a shell record, in appearance order, concatenated
	// across shells for multi-body files.
	ShellFaces []int

	lines []string
}

// Parse indexes raw file text. Physical lines beginning with whitespace
// continue the previous logical record; the joined body collapses the
// newline and indent run to a single space, which handles both wrapped-once
// and fully re-flowed file shapes identically. Joined text is only ever used
// for matching; output is always reassembled from the untouched lines.
func Parse(text string) (*File, error) {
	f := &File{
		Records: make(map[int]*Record),
		lines:   strings.Split(text, "\n"),
	}

	var cur *Record
	for i, line := range f.lines {
		if isContinuation(line) {
			if cur != nil {
				cur.Body += " " + strings.TrimLeft(line, " \t")
				cur.lineCount++
			}
			continue
		}
		cur = nil
		id, body, ok := parseHeader(line)
		if !ok {
			continue
		}
		cur = &Record{ID: id, Body: body, Line: i, lineCount: 1}
		f.Records[id] = cur
		f.Order = append(f.Order, id)
	}

	for _, id := range f.Order {
		rec := f.Records[id]
		if !shellKeywords[keyword(rec.Body)] {
			continue
		}
		refs := entityRefs(rec.Body)
		if len(refs) == 0 {
			return nil, fmt.Errorf("step: shell #%d references no faces", id)
		}
		f.Shells = append(f.Shells, id)
		f.ShellFaces = append(f.ShellFaces, refs...)
	}
	if len(f.Shells) == 0 {
		return nil, ErrShellNotFound
	}
	return f, nil
}

// Text reassembles the file exactly as it was read.
func (f *File) Text() string {
	return strings.Join(f.lines, "\n")
}

func isContinuation(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

// parseHeader matches `#<id> = <body>` at the start of a physical line.
func parseHeader(line string) (id int, body string, ok bool) {
	if len(line) == 0 || line[0] != '#' {
		return 0, "", false
	}
	i := 1
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		id = id*10 + int(line[i]-'0')
		i++
	}
	if i == 1 {
		return 0, "", false
	}
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) || line[i] != '=' {
		return 0, "", false
	}
	return id, strings.TrimSpace(line[i+1:]), true
}

// keyword returns the leading entity keyword of a record body, or "" for
// complex (parenthesized) mappings and malformed bodies.
func keyword(body string) string {
	i := 0
	for i < len(body) {
		c := body[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			i++
			continue
		}
		break
	}
	return body[:i]
}

// entityRefs collects every `#<id>` token in a record body, in appearance
// order, skipping quoted string content so a name containing '#' can never
// masquerade as a reference. STEP escapes a quote inside a string as ''.
func entityRefs(body string) []int {
	var refs []int
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\'':
			i++
			for i < len(body) {
				if body[i] == '\'' {
					if i+1 < len(body) && body[i+1] == '\'' {
						i += 2
						continue
					}
					break
				}
				i++
			}
		case '#':
			id, n := 0, 0
			for i+1+n < len(body) && body[i+1+n] >= '0' && body[i+1+n] <= '9' {
				id = id*10 + int(body[i+1+n]-'0')
				n++
			}
			if n > 0 {
				refs = append(refs, id)
				i += n
			}
		}
	}
	return refs
}
