package step

import (
	"strings"
)

// Inject returns the file text with the i-th shell face's name replaced by
// labels[i], for every face in shell order. Every byte outside the
// substituted name strings is preserved exactly. The receiver is not
// modified, so injection is all-or-nothing: callers write the returned text
// only when err is nil.
func (f *File) Inject(labels []string) (string, error) {
	if len(labels) != len(f.ShellFaces) {
		return "", &CountMismatchError{ShellFaces: len(f.ShellFaces), Labels: len(labels)}
	}
	for i, label := range labels {
		// A quote or line break in a label would corrupt the record text
		// and only surface as a shape error on the next run.
		if strings.ContainsAny(label, "'\n\r") {
			return "", &ShapeError{
				ID:     f.ShellFaces[i],
				Reason: "label " + label + " contains bytes that cannot appear in a name string",
			}
		}
	}

	out := make([]string, len(f.lines))
	copy(out, f.lines)

	for i, id := range f.ShellFaces {
		rec, ok := f.Records[id]
		if !ok {
			return "", &ShapeError{ID: id, Reason: "referenced by shell but not present in file"}
		}
		raw := strings.Join(out[rec.Line:rec.Line+rec.lineCount], "\n")
		replaced, err := substituteName(raw, id, labels[i])
		if err != nil {
			return "", err
		}
		// The label contains no newline, so the line count is unchanged.
		copy(out[rec.Line:], strings.Split(replaced, "\n"))
	}
	return strings.Join(out, "\n"), nil
}

// Name returns the current name string of the face entity with the given id.
func (f *File) Name(id int) (string, error) {
	rec, ok := f.Records[id]
	if !ok {
		return "", &ShapeError{ID: id, Reason: "no such entity"}
	}
	raw := strings.Join(f.lines[rec.Line:rec.Line+rec.lineCount], "\n")
	start, end, err := nameSpan(raw, id)
	if err != nil {
		return "", err
	}
	return raw[start:end], nil
}

// substituteName rewrites the first quoted argument of a face record's raw
// (possibly multi-line) text.
func substituteName(raw string, id int, label string) (string, error) {
	start, end, err := nameSpan(raw, id)
	if err != nil {
		return "", err
	}
	return raw[:start] + label + raw[end:], nil
}

// nameSpan locates the byte range of the name string inside a face record:
// `#<id> = ADVANCED_FACE('<name>', ...)`. A header tokenizer is used instead
// of a single regular expression so nested parentheses and numeric lists in
// later arguments cannot be mistaken for the target.
func nameSpan(raw string, id int) (start, end int, err error) {
	i := 0
	skipWS := func() {
		for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t' || raw[i] == '\n' || raw[i] == '\r') {
			i++
		}
	}

	// `#<id>` header; already validated by Parse, re-checked cheaply here.
	if i >= len(raw) || raw[i] != '#' {
		return 0, 0, &ShapeError{ID: id, Reason: "record does not start with an entity id"}
	}
	i++
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	skipWS()
	if i >= len(raw) || raw[i] != '=' {
		return 0, 0, &ShapeError{ID: id, Reason: "record has no '=' separator"}
	}
	i++
	skipWS()

	kw := i
	for i < len(raw) {
		c := raw[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			i++
			continue
		}
		break
	}
	if raw[kw:i] != faceKeyword {
		return 0, 0, &ShapeError{
			ID:     id,
			Reason: "expected " + faceKeyword + " record, found " + recordHint(raw[kw:i]),
		}
	}
	skipWS()
	if i >= len(raw) || raw[i] != '(' {
		return 0, 0, &ShapeError{ID: id, Reason: "face record has no argument list"}
	}
	i++
	skipWS()
	if i >= len(raw) || raw[i] != '\'' {
		return 0, 0, &ShapeError{ID: id, Reason: "first argument is not a name string"}
	}
	i++
	start = i
	for i < len(raw) {
		if raw[i] == '\'' {
			if i+1 < len(raw) && raw[i+1] == '\'' {
				i += 2
				continue
			}
			return start, i, nil
		}
		i++
	}
	return 0, 0, &ShapeError{ID: id, Reason: "unterminated name string"}
}

func recordHint(kw string) string {
	if kw == "" {
		return "no keyword"
	}
	return kw
}
