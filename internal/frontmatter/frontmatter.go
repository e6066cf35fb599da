// Package frontmatter reads and rewrites the YAML metadata block at the top of a
// markdown document.
//
// Editing goes through yaml.Node so keys keep their original order and comments
// survive a rewrite; only the keys a caller merges in are replaced.
package frontmatter

import (
	"bytes"
	"errors"
)

// Style captures formatting details needed for stable rewriting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Parts is a document split at its frontmatter delimiters.
type Parts struct {
	Raw   []byte // YAML between the delimiters, without them
	Body  []byte
	Had   bool // document started with a frontmatter block
	Style Style
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a delimiter, Had is false and Body is the full input.
func Split(content []byte) (Parts, error) {
	style := detectStyle(content)
	nl := style.Newline

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Parts{Body: content, Style: style}, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return Parts{Raw: []byte{}, Body: content[start+len(open):], Had: true, Style: style}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return Parts{Style: style}, ErrMissingClosingDelimiter
	}

	return Parts{
		Raw:   content[start : start+idx+len(nl)],
		Body:  content[start+idx+len(closeSeq):],
		Had:   true,
		Style: style,
	}, nil
}

// Join reassembles a document from its parts.
//
// If Had is false, Join returns Body as-is.
func (p Parts) Join() []byte {
	if !p.Had {
		return p.Body
	}

	nl := p.Style.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte("---" + nl)

	out := make([]byte, 0, 2*len(delim)+len(p.Raw)+len(p.Body))
	out = append(out, delim...)
	out = append(out, p.Raw...)
	out = append(out, delim...)
	out = append(out, p.Body...)
	return out
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}
	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
