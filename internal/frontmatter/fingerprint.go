package frontmatter

import (
	"bytes"

	"github.com/inful/mdfp"
)

// Fingerprint returns the content hash used to detect no-op rewrites.
// Content with an unterminated frontmatter block is hashed as a plain body.
func Fingerprint(content []byte) string {
	parts, err := Split(content)
	if err != nil {
		return mdfp.CalculateFingerprintFromParts("", string(content))
	}
	raw := bytes.TrimSuffix(parts.Raw, []byte(parts.Style.Newline))
	return mdfp.CalculateFingerprintFromParts(string(raw), string(parts.Body))
}
