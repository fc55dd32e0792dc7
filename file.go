package css

import (
	"bytes"
	"os"

	"github.com/stylekit/css/internal/log"
)

// FromFilePath reads and parses the stylesheet at path. Errors carry the
// path.
func FromFilePath(path string) (*Stylesheet, error) {
	return FromFilePathWithOptions(path, ParseOptions{})
}

// FromFilePathWithOptions is FromFilePath with parse options. opts.Path is
// replaced by path.
func FromFilePathWithOptions(path string, opts ParseOptions) (*Stylesheet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &StylesheetError{Path: path, Reason: err.Error(), Err: err}
	}
	log.Debug("read %s (%d bytes)", path, len(b))

	opts.Path = path
	return ParseReader(bytes.NewReader(b), opts)
}

// ToFilePath writes the canonical form of the stylesheet to path,
// replacing any existing file.
func (ss *Stylesheet) ToFilePath(path string, includeSourceURLs bool) error {
	b := ss.ToBytes(includeSourceURLs)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return &StylesheetError{Path: path, Reason: err.Error(), Err: err}
	}
	log.Debug("wrote %s (%d bytes)", path, len(b))
	return nil
}
