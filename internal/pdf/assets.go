package pdf

import (
	"encoding/base64"
	"os"
)

// DataURI reads the file at path and encodes it as an inline data URI
// for embedding into the document markup, e.g.
// "data:image/png;base64,...". The error passes through fs.ErrNotExist
// so callers can treat a missing asset as non-fatal.
func DataURI(path, mime string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}
