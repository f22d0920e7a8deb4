// Package corpus loads the CV text the assistant is allowed to answer from.
package corpus

import (
	"fmt"
	"os"
	"strings"
)

// Load reads the CV text from path. It is called once at startup; the
// returned text is immutable for the lifetime of the process. A missing or
// blank file is an error, since the relay is useless without its corpus.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read corpus: %w", err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("corpus file %s is empty", path)
	}
	return text, nil
}
