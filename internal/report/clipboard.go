package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Clipboard wraps report text in a fenced block so it pastes cleanly into
// issue trackers.
func Clipboard(text string) string {
	return "```\n" + text + "\n```"
}

// Title picks the report title. An empty label means the package has no
// resolvable label and the package name is used as is.
func Title(format, label, packageName string) string {
	if label == "" {
		return packageName
	}
	return fmt.Sprintf(format, label)
}

// EncodeMessage gzips a custom report message.
func EncodeMessage(msg string) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(msg)/4))
	w := gzip.NewWriter(buf)
	if _, err := w.Write([]byte(msg)); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMessage reverses EncodeMessage.
func DecodeMessage(b []byte) (string, error) {
	r, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("gzip reader: %w", err)
	}
	defer r.Close()

	msg, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("gzip read: %w", err)
	}
	return string(msg), nil
}
