package circuits

import (
	"fmt"
	"io"
	"os"

	"github.com/vocdoni/davinci-voteproof/log"
)

// StoreArtifact writes the serialized form of a constraint system, key or
// proof to filepath.
func StoreArtifact(artifact io.WriterTo, filepath string) error {
	fd, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer func() {
		if err := fd.Close(); err != nil {
			log.Warnw("error closing artifact file", "path", filepath, "error", err)
		}
	}()
	n, err := artifact.WriteTo(fd)
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath, err)
	}
	log.Debugw("artifact written", "path", filepath, "bytes", n)
	return nil
}

// StoreBytes writes raw artifact bytes to filepath.
func StoreBytes(content []byte, filepath string) error {
	if err := os.WriteFile(filepath, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath, err)
	}
	log.Debugw("artifact written", "path", filepath, "bytes", len(content))
	return nil
}

// LoadBytes reads raw artifact bytes from filepath.
func LoadBytes(filepath string) ([]byte, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath, err)
	}
	return content, nil
}
