package synth

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// stageAudio spools a provider response through a uniquely named file before
// handing the bytes to the caller. The file name embeds a UUID so overlapping
// requests never collide, and the file is removed on every exit path.
func stageAudio(dir string, src io.Reader) ([]byte, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("tts-%s.mp3", uuid.NewString()))

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	defer os.Remove(path)

	_, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if copyErr != nil {
		return nil, fmt.Errorf("stage audio: %w", copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close staging file: %w", closeErr)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read staged audio: %w", err)
	}
	return data, nil
}
