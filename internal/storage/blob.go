package storage

import "io"

// ArtifactStore persists diagnostic artifacts: the last collection log and
// the last raw LLM transcript. Artifacts are debugging aids, not state; a
// nil store is acceptable everywhere one is consumed.
type ArtifactStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}

// WriteText is a convenience for the common "replace this artifact with a
// string" case. Failures are returned, but callers typically just log them.
func WriteText(s ArtifactStore, key, text string) error {
	if s == nil {
		return nil
	}
	_, err := s.Put(key, readerOf(text))
	return err
}
