// Package feed follows a JSONL metrics file appended to by an external
// training loop and delivers the observations in order. It is the
// ingestion harness for real runs, the counterpart of the synthetic
// scenario generators.
//
// The expected format is one JSON object per line:
//
//	{"epoch": 12, "train_loss": 0.83, "val_acc": 0.71}
//
// Partial trailing lines (a write in progress) are buffered until the
// newline arrives. Truncation of the file is treated as a trainer restart:
// the follower seeks back to the beginning.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/synkyria/synkyria/pkg/monitor"
)

// Follower tails one metrics file. It is not safe for concurrent use; one
// goroutine drains it via Next.
type Follower struct {
	path    string
	watcher *fsnotify.Watcher
	offset  int64
	partial []byte
	pending []monitor.Observation
	lineNo  int
}

// Follow opens a follower on path. The file does not need to exist yet;
// its parent directory does, because that is what gets watched (editors
// and trainers often replace files atomically, so directory-level events
// are the reliable signal).
func Follow(path string) (*Follower, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Follower{
		path:    absPath,
		watcher: watcher,
	}, nil
}

// Next returns the next observation from the file, blocking on file-system
// events until one is available or the context is cancelled.
func (f *Follower) Next(ctx context.Context) (monitor.Observation, error) {
	for {
		if len(f.pending) > 0 {
			ob := f.pending[0]
			f.pending = f.pending[1:]
			return ob, nil
		}

		if err := f.drain(); err != nil {
			return monitor.Observation{}, err
		}
		if len(f.pending) > 0 {
			continue
		}

		// Nothing buffered: wait for the file to grow.
		select {
		case <-ctx.Done():
			return monitor.Observation{}, ctx.Err()
		case event, ok := <-f.watcher.Events:
			if !ok {
				return monitor.Observation{}, io.EOF
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			// Write, Create and Rename all mean the content may have
			// changed; drain on the next loop iteration.
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return monitor.Observation{}, io.EOF
			}
			return monitor.Observation{}, fmt.Errorf("watch error: %w", err)
		}
	}
}

// drain reads any new complete lines from the file into the pending queue.
func (f *Follower) drain() error {
	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open metrics file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat metrics file: %w", err)
	}
	if info.Size() < f.offset {
		// Truncated: the trainer restarted. Start over.
		f.offset = 0
		f.partial = nil
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek metrics file: %w", err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read metrics file: %w", err)
	}
	f.offset += int64(len(data))

	buf := append(f.partial, data...)
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			break
		}
		line := bytes.TrimSpace(buf[:idx])
		buf = buf[idx+1:]
		f.lineNo++
		if len(line) == 0 {
			continue
		}

		var ob monitor.Observation
		if err := json.Unmarshal(line, &ob); err != nil {
			f.partial = buf
			return fmt.Errorf("failed to parse metrics line %d: %w", f.lineNo, err)
		}
		f.pending = append(f.pending, ob)
	}
	f.partial = buf
	return nil
}

// Close releases the underlying watcher. Next calls after Close return io.EOF.
func (f *Follower) Close() error {
	return f.watcher.Close()
}
