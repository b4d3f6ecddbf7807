package watch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abhisek/formcheck/internal/pose"
)

// maxLine bounds one JSONL record; 33 landmarks fit comfortably.
const maxLine = 1 << 20

// ReadFrames decodes every frame of a JSONL replay. Blank lines are
// skipped; a malformed line is an error naming its line number. Frames
// without a seq are numbered by position.
func ReadFrames(r io.Reader) ([]pose.Frame, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var frames []pose.Frame
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var f pose.Frame
		if err := json.Unmarshal([]byte(text), &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if f.Seq == 0 {
			f.Seq = int64(len(frames) + 1)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read frames: %w", err)
	}
	return frames, nil
}

// Replay emits frames at fps frames per second until they run out or
// ctx is done. fps <= 0 emits as fast as the reader consumes. The
// returned channel is closed when Replay stops.
func Replay(ctx context.Context, frames []pose.Frame, fps float64) <-chan pose.Frame {
	out := make(chan pose.Frame)
	go func() {
		defer close(out)

		var tick <-chan time.Time
		if fps > 0 {
			ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
			defer ticker.Stop()
			tick = ticker.C
		}

		for i, f := range frames {
			if tick != nil && i > 0 {
				select {
				case <-ctx.Done():
					return
				case <-tick:
				}
			}
			select {
			case <-ctx.Done():
				return
			case out <- f:
			}
		}
	}()
	return out
}
