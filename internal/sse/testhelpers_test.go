package sse

import (
	"encoding/json"
	"strings"
)

type frame struct {
	event string
	data  string
}

// parseFrames splits raw SSE output into its constituent frames, assuming
// each frame is terminated by a blank line as Writer always produces.
func parseFrames(raw string) []frame {
	var frames []frame
	for _, block := range strings.Split(strings.TrimRight(raw, "\n"), "\n\n") {
		if block == "" {
			continue
		}
		var f frame
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				f.event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				f.data = strings.TrimPrefix(line, "data: ")
			}
		}
		frames = append(frames, f)
	}
	return frames
}

func frameField(f frame, path ...string) any {
	var v any
	if err := json.Unmarshal([]byte(f.data), &v); err != nil {
		return nil
	}
	for _, p := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[p]
	}
	return v
}
