package player

import (
	"strconv"
	"time"
)

// FPS is the frame rate of frames shown over elapsed, zero when no time
// has elapsed.
func FPS(frames int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(frames) / elapsed.Seconds()
}

func formatFPS(fps float64) string {
	return strconv.FormatFloat(fps, 'f', 2, 64)
}
