package util

import (
	"encoding/json"
	"os"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeVideoDuration returns the duration of a video file in whole seconds,
// using ffprobe. A zero duration with nil error means the container did not
// report one; lecture records store it as optional metadata either way.
func ProbeVideoDuration(videoPath string) (int, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return 0, err
	}

	jsonOutput, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return 0, err
	}

	var result struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return 0, err
	}

	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return 0, nil
	}
	return int(duration), nil
}
