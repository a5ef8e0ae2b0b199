package capture

import "strconv"

// Constraints describe the fixed capture format.
type Constraints struct {
	SampleRate       int
	Channels         int
	BitDepth         int
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
}

// DefaultConstraints is the only capture format used.
var DefaultConstraints = Constraints{
	SampleRate:       24000,
	Channels:         1,
	BitDepth:         16,
	EchoCancellation: true,
	NoiseSuppression: true,
	AutoGainControl:  true,
}

// ContainerMIME is the container every recording is wrapped in.
const ContainerMIME = "audio/wav"

// chunkBytes is ~100ms of audio at the fixed format.
var chunkBytes = DefaultConstraints.SampleRate * DefaultConstraints.Channels * (DefaultConstraints.BitDepth / 8) / 10

// ffmpegArgs builds the capture command line. Echo cancellation has no
// ffmpeg filter; it is expected from the capture device itself.
func ffmpegArgs(inputFormat, device string, c Constraints) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", inputFormat,
		"-i", device,
		"-ac", strconv.Itoa(c.Channels),
		"-ar", strconv.Itoa(c.SampleRate),
	}

	var filters []string
	if c.NoiseSuppression {
		filters = append(filters, "afftdn")
	}
	if c.AutoGainControl {
		filters = append(filters, "dynaudnorm")
	}
	if len(filters) > 0 {
		af := filters[0]
		for _, f := range filters[1:] {
			af += "," + f
		}
		args = append(args, "-af", af)
	}

	return append(args, "-f", "s16le", "-acodec", "pcm_s16le", "pipe:1")
}
