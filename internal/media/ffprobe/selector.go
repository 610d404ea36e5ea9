package ffprobe

// Selector names one property of the first video stream and the ffprobe
// output format used to print it.
type Selector struct {
	Name    string
	Entries string
	Format  string
}

const plainValue = "default=noprint_wrappers=1:nokey=1"

var (
	// SelectResolution prints "WIDTHxHEIGHT".
	SelectResolution = Selector{Name: "resolution", Entries: "stream=width,height", Format: "csv=s=x:p=0"}
	// SelectFrameRate prints the real base frame rate as "num/den".
	SelectFrameRate = Selector{Name: "frame_rate", Entries: "stream=r_frame_rate", Format: plainValue}
	// SelectPixelFormat prints the pixel format token, e.g. yuv420p.
	SelectPixelFormat = Selector{Name: "pixel_format", Entries: "stream=pix_fmt", Format: plainValue}
	// SelectCodecName prints the decoder name, e.g. h264.
	SelectCodecName = Selector{Name: "codec_name", Entries: "stream=codec_name", Format: plainValue}
	// SelectBitrate prints the stream bitrate in bits per second, or N/A.
	SelectBitrate = Selector{Name: "bitrate", Entries: "stream=bit_rate", Format: plainValue}
)

// Args builds the ffprobe argument list for querying path.
func (s Selector) Args(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", s.Entries,
		"-of", s.Format,
		"--", path,
	}
}
