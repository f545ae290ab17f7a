package constant

// External tool executables resolved from PATH unless overridden in the config.
const (
	FFmpeg  = "ffmpeg"
	FFprobe = "ffprobe"
	FFplay  = "ffplay"
	YtDlp   = "yt-dlp"
)

// FFmpegBuildsURL is where prebuilt ffmpeg binaries for Windows are published.
const FFmpegBuildsURL = "https://github.com/BtbN/FFmpeg-Builds/releases"

// YtDlpReleasesURL is where yt-dlp release binaries are published.
const YtDlpReleasesURL = "https://github.com/yt-dlp/yt-dlp/releases/latest"
