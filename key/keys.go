// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download Destination - these keys control where finished media is written.
const (
	DownloadDir        = "download.dir"
	DownloadResolution = "download.resolution"
	DownloadContainer  = "download.container"
)

// Acquisition Resilience - these keys define the retry and timeout budget handed to the fetch tool.
const (
	DownloadRetries                  = "download.retries"
	DownloadFragmentRetries          = "download.fragment_retries"
	DownloadSkipUnavailableFragments = "download.skip_unavailable_fragments"
	DownloadSocketTimeout            = "download.socket_timeout"
	DownloadExtractorRetries         = "download.extractor_retries"
	DownloadFileAccessRetries        = "download.file_access_retries"
	DownloadReconnectDelayMax        = "download.reconnect_delay_max"
	DownloadFFmpegDownloader         = "download.ffmpeg_downloader"
	DownloadFallbackHeight           = "download.fallback_height"
)

// External Tooling - these keys override the executables resolved from PATH.
const (
	ToolsFFmpeg  = "tools.ffmpeg"
	ToolsFFprobe = "tools.ffprobe"
	ToolsFFplay  = "tools.ffplay"
	ToolsYtDlp   = "tools.ytdlp"
)

// Media Playback - these keys configure the frame clock and audio rendering.
const (
	PlayerVolume           = "player.volume"
	PlayerVolumePolicy     = "player.volume_policy"
	PlayerAudioJoinTimeout = "player.audio_join_timeout"
	PlayerDefaultFPS       = "player.default_fps"
)

// History Tracking - these keys configure the persistence of finished downloads.
const (
	HistorySaveOnDownload = "history.save_on_download"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-interactive application behavior.
const (
	CliColored   = "cli.colored"
	IconsVariant = "icons.variant"
)
