package download

import (
	"time"

	"github.com/spf13/viper"
	"github.com/tubeplay-cli/tubeplay/key"
)

// Policy is the resilience budget handed to the fetch tool for every attempt.
type Policy struct {
	Retries                  int
	FragmentRetries          int
	SkipUnavailableFragments bool
	SocketTimeout            time.Duration
	ExtractorRetries         int
	FileAccessRetries        int
	ReconnectDelayMax        time.Duration
	UseFFmpegDownloader      bool
	Container                string

	// FallbackHeight caps the selector of the single lower quality attempt.
	FallbackHeight int
}

// DefaultPolicy mirrors the defaults registered in the config.
func DefaultPolicy() Policy {
	return Policy{
		Retries:                  10,
		FragmentRetries:          10,
		SkipUnavailableFragments: true,
		SocketTimeout:            30 * time.Second,
		ExtractorRetries:         5,
		FileAccessRetries:        5,
		ReconnectDelayMax:        30 * time.Second,
		UseFFmpegDownloader:      true,
		Container:                "mp4",
		FallbackHeight:           720,
	}
}

// PolicyFromConfig reads the policy from viper.
func PolicyFromConfig() Policy {
	return Policy{
		Retries:                  viper.GetInt(key.DownloadRetries),
		FragmentRetries:          viper.GetInt(key.DownloadFragmentRetries),
		SkipUnavailableFragments: viper.GetBool(key.DownloadSkipUnavailableFragments),
		SocketTimeout:            time.Duration(viper.GetInt(key.DownloadSocketTimeout)) * time.Second,
		ExtractorRetries:         viper.GetInt(key.DownloadExtractorRetries),
		FileAccessRetries:        viper.GetInt(key.DownloadFileAccessRetries),
		ReconnectDelayMax:        time.Duration(viper.GetInt(key.DownloadReconnectDelayMax)) * time.Second,
		UseFFmpegDownloader:      viper.GetBool(key.DownloadFFmpegDownloader),
		Container:                viper.GetString(key.DownloadContainer),
		FallbackHeight:           viper.GetInt(key.DownloadFallbackHeight),
	}
}
