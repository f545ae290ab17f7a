package cmd

import (
	"time"

	"github.com/spf13/viper"
	"github.com/tubeplay-cli/tubeplay/audio"
	"github.com/tubeplay-cli/tubeplay/download"
	"github.com/tubeplay-cli/tubeplay/format"
	"github.com/tubeplay-cli/tubeplay/history"
	"github.com/tubeplay-cli/tubeplay/key"
	"github.com/tubeplay-cli/tubeplay/media"
	"github.com/tubeplay-cli/tubeplay/player"
)

// The constructors below are the only place the core packages meet viper.

func newController(handler download.ProgressHandler) *download.Controller {
	options := []download.Option{
		download.WithChecker(download.NewPrerequisites(
			viper.GetString(key.ToolsFFmpeg),
			viper.GetString(key.ToolsYtDlp),
		)),
	}

	if viper.GetBool(key.HistorySaveOnDownload) {
		options = append(options, download.WithRecorder(history.Recorder{}))
	}

	return download.NewController(
		format.NewResolver(format.YTDLP{Bin: viper.GetString(key.ToolsYtDlp)}),
		download.YTDLP{Bin: viper.GetString(key.ToolsYtDlp)},
		handler,
		options...,
	)
}

func newSession(handler player.Handler) (*player.Session, error) {
	policy, err := player.ParseVolumePolicy(viper.GetString(key.PlayerVolumePolicy))
	if err != nil {
		return nil, err
	}

	decoder := media.FFmpeg{
		FFmpegBin:  viper.GetString(key.ToolsFFmpeg),
		FFprobeBin: viper.GetString(key.ToolsFFprobe),
		DefaultFPS: viper.GetFloat64(key.PlayerDefaultFPS),
	}
	renderer := audio.NewRenderer(audio.FFplay{Bin: viper.GetString(key.ToolsFFplay)})

	return player.NewSession(decoder, renderer, handler,
		player.WithVolumePolicy(policy),
		player.WithAudioJoinTimeout(time.Duration(viper.GetInt(key.PlayerAudioJoinTimeout))*time.Millisecond),
		player.WithDefaultFPS(viper.GetFloat64(key.PlayerDefaultFPS)),
	), nil
}
