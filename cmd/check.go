package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tubeplay-cli/tubeplay/color"
	"github.com/tubeplay-cli/tubeplay/constant"
	"github.com/tubeplay-cli/tubeplay/download"
	"github.com/tubeplay-cli/tubeplay/icon"
	"github.com/tubeplay-cli/tubeplay/key"
	"github.com/tubeplay-cli/tubeplay/style"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that ffmpeg, ffprobe, ffplay and yt-dlp are installed",
	Run: func(cmd *cobra.Command, args []string) {
		prereq := download.NewPrerequisites(viper.GetString(key.ToolsFFmpeg), viper.GetString(key.ToolsYtDlp))
		prereq.Tools = append(prereq.Tools,
			download.Tool{Name: constant.FFprobe, Bin: viper.GetString(key.ToolsFFprobe), VersionArgs: []string{"-version"}, Remediation: download.FFmpegRemediation},
			download.Tool{Name: constant.FFplay, Bin: viper.GetString(key.ToolsFFplay), VersionArgs: []string{"-version"}, Remediation: download.FFmpegRemediation},
		)

		var missing bool
		for _, report := range prereq.Report(context.Background()) {
			if report.Err == nil {
				fmt.Printf("%s %s %s\n",
					style.Fg(color.Green)(icon.Get(icon.Success)),
					style.Bold(report.Tool.Name),
					style.Faint(report.Version),
				)
				continue
			}

			missing = true
			fmt.Println(style.ErrorBox(
				fmt.Sprintf("%s Missing dependency: %s", icon.Get(icon.Fail), report.Tool.Name),
				report.Tool.Remediation(),
			))
		}

		if missing {
			os.Exit(1)
		}
	},
}
