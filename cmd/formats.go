package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tubeplay-cli/tubeplay/color"
	"github.com/tubeplay-cli/tubeplay/format"
	"github.com/tubeplay-cli/tubeplay/key"
	"github.com/tubeplay-cli/tubeplay/style"
)

func init() {
	rootCmd.AddCommand(formatsCmd)
	formatsCmd.Flags().StringP("resolution", "r", "", "Resolution to pick a stream for, e.g. 720p")
}

var formatsCmd = &cobra.Command{
	Use:   "formats <url>",
	Short: "List the video streams of a URL and the one that would be picked",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resolution := lo.Must(cmd.Flags().GetString("resolution"))
		if resolution == "" {
			resolution = viper.GetString(key.DownloadResolution)
		}
		pref, err := format.ParsePreference(resolution)
		handleErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		streams, err := format.YTDLP{Bin: viper.GetString(key.ToolsYtDlp)}.Streams(ctx, args[0])
		handleErr(err)

		candidates := format.Candidates(streams)
		selector := format.Pick(streams, pref)

		idStyle := style.New().Bold(true).Foreground(color.Purple).Width(12)
		for _, s := range candidates {
			height := "?"
			if h, ok := s.Height.Get(); ok {
				height = strconv.Itoa(h) + "p"
			}
			line := fmt.Sprintf("%s %6s  %s", idStyle.Render(s.ID), height, style.Faint(s.VCodec))
			if selector == format.ForStream(s.ID) {
				line += " " + style.Fg(color.Green)("<- "+pref.String())
			}
			cmd.Println(line)
		}

		if len(candidates) == 0 {
			cmd.Println(style.Faint("no video only streams"))
		}

		cmd.Println()
		cmd.Printf("%s %s\n", style.Fg(color.Yellow)("selector:"), selector)
	},
}
