package cmd

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tubeplay-cli/tubeplay/color"
	"github.com/tubeplay-cli/tubeplay/constant"
	"github.com/tubeplay-cli/tubeplay/download"
	"github.com/tubeplay-cli/tubeplay/key"
	"github.com/tubeplay-cli/tubeplay/style"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
	versionCmd.Flags().BoolP("tools", "t", false, "Also print the versions of the external tools")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		builtAt := strings.TrimSpace(constant.BuiltAt)
		if builtAt == "" {
			builtAt = "unknown"
		}

		rows := [][2]string{
			{"Version", constant.Version},
			{"Git Commit", constant.Revision},
			{"Build Date", builtAt},
			{"Built By", constant.BuiltBy},
			{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
		}

		if lo.Must(cmd.Flags().GetBool("tools")) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			prereq := download.NewPrerequisites(viper.GetString(key.ToolsFFmpeg), viper.GetString(key.ToolsYtDlp))
			for _, report := range prereq.Report(ctx) {
				version := report.Version
				if report.Err != nil {
					version = style.Fg(color.Red)("not found")
				}
				rows = append(rows, [2]string{report.Tool.Name, version})
			}
		}

		label := style.New().Faint(true).Width(12)
		cmd.Printf("%s %s\n\n", style.Fg(color.Purple)("▇▇▇"), style.Fg(color.Purple)(constant.Tubeplay))
		for _, row := range rows {
			cmd.Printf("  %s %s\n", label.Render(row[0]), style.Bold(row[1]))
		}
	},
}
