package cmd

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tubeplay-cli/tubeplay/color"
	"github.com/tubeplay-cli/tubeplay/config"
	"github.com/tubeplay-cli/tubeplay/style"
	"github.com/tubeplay-cli/tubeplay/where"
)

type location struct {
	name string
	flag string
	path func() string
}

var locations = []location{
	{"Config file", "config", config.Path},
	{"Downloads", "downloads", downloadDir},
	{"History", "history", where.History},
	{"Logs", "logs", where.Logs},
	{"Cache", "cache", where.Cache},
	{"Snapshots and scratch files", "temp", where.Temp},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().Bool(l.flag, false, "Only print the "+l.flag+" path")
	}
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print where tubeplay keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		only, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		})
		if ok {
			cmd.Println(only.path())
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, l := range locations {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", header(l.name), style.Fg(color.Yellow)("--"+l.flag))
			cmd.Println(l.path())
		}
	},
}
