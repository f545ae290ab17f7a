package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tubeplay-cli/tubeplay/filesystem"
	"github.com/tubeplay-cli/tubeplay/history"
	"github.com/tubeplay-cli/tubeplay/icon"
	"github.com/tubeplay-cli/tubeplay/util"
	"github.com/tubeplay-cli/tubeplay/where"
)

// removable is a location `clear` may delete wholesale.
type removable struct {
	flag, short string
	what        string
	path        func() string
}

var removables = []removable{
	{"cache", "c", "cache directory", where.Cache},
	{"history", "s", "download history", where.History},
	{"logs", "l", "log files", where.Logs},
	{"temp", "t", "snapshots and scratch files", where.Temp},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, r := range removables {
		clearCmd.Flags().BoolP(r.flag, r.short, false, "Delete the "+r.what)
	}
	clearCmd.Flags().Bool("stale", false, "Forget history entries whose file no longer exists")
	clearCmd.MarkFlagsMutuallyExclusive("history", "stale")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached, logged and temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(removables, func(r removable, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(r.flag))
		})
		stale := lo.Must(cmd.Flags().GetBool("stale"))

		if len(selected) == 0 && !stale {
			handleErr(cmd.Help())
			return
		}

		for _, r := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Deleting %s...", icon.Get(icon.Progress), r.what))
			err := util.Delete(r.path())
			erase()
			handleErr(err)
			fmt.Printf("%s Deleted %s\n", icon.Get(icon.Success), r.what)
		}

		if stale {
			n, err := forgetStale()
			handleErr(err)
			fmt.Printf("%s Forgot %d stale history entries\n", icon.Get(icon.Success), n)
		}
	},
}

// forgetStale drops history records that point at deleted files.
func forgetStale() (int, error) {
	records, err := history.List()
	if err != nil {
		return 0, err
	}

	var forgotten int
	for _, record := range records {
		exists, err := filesystem.API().Exists(record.Path)
		if err != nil || exists {
			continue
		}

		if err := history.Remove(record.Path); err != nil {
			return forgotten, err
		}
		forgotten++
	}

	return forgotten, nil
}
