package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
	addDownloadFlags(getCmd)
	addPlayFlags(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Download a video and play it right away",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, err := runDownload(cmd, args[0])
		handleErr(err)
		handleErr(runPlay(cmd, path))
	},
}
