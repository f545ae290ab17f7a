package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tubeplay-cli/tubeplay/color"
	"github.com/tubeplay-cli/tubeplay/download"
	"github.com/tubeplay-cli/tubeplay/format"
	"github.com/tubeplay-cli/tubeplay/icon"
	"github.com/tubeplay-cli/tubeplay/key"
	"github.com/tubeplay-cli/tubeplay/style"
	"github.com/tubeplay-cli/tubeplay/util"
	"github.com/tubeplay-cli/tubeplay/where"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
	addDownloadFlags(downloadCmd)
}

func addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dir", "d", "", "Directory to download into")
	cmd.Flags().StringP("resolution", "r", "", "Preferred resolution, e.g. 1080p, 720p or auto")
	lo.Must0(cmd.RegisterFlagCompletionFunc("resolution", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "2160p", "1440p", "1080p", "720p", "480p", "360p"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

var downloadCmd = &cobra.Command{
	Use:     "download <url>",
	Short:   "Download a video at the preferred resolution",
	Aliases: []string{"dl"},
	Args:    cobra.ExactArgs(1),
	Example: "tubeplay download -r 720p https://www.youtube.com/watch?v=aqz-KE-bpKQ",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := runDownload(cmd, args[0])
		handleErr(err)
		fmt.Println(path)
	},
}

// downloadDir returns the configured destination, or the platform default.
func downloadDir() string {
	if dir := viper.GetString(key.DownloadDir); dir != "" {
		return dir
	}
	return where.Downloads()
}

func runDownload(cmd *cobra.Command, url string) (string, error) {
	dir := lo.Must(cmd.Flags().GetString("dir"))
	if dir == "" {
		dir = downloadDir()
	}

	resolution := lo.Must(cmd.Flags().GetString("resolution"))
	if resolution == "" {
		resolution = viper.GetString(key.DownloadResolution)
	}
	pref, err := format.ParsePreference(resolution)
	if err != nil {
		return "", err
	}

	job, err := download.NewJob(url, dir, pref, download.PolicyFromConfig())
	if err != nil {
		return "", err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := newProgressPrinter()
	defer progress.erase()

	return newController(progress).Acquire(ctx, job)
}

// progressPrinter redraws a single status line.
type progressPrinter struct {
	eraser func()
	width  int
}

func newProgressPrinter() *progressPrinter {
	return &progressPrinter{width: util.TerminalWidth(80)}
}

func (p *progressPrinter) erase() {
	if p.eraser != nil {
		p.eraser()
		p.eraser = nil
	}
}

func (p *progressPrinter) OnProgress(e download.Event) {
	p.erase()

	var line string
	switch e.Phase {
	case download.PhaseError:
		return
	case download.PhaseDone:
		fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), e.Message)
		return
	case download.PhaseDownloading:
		line = fmt.Sprintf("%s %s", icon.Get(icon.Download), e.String())
	default:
		line = fmt.Sprintf("%s %s", icon.Get(icon.Progress), e.String())
	}

	line = strings.TrimSpace(style.Truncate(p.width - 1)(line))
	p.eraser = util.PrintErasable(line)
}
