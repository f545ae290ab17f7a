package cmd

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tubeplay-cli/tubeplay/filesystem"
	"github.com/tubeplay-cli/tubeplay/history"
	"github.com/tubeplay-cli/tubeplay/icon"
	"github.com/tubeplay-cli/tubeplay/key"
	"github.com/tubeplay-cli/tubeplay/log"
	"github.com/tubeplay-cli/tubeplay/media"
	"github.com/tubeplay-cli/tubeplay/util"
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolP("last", "l", false, "Play the most recent download")
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("volume", "V", 0, "Volume from 0 to 100")
	cmd.Flags().String("snapshot-dir", "", "Write the first frame of every cycle as PNG into this directory")
	cmd.Flags().IntP("loops", "n", 0, "Stop after this many cycles, 0 plays until interrupted")
	cmd.Flags().Duration("seek", 0, "Start position, e.g. 1m30s")
}

var playCmd = &cobra.Command{
	Use:   "play [path]",
	Short: "Play a downloaded video",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var path string

		switch {
		case len(args) == 1:
			path = args[0]
		case lo.Must(cmd.Flags().GetBool("last")):
			latest, err := history.Latest()
			handleErr(err)
			record, ok := latest.Get()
			if !ok {
				handleErr(errors.New("no downloads in the history yet"))
			}
			path = record.Path
		default:
			handleErr(errors.New("a path or --last is required"))
		}

		handleErr(runPlay(cmd, path))
	},
}

func runPlay(cmd *cobra.Command, path string) error {
	loops := lo.Must(cmd.Flags().GetInt("loops"))
	consumer := newFrameConsumer(lo.Must(cmd.Flags().GetString("snapshot-dir")), util.SanitizeFilename(util.FileStem(path)), loops)

	session, err := newSession(consumer)
	if err != nil {
		return err
	}

	if err := session.Load(path); err != nil {
		return err
	}

	volume := viper.GetInt(key.PlayerVolume)
	if cmd.Flags().Changed("volume") {
		volume = lo.Must(cmd.Flags().GetInt("volume"))
	}
	if err := session.SetVolume(volume); err != nil {
		return err
	}

	if seek := lo.Must(cmd.Flags().GetDuration("seek")); seek > 0 {
		if err := session.Seek(seek); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	consumer.start()
	defer consumer.close()

	if err := session.Start(); err != nil {
		return err
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var eraser func()
	defer func() {
		if eraser != nil {
			eraser()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			session.Stop()
			return nil
		case <-consumer.finished:
			session.Stop()
			return nil
		case <-session.Wait():
			session.Stop()
			return consumer.err()
		case <-ticker.C:
			if eraser != nil {
				eraser()
			}
			eraser = util.PrintErasable(fmt.Sprintf("%s %s  %d frames", icon.Get(icon.Play), session.Snapshot(), consumer.frames.Load()))
		}
	}
}

// frameConsumer counts frames, ends playback after a number of cycles
// and hands the first frame of each cycle to a PNG writer.
type frameConsumer struct {
	dir    string
	name   string
	loops  int
	frames atomic.Int64
	cycles int

	snapshots chan snapshot
	finished  chan struct{}
	finish    func()
	wg        sync.WaitGroup

	mu      sync.Mutex
	lastErr error
}

func newFrameConsumer(dir, name string, loops int) *frameConsumer {
	c := &frameConsumer{
		dir:       dir,
		name:      name,
		loops:     loops,
		snapshots: make(chan snapshot, 1),
		finished:  make(chan struct{}),
	}
	c.finish = sync.OnceFunc(func() { close(c.finished) })
	return c
}

func (c *frameConsumer) OnFrame(frame *media.Frame) {
	n := c.frames.Add(1)
	if frame.Timestamp != 0 {
		return
	}

	if n > 1 {
		c.cycles++
		if c.loops > 0 && c.cycles >= c.loops {
			c.finish()
			return
		}
	}

	if c.dir == "" {
		return
	}

	select {
	case c.snapshots <- snapshot{frame: frame.Clone(), cycle: c.cycles}:
	default:
		log.Debug("snapshot writer busy, dropping frame")
	}
}

func (c *frameConsumer) OnError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func (c *frameConsumer) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *frameConsumer) start() {
	if c.dir == "" {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for snap := range c.snapshots {
			if err := snap.write(c.dir, c.name); err != nil {
				log.Warnf("snapshot: %v", err)
			}
		}
	}()
}

func (c *frameConsumer) close() {
	close(c.snapshots)
	c.wg.Wait()
}

type snapshot struct {
	frame *media.Frame
	cycle int
}

func (s snapshot) write(dir, name string) error {
	if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_cycle_%04d.png", name, s.cycle))
	file, err := filesystem.API().Create(path)
	if err != nil {
		return err
	}
	defer util.Ignore(file.Close)

	return png.Encode(file, s.frame.Image())
}
