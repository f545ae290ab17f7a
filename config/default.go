package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tubeplay-cli/tubeplay/color"
	"github.com/tubeplay-cli/tubeplay/constant"
	"github.com/tubeplay-cli/tubeplay/format"
	"github.com/tubeplay-cli/tubeplay/icon"
	"github.com/tubeplay-cli/tubeplay/key"
	"github.com/tubeplay-cli/tubeplay/player"
	"github.com/tubeplay-cli/tubeplay/style"
)

// Field is one registered configuration entry.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty renders the field for `config info`.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable bound to the field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Tubeplay + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON includes both the current and the default value.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.DownloadDir, "", "Directory downloads are written to.\nEmpty means ~/Downloads/tubeplay")
	register(key.DownloadResolution, "auto", "Preferred vertical resolution, e.g. 1080p, 720p, 480p.\nauto picks the best available stream")
	register(key.DownloadContainer, "mp4", "Container every download is remuxed into")
	register(key.DownloadRetries, 10, "Whole-download retries performed by yt-dlp")
	register(key.DownloadFragmentRetries, 10, "Per-fragment retries for segmented streams")
	register(key.DownloadSkipUnavailableFragments, true, "Skip fragments that stay unavailable instead of aborting")
	register(key.DownloadSocketTimeout, 30, "Socket timeout in seconds")
	register(key.DownloadExtractorRetries, 5, "Retries for metadata extraction")
	register(key.DownloadFileAccessRetries, 5, "Retries for local file access errors")
	register(key.DownloadReconnectDelayMax, 30, "Maximum reconnect delay in seconds for intermittent streams")
	register(key.DownloadFFmpegDownloader, true, "Fetch through ffmpeg so dropped connections are re-established")
	register(key.DownloadFallbackHeight, 720, "Height cap used by the single lower-quality retry")
	register(key.ToolsFFmpeg, constant.FFmpeg, "ffmpeg executable")
	register(key.ToolsFFprobe, constant.FFprobe, "ffprobe executable")
	register(key.ToolsFFplay, constant.FFplay, "ffplay executable, used as the audio output")
	register(key.ToolsYtDlp, constant.YtDlp, "yt-dlp executable")
	register(key.PlayerVolume, 100, "Initial playback volume, from 0 to 100")
	register(key.PlayerVolumePolicy, "clamp", "What to do with volumes outside 0-100.\nAvailable options are: clamp, reject")
	register(key.PlayerAudioJoinTimeout, 1000, "Milliseconds to wait for the audio renderer when stopping")
	register(key.PlayerDefaultFPS, 30, "Frame rate used when the media does not report one")
	register(key.HistorySaveOnDownload, true, "Record finished downloads in the history")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd")
}

// validators reject values that would only fail later, at download or playback time.
var validators = map[string]func(any) error{
	key.DownloadResolution: func(v any) error {
		_, err := format.ParsePreference(v.(string))
		return err
	},
	key.PlayerVolumePolicy: func(v any) error {
		_, err := player.ParseVolumePolicy(v.(string))
		return err
	},
	key.LogsLevel: func(v any) error {
		_, err := logrus.ParseLevel(v.(string))
		return err
	},
	key.IconsVariant:            oneOf(icon.AvailableVariants()...),
	key.DownloadContainer:       oneOf("mp4", "mkv", "webm"),
	key.PlayerVolume:            between(0, 100),
	key.PlayerDefaultFPS:        between(1, 240),
	key.PlayerAudioJoinTimeout:  between(0, 60_000),
	key.DownloadFallbackHeight:  between(1, 4320),
	key.DownloadRetries:         between(0, 100),
	key.DownloadFragmentRetries: between(0, 100),
	key.DownloadSocketTimeout:   between(1, 600),
}

func between(from, to int) func(any) error {
	return func(v any) error {
		if n := v.(int); n < from || n > to {
			return fmt.Errorf("%d is outside %d..%d", n, from, to)
		}
		return nil
	}
}

func oneOf(options ...string) func(any) error {
	return func(v any) error {
		if !lo.Contains(options, v.(string)) {
			return fmt.Errorf("%q is not one of %s", v, strings.Join(options, ", "))
		}
		return nil
	}
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"purple":   style.Fg(color.Purple),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
