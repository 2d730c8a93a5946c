package util

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/alib/cmd/common"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables read by the CLI
	EnvPrefix = "alib"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupContainerFlags adds the container flags shared by all command groups
func SetupContainerFlags(cmd *cobra.Command) {
	key := "hash"
	cmd.PersistentFlags().String(key, "crc32", WrapString("Hash function of the hash table (crc32, fnv1a, xxhash)"))

	key = "capacity"
	cmd.PersistentFlags().Int(key, 0, WrapString("Initial number of buckets of the hash table (0 = default)"))

	key = "max-load-factor"
	cmd.PersistentFlags().Float64(key, 0, WrapString("The hash table grows once its load factor exceeds this value (0 = default)"))

	key = "block-size"
	cmd.PersistentFlags().Int(key, 32, WrapString("Number of elements added whenever a buffer grows (0 disables growth)"))

	key = "frame-size"
	cmd.PersistentFlags().Int(key, 0, WrapString("Frame size in bytes of variable-length stores (0 = default)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetContainerConfig reads the container configuration from viper
func GetContainerConfig() (*common.ContainerConfig, error) {
	conf := &common.ContainerConfig{
		HashFunc:      viper.GetString("hash"),
		Capacity:      viper.GetInt("capacity"),
		MaxLoadFactor: viper.GetFloat64("max-load-factor"),
		BlockSize:     viper.GetInt("block-size"),
		FrameSize:     viper.GetInt("frame-size"),
		LogLevel:      viper.GetString("log-level"),
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return conf, nil
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// SetupCommand binds the flags of cmd, reads the configuration and
// initializes the loggers. It is used as PersistentPreRunE by the command groups.
func SetupCommand(cmd *cobra.Command) (*common.ContainerConfig, error) {
	if err := BindCommandFlags(cmd); err != nil {
		return nil, err
	}
	conf, err := GetContainerConfig()
	if err != nil {
		return nil, err
	}
	if err := common.InitLoggers(*conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// --------------------------------------------------------------------------
// Input
// --------------------------------------------------------------------------

// OpenInput opens path for reading, "-" or "" means stdin
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

// ReadPairs calls fn for every non-empty line of r, split at the first sep.
// Lines without sep yield an empty value.
func ReadPairs(r io.Reader, sep string, fn func(key, value []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		key, value := text, []byte(nil)
		if i := bytes.Index(text, []byte(sep)); sep != "" && i >= 0 {
			key, value = text[:i], text[i+len(sep):]
		}
		if err := fn(key, value); err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
	}
	return errors.Wrap(scanner.Err(), "read input")
}
