package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zuidwijk/dsmr/internal/options"
	"github.com/zuidwijk/dsmr/pkg/dsmr"
)

var (
	rootCmd = &cobra.Command{
		Use:   "dsmr-decode [file]",
		Short: "Decode DSMR P1 telegrams",
		Long: "dsmr-decode parses a P1 telegram (plaintext, or an encrypted envelope " +
			"given raw or as a hex dump) and prints the decoded fields as JSON. " +
			"Without a file argument the telegram is read from stdin.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
	}

	keyHex   string
	variant  string
	fieldSet string
	follow   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&keyHex, "key", "", "hex-encoded 16-byte AES key (32 hex chars)")
	rootCmd.PersistentFlags().StringVar(&variant, "variant", "nl", "country field set, one of: "+strings.Join(dsmr.Variants(), ", "))
	rootCmd.PersistentFlags().StringVar(&fieldSet, "fieldset", "", "YAML field-set definition, overrides --variant")
	rootCmd.PersistentFlags().BoolVar(&follow, "follow", false, "treat stdin as a live P1 stream and decode telegrams as they arrive")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(args []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	key, err := options.ParseKeyHex(keyHex)
	if err != nil {
		return err
	}
	dec, err := dsmr.New(dsmr.Config{Registry: registry, Key: key})
	if err != nil {
		return err
	}
	if follow {
		return stream(dec, os.Stdin)
	}
	raw, err := readInput(args)
	if err != nil {
		return err
	}
	result, err := dec.Decode(payload(raw))
	if err != nil {
		return err
	}
	logrus.WithField("identification", result.Identification).Debug("telegram decoded")
	fmt.Println(result.String())
	return nil
}

// stream feeds r chunk by chunk and prints every telegram that decodes
// cleanly. Rejected telegrams are logged and the stream continues.
func stream(dec *dsmr.Decoder, r io.Reader) error {
	buf := make([]byte, 512)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			// A chunk may complete more than one telegram; feeding
			// nothing consumes what is still buffered.
			chunk := buf[:n]
			for {
				result, decErr := dec.Feed(chunk)
				chunk = nil
				if decErr != nil {
					logrus.WithError(decErr).Warn("telegram rejected")
					continue
				}
				if result == nil {
					break
				}
				fmt.Println(result.String())
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func loadRegistry() (*dsmr.Registry, error) {
	if fieldSet == "" {
		return dsmr.Variant(variant)
	}
	f, err := os.Open(fieldSet)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dsmr.LoadFieldSet(f)
}

// payload turns a hex dump back into bytes; encrypted envelopes are
// usually shared that way. Plaintext telegrams contain ':' and '('
// and pass through untouched.
func payload(raw []byte) []byte {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(raw))
	if len(clean) == 0 || len(clean)%2 != 0 {
		return raw
	}
	decoded, err := hex.DecodeString(clean)
	if err != nil {
		return raw
	}
	return decoded
}
