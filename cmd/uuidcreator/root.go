package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/containerd/log"
	"github.com/spf13/cobra"

	"github.com/dombox/uuidcreator"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	root := &cobra.Command{
		Use:           "uuidcreator",
		Short:         "Generate and inspect RFC 4122 UUIDs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				return log.SetLevel("debug")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	loadConfig := func() (uuidcreator.Config, error) {
		if configPath == "" {
			return uuidcreator.DefaultConfig(), nil
		}
		return uuidcreator.LoadConfigFile(configPath)
	}

	root.AddCommand(
		newTimeOrderedCommand("time-based", uuidcreator.LayoutTimeBased, loadConfig),
		newTimeOrderedCommand("sequential", uuidcreator.LayoutSequential, loadConfig),
		newDCECommand(loadConfig),
		newRandomCommand(loadConfig),
		newNameCommand(loadConfig),
		newCombCommand(loadConfig),
		newLexicalCommand(loadConfig),
		newExtractCommand(),
		newDemoCommand(),
	)
	return root
}

type configLoader func() (uuidcreator.Config, error)

// fixedFlags holds the per-call overrides shared by the time-ordered
// commands.
type fixedFlags struct {
	instant   string
	timestamp string
	clockSeq  string
	node      string
}

func (f *fixedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.instant, "instant", "", "Fixed instant (RFC 3339)")
	cmd.Flags().StringVar(&f.timestamp, "timestamp", "", "Fixed 60-bit timestamp")
	cmd.Flags().StringVar(&f.clockSeq, "clock-seq", "", "Fixed 14-bit clock sequence, e.g. 0x2222")
	cmd.Flags().StringVar(&f.node, "node", "", "Fixed 48-bit node identifier, e.g. 0x111111111111")
}

func (f *fixedFlags) options() ([]uuidcreator.Option, error) {
	var opts []uuidcreator.Option
	if f.instant != "" {
		t, err := time.Parse(time.RFC3339Nano, f.instant)
		if err != nil {
			return nil, fmt.Errorf("invalid --instant: %w", err)
		}
		opts = append(opts, uuidcreator.WithInstant(t))
	}
	if f.timestamp != "" {
		ts, err := strconv.ParseUint(f.timestamp, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --timestamp: %w", err)
		}
		opts = append(opts, uuidcreator.WithTimestamp(ts))
	}
	if f.clockSeq != "" {
		seq, err := strconv.ParseInt(f.clockSeq, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid --clock-seq: %w", err)
		}
		opts = append(opts, uuidcreator.WithClockSequence(int(seq)))
	}
	if f.node != "" {
		node, err := strconv.ParseUint(f.node, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --node: %w", err)
		}
		opts = append(opts, uuidcreator.WithNodeIdentifier(node))
	}
	return opts, nil
}
