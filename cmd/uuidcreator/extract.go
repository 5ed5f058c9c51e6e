package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dombox/uuidcreator"
)

// fields is the decoded form of a UUID printed by extract.
type fields struct {
	UUID          uuidcreator.UUID `json:"uuid"`
	Version       int              `json:"version"`
	Variant       int              `json:"variant"`
	Timestamp     *uint64          `json:"timestamp,omitempty"`
	Instant       *time.Time       `json:"instant,omitempty"`
	ClockSequence *uint16          `json:"clock_sequence,omitempty"`
	Node          string           `json:"node,omitempty"`
	Domain        string           `json:"domain,omitempty"`
	LocalID       *uint32          `json:"local_id,omitempty"`
}

func decode(u uuidcreator.UUID) fields {
	f := fields{UUID: u, Version: int(u.Version()), Variant: u.Variant()}
	if ts, err := uuidcreator.ExtractTimestamp(u); err == nil {
		f.Timestamp = &ts
		if t, err := uuidcreator.ExtractInstant(u); err == nil {
			f.Instant = &t
		}
		if seq, err := uuidcreator.ExtractClockSequence(u); err == nil {
			f.ClockSequence = &seq
		}
	}
	if node, err := uuidcreator.ExtractNodeIdentifier(u); err == nil {
		f.Node = fmt.Sprintf("%012x", node)
	}
	if domain, id, err := uuidcreator.ExtractDCESecurity(u); err == nil {
		f.Domain = domain.String()
		f.LocalID = &id
	}
	return f
}

func newExtractCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "extract UUID...",
		Short: "Decode the fields of UUIDs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for _, arg := range args {
				u, err := uuidcreator.Parse(arg)
				if err != nil {
					return err
				}
				f := decode(u)
				if asJSON {
					if err := enc.Encode(f); err != nil {
						return err
					}
					continue
				}

				fmt.Fprintf(out, "uuid:      %s\n", f.UUID)
				fmt.Fprintf(out, "version:   %d (%s)\n", f.Version, u.Version())
				fmt.Fprintf(out, "variant:   %d\n", f.Variant)
				if f.Timestamp != nil {
					fmt.Fprintf(out, "timestamp: %d\n", *f.Timestamp)
					fmt.Fprintf(out, "instant:   %s\n", f.Instant.UTC().Format(time.RFC3339Nano))
					fmt.Fprintf(out, "clockseq:  %#04x\n", *f.ClockSequence)
				}
				if f.LocalID != nil {
					fmt.Fprintf(out, "domain:    %s\n", f.Domain)
					fmt.Fprintf(out, "local id:  %d\n", *f.LocalID)
				}
				if f.Node != "" {
					fmt.Fprintf(out, "node:      %s\n", f.Node)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per UUID")
	return cmd
}
