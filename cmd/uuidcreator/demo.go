package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dombox/uuidcreator"
	"github.com/dombox/uuidcreator/timestamp"
)

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through the creators and print what they produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func runDemo(ctx context.Context, w io.Writer) error {
	for _, step := range []func(context.Context, io.Writer) error{
		basicUsage,
		fixedFields,
		sameTick,
		layouts,
		jsonRoundTrip,
		otherVersions,
		contextCancellation,
	} {
		if err := step(ctx, w); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func basicUsage(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "--- Basic Usage ---")

	id, err := uuidcreator.NewTimeBasedWithContext(ctx)
	if err != nil {
		return err
	}
	t, err := id.Time()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Generated UUID:", id)
	fmt.Fprintln(w, "Version:", id.Version())
	fmt.Fprintln(w, "Instant:", t.UTC().Format(time.RFC3339Nano))
	return nil
}

func fixedFields(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "--- Fixed Fields ---")

	instant := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id, err := uuidcreator.NewTimeBasedWithContext(ctx,
		uuidcreator.WithInstant(instant),
		uuidcreator.WithClockSequence(0x2222),
		uuidcreator.WithNodeIdentifier(0x111111111111),
	)
	if err != nil {
		return err
	}
	back, err := uuidcreator.ExtractInstant(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "UUID:", id)
	fmt.Fprintln(w, "Extracted instant:", back.UTC().Format(time.RFC3339Nano))
	fmt.Fprintln(w, "Round trip exact:", back.Equal(instant))
	return nil
}

func sameTick(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "--- Same Clock Tick ---")

	frozen := timestamp.Millisecond{Now: func() time.Time {
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}}
	cfg := uuidcreator.DefaultConfig()
	cfg.Clock = frozen
	node := uint64(0x111111111111)
	cfg.FixedNodeIdentifier = &node

	creator, err := uuidcreator.NewTimeBasedCreator(cfg)
	if err != nil {
		return err
	}
	ids, err := creator.NewBatch(ctx, 3)
	if err != nil {
		return err
	}
	for _, id := range ids {
		ts, err := uuidcreator.ExtractTimestamp(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s  timestamp=%d\n", id, ts)
	}
	return nil
}

func layouts(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "--- Time-based vs Sequential ---")

	tb, err := uuidcreator.NewTimeBasedWithContext(ctx)
	if err != nil {
		return err
	}
	seq, err := uuidcreator.NewSequentialWithContext(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Time-based:", tb)
	fmt.Fprintln(w, "Sequential:", seq)

	cfg := uuidcreator.DefaultConfig()
	cfg.Layout = uuidcreator.LayoutSequential
	creator, err := uuidcreator.NewTimeBasedCreator(cfg)
	if err != nil {
		return err
	}
	ids, err := creator.NewBatch(ctx, 1000)
	if err != nil {
		return err
	}
	if err := uuidcreator.ValidateOrdering(ids); err != nil {
		return fmt.Errorf("ordering violation: %w", err)
	}
	fmt.Fprintf(w, "Generated %d sequential UUIDs in order\n", len(ids))
	return nil
}

func jsonRoundTrip(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "--- JSON ---")

	type user struct {
		ID   uuidcreator.UUID `json:"id"`
		Name string           `json:"name"`
	}
	id, err := uuidcreator.NewSequentialWithContext(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(user{ID: id, Name: "Alice"})
	if err != nil {
		return err
	}
	var parsed user
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	fmt.Fprintln(w, "JSON:", string(data))
	fmt.Fprintf(w, "Parsed: %+v\n", parsed)
	return nil
}

func otherVersions(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "--- Other Versions ---")

	fmt.Fprintln(w, "Random (crypto):", uuidcreator.NewRandom())
	fmt.Fprintln(w, "Random (xorshift128+):", uuidcreator.NewFastRandom())
	fmt.Fprintln(w, "Name-based MD5:", uuidcreator.NewNameBasedMD5(uuidcreator.NamespaceDNS, "example.com"))
	fmt.Fprintln(w, "Name-based SHA-1:", uuidcreator.NewNameBasedSHA1(uuidcreator.NamespaceDNS, "example.com"))
	fmt.Fprintln(w, "COMB GUID:", uuidcreator.NewComb())
	fmt.Fprintln(w, "Lexical-order GUID:", uuidcreator.NewLexicalOrder())

	dce, err := uuidcreator.NewDCESecurity(uuidcreator.DomainPerson, 1000)
	if err != nil {
		return err
	}
	domain, id, err := uuidcreator.ExtractDCESecurity(dce)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "DCE security: %s (domain=%s id=%d)\n", dce, domain, id)
	return nil
}

func contextCancellation(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "--- Context Cancellation ---")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := uuidcreator.NewTimeBasedWithContext(canceled); err != nil {
		fmt.Fprintln(w, "Canceled context rejected:", err)
		return nil
	}
	return fmt.Errorf("generation succeeded with a canceled context")
}
