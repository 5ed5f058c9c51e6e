package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dombox/uuidcreator"
)

func newTimeOrderedCommand(use string, layout uuidcreator.Layout, load configLoader) *cobra.Command {
	var (
		count int
		fixed fixedFlags
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Generate version %d UUIDs", layout.Version()),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			cfg.Layout = layout
			opts, err := fixed.options()
			if err != nil {
				return err
			}
			creator, err := uuidcreator.NewTimeBasedCreator(cfg)
			if err != nil {
				return err
			}

			// Per-call overrides go through NewWithContext; a plain batch
			// uses the creator's own batch path.
			if len(opts) == 0 {
				ids, err := creator.NewBatch(cmd.Context(), count)
				if err != nil {
					return err
				}
				return printUUIDs(cmd, ids)
			}
			for i := 0; i < count; i++ {
				id, err := creator.NewWithContext(cmd.Context(), opts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of UUIDs")
	fixed.register(cmd)
	return cmd
}

func newDCECommand(load configLoader) *cobra.Command {
	var (
		count  int
		domain string
		id     uint32
		fixed  fixedFlags
	)
	cmd := &cobra.Command{
		Use:   "dce",
		Short: "Generate version 2 (DCE security) UUIDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDomain(domain)
			if err != nil {
				return err
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			opts, err := fixed.options()
			if err != nil {
				return err
			}
			creator, err := uuidcreator.NewDCESecurityCreator(cfg)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				u, err := creator.NewWithContext(cmd.Context(), d, id, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of UUIDs")
	cmd.Flags().StringVar(&domain, "domain", "person", "Local domain: person, group or org")
	cmd.Flags().Uint32Var(&id, "id", 0, "Local identifier, e.g. a POSIX UID")
	fixed.register(cmd)
	return cmd
}

func parseDomain(s string) (uuidcreator.Domain, error) {
	switch strings.ToLower(s) {
	case "person", "uid":
		return uuidcreator.DomainPerson, nil
	case "group", "gid":
		return uuidcreator.DomainGroup, nil
	case "org":
		return uuidcreator.DomainOrg, nil
	}
	return 0, fmt.Errorf("unknown domain %q", s)
}

func newRandomCommand(load configLoader) *cobra.Command {
	var (
		count     int
		generator string
	)
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Generate version 4 UUIDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if generator != "" {
				cfg.RandomGenerator = generator
			}
			creator, err := uuidcreator.NewRandomCreator(cfg)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				fmt.Fprintln(cmd.OutOrStdout(), creator.New())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of UUIDs")
	cmd.Flags().StringVarP(&generator, "generator", "g", "", "Random generator: xorshift, xorshift-star, xorshift128plus, xoroshiro128plus, chacha8, crypto")
	return cmd
}

func newGUIDCommand(use, short string, create func(uuidcreator.Config) (func() uuidcreator.UUID, error), load configLoader) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			next, err := create(cfg)
			if err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				fmt.Fprintln(cmd.OutOrStdout(), next())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of GUIDs")
	return cmd
}

func newCombCommand(load configLoader) *cobra.Command {
	return newGUIDCommand("comb", "Generate COMB GUIDs (random with a trailing millisecond timestamp)",
		func(cfg uuidcreator.Config) (func() uuidcreator.UUID, error) {
			c, err := uuidcreator.NewCombCreator(cfg)
			if err != nil {
				return nil, err
			}
			return c.New, nil
		}, load)
}

func newLexicalCommand(load configLoader) *cobra.Command {
	return newGUIDCommand("lexical", "Generate lexical-order GUIDs (millisecond timestamp, then random)",
		func(cfg uuidcreator.Config) (func() uuidcreator.UUID, error) {
			c, err := uuidcreator.NewLexicalOrderCreator(cfg)
			if err != nil {
				return nil, err
			}
			return c.New, nil
		}, load)
}

func newNameCommand(load configLoader) *cobra.Command {
	var (
		sha1      bool
		namespace string
	)
	cmd := &cobra.Command{
		Use:   "name NAME...",
		Short: "Generate version 3 or 5 UUIDs from names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if namespace != "" {
				cfg.Namespace = namespace
			}
			version := uuidcreator.VersionNameBasedMD5
			if sha1 {
				version = uuidcreator.VersionNameBasedSHA1
			}
			creator, err := uuidcreator.NewNameBasedCreator(version, cfg)
			if err != nil {
				return err
			}
			for _, name := range args {
				fmt.Fprintln(cmd.OutOrStdout(), creator.New(name))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sha1, "sha1", false, "Use SHA-1 (version 5) instead of MD5 (version 3)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Namespace: a UUID or one of dns, url, oid, x500")
	return cmd
}

func printUUIDs(cmd *cobra.Command, ids []uuidcreator.UUID) error {
	out := cmd.OutOrStdout()
	for _, id := range ids {
		if _, err := fmt.Fprintln(out, id); err != nil {
			return err
		}
	}
	return nil
}
