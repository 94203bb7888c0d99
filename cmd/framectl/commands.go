package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/auth"
	"github.com/rogerio-castellano/frame-storefront/internal/logging"
	"github.com/rogerio-castellano/frame-storefront/internal/pricing"
)

// errUnavailable is returned by price for a variant with no price, so the
// exit status can be scripted on.
var errUnavailable = errors.New("variant is not available")

func newRootCmd() *cobra.Command {
	var (
		verbose bool
		log     *zap.Logger
	)

	root := &cobra.Command{
		Use:           "framectl",
		Short:         "Storefront operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			var err error
			log, err = logging.New(level, "console")
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	logger := func() *zap.Logger {
		if log == nil {
			return zap.NewNop()
		}
		return log
	}

	root.AddCommand(newPriceCmd(logger), newNormalizeCmd(), newTablesCmd(), newTokenCmd(logger))
	return root
}

func newPriceCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		format  string
		setType string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "price <size>",
		Short: "Resolve the price of a size in a format and set type",
		Example: `  framectl price 8x12 --format Canvas
  framectl price "12 × 18" --format Frame --set 3-Set`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pricing.ParseFormat(format)
			if err != nil {
				return err
			}
			st, err := pricing.ParseSetType(setType)
			if err != nil {
				return err
			}

			quote := pricing.QuoteFor(args[0], f, st)
			logger().Debug("resolved quote",
				zap.String("size", quote.Size),
				zap.String("format", string(f)),
				zap.String("set", string(st)),
				zap.Bool("available", quote.Available),
			)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(quote); err != nil {
					return err
				}
			} else if quote.Available {
				fmt.Fprintf(out, "%s %s %s: %d\n", quote.Size, quote.SetType, quote.Format, *quote.Price)
			}
			if !quote.Available {
				return fmt.Errorf("%w: %s %s %s", errUnavailable, quote.Size, quote.SetType, quote.Format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(pricing.Rolled), "Rolled, Canvas or Frame")
	cmd.Flags().StringVarP(&setType, "set", "s", string(pricing.Basic), "Basic, 2-Set, 3-Set or Square")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the quote as JSON")
	return cmd
}

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <size>...",
		Short: "Print the canonical form of size labels",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				fmt.Fprintln(cmd.OutOrStdout(), pricing.NormalizeSize(raw))
			}
			return nil
		},
	}
}

func newTablesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the price tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pricing.Tables())
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, table := range pricing.Tables() {
				fmt.Fprintf(tw, "%s\tRolled\tCanvas\tFrame\n", table.SetType())
				for _, size := range table.Sizes() {
					row, _ := table.Lookup(size)
					fmt.Fprintf(tw, "%s", size)
					for _, f := range pricing.Formats {
						if price, ok := row.Cell(f).Price(); ok {
							fmt.Fprintf(tw, "\t%d", price)
						} else {
							fmt.Fprint(tw, "\t-")
						}
					}
					fmt.Fprintln(tw)
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tables as JSON")
	return cmd
}

func newTokenCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		secret string
		email  string
		admin  bool
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint an access token for local development",
		Long: `Mint an HS256 access token shaped like the ones the hosted auth service
issues, signed with the storefront's jwt secret. For local testing only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret is required")
			}
			id := auth.Identity{UserID: args[0], Email: email, Admin: admin}
			token, err := auth.NewVerifier(secret).GenerateToken(id, ttl)
			if err != nil {
				return err
			}
			logger().Debug("minted token", zap.String("user_id", id.UserID), zap.Bool("admin", admin), zap.Duration("ttl", ttl))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "JWT secret (auth.jwt_secret)")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant the admin role")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	return cmd
}
