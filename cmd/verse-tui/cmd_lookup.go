package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"verse-tui/internal/reader"
	"verse-tui/internal/settings"
	"verse-tui/internal/wallet"
)

// maxConcurrentLookups bounds the lookup fan-out.
const maxConcurrentLookups = 4

func setupCommand() (settings.Settings, error) {
	s, _, err := loadSettings()
	if err != nil {
		return settings.Settings{}, err
	}
	if logger == nil {
		logger, err = newLogger(s, "")
		if err != nil {
			return settings.Settings{}, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	return s, nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	s, err := setupCommand()
	if err != nil {
		return err
	}
	r := reader.New(newClient(s), logger)

	verses := make([]*reader.Verse, len(args))
	errs := make([]error, len(args))

	g, ctx := errgroup.WithContext(commandContext(cmd))
	g.SetLimit(maxConcurrentLookups)
	for i, query := range args {
		g.Go(func() error {
			v, err := r.Lookup(ctx, query)
			if err != nil {
				logger.Warn("lookup failed", zap.String("query", query), zap.Error(err))
				errs[i] = err
				return nil
			}
			verses[i] = v
			return nil
		})
	}
	_ = g.Wait()

	out := cmd.OutOrStdout()
	for i, v := range verses {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if v == nil {
			fmt.Fprintf(out, "%s: %s\n", args[i], reader.LookupFailedMessage)
			continue
		}
		printVerse(out, v)
	}

	if n := countErrors(errs); n > 0 {
		return fmt.Errorf("%d of %d lookups failed", n, len(args))
	}
	return nil
}

func runRandom(cmd *cobra.Command, args []string) error {
	s, err := setupCommand()
	if err != nil {
		return err
	}
	r := reader.New(newClient(s), logger)

	v, err := r.Random(commandContext(cmd))
	if err != nil {
		logger.Warn("random lookup failed", zap.Error(err))
		return errors.New(reader.RandomFailedMessage)
	}
	printVerse(cmd.OutOrStdout(), v)
	return nil
}

func runWallet(cmd *cobra.Command, args []string) error {
	s, err := setupCommand()
	if err != nil {
		return err
	}
	provider := newWallet(s)
	out := cmd.OutOrStdout()

	if !provider.Configured() {
		fmt.Fprintln(out, "Wallet: not configured (set wallet.rpc_url)")
		return nil
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), 15*time.Second)
	defer cancel()

	state, err := provider.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", wallet.ConnectFailedMessage, err)
	}
	defer provider.Disconnect()

	address := state.Address
	if address == "" {
		address = "(none)"
	}
	fmt.Fprintf(out, "Address: %s\n", address)
	fmt.Fprintf(out, "Network: %s (chain %d)\n", state.Network(), state.ChainID)
	fmt.Fprintf(out, "Status:  %s\n", wallet.Badge(state))
	if !state.OnSupportedNetwork() {
		fmt.Fprintln(out, "Please switch to Base network")
	}
	return nil
}

func printVerse(out io.Writer, v *reader.Verse) {
	fmt.Fprintf(out, "%s (%s)\n%s\n", v.RawReference, v.Translation, v.Text)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func countErrors(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}
