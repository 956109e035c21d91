package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/bootstrap"
	"github.com/RikVoorhaar/routing-game-sub002/internal/domain/upgrade"
)

const clearScanBatchSize = 500

// routeKeyPattern matches both the traveler-specific and the shared route
// cache tiers.
const routeKeyPattern = "route:*"

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeln(w io.Writer, args ...any) error {
	if _, err := fmt.Fprintln(w, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// guardRemoteHost refuses destructive commands against hosts that do not look
// local unless the caller explicitly allowed them.
func guardRemoteHost(cmdCtx *commandContext, allowRemote bool) error {
	host := cmdCtx.Config.Postgres.Host
	if allowRemote || !isLikelyRemoteHost(host) {
		return nil
	}
	return fmt.Errorf(
		"database host %q does not look local; pass --allow-remote to proceed anyway",
		host,
	)
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	switch h {
	case "", "localhost", "127.0.0.1", "::1", "0.0.0.0", "host.docker.internal":
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback() && !ip.IsPrivate()
	}
	// Bare hostnames (compose service names like "db" or "postgres") are
	// treated as local; anything with a dot is assumed remote.
	return strings.Contains(h, ".")
}

// confirmAction prompts on stdin unless the command was invoked with -yes.
func confirmAction(skip bool, action string) error {
	if skip {
		return nil
	}
	if err := writef(os.Stdout, "About to %s. Type 'yes' to continue: ", action); err != nil {
		return err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if strings.TrimSpace(line) != "yes" {
		return errors.New("aborted")
	}
	return nil
}

func runCatalogCheck(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("catalog-check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog, err := upgrade.LoadDefault()
	if err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}

	if err := writef(os.Stdout, "catalog OK: %d upgrades\n", catalog.Len()); err != nil {
		return err
	}
	for _, u := range catalog.All() {
		line := fmt.Sprintf("  %-24s cost=%.2f", u.ID, u.Cost)
		if u.MinTotalXP > 0 {
			line += fmt.Sprintf(" min_xp=%d", u.MinTotalXP)
		}
		if len(u.Prerequisites) > 0 {
			line += " requires=" + strings.Join(u.Prerequisites, ",")
		}
		if err := writeln(os.Stdout, line); err != nil {
			return err
		}
	}
	return nil
}

type clearRouteCacheOptions struct {
	Timeout time.Duration
	DryRun  bool
	Yes     bool
}

func parseClearRouteCacheFlags(args []string) (clearRouteCacheOptions, error) {
	fs := flag.NewFlagSet("clear-route-cache", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := clearRouteCacheOptions{Timeout: time.Minute}
	fs.DurationVar(&opts.Timeout, "timeout", time.Minute, "Maximum duration for the clear operation")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Count matching keys without deleting them")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return clearRouteCacheOptions{}, err
	}
	if opts.Timeout <= 0 {
		return clearRouteCacheOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runClearRouteCache(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearRouteCacheFlags(args)
	if err != nil {
		return err
	}

	if !opts.DryRun {
		target := fmt.Sprintf("delete all %q keys on %s", routeKeyPattern, cmdCtx.Config.Redis.Addr)
		if confirmErr := confirmAction(opts.Yes, target); confirmErr != nil {
			return confirmErr
		}
	}

	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	var (
		cursor  uint64
		matched int
		deleted int
	)
	for {
		keys, next, scanErr := client.Scan(ctx, cursor, routeKeyPattern, clearScanBatchSize).Result()
		if scanErr != nil {
			return fmt.Errorf("scan route keys: %w", scanErr)
		}
		matched += len(keys)

		if !opts.DryRun && len(keys) > 0 {
			n, delErr := client.Del(ctx, keys...).Result()
			if delErr != nil {
				return fmt.Errorf("delete route keys: %w", delErr)
			}
			deleted += int(n)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if opts.DryRun {
		return writef(os.Stdout, "dry run: %d route cache keys match %q\n", matched, routeKeyPattern)
	}
	cmdCtx.Logger.InfoContext(ctx, "route cache cleared", "matched", matched, "deleted", deleted)
	return writef(os.Stdout, "deleted %d route cache keys\n", deleted)
}
