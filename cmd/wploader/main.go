package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/wploader-go/internal/app"
	"github.com/quantmind-br/wploader-go/internal/cache"
	"github.com/quantmind-br/wploader-go/internal/config"
	"github.com/quantmind-br/wploader-go/internal/content"
	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/utils"
	"github.com/quantmind-br/wploader-go/pkg/version"
)

var (
	cfgFile string
	verbose bool
	dryRun  bool
	force   bool
	quiet   bool

	// Dependencies for testing
	osStat = os.Stat
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wploader",
	Short: "Load WordPress content through the REST API",
	Long: `wploader fetches every WordPress REST collection (posts, pages, terms,
users, media, comments, statuses, taxonomies, types and site settings),
validates each record, and stores it for static-site builds.

Stored content can be queried, and posts and pages exported to Markdown.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./wploader.yaml or ~/.wploader/config.yaml)")
	pf.StringP("endpoint", "e", "", "WordPress REST API root, e.g. https://example.com/wp-json/")
	pf.String("store", config.BackendBadger, "Entry store backend (badger or memory)")
	pf.String("store-dir", "", "Entry store directory")
	pf.IntP("workers", "j", config.DefaultWorkers, "Collections loaded concurrently")
	pf.Duration("timeout", config.DefaultTimeout, "Request timeout")
	pf.Int("max-retries", config.DefaultMaxRetries, "Retries for transient HTTP errors (-1 disables)")
	pf.String("user-agent", "", "Custom User-Agent")
	pf.Bool("cache", false, "Cache REST responses")
	pf.Duration("cache-ttl", config.DefaultCacheTTL, "Cache TTL")
	pf.Bool("skip-invalid", false, "Skip records that fail validation instead of failing the build")
	pf.StringP("output", "o", config.DefaultOutputDir, "Export directory")
	pf.Bool("json-index", false, "Write index.json next to exported files")
	pf.BoolVar(&force, "force", false, "Overwrite existing files")
	pf.BoolVar(&dryRun, "dry-run", false, "Simulate without writing files")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Hide progress bars")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("endpoint", pf.Lookup("endpoint"))
	_ = viper.BindPFlag("store.backend", pf.Lookup("store"))
	_ = viper.BindPFlag("store.directory", pf.Lookup("store-dir"))
	_ = viper.BindPFlag("build.workers", pf.Lookup("workers"))
	_ = viper.BindPFlag("http.timeout", pf.Lookup("timeout"))
	_ = viper.BindPFlag("http.max_retries", pf.Lookup("max-retries"))
	_ = viper.BindPFlag("http.user_agent", pf.Lookup("user-agent"))
	_ = viper.BindPFlag("cache.enabled", pf.Lookup("cache"))
	_ = viper.BindPFlag("cache.ttl", pf.Lookup("cache-ttl"))
	_ = viper.BindPFlag("build.skip_invalid", pf.Lookup("skip-invalid"))
	_ = viper.BindPFlag("output.directory", pf.Lookup("output"))
	_ = viper.BindPFlag("output.json_index", pf.Lookup("json-index"))

	buildCmd.Flags().Bool("export", false, "Export posts and pages after loading")

	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)

	// Add subcommands
	rootCmd.AddCommand(buildCmd, getCmd, listCmd, slugCmd, settingsCmd, exportCmd, cacheCmd, doctorCmd, versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// signalContext cancels on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func newOrchestrator(cmd *cobra.Command) (*app.Orchestrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var progress io.Writer = cmd.ErrOrStderr()
	if quiet {
		progress = nil
	}

	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		CommonOptions: domain.CommonOptions{
			Verbose: verbose,
			DryRun:  dryRun,
			Force:   force,
		},
		Config:    cfg,
		Progress:  progress,
		LogOutput: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	return orch, nil
}

// openStore opens only the entry store for commands that read a finished build
func openStore() (domain.Store, error) {
	cfg, err := config.LoadLocal()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	s, err := app.OpenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, nil
}

var buildCmd = &cobra.Command{
	Use:   "build [collection...]",
	Short: "Load collections from the REST API into the store",
	Long: `Fetches every page of each collection, validates the records and replaces
the collection in the store. With no arguments the configured collections
(default: all) are loaded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var kinds []domain.Kind
		if len(args) > 0 {
			parsed, err := domain.ParseKinds(args)
			if err != nil {
				return err
			}
			kinds = parsed
		}

		ctx, cancel := signalContext()
		defer cancel()

		orch, err := newOrchestrator(cmd)
		if err != nil {
			return err
		}
		defer orch.Close()

		report, err := orch.Build(ctx, kinds...)
		if report != nil {
			printBuildReport(cmd.OutOrStdout(), report)
		}
		if err != nil {
			return err
		}

		if doExport, _ := cmd.Flags().GetBool("export"); doExport {
			exported, err := orch.Export(ctx)
			if err != nil {
				return err
			}
			printExportReport(cmd.OutOrStdout(), exported)
		}
		return nil
	},
}

func printBuildReport(w io.Writer, report *app.BuildReport) {
	for _, res := range report.Results {
		fmt.Fprintf(w, "%-14s fetched=%-5d stored=%-5d skipped=%d\n", res.Kind, res.Fetched, res.Stored, res.Skipped)
	}
	fmt.Fprintf(w, "Stored %d entries in %s\n", report.Stored(), report.Duration.Round(time.Millisecond))
}

func printExportReport(w io.Writer, report *app.ExportReport) {
	if dryRun {
		for _, p := range report.Paths {
			fmt.Fprintln(w, p)
		}
	}
	fmt.Fprintf(w, "Exported %d files (%d skipped)\n", report.Written, report.Skipped)
}

var getCmd = &cobra.Command{
	Use:   "get <collection> <id>",
	Short: "Print one stored entry as JSON",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseKind(args[0])
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		entry, err := s.Get(cmd.Context(), kind, args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), entry)
	},
}

// listing holds the fields shown by list, whichever kind they come from
type listing struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
}

func (l listing) label() string {
	switch {
	case l.Title.Rendered != "":
		return l.Title.Rendered
	case l.Name != "":
		return l.Name
	}
	return l.Slug
}

var listCmd = &cobra.Command{
	Use:   "list <collection>",
	Short: "List stored entries of a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseKind(args[0])
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.Collection(cmd.Context(), kind)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i := range entries {
			var l listing
			if err := entries[i].Decode(&l); err != nil {
				return err
			}
			fmt.Fprintf(out, "%-10s %-30s %s\n", entries[i].ID, l.Slug, l.label())
		}
		return nil
	},
}

var slugCmd = &cobra.Command{
	Use:   "slug <page id or slug>",
	Short: "Print the full URL path of a page, including parent slugs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		page, err := content.FindPage(cmd.Context(), s, args[0])
		if err != nil {
			return err
		}
		slug, err := content.ResolvePageSlug(cmd.Context(), s, page)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), slug)
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the stored site settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		settings, err := content.SiteSettings(cmd.Context(), s)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: run \"wploader build site-settings\" first", err)
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), settings)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored posts and pages to Markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		orch, err := newOrchestrator(cmd)
		if err != nil {
			return err
		}
		defer orch.Close()

		report, err := orch.Export(ctx)
		if err != nil {
			return err
		}
		printExportReport(cmd.OutOrStdout(), report)
		return nil
	},
}

// printJSON writes v as indented JSON, leaving rendered markup unescaped
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and connectivity",
	Long:  "Verifies the configuration, the REST API endpoint and local directories.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Checking setup...")
		allPassed := true

		fmt.Fprint(out, "  Config: ")
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(out, "FAILED (%v)\n", err)
			return nil
		}
		fmt.Fprintln(out, "OK")

		fmt.Fprint(out, "  REST API: ")
		if name, err := checkEndpoint(cmd, cfg); err != nil {
			fmt.Fprintf(out, "FAILED (%v)\n", err)
			allPassed = false
		} else {
			fmt.Fprintf(out, "OK (%s)\n", name)
		}

		fmt.Fprint(out, "  Write permissions: ")
		if checkWritePermissions() {
			fmt.Fprintln(out, "OK")
		} else {
			fmt.Fprintln(out, "FAILED")
			allPassed = false
		}

		fmt.Fprint(out, "  Store directory: ")
		if checkDir(cfg.Store.Directory) {
			fmt.Fprintf(out, "OK (%s)\n", cfg.Store.Directory)
		} else {
			fmt.Fprintln(out, "WARN (will be created on first use)")
		}

		fmt.Fprintln(out)
		if allPassed {
			fmt.Fprintln(out, "All critical checks passed!")
		} else {
			fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkEndpoint fetches the API root through the configured loaders
func checkEndpoint(cmd *cobra.Command, cfg *config.Config) (string, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTP.Timeout)
	defer cancel()

	probe := *cfg
	probe.Store.Backend = config.BackendMemory
	orch, err := app.NewOrchestrator(app.OrchestratorOptions{Config: &probe, LogOutput: io.Discard})
	if err != nil {
		return "", err
	}
	defer orch.Close()

	if _, err := orch.Build(ctx, domain.KindSiteSettings); err != nil {
		return "", err
	}
	settings, err := content.SiteSettings(ctx, orch.Store())
	if err != nil {
		return "", err
	}
	return settings.Name, nil
}

// checkWritePermissions checks if we can write to the current directory
func checkWritePermissions() bool {
	tmpFile := ".wploader_test_write"
	f, err := os.Create(tmpFile)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmpFile)
	return true
}

// checkDir checks if a directory exists
func checkDir(path string) bool {
	info, err := osStat(utils.ExpandPath(path))
	if err != nil {
		return false
	}
	return info.IsDir()
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the REST response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show response cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		stats := c.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Directory: %s\n", cacheDir())
		fmt.Fprintf(out, "Entries:   %d\n", stats["entries"])
		fmt.Fprintf(out, "LSM size:  %d bytes\n", stats["lsm_size"])
		fmt.Fprintf(out, "Log size:  %d bytes\n", stats["vlog_size"])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		if dryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "Would remove %d cached responses\n", c.Size())
			return nil
		}
		if err := c.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		return nil
	},
}

// cacheDir reads the cache location without requiring an endpoint
func cacheDir() string {
	if dir := viper.GetString("cache.directory"); dir != "" {
		return utils.ExpandPath(dir)
	}
	return config.CacheDir()
}

func openCache() (*cache.BadgerCache, error) {
	if err := viper.ReadInConfig(); err != nil && viper.ConfigFileUsed() != "" {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	c, err := cache.NewBadgerCache(cache.Options{Directory: cacheDir()})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return c, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
