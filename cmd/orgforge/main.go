package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"orgforge/internal/config"
	"orgforge/internal/db"
	"orgforge/internal/engine"
	"orgforge/internal/logger"
	"orgforge/internal/migrate"
	"orgforge/internal/namegen"
	"orgforge/internal/repo"
	"orgforge/internal/scrape"
	"orgforge/internal/server"
	"orgforge/internal/text"
	"orgforge/internal/validate"
)

var rootCmd = &cobra.Command{
	Use:   "orgforge",
	Short: "Synthetic SaaS workspace dataset generator",
	Long: `Orgforge generates one internally-consistent project-management dataset
for a fictional mid-size SaaS company: an organization, its workforce,
teams, projects, tasks, custom fields, comments and activity stories,
persisted to a SQLite database in <workspace>/output/.

Runs are reproducible: the same seed and config produce the same dataset.`,
}

func main() {
	cobra.OnInitialize(initViper)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initViper() {
	viper.SetEnvPrefix("ORGFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (defaults to <workspace>/orgforge.yml when present)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("dev", false, "human-readable log output")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("dev", rootCmd.PersistentFlags().Lookup("dev"))
}

func registerCommands() {
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(companiesCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(configCmd())
}

// loadConfig resolves the run config: explicit --config path, then
// <workspace>/orgforge.yml, then built-in defaults.
func loadConfig() (*config.Config, error) {
	if path := viper.GetString("config"); path != "" {
		return config.FromFile(path)
	}
	path := filepath.Join(viper.GetString("workspace"), "orgforge.yml")
	if _, err := os.Stat(path); err == nil {
		return config.FromFile(path)
	}
	return config.Default(), nil
}

func generateCmd() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Setup(viper.GetBool("dev"))
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}

			workspace := viper.GetString("workspace")
			path := db.Path(workspace)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists; remove it or pick another workspace", path)
			}
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}

			e := &engine.Engine{
				DB:     conn,
				Repo:   repo.Repo{DB: conn},
				Config: cfg,
				Logger: log,
			}
			if cfg.Scraper.Enabled {
				client := &scrape.Client{Endpoint: cfg.Scraper.Endpoint, Logger: log}
				e.Companies = client.CompaniesOrFallback(cmd.Context())
			}
			if cfg.TextAPI.Endpoint != "" {
				if key := cfg.TextAPIKey(); key != "" {
					e.TextSource = &text.Remote{Endpoint: cfg.TextAPI.Endpoint, APIKey: key, Model: cfg.TextAPI.Model}
				} else {
					log.Warn().Str("env", cfg.TextAPI.KeyEnv).
						Msg("text API configured but credential missing, using local comment templates")
				}
			}

			res, err := e.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			if viper.GetBool("json") {
				return printJSON(res)
			}
			fmt.Printf("dataset written to %s in %s\n", path, res.Elapsed.Round(time.Millisecond))
			printCounts(res.Counts)
			printValidation(res.Validation)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "override the config seed")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Run the consistency pass over an existing dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				res, err := validate.Run(ctx, r)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(res)
				}
				printValidation(res)
				return nil
			})
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dataset statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				stats, err := r.Statistics(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(stats)
				}
				printCounts64(stats.Counts)
				fmt.Printf("database size: %.1f MiB\n", float64(stats.SizeBytes)/(1<<20))
				return nil
			})
		},
	}
}

func companiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List candidate company identities",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Setup(viper.GetBool("dev"))
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			companies := namegen.Companies()
			if cfg.Scraper.Enabled {
				client := &scrape.Client{Endpoint: cfg.Scraper.Endpoint, Logger: log}
				companies = client.CompaniesOrFallback(cmd.Context())
			}
			if viper.GetBool("json") {
				return printJSON(companies)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Name", "Domain", "Industry"})
			for _, c := range companies {
				tw.AppendRow(table.Row{c.Name, c.Domain, c.Industry})
			}
			tw.Render()
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset inspector API",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			handler := server.New(server.Config{Repo: repo.Repo{DB: conn}, BasePath: basePath})
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving dataset API on http://%s%s\n", addr, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8640", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v1", "API base path")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Manage generation config"}
	cfg.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default config to <workspace>/orgforge.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(viper.GetString("workspace"), "orgforge.yml")
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			data, err := config.Default().ToYAML()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	})
	cfg.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the resolved config",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(c)
			}
			fmt.Println("config ok")
			return nil
		},
	})
	return cfg
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	workspace := viper.GetString("workspace")
	path := db.Path(workspace)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no dataset at %s; run `orgforge generate` first", path)
	}
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	return fn(ctx, repo.Repo{DB: conn})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCounts(counts map[string]int) {
	c64 := make(map[string]int64, len(counts))
	for k, v := range counts {
		c64[k] = int64(v)
	}
	printCounts64(c64)
}

func printCounts64(counts map[string]int64) {
	tables := make([]string, 0, len(counts))
	for t := range counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Table", "Rows"})
	for _, t := range tables {
		tw.AppendRow(table.Row{t, counts[t]})
	}
	tw.Render()
}

func printValidation(res validate.Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Check", "Severity", "Result", "Detail"})
	for _, c := range res.Checks {
		result := "pass"
		if !c.Passed {
			result = "FAIL"
		}
		tw.AppendRow(table.Row{c.Name, c.Severity, result, c.Detail})
	}
	tw.Render()
	if res.Passed {
		fmt.Println("consistency: ok")
	} else {
		fmt.Printf("consistency: %d failed check(s)\n", res.FailedCount)
	}
}
