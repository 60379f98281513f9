package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/temcen/cinematch/internal/app"
	"github.com/temcen/cinematch/internal/catalog"
	"github.com/temcen/cinematch/internal/config"
	"github.com/temcen/cinematch/internal/database"
	"github.com/temcen/cinematch/internal/services"
	"github.com/temcen/cinematch/pkg/models"
)

// --- recommend ---

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print recommendations for an industry, user and genre",
	RunE: func(cmd *cobra.Command, args []string) error {
		industry, _ := cmd.Flags().GetString("industry")
		userID, _ := cmd.Flags().GetInt("user")
		count, _ := cmd.Flags().GetInt("count")
		genre, _ := cmd.Flags().GetString("genre")
		posters, _ := cmd.Flags().GetBool("posters")

		q := services.Query{
			Industry: models.Industry(industry),
			Count:    count,
			Genre:    strings.TrimSpace(genre),
		}
		if !q.Industry.Valid() {
			return fmt.Errorf("--industry must be %s or %s", models.IndustryHollywood, models.IndustryBollywood)
		}
		if q.Industry == models.IndustryHollywood {
			if !cmd.Flags().Changed("user") {
				return fmt.Errorf("--user is required for %s", models.IndustryHollywood)
			}
			q.UserID = &userID
			if q.Genre != "" {
				canonical, ok := catalog.CanonicalGenre(q.Genre)
				if !ok {
					return fmt.Errorf("unknown genre %q, see 'cinematch genres'", q.Genre)
				}
				q.Genre = canonical
			}
		}

		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer env.db.Close()

		if count < 1 || count > env.cfg.Recommendation.MaxCount {
			return fmt.Errorf("--count must be between 1 and %d", env.cfg.Recommendation.MaxCount)
		}

		recs, err := env.svcs.Recommender.Recommend(cmd.Context(), q)
		if err != nil {
			return err
		}

		var lookup services.PosterLookup
		if posters && env.svcs.Posters != nil {
			lookup = env.svcs.Posters
		}
		entries := services.BuildEntries(cmd.Context(), q, recs, lookup)

		return printEntries(cmd.OutOrStdout(), entries)
	},
}

func init() {
	recommendCmd.Flags().String("industry", string(models.IndustryHollywood), "Hollywood or Bollywood")
	recommendCmd.Flags().Int("user", 0, "user id (Hollywood only)")
	recommendCmd.Flags().Int("count", 5, "number of recommendations")
	recommendCmd.Flags().String("genre", "", "genre to filter on")
	recommendCmd.Flags().Bool("posters", false, "look up poster URLs")
}

// --- genres ---

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the Hollywood genres accepted by --genre",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, g := range catalog.SelectableGenres() {
			fmt.Fprintln(out, g)
		}
		return nil
	},
}

// --- users ---

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Show the range of Hollywood user ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		defer env.db.Close()

		lo, hi := env.svcs.Users.Range()
		fmt.Fprintf(cmd.OutOrStdout(), "user ids %d-%d\n", lo, hi)
		return nil
	},
}

type cliEnv struct {
	cfg  *config.Config
	db   *database.Database
	svcs *services.Services
}

// loadEnv builds the same services the server runs, against a private
// metrics registry.
func loadEnv(cmd *cobra.Command) (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		cfg.Logging.Level = logrus.WarnLevel.String()
	}
	logger := app.SetupLogger(&cfg.Logging)
	logger.SetOutput(cmd.ErrOrStderr())

	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	datasets, err := app.LoadDatasets(ctx, &cfg.Data, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	svcs := services.New(cfg, logger, db, datasets.Catalog, datasets.Matrix, prometheus.NewRegistry())
	return &cliEnv{cfg: cfg, db: db, svcs: svcs}, nil
}

func printEntries(w io.Writer, entries []models.RecommendationEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No matches found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTITLE\tINDUSTRY\tGENRE\tSCORE/TAG\tPOSTER")
	for _, e := range entries {
		poster := "-"
		if e.PosterURL != nil {
			poster = *e.PosterURL
		}
		genre := e.Genre
		if genre == "" {
			genre = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", e.Rank, e.Title, e.Industry, genre, e.ScoreOrTag, poster)
	}
	return tw.Flush()
}
