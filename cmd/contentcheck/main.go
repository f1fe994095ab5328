// contentcheck loads the content directory exactly like the server does and
// reports what would be served, so broken posts are caught before deploy.
//
//	go run ./cmd/contentcheck --config config.yml
//	go run ./cmd/contentcheck --dir content --hits
//	go run ./cmd/contentcheck slug "My New Post"
//	go run ./cmd/contentcheck views hello-world
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"mdblog/internal/config"
	"mdblog/internal/content"
	"mdblog/internal/logger"
	"mdblog/internal/models"
	"mdblog/internal/repository"
	"mdblog/internal/utils"
)

var (
	flagConfig string
	flagDir    string
	flagHits   bool
)

var rootCmd = &cobra.Command{
	Use:           "contentcheck",
	Short:         "Validate the blog content directory",
	Long:          "contentcheck parses every post the way the server does and lists what would be published.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

var slugCmd = &cobra.Command{
	Use:   "slug <title>",
	Short: "Print the file name to use for a post title",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), slug.Make(strings.Join(args, " "))+".md")
	},
}

var viewsCmd = &cobra.Command{
	Use:   "views <slug>...",
	Short: "Print the persisted view count of each slug",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runViews,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config.yml", "path to the YAML config file")
	rootCmd.Flags().StringVar(&flagDir, "dir", "", "content directory (overrides the config)")
	rootCmd.Flags().BoolVar(&flagHits, "hits", false, "show persisted view counts from the database")

	rootCmd.AddCommand(slugCmd, viewsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "contentcheck: %v\n", err)
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagDir != "" {
		cfg.Content.Dir = flagDir
	}

	log, err := logger.New(logger.Config{Level: "warn", Format: "console"})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	posts, err := content.NewLoader(content.WithLogger(log)).LoadPosts(cfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("%s: %w", describe(err), err)
	}

	var hits map[string]int64
	if flagHits {
		hits, err = loadHits(cfg.Database.Path, log)
		if err != nil {
			return fmt.Errorf("read view counts: %w", err)
		}
	}

	printPosts(cmd, posts, hits)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d posts OK in %s\n", len(posts), cfg.Content.Dir)
	return nil
}

func runViews(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	repo, closeDB, err := openHits(cfg.Database.Path, logger.NewNop())
	if err != nil {
		return fmt.Errorf("open view counts: %w", err)
	}
	defer closeDB()

	for _, s := range args {
		hits, err := repo.Get(s)
		if err != nil {
			return fmt.Errorf("read view count of %q: %w", s, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", s, hits)
	}
	return nil
}

// openHits opens the view count database and makes sure its table exists.
func openHits(path string, log logger.Logger) (*repository.HitRepository, func(), error) {
	db, err := utils.InitDatabase(path)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	repo := repository.NewHitRepository(db, log)
	if err := repo.EnsureSchema(); err != nil {
		closeDB()
		return nil, nil, err
	}
	return repo, closeDB, nil
}

func loadHits(path string, log logger.Logger) (map[string]int64, error) {
	repo, closeDB, err := openHits(path, log)
	if err != nil {
		return nil, err
	}
	defer closeDB()

	records, err := repo.ScanAll()
	if err != nil {
		return nil, err
	}
	hits := make(map[string]int64, len(records))
	for _, rec := range records {
		hits[rec.PostSlug] = rec.Hits
	}
	return hits, nil
}

func printPosts(cmd *cobra.Command, posts []models.Post, hits map[string]int64) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if hits != nil {
		fmt.Fprintln(w, "DATE\tSLUG\tTITLE\tVIEWS")
	} else {
		fmt.Fprintln(w, "DATE\tSLUG\tTITLE")
	}
	for _, p := range posts {
		title := p.Title
		if p.IsLinkPost() {
			title += " [link]"
		}
		if hits != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.Date.Format("2006-01-02"), p.Slug, title, hits[p.Slug])
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Date.Format("2006-01-02"), p.Slug, title)
		}
	}
	_ = w.Flush()
}

// describe returns a hint about what to fix for a load error.
func describe(err error) string {
	var (
		dirErr    *content.ContentDirectoryError
		nameErr   *content.InvalidFilenameError
		fmErr     *content.MalformedFrontmatterError
		schemaErr *content.FrontmatterSchemaError
		dupErr    *content.DuplicateSlugError
	)
	switch {
	case errors.As(err, &dirErr):
		return "cannot read content directory"
	case errors.As(err, &nameErr):
		return "bad file name (use lowercase letters, digits and hyphens)"
	case errors.As(err, &fmErr):
		return "frontmatter must be enclosed in --- lines"
	case errors.As(err, &schemaErr):
		return "frontmatter needs title and date (YYYY-MM-DD)"
	case errors.As(err, &dupErr):
		return "two files map to the same URL"
	default:
		return "cannot load posts"
	}
}
