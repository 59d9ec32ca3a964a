package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fialovy/redditpersona/internal/character"
	"github.com/fialovy/redditpersona/internal/config"
	"github.com/fialovy/redditpersona/internal/persona"
	"github.com/fialovy/redditpersona/internal/reddit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	generateLimit    int
	generateOutput   string
	generateMaxChars int
	generateOffline  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <username>",
	Short: "Generate a character definition from a user's comments",
	Long:  "Fetch the user's recent public comments and the content they replied to, and assemble a Character.AI definition under the 32,000 character ceiling. The definition goes to stdout unless --output is given.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateLimit, "limit", "l", 0, "Number of recent comments to analyze (default from config)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file path (default: stdout)")
	generateCmd.Flags().IntVar(&generateMaxChars, "max-chars", 0, "Definition character ceiling (default 32000)")
	generateCmd.Flags().BoolVar(&generateOffline, "offline", false, "Generate from the local cache without network access")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	username := strings.TrimPrefix(strings.TrimSpace(args[0]), "u/")
	if username == "" {
		return fmt.Errorf("username required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open cache db: %w", err)
	}
	defer db.Close()

	limit := generateLimit
	if limit <= 0 {
		limit = cfg.Generator.Limit
	}

	client := reddit.New(cfg.Reddit, log)
	svc := persona.New(db, client, engineOptions(cfg.Generator), log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	def, err := svc.Generate(ctx, persona.Request{
		Username: username,
		Limit:    limit,
		MaxChars: generateMaxChars,
		Offline:  generateOffline,
	})
	if err != nil {
		return err
	}

	for _, w := range def.Warnings {
		log.Debug("pipeline warning", zap.String("kind", string(w.Kind)), zap.String("detail", w.Detail))
	}

	ceiling := generateMaxChars
	if ceiling <= 0 {
		ceiling = cfg.Generator.MaxChars
	}

	if generateOutput != "" {
		if err := os.WriteFile(generateOutput, []byte(def.Text), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "definition saved to %s\n", generateOutput)
	} else {
		fmt.Println(def.Text)
	}

	fmt.Fprintf(os.Stderr, "length: %d/%d chars, exchanges: %d", len(def.Text), ceiling, def.Included)
	if def.Truncated {
		fmt.Fprintf(os.Stderr, " (%d more did not fit)", def.Skipped)
	}
	fmt.Fprintln(os.Stderr)

	return nil
}

func engineOptions(g config.GeneratorConfig) character.Options {
	return character.Options{
		MaxChars:      g.MaxChars,
		MinCommentLen: g.MinCommentLen,
		MaxCommentLen: g.MaxCommentLen,
		MaxBlockLen:   g.MaxBlockLen,
	}
}
