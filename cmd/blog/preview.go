package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog/internal/articles"
	"github.com/goliatone/go-blog/internal/highlight"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func (c *cli) previewCmd() *cobra.Command {
	var htmlOnly bool
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Normalize a single markdown file and print the article",
		Long: `Normalize a markdown file that does not need to live in the content
directory. The article id is derived from the file name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			opts := interfaces.ParseOptions{
				Extensions: cfg.Markdown.Extensions,
				HardWraps:  cfg.Markdown.HardWraps,
				SafeMode:   cfg.Markdown.SafeMode,
			}
			parser := markdown.NewGoldmarkParser(opts,
				markdown.WithHighlighter(highlight.New(highlight.Config{Style: cfg.Markdown.Style})))
			normalizer := articles.NewNormalizer(parser,
				articles.WithParseOptions(opts),
				articles.WithSummaryLength(cfg.Content.SummaryLength),
			)

			meta, content := markdown.ExtractMetadata(data)
			article := normalizer.Normalize(cmd.Context(), markdown.SourceID(filepath.Base(args[0])), meta, content)
			if htmlOnly {
				_, err := fmt.Fprintln(c.out, article.HTML)
				return err
			}
			return writeIndented(c, article)
		},
	}
	cmd.Flags().BoolVar(&htmlOnly, "html", false, "print only the rendered HTML")
	return cmd
}

func (c *cli) cssCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "css",
		Short: "Print the stylesheet for the configured highlight style",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return highlight.New(highlight.Config{Style: cfg.Markdown.Style}).WriteCSS(c.out)
		},
	}
}
