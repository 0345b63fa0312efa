// Package main implements the blog CLI: the HTTP gateway plus content tools.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the flags shared by every command.
type cli struct {
	out        io.Writer
	configPath string
	contentDir string
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	root := &cobra.Command{
		Use:   "blog",
		Short: "Markdown blog content pipeline and gateway",
		Long: `blog serves a markdown article collection together with the email
verification gateway and the GitHub Issues posts proxy.

Configuration is read from the --config YAML file and BLOG_ environment
variables, e.g. BLOG_AUTH_JWT_SECRET or BLOG_GITHUB_REPO.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&c.contentDir, "content-dir", "", "override content.dir")

	root.AddCommand(c.serveCmd())
	root.AddCommand(c.articlesCmd())
	root.AddCommand(c.previewCmd())
	root.AddCommand(c.cssCmd())
	return root
}

func (c *cli) loadConfig() (runtimeconfig.Config, error) {
	cfg, err := runtimeconfig.Load(c.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if c.contentDir != "" {
		cfg.Content.Dir = c.contentDir
	}
	return cfg, nil
}

// container loads the config, builds the services and refreshes the
// article collection once.
func (c *cli) container(ctx context.Context) (*di.Container, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := container.ArticleService().Refresh(ctx); err != nil {
		container.Close()
		return nil, err
	}
	return container, nil
}
