package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) articlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Inspect the article collection",
	}

	var category, tag string
	list := &cobra.Command{
		Use:   "list",
		Short: "List articles newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			container, err := c.container(ctx)
			if err != nil {
				return err
			}
			defer container.Close()

			store := container.ArticleService().Store()
			items, err := store.List(ctx)
			switch {
			case category != "":
				items, err = store.ByCategory(ctx, category)
			case tag != "":
				items, err = store.ByTag(ctx, tag)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tREAD\tTITLE")
			for _, article := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					article.ID, article.Date.Format("2006-01-02"), article.Category, article.ReadTime, article.Title)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&category, "category", "", "only articles in this category")
	list.Flags().StringVar(&tag, "tag", "", "only articles with this tag")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one article as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := c.container(ctx)
			if err != nil {
				return err
			}
			defer container.Close()

			article, err := container.ArticleService().Store().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return writeIndented(c, article)
		},
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "Print category and tag aggregates as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			container, err := c.container(ctx)
			if err != nil {
				return err
			}
			defer container.Close()

			store := container.ArticleService().Store()
			cats, _ := store.Categories(ctx)
			tags, _ := store.Tags(ctx)
			return writeIndented(c, map[string]any{"categories": cats, "tags": tags})
		},
	}

	cmd.AddCommand(list, show, categories)
	return cmd
}

func writeIndented(c *cli, value any) error {
	encoder := json.NewEncoder(c.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
