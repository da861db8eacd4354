package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dodai/navigator/internal/services"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (c *cli) newResponsesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "responses",
		Short: "Inspect stored survey responses",
	}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List responses, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			opts := services.ListOptions{Offset: offset}
			if cmd.Flags().Changed("limit") {
				opts.Limit = &limit
			}
			rs, err := c.surveyService(store, nil).List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"surveys": rs, "total": len(rs)})
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "page size (configured default when unset)")
	list.Flags().IntVar(&offset, "offset", 0, "rows to skip")

	var profile bool
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			r, err := c.surveyService(store, nil).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if profile {
				text, err := services.Profile(r)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		},
	}
	show.Flags().BoolVar(&profile, "profile", false, "print the template profile instead of the raw record")

	cmd.AddCommand(list, show)
	return cmd
}

func (c *cli) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print total and today's response counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			st, err := c.surveyService(store, nil).Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}
}

func (c *cli) newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := c.openIndex()
			if err != nil {
				return err
			}
			if idx == nil {
				return fmt.Errorf("search.index_path is empty; search is disabled")
			}
			defer idx.Close()
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			rs, err := store.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			if err := idx.Rebuild(rs); err != nil {
				return err
			}
			n, err := idx.Count()
			if err != nil {
				return err
			}
			c.log.Info("index rebuilt", zap.Int("responses", len(rs)), zap.Uint64("documents", n))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d responses\n", len(rs))
			return err
		},
	}
}

func (c *cli) newExportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every response as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			res, err := c.surveyService(store, nil).Export(cmd.Context(), services.ExportParams{Format: format})
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(res.Data)
				return err
			}
			if err := os.WriteFile(out, res.Data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			c.log.Info("export written", zap.String("path", out), zap.String("format", format))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "wide", "wide or long")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
