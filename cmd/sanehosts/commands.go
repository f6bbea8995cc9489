package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/ingest"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			summaries, err := svc.Store.List()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Name", "Kind", "Entries", "Updated"})
			for _, s := range summaries {
				t.AppendRow(table.Row{s.Name, s.Kind, s.EntryCount,
					s.UpdatedAt.Format("2006-01-02 15:04")})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <profile>",
		Short: "Print a profile's entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			p, err := svc.Store.Get(args[0])
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"IP", "Hostnames", "Enabled", "Comment"})
			for _, e := range p.Entries {
				t.AppendRow(table.Row{e.IP, strings.Join(e.Hostnames, " "), e.Enabled, e.Comment})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <profile>",
		Short: "Write a profile to the hosts file (backs up first, flushes DNS after)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			applied, err := svc.Apply(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("applied profile %q at %s\n",
				applied.ProfileName, applied.AppliedAt.Format("15:04:05"))
			return nil
		},
	}
}

func newIngestCmd() *cobra.Command {
	var (
		urls       []string
		maxRecords int
	)
	cmd := &cobra.Command{
		Use:   "ingest <profile>",
		Short: "Build a profile from one or more remote hosts/blocklist URLs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(urls) == 0 {
				return fmt.Errorf("at least one --url is required")
			}
			svc, err := loadService()
			if err != nil {
				return err
			}

			sources := make([]ingest.Source, 0, len(urls))
			for i, u := range urls {
				sources = append(sources, ingest.Source{
					Name: fmt.Sprintf("%s-%d", args[0], i+1),
					URL:  u,
				})
			}

			p, truncated, err := svc.Ingest(cmd.Context(), args[0], sources, maxRecords)
			if err != nil {
				return err
			}
			fmt.Printf("profile %q saved with %d entries from %d source(s)\n",
				p.Name, len(p.Entries), len(sources))
			if truncated {
				fmt.Println("warning: record cap reached, sources were not read to the end")
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&urls, "url", nil, "source URL (repeatable; declaration order breaks dedup ties)")
	cmd.Flags().IntVar(&maxRecords, "max-records", 0, "per-source record cap (0 = configured default)")
	return cmd
}

func newBackupCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up the current hosts file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			if list {
				backups, err := svc.Backups.List()
				if err != nil {
					return err
				}
				for _, b := range backups {
					fmt.Printf("%s\t%d bytes\t%s\n", b.Name, b.Size,
						b.Modified.Format("2006-01-02 15:04:05"))
				}
				return nil
			}
			name, err := svc.Backups.Create()
			if err != nil {
				return err
			}
			fmt.Println("created", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list existing backups instead of creating one")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup>",
		Short: "Restore a hosts file backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}
			if err := svc.Backups.Restore(args[0]); err != nil {
				return err
			}
			fmt.Println("restored", args[0])
			return nil
		},
	}
}
