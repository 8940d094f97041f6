// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"storyboarder/internal/config"
	"storyboarder/internal/database"
	"storyboarder/internal/handlers"
	"storyboarder/internal/models"
	"storyboarder/internal/store"
)

const (
	recentStoryboards = 10
	recentLogins      = 5
)

func newStatusCommand(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database, AI provider and recent storyboard status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(*verbose)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			version, err := database.Version(db)
			if err != nil {
				return err
			}

			counts := make([][]string, 0, 5)
			for _, c := range []struct {
				name  string
				count func() (int, error)
			}{
				{"clients", store.NewClientStore(db).Count},
				{"creators", store.NewCreatorStore(db).Count},
				{"templates", store.NewTemplateStore(db).Count},
				{"storyboards", store.NewStoryboardStore(db).Count},
				{"users", store.NewUserStore(db).Count},
			} {
				n, err := c.count()
				if err != nil {
					return err
				}
				counts = append(counts, []string{c.name, strconv.Itoa(n)})
			}

			recent, err := store.NewStoryboardStore(db).List(recentStoryboards, 0)
			if err != nil {
				return err
			}
			logins, err := store.NewUserStore(db).RecentLogins(recentLogins)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "database at version %d\n\n", version)
			fmt.Fprintln(out, renderTable([]string{"Records", "Count"}, counts, 1))
			fmt.Fprintln(out)
			writeProviders(out, cfg)
			fmt.Fprintln(out)
			writeStoryboards(out, recent)
			fmt.Fprintln(out)
			writeLogins(out, logins)
			return nil
		},
	}
}

func writeProviders(w io.Writer, cfg *config.Config) {
	rows := make([][]string, 0, 4)
	for _, p := range providerInfo(cfg) {
		state := "no key"
		if p.HasKey {
			state = "ready"
		}
		if p.Name == cfg.AIProvider {
			state += " (active)"
		}
		rows = append(rows, []string{p.Label, p.Model, state})
	}
	fmt.Fprintln(w, renderTable([]string{"Provider", "Model", "State"}, rows))
}

func writeStoryboards(w io.Writer, list []models.Storyboard) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no storyboards yet")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, sb := range list {
		client := "-"
		if sb.ClientName != nil {
			client = *sb.ClientName
		}
		rows = append(rows, []string{sb.CreatedAt.Format("2006-01-02 15:04"), sb.Title, client, string(sb.Status)})
	}
	fmt.Fprintln(w, renderTable([]string{"Created", "Title", "Client", "Status"}, rows))
}

func writeLogins(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "nobody has signed in yet")
		return
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Email, u.DisplayName, u.LastLoginAt.Local().Format("2006-01-02 15:04")})
	}
	fmt.Fprintln(w, renderTable([]string{"User", "Name", "Last sign-in"}, rows))
}

func writeMigrations(w io.Writer, list []database.Migration) {
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		applied := "pending"
		if m.Applied {
			applied = m.AppliedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{strconv.FormatInt(m.Version, 10), m.Name, applied})
	}
	fmt.Fprintln(w, renderTable([]string{"Version", "Migration", "Applied"}, rows, 0))
}

// providerInfo describes every supported provider for the API and the CLI.
func providerInfo(cfg *config.Config) []handlers.AIProviderInfo {
	return []handlers.AIProviderInfo{
		{Name: "openai", Label: "OpenAI", HasKey: cfg.OpenAIKey != "", Model: cfg.OpenAIModel, KeyEnvVar: "OPENAI_API_KEY"},
		{Name: "gemini", Label: "Google Gemini", HasKey: cfg.GeminiKey != "", Model: cfg.GeminiModel, KeyEnvVar: "GEMINI_API_KEY"},
		{Name: "claude", Label: "Anthropic Claude", HasKey: cfg.ClaudeKey != "", Model: cfg.ClaudeModel, KeyEnvVar: "CLAUDE_API_KEY"},
		{Name: "mistral", Label: "Mistral", HasKey: cfg.MistralKey != "", Model: cfg.MistralModel, KeyEnvVar: "MISTRAL_API_KEY"},
	}
}
