package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"ideahub/internal/api"
	"ideahub/internal/config"
	"ideahub/internal/metrics"
	"ideahub/internal/session"
	"ideahub/internal/shell"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

	store := session.NewFileStore(cfg.SessionFile)
	collector := metrics.NewCollector()
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, store, collector, log)

	root := &cobra.Command{
		Use:   "ideahub",
		Short: "Terminal client for the Ideahub idea-sharing platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			shell.New(cfg, log, store, client, collector).Run()
			return nil
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell (the default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			shell.New(cfg, log, store, client, collector).Run()
			return nil
		},
	})

	var email, password string
	login := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session without entering the shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("both --email and --password are required")
			}
			result, err := client.Login(context.Background(), email, password)
			if err != nil {
				return err
			}
			if err := store.Save(&session.Session{
				Token:       result.Token,
				UserID:      result.UserID,
				UserName:    result.Name,
				IsModerator: result.IsModerator,
				IsAdmin:     result.IsAdmin,
			}); err != nil {
				return err
			}
			fmt.Printf("logged in as %s\n", result.Name)
			return nil
		},
	}
	login.Flags().StringVar(&email, "email", "", "account email")
	login.Flags().StringVar(&password, "password", "", "account password")
	root.AddCommand(login)

	root.AddCommand(&cobra.Command{
		Use:   "posts",
		Short: "Print the current post listing and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := client.AllPosts(context.Background())
			if err != nil {
				return err
			}
			for _, post := range posts {
				fmt.Printf("[%s] %s - %s (%d likes, %d comments)\n",
					post.Status.Label(), post.Title, post.Author.Name,
					post.LikeCount(), len(post.Comments))
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.Clear()
		},
	})

	if err := root.Execute(); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
