package main

import (
	"errors"
	"fmt"

	"Remediation-server/config"

	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/api/iterator"
)

func newGCSCheckCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gcs-check",
		Short: "List Cloud Storage buckets to verify Google Cloud credentials",
		Long: `Uses Application Default Credentials to list the buckets of a project. Run it
before applying generated gcloud commands to confirm the environment is authenticated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if cfg.GCPProject == "" {
				return fmt.Errorf("a project is required: pass --project or set GCP_PROJECT")
			}

			ctx := cmd.Context()
			client, err := storage.NewClient(ctx)
			if err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Buckets in %s:\n", cfg.GCPProject)
			count := 0
			it := client.Buckets(ctx, cfg.GCPProject)
			for {
				attrs, err := it.Next()
				if errors.Is(err, iterator.Done) {
					break
				}
				if err != nil {
					return fmt.Errorf("failed to list buckets: %w", err)
				}
				fmt.Fprintf(out, "  %s\n", attrs.Name)
				count++
			}
			fmt.Fprintf(out, "%d bucket(s)\n", count)
			return nil
		},
	}

	cmd.Flags().StringP("project", "p", "", "Google Cloud project ID")
	_ = v.BindPFlag("gcp_project", cmd.Flags().Lookup("project"))

	return cmd
}
