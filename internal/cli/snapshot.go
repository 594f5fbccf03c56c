package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pathprobe/pathprobe/pkg/store"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Archive and inspect parsed link-state databases",
	}

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

// snapshotSaveCommand creates the "snapshot save" subcommand.
func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save <json-or-db-file>",
		Short: "Save a parsed database as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			db, err := loadDatabase(input)
			if err != nil {
				return err
			}

			st, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			snap := &store.Snapshot{
				ID:        uuid.NewString(),
				Name:      name,
				Source:    input,
				CreatedAt: time.Now().UTC(),
				Stats:     db.Stats(),
				Database:  db,
			}
			if snap.Name == "" {
				snap.Name = input
			}

			if err := st.Save(cmd.Context(), snap); err != nil {
				return err
			}

			printSuccess("Saved snapshot %s", snap.ID)
			printKeyValue("name", snap.Name)
			printKeyValue("routers", fmt.Sprintf("%d", snap.Stats.Routers))
			printKeyValue("networks", fmt.Sprintf("%d", snap.Stats.Networks))
			printKeyValue("summaries", fmt.Sprintf("%d", snap.Stats.Summaries))
			printNextStep("Inspect it", fmt.Sprintf("%s snapshot show %s", appName, snap.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "snapshot name (defaults to the input path)")

	return cmd
}

// snapshotListCommand creates the "snapshot list" subcommand.
func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			snaps, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				printInfo("No snapshots saved")
				return nil
			}

			for _, snap := range snaps {
				printInfo("%s  %s", snap.ID, snap.Name)
				printDetail("%s · %d routers · %d networks · %d summaries",
					snap.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					snap.Stats.Routers, snap.Stats.Networks, snap.Stats.Summaries)
			}
			return nil
		},
	}
}

// snapshotShowCommand creates the "snapshot show" subcommand.
func (c *CLI) snapshotShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a snapshot's database as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			snap, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := writeDatabase(snap.Database, output); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Wrote snapshot %s", snap.ID)
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// snapshotDeleteCommand creates the "snapshot delete" subcommand.
func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted snapshot %s", args[0])
			return nil
		},
	}
}
