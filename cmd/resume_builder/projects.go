package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Inspect and manage stored projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored projects",
	RunE:  runProjectsList,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a stored project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	rootCmd.AddCommand(projectsCmd)
}

func runProjectsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	metas, err := st.ListMetadata(ctx)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("No projects.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTEMPLATE\tUPDATED")
	for _, m := range metas {
		updated := time.UnixMilli(m.UpdatedAt).Format(time.RFC3339)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Template, updated)
	}
	return w.Flush()
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	id := args[0]
	p, err := st.LoadProject(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("project not found: %s", id)
	}
	if err := st.DeleteProject(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted %s (%s)\n", p.Name, id)
	return nil
}
