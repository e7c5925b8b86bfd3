package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tutorkit/lessonbook/cmd/config"
)

func NewStudentCmd(app **config.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Manage the student roster",
		Long: `Manage the student roster. Every calendar is scoped to one student;
commands that take --student fall back to the configured default, then
to the most recently used roster entry.`,
	}

	cmd.AddCommand(newStudentAddCmd(app))
	cmd.AddCommand(newStudentListCmd(app))
	cmd.AddCommand(newStudentRmCmd(app))

	return cmd
}

func newStudentAddCmd(app **config.App) *cobra.Command {
	var addName string

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Register a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app
			id := args[0]
			if err := a.Roster.Add(id, addName); err != nil {
				return err
			}
			// Materialize the seeded manifest so the calendar exists
			// immediately.
			m, err := a.Store.ReadManifest(id)
			if err != nil {
				return err
			}
			if err := a.Store.WriteManifest(id, m); err != nil {
				return err
			}
			fmt.Printf("Registered student %q\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&addName, "name", "", "Display name (default: the id)")

	return cmd
}

func newStudentListCmd(app **config.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered students, most recently used first",
		RunE: func(cmd *cobra.Command, args []string) error {
			students, err := (*app).Roster.List()
			if err != nil {
				return err
			}
			if len(students) == 0 {
				fmt.Println("No students registered.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLAST USED")
			for _, s := range students {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, s.LastUsed.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newStudentRmCmd(app **config.App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a student from the roster",
		Long: `Remove a student from the roster. The manifest and content files
stay on disk; only the roster record is dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*app).Roster.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed student %q from the roster\n", args[0])
			return nil
		},
	}
}
