package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutorkit/lessonbook/cmd/config"
	"github.com/tutorkit/lessonbook/pkg/editor"
)

func NewEditCmd(app **config.App, student *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Manage the edit session for an existing entry",
		Long: `Manage the edit session. 'edit start' loads an entry so the next
'lessonbook save' updates it in place (or relocates it with --move or
--fork). The session is persisted per student, so it survives across
invocations until a save lands or 'edit exit' clears it.`,
	}

	cmd.AddCommand(newEditStartCmd(app, student))
	cmd.AddCommand(newEditStatusCmd(app, student))
	cmd.AddCommand(newEditExitCmd(app, student))
	cmd.AddCommand(newEditReloadCmd(app, student))

	return cmd
}

func newEditStartCmd(app **config.App, student *string) *cobra.Command {
	var (
		startDate   string
		startCourse string
		startType   string
		startPath   string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Load an entry for editing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := (*app).Controller(*student)
			if err != nil {
				return err
			}
			form, err := ctrl.LoadForEdit(startDate, startCourse, startType, startPath)
			if err != nil {
				return err
			}
			fmt.Printf("Editing %s\n", startPath)
			printForm(form)
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "date", "", "Entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&startCourse, "course", "", "Course key")
	cmd.Flags().StringVarP(&startType, "type", "t", "", "Content type key")
	cmd.Flags().StringVar(&startPath, "path", "", "Entry content path")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func newEditStatusCmd(app **config.App, student *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the in-flight edit session, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := (*app).Controller(*student)
			if err != nil {
				return err
			}
			s := ctrl.Session()
			if s == nil {
				fmt.Println("No edit in progress.")
				return nil
			}
			fmt.Printf("Editing entry for %s:\n", ctrl.Student())
			fmt.Printf("  Date:   %s\n", s.Date)
			fmt.Printf("  Course: %s\n", s.Course)
			fmt.Printf("  Type:   %s\n", s.Type)
			fmt.Printf("  Path:   %s\n", s.Path)
			return nil
		},
	}
}

func newEditExitCmd(app **config.App, student *string) *cobra.Command {
	return &cobra.Command{
		Use:   "exit",
		Short: "Discard the edit session without saving",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := (*app).Controller(*student)
			if err != nil {
				return err
			}
			if ctrl.Session() == nil {
				fmt.Println("No edit in progress.")
				return nil
			}
			ctrl.ExitEdit()
			fmt.Println("Edit session cleared.")
			return nil
		},
	}
}

func newEditReloadCmd(app **config.App, student *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Re-read the edited entry, discarding pending changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := (*app).Controller(*student)
			if err != nil {
				return err
			}
			form, err := ctrl.Reload()
			if err != nil {
				return err
			}
			fmt.Println("Reloaded from the stored entry.")
			printForm(form)
			return nil
		},
	}
}

func printForm(f editor.Form) {
	fmt.Printf("  Date:     %s\n", f.Date)
	fmt.Printf("  Course:   %s\n", f.Course)
	fmt.Printf("  Type:     %s\n", f.Type)
	fmt.Printf("  Title:    %s\n", f.Title)
	fmt.Printf("  Filename: %s\n", f.Filename)
	fmt.Printf("  Body:     %d bytes\n", len(f.Body))
}
