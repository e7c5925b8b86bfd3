package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutorkit/lessonbook/cmd/config"
)

func NewDeleteCmd(app **config.App, student *string) *cobra.Command {
	var (
		deleteDate   string
		deleteCourse string
		deleteType   string
		deletePath   string
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a content item",
		Long: `Delete a content item: remove its manifest record (pruning any
containers left empty), then delete the stored document. A failed file
delete leaves a stale file behind but never a dangling manifest entry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := (*app).Controller(*student)
			if err != nil {
				return err
			}
			removed, err := ctrl.DeleteEntry(deleteDate, deleteCourse, deleteType, deletePath)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %q (%s)\n", removed.Title, removed.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&deleteDate, "date", "", "Entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&deleteCourse, "course", "", "Course key")
	cmd.Flags().StringVarP(&deleteType, "type", "t", "", "Content type key")
	cmd.Flags().StringVar(&deletePath, "path", "", "Entry content path")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}
