package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tutorkit/lessonbook/cmd/config"
	"github.com/tutorkit/lessonbook/pkg/editor"
)

func NewSaveCmd(app **config.App, student *string) *cobra.Command {
	var (
		saveDate     string
		saveCourse   string
		saveType     string
		saveTitle    string
		saveFilename string
		saveContent  string
		saveFile     string
		saveMove     bool
		saveFork     bool
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a content item into the curriculum calendar",
		Long: `Save a content item: render it as a standalone document, write it to
the content store, and record it in the student's manifest.

When an edit is in progress (see 'lessonbook edit start') and the
date, course, type, or filename changed, the save is a relocation and
you must choose a disposition: --move removes the original entry and
file, --fork keeps the original and adds a copy.

Examples:
  # New homework item, body from a file
  lessonbook save --date 2024-01-03 --course math --type homework \
      --title "Fractions" --content-file fractions.html

  # Body piped on stdin
  cat body.html | lessonbook save --date 2024-01-03 --course math --type material --title "Intro"

  # Metadata-only update of the entry being edited
  lessonbook save --date 2024-01-03 --course math --type homework --title "Fractions (v2)"

  # Relocate the edited entry to another date
  lessonbook save --date 2024-01-04 --course math --type homework --title "Fractions" --move`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app

			ctrl, err := a.Controller(*student)
			if err != nil {
				return err
			}

			body := saveContent
			if saveFile != "" {
				data, err := os.ReadFile(saveFile)
				if err != nil {
					return fmt.Errorf("read content file: %w", err)
				}
				body = string(data)
			} else if body == "" {
				// Auto-detect piped stdin, like 'nb new' does.
				stat, err := os.Stdin.Stat()
				if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
					data, err := io.ReadAll(os.Stdin)
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
					body = string(data)
				}
			}

			disposition := editor.DispositionAuto
			switch {
			case saveMove && saveFork:
				return fmt.Errorf("--move and --fork are mutually exclusive")
			case saveMove:
				disposition = editor.DispositionMove
			case saveFork:
				disposition = editor.DispositionFork
			}

			form := editor.Form{
				Date:     saveDate,
				Course:   saveCourse,
				Type:     saveType,
				Title:    saveTitle,
				Filename: saveFilename,
				Body:     body,
			}

			res, err := ctrl.Save(form, disposition)
			if errors.Is(err, editor.ErrNeedsDisposition) {
				cls, target := ctrl.Classify(form)
				if cls == editor.ClassifyRelocate && ctrl.Session() != nil {
					fmt.Fprintf(os.Stderr, "Editing:   %s/%s/%s/%s\n",
						ctrl.Session().Date, ctrl.Session().Course, ctrl.Session().Type, ctrl.Session().Path)
					fmt.Fprintf(os.Stderr, "Target:    %s/%s/%s/%s\n", saveDate, saveCourse, saveType, target)
				}
				return err
			}
			if err != nil {
				return err
			}

			fmt.Printf("Saved (%s): %s\n", res.Outcome, res.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&saveDate, "date", "", "Item date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&saveCourse, "course", "", "Course key")
	cmd.Flags().StringVarP(&saveType, "type", "t", "", "Content type key")
	cmd.Flags().StringVar(&saveTitle, "title", "", "Display title")
	cmd.Flags().StringVar(&saveFilename, "filename", "", "Filename (default: derived from date and title)")
	cmd.Flags().StringVar(&saveContent, "content", "", "Raw body content")
	cmd.Flags().StringVar(&saveFile, "content-file", "", "Read the body from a file")
	cmd.Flags().BoolVar(&saveMove, "move", false, "Relocate the edited entry (removes the original)")
	cmd.Flags().BoolVar(&saveFork, "fork", false, "Keep the original entry and add a copy")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
