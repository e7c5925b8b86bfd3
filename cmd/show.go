package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutorkit/lessonbook/cmd/config"
	"github.com/tutorkit/lessonbook/pkg/render"
)

func NewShowCmd(app **config.App, student *string) *cobra.Command {
	var (
		showType string
		showRaw  bool
	)

	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Print a stored content item",
		Long: `Print a stored content item. By default the editable body is
extracted from the rendered document; --raw prints the full document
as stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := *app
			if _, err := a.Controller(*student); err != nil {
				return err
			}

			doc, err := a.Store.ReadContent(args[0])
			if err != nil {
				return err
			}
			if showRaw {
				fmt.Print(doc)
				return nil
			}
			fmt.Println(render.ExtractBody(showType, doc))
			return nil
		},
	}

	cmd.Flags().StringVarP(&showType, "type", "t", "", "Content type key (note bodies are unescaped differently)")
	cmd.Flags().BoolVar(&showRaw, "raw", false, "Print the full stored document")

	return cmd
}
