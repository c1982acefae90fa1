package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/internal/frames"
)

var renumberCmd = &cobra.Command{
	Use:   "renumber <root>",
	Short: "Shift frame filenames down by one in every frames directory",
	Long: `Renumber walks the given root for frames directories and renames
every img_NNNNN.jpg to img_(NNNNN-1).jpg. This is the one-time fix-up for
frame sequences extracted with 1-based numbering where 0-based numbering
was expected. Run it before segmentation, never on already-correct data.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := frames.Renumber(args[0])
		if err != nil {
			return err
		}
		slog.Info("renumbering complete", "files", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renumberCmd)
}
