package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tanq16/galgrab/internal/gallery"
	"github.com/tanq16/galgrab/internal/utils"
)

func newLinksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "links [GALLERY_URL]",
		Short: "Print the full-size image links of a gallery without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			g, err := gallery.Resolve(args[0], "")
			if err != nil {
				return err
			}
			if imagePattern != "" {
				g.ImagePattern = imagePattern
			}
			links, err := g.ImageLinks(cmd.Context(), utils.NewHTTPClient(globalHTTPConfig))
			if err != nil {
				return err
			}
			for _, link := range links {
				fmt.Println(link)
			}
			return nil
		},
	}
}
