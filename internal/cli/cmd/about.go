package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/nvprime/internal/cli/styles"
)

var aboutCmd = &cobra.Command{
	Use:         "about",
	Short:       "Show version and build information",
	Long:        `Display version, build info and repository URL.`,
	Annotations: map[string]string{skipAppAnnotation: "true"},
	RunE:        runAbout,
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}

func runAbout(_ *cobra.Command, _ []string) error {
	renderer := styles.NewAboutRenderer(styles.NewTheme())
	fmt.Println(renderer.Render(buildInfo))
	return nil
}
