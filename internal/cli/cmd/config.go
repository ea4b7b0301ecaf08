package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/bnema/nvprime/internal/cli/styles"
	"github.com/bnema/nvprime/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Show the effective configuration, print its JSON schema or write the defaults.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after defaults, the config file and NVPRIME_* environment overrides are applied.`,
	RunE:  runConfigShow,
}

var configSchemaCmd = &cobra.Command{
	Use:         "schema",
	Short:       "Print the configuration JSON schema",
	Annotations: map[string]string{skipAppAnnotation: "true"},
	RunE:        runConfigSchema,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file and its schema",
	Long: `Write config.toml with every setting at its default value, plus
config.schema.json next to it. An existing config file is never overwritten.`,
	Annotations: map[string]string{skipAppAnnotation: "true"},
	RunE:        runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	body, err := toml.Marshal(app.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	path := app.ConfigManager.ConfigFileUsed()
	_, statErr := os.Stat(path)
	renderer := styles.NewConfigRenderer(app.Theme)
	fmt.Println(renderer.RenderConfig(path, statErr == nil, string(body)))
	return nil
}

func runConfigSchema(_ *cobra.Command, _ []string) error {
	data, err := config.GenerateSchema()
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	renderer := styles.NewConfigRenderer(styles.NewTheme())

	var (
		mgr *config.Manager
		err error
	)
	if configFile != "" {
		mgr, err = config.NewManagerForFile(configFile)
	} else {
		mgr, err = config.NewManager()
	}
	if err != nil {
		return err
	}

	path, err := mgr.WriteDefault()
	if err != nil {
		fmt.Println(renderer.RenderError(err))
		return errors.New("config init failed")
	}
	fmt.Println(renderer.RenderCreated(path))
	return nil
}
