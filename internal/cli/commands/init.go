package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/gridmeta/internal/cli/config"
	"github.com/conduit-lang/gridmeta/internal/cli/ui"
)

// initAnswers are the values written to a new gridmeta.yml
type initAnswers struct {
	Metadata string `survey:"metadata"`
	Tables   string `survey:"tables"`
	I18n     string `survey:"i18n"`
	Port     string `survey:"port"`
	Snapshot string `survey:"snapshot"`
}

func defaultInitAnswers() initAnswers {
	return initAnswers{
		Metadata: "metadata.yaml",
		Tables:   "tables.yaml",
		Port:     "8080",
		Snapshot: config.SnapshotNone,
	}
}

// configFileContent is the serialized form of gridmeta.yml
type configFileContent struct {
	Metadata string            `yaml:"metadata"`
	Tables   string            `yaml:"tables"`
	I18n     string            `yaml:"i18n,omitempty"`
	Log      map[string]string `yaml:"log"`
	Server   map[string]any    `yaml:"server"`
	Snapshot map[string]string `yaml:"snapshot"`
}

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	var (
		yes   bool
		force bool
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gridmeta.yml",
		Long: `Create a gridmeta.yml in the current directory.

Asks for the metadata document, the table definitions, an optional text
bundle, the server port and the snapshot backend.`,
		Example: `  # Interactive
  gridmeta init

  # Accept all defaults
  gridmeta init --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(dir, "gridmeta.yml")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			answers := defaultInitAnswers()
			if !yes {
				if err := askInit(&answers); err != nil {
					return err
				}
			}

			if err := writeConfigFile(path, answers); err != nil {
				return err
			}
			ui.WriteSuccess(cmd.OutOrStdout(), "Created "+path, noColor)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept all defaults without prompting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing gridmeta.yml")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to create gridmeta.yml in")
	return cmd
}

func askInit(answers *initAnswers) error {
	questions := []*survey.Question{
		{
			Name:     "metadata",
			Prompt:   &survey.Input{Message: "Metadata document:", Default: answers.Metadata},
			Validate: survey.Required,
		},
		{
			Name:     "tables",
			Prompt:   &survey.Input{Message: "Table definitions (file or directory):", Default: answers.Tables},
			Validate: survey.Required,
		},
		{
			Name:   "i18n",
			Prompt: &survey.Input{Message: "Text bundle (optional):"},
		},
		{
			Name:     "port",
			Prompt:   &survey.Input{Message: "Server port:", Default: answers.Port},
			Validate: validatePort,
		},
		{
			Name: "snapshot",
			Prompt: &survey.Select{
				Message: "Snapshot backend:",
				Options: []string{config.SnapshotNone, config.SnapshotMemory, config.SnapshotRedis},
				Default: answers.Snapshot,
			},
		},
	}
	return survey.Ask(questions, answers)
}

func validatePort(ans interface{}) error {
	s, _ := ans.(string)
	port, err := strconv.Atoi(s)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func writeConfigFile(path string, answers initAnswers) error {
	if err := validatePort(answers.Port); err != nil {
		return err
	}
	port, _ := strconv.Atoi(answers.Port)

	content := configFileContent{
		Metadata: answers.Metadata,
		Tables:   answers.Tables,
		I18n:     answers.I18n,
		Log:      map[string]string{"level": "info"},
		Server:   map[string]any{"host": "localhost", "port": port},
		Snapshot: map[string]string{"backend": answers.Snapshot},
	}
	data, err := yaml.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
