package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tutorkit/lessonbook/pkg/editor"
	"github.com/tutorkit/lessonbook/pkg/roster"
	"github.com/tutorkit/lessonbook/pkg/store"
)

var cfgFile string

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "lessonbook")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("LESSONBOOK")

	// Set defaults
	viper.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "lessonbook"))
	viper.SetDefault("default_student", "")

	// Config file is optional.
	_ = viper.ReadInConfig()
}

// App bundles the wired collaborators shared by every subcommand.
type App struct {
	DataDir string
	Store   *store.Filesystem
	Roster  *roster.Registry
	Log     *logrus.Logger
}

// InitApp builds the application from the effective configuration.
func InitApp() (*App, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)

	dataDir := viper.GetString("data_dir")
	st, err := store.NewFilesystem(dataDir)
	if err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	reg, err := roster.NewRegistry(dataDir)
	if err != nil {
		return nil, fmt.Errorf("initialize roster: %w", err)
	}

	return &App{DataDir: dataDir, Store: st, Roster: reg, Log: log}, nil
}

// ResolveStudent picks the active student: the explicit flag, then the
// configured default, then the most recently used roster entry.
func (a *App) ResolveStudent(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if def := viper.GetString("default_student"); def != "" {
		return def, nil
	}
	students, err := a.Roster.List()
	if err != nil {
		return "", fmt.Errorf("list roster: %w", err)
	}
	if len(students) == 0 {
		return "", fmt.Errorf("no student selected: pass --student, set default_student, or add one with 'lessonbook student add'")
	}
	return students[0].ID, nil
}

// Controller resolves the student and loads their manifest and edit
// session. The roster's last-used timestamp is refreshed as a side effect.
func (a *App) Controller(studentFlag string) (*editor.Controller, error) {
	id, err := a.ResolveStudent(studentFlag)
	if err != nil {
		return nil, err
	}
	if err := a.Roster.Touch(id); err != nil {
		a.Log.Debugf("touch roster entry %s: %v", id, err)
	}
	return editor.NewController(id, a.Store, a.Log)
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.Roster != nil {
		_ = a.Roster.Close()
	}
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/lessonbook/config.yaml)")
}
