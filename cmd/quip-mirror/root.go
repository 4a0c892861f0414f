/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	// Store the result of binding cobra flags
	Config string
	Debug  bool

	// ConfigActual is the expanded path we actually read config from.
	ConfigActual string

	// Command to run to retrieve API Personal Access Token
	AuthTokenCmd []string

	AuthToken  string
	LocalStore string
	QuipURL    string

	ParsedConfig YamlConfig
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "quip-mirror",
	Short: "Mirror a Quip folder tree to local .docx files",
	Long: `
Quip is fine until you want your documents on your own disk.  This tool walks a Quip folder and all
its subfolders, and saves every document underneath as a local .docx file, in a directory tree
matching the folder structure.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// You can bind cobra and viper in a few locations, but PersistentPreRunE on the root command works well
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("quip-mirror: failed to initialise config: %w", err)
		}

		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/quip-mirror.yaml, respects QUIP_MIRROR_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringSliceVar(&AuthTokenCmd, "auth-token-cmd", []string{}, "shell command to retrieve Quip access token")
	rootCmd.PersistentFlags().StringVar(&AuthToken, "token", "", "Quip personal access token (prefer QUIP_ACCESS_TOKEN or ~/.quip_token)")
	rootCmd.PersistentFlags().StringVar(&LocalStore, "store", "", "location to save Quip documents")
	rootCmd.PersistentFlags().StringVar(&QuipURL, "quip-url", "", "base URL of the Quip API (default: https://platform.quip.com)")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := Config != ""
	if !explicit {
		// Did the user provide an ENV?
		envConfig := os.Getenv("QUIP_MIRROR_CONFIG")
		if envConfig != "" {
			Config = envConfig
			explicit = true
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = "~/.config/quip-mirror.yaml"
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("quip-mirror: unable to expand homedir: %w", err)
	}
	ConfigActual = config

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		if explicit {
			fmt.Printf("Couldn't read config file %s, does it exist?  Override with --config.\n", ConfigActual)
			return fmt.Errorf("quip-mirror: specified config file does not exist: %w", err)
		}
		// No config file is fine; flags and defaults carry the day.
		return nil
	}

	yamlFile, err := os.ReadFile(ConfigActual)
	if err != nil {
		return fmt.Errorf("quip-mirror: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("quip-mirror: issue parsing config file: %w", err)
	}

	// Bind the current command's flags to viper
	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("quip-mirror: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	Overwrite *bool `yaml:"overwrite"`
	WithVCR   *bool `yaml:"with-vcr"`
	DryRun    *bool `yaml:"dry-run"`

	StorePath    string   `yaml:"store"`
	QuipURL      string   `yaml:"quip-url"`
	AuthTokenCmd []string `yaml:"auth-token-cmd"`

	MaxDepth int `yaml:"max-depth"`
	Workers  int `yaml:"workers"`
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("quip-mirror: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// hmm... the flag is unknown.  but that can legitimately happen if you're running
			// e.g. `list tree` which has no `overwrite` flag but your YAML file does define that
			// flag...
			continue
		}
		if !cmd.Flags().Changed(key) {
			switch field.Kind() {
			case reflect.Ptr:
				// err, this is crappy, but i know YamlConfig only uses pointers for bools.....
				b, ok := field.Value().(*bool)
				if !ok {
					return fmt.Errorf("quip-mirror: found unrecognised field: %+v", field)
				}
				if b != nil {
					cmd.Flags().Set(key, fmt.Sprintf("%v", *b))
				}

			case reflect.String:
				s, ok := field.Value().(string)
				if !ok {
					return fmt.Errorf("quip-mirror: found unrecognised field: %+v", field)
				}
				if s != "" {
					cmd.Flags().Set(key, s)
				}

			case reflect.Int:
				i, ok := field.Value().(int)
				if !ok {
					return fmt.Errorf("quip-mirror: found unrecognised field: %+v", field)
				}
				if i != 0 {
					cmd.Flags().Set(key, fmt.Sprintf("%d", i))
				}

			case reflect.Slice:
				ss, ok := field.Value().([]string)
				if !ok {
					return fmt.Errorf("quip-mirror: found unrecognised field: %+v", field)
				}
				for _, s := range ss {
					// yes, repeatedly calling Set() appends to the slice...
					cmd.Flags().Set(key, s)
				}

			default:
				return fmt.Errorf("quip-mirror: found unrecognised field: %+v", field)
			}
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Flags are only available after (or inside, presumably) the .Execute() thing.
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("quip-mirror: execution error: %w", err)
	}

	return nil
}
