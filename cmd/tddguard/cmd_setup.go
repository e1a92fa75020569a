package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/tddguard/internal/config"
	"github.com/user/tddguard/internal/types"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("TDD Guard Setup Wizard")
		fmt.Println("Press Enter to accept the default value shown in brackets.")
		fmt.Println()

		cfg.Model.Type = prompt(scanner, "Model client (claude_cli, anthropic_api, openai)", cfg.Model.Type)
		switch cfg.Model.Type {
		case config.ModelClaudeCLI:
			useSystem := prompt(scanner, "Use claude from PATH (true/false)", strconv.FormatBool(cfg.Model.UseSystemClaude))
			if b, err := strconv.ParseBool(useSystem); err == nil {
				cfg.Model.UseSystemClaude = b
			}
		case config.ModelAnthropicAPI, config.ModelOpenAI:
			cfg.Model.APIKey = prompt(scanner, "API key", cfg.Model.APIKey)
			cfg.Model.Model = prompt(scanner, "Model name (optional)", cfg.Model.Model)
			if cfg.Model.Type == config.ModelOpenAI {
				cfg.Model.BaseURL = prompt(scanner, "Base URL (optional)", cfg.Model.BaseURL)
			}
		default:
			return fmt.Errorf("unknown model type: %s", cfg.Model.Type)
		}

		cfg.Linter.Type = prompt(scanner, "Linter (eslint, golangci-lint, all, none)", cfg.Linter.Type)
		cfg.Storage.Driver = prompt(scanner, "Storage driver (file, sqlite)", cfg.Storage.Driver)

		budget := prompt(scanner, "Prompt token budget (0 = unlimited)", strconv.Itoa(cfg.Model.MaxPromptTokens))
		if n, err := strconv.Atoi(budget); err == nil {
			cfg.Model.MaxPromptTokens = n
		}

		instructions := prompt(scanner, "Custom instructions file (optional)", "")

		path := configFile()
		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		if instructions != "" {
			data, err := os.ReadFile(instructions)
			if err != nil {
				return fmt.Errorf("read instructions: %w", err)
			}
			err = withApp(func(a *app) error {
				return a.store.Save(cmd.Context(), types.SlotInstructions, string(data))
			})
			if err != nil {
				return fmt.Errorf("save instructions: %w", err)
			}
		}

		fmt.Println()
		fmt.Println("Configuration saved to", path)
		return nil
	},
}

// prompt displays a labeled prompt with a default value and reads user input.
// If the user enters nothing, the default is returned.
func prompt(scanner *bufio.Scanner, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("%s: ", label)
	}
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input != "" {
			return input
		}
	}
	return defaultVal
}
