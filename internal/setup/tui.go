// Package setup provides the interactive configuration wizard.
package setup

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/tradekit/volgate/config"
	"github.com/tradekit/volgate/internal/domain"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)
)

// GeneratedConfigFile is where the wizard saves its result.
const GeneratedConfigFile = "config.gen.yaml"

// RunTUI launches the terminal configuration wizard and writes a starter
// YAML config.
func RunTUI() error {
	var (
		pair             string
		timeframe        string
		candlesFile      string
		warmupStr        string
		minRatioStr      string
		maxRatioStr      string
		requireIncrease  bool
		backend          string
		confirm          bool
	)

	// defaults
	pair = "BTC_USDT"
	timeframe = "1h"
	candlesFile = "data/candles.csv"
	warmupStr = "50"
	minRatioStr = "0.5"
	maxRatioStr = "3.0"
	backend = config.BackendWAL

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("VOLGATE CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Volume-confirmed entries, configured in style.\n"))

	fmt.Println(stepStyle.Render("STEP 1: MARKET"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trading pair").
				Description("Base and quote separated by underscore, e.g. BTC_USDT").
				Validate(validatePair).
				Value(&pair),
			huh.NewInput().
				Title("Timeframe label").
				Description("Candle interval the CSV was produced with, e.g. 1h").
				Value(&timeframe),
			huh.NewInput().
				Title("Candle CSV file").
				Description("Rows of timestamp,open,high,low,close,volume").
				Value(&candlesFile),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 2: ENTRY GATE"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Warmup candles").
				Validate(validateInt).
				Value(&warmupStr),
			huh.NewInput().
				Title("Min volume ratio").
				Validate(validateFloat).
				Value(&minRatioStr),
			huh.NewInput().
				Title("Max volume ratio").
				Validate(validateFloat).
				Value(&maxRatioStr),
			huh.NewConfirm().
				Title("Require increasing volume?").
				Value(&requireIncrease),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render("STEP 3: STORAGE"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Decision store backend").
				Options(
					huh.NewOption("WAL (local, append-only)", config.BackendWAL),
					huh.NewOption("PostgreSQL", config.BackendPostgres),
					huh.NewOption("None (no persistence)", config.BackendNone),
				).
				Value(&backend),
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	warmup, _ := strconv.Atoi(warmupStr)
	minRatio, _ := strconv.ParseFloat(minRatioStr, 64)
	maxRatio, _ := strconv.ParseFloat(maxRatioStr, 64)

	fileCfg := config.FileConfig{
		Pair:        pair,
		Timeframe:   timeframe,
		CandlesFile: candlesFile,
		Warmup:      &warmup,
	}
	fileCfg.Filter.MinVolumeRatio = &minRatio
	fileCfg.Filter.MaxVolumeRatio = &maxRatio
	fileCfg.Filter.RequireIncreasingVolume = requireIncrease
	fileCfg.Storage.Backend = backend

	data, err := yaml.Marshal([]config.FileConfig{fileCfg})
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	if err := os.WriteFile(GeneratedConfigFile, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", GeneratedConfigFile)))
	return nil
}

func validatePair(s string) error {
	if _, err := domain.PairFromString(s); err != nil {
		return fmt.Errorf("must look like BTC_USDT")
	}
	return nil
}

func validateInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}

func validateFloat(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("must be a valid number")
	}
	return nil
}
