// Command transitcat reads a request document, builds the catalogue,
// router, and renderer over it, and writes the answer document.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"reflect"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/transitcat/core/internal/config"
	"github.com/transitcat/core/internal/document"
	"github.com/transitcat/core/internal/mapsvg"
)

var (
	inputPath    string
	outputPath   string
	settingsPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "transitcat",
		Short: "Batch transport-network query engine",
		Long: `transitcat reads a JSON request document describing a bus network and a
stream of stat requests, and writes a JSON answer document in reply.`,
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "Input document path (- for stdin)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output document path (- for stdout)")
	rootCmd.Flags().StringVarP(&settingsPath, "settings", "s", "", "Optional YAML defaults file (see config init); the input document's own render_settings/routing_settings win when present")

	rootCmd.AddCommand(configInitCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configInitCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the YAML settings defaults file",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write a default settings file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "transitcat.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.WriteDefaults(path); err != nil {
				return err
			}
			fmt.Printf("wrote default settings to %s\n", path)
			return nil
		},
	})
	return configCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	runID := uuid.New()
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", runID), log.LstdFlags)
	logger.Println("starting transitcat run")

	in, err := openInput(inputPath, cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(outputPath, cfg)
	if err != nil {
		return err
	}
	defer out.Close()

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("transitcat: reading input: %w", err)
	}

	var doc document.InputDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("transitcat: parsing input document: %w", err)
	}

	if settingsPath != "" {
		if err := applySettingsDefaults(&doc, settingsPath); err != nil {
			return err
		}
		logger.Printf("✓ loaded settings defaults from %s", settingsPath)
	}

	logger.Printf("ingested %d base requests, answering %d stat requests", len(doc.BaseRequests), len(doc.StatRequests))

	responses := document.Run(doc)
	logger.Printf("✓ answered %d stat requests", len(responses))

	encoded, err := json.Marshal(responses)
	if err != nil {
		return fmt.Errorf("transitcat: encoding output document: %w", err)
	}

	if _, err := out.Write(encoded); err != nil {
		return fmt.Errorf("transitcat: writing output: %w", err)
	}

	logger.Printf("✓ wrote %d responses", len(responses))
	return nil
}

// applySettingsDefaults fills doc's render_settings/routing_settings from a
// YAML defaults file (see config.WriteDefaults) whenever the corresponding
// section is entirely absent from the input document. The input document's
// settings always win once any field in a section is set — there is no
// finer-grained per-key merge, since the settings document is a peripheral
// convenience, not part of the core contract.
func applySettingsDefaults(doc *document.InputDocument, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("transitcat: reading settings file %s: %w", path, err)
	}

	var defaults config.Defaults
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return fmt.Errorf("transitcat: parsing settings file %s: %w", path, err)
	}

	if reflect.ValueOf(doc.RenderSettings).IsZero() {
		doc.RenderSettings = renderSettingsFromDefaults(defaults.RenderSettings)
	}
	if doc.RoutingSettings == (document.RoutingSettingsDoc{}) {
		doc.RoutingSettings = document.RoutingSettingsDoc{
			BusVelocity: defaults.RoutingSettings.BusVelocity,
			BusWaitTime: defaults.RoutingSettings.BusWaitTime,
		}
	}

	return nil
}

func renderSettingsFromDefaults(d config.RenderDefaults) document.RenderSettingsDoc {
	palette := make([]document.ColorValue, len(d.ColorPalette))
	for i, name := range d.ColorPalette {
		palette[i] = document.ColorValue{Color: mapsvg.Named(name)}
	}

	var underlayer document.ColorValue
	switch len(d.UnderlayerColor) {
	case 3:
		underlayer = document.ColorValue{Color: mapsvg.RGB(d.UnderlayerColor[0], d.UnderlayerColor[1], d.UnderlayerColor[2])}
	case 4:
		underlayer = document.ColorValue{Color: mapsvg.RGBA(d.UnderlayerColor[0], d.UnderlayerColor[1], d.UnderlayerColor[2], float64(d.UnderlayerColor[3]))}
	}

	return document.RenderSettingsDoc{
		Width:             d.Width,
		Height:            d.Height,
		Padding:           d.Padding,
		LineWidth:         d.LineWidth,
		StopRadius:        d.StopRadius,
		BusLabelFontSize:  d.BusLabelFontSize,
		BusLabelOffset:    [2]float64{d.BusLabelOffset[0], d.BusLabelOffset[1]},
		StopLabelFontSize: d.StopLabelFontSize,
		StopLabelOffset:   [2]float64{d.StopLabelOffset[0], d.StopLabelOffset[1]},
		UnderlayerColor:   underlayer,
		UnderlayerWidth:   d.UnderlayerWidth,
		ColorPalette:      palette,
	}
}

func openInput(path string, cfg config.Config) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		path = cfg.InputPath
	}
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transitcat: opening input %s: %w", path, err)
	}
	return f, nil
}

func openOutput(path string, cfg config.Config) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		path = cfg.OutputPath
	}
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("transitcat: creating output %s: %w", path, err)
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
