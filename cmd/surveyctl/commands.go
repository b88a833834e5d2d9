package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"exhibitsurvey/internal/config"
	"exhibitsurvey/internal/i18n"
	"exhibitsurvey/internal/model"
	"exhibitsurvey/internal/render"
	"exhibitsurvey/internal/survey"
)

var (
	renderLang string
	renderStep int
)

// validateCmd checks definition files
var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check survey definition files",
	Long: `Parses each file and reports every definition problem found.
Exits non-zero when any file is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

// renderCmd previews one question
var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Print the view of one question as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

// serializeCmd shows the submission row of a response set
var serializeCmd = &cobra.Command{
	Use:   "serialize [file] [responses.json]",
	Short: "Print the row a response set would submit",
	Long: `Reads a JSON object of question key to answer and prints the ordered
(key, value) row. Missing required answers are reported on stderr.`,
	Args: cobra.ExactArgs(2),
	RunE: runSerialize,
}

func init() {
	renderCmd.Flags().StringVar(&renderLang, "lang", "", "display locale (en or ch), defaults to the survey's")
	renderCmd.Flags().IntVar(&renderStep, "step", 0, "0-based question index")
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		def, err := config.LoadSurveyFile(path)
		if err != nil {
			failed++
			var verr *survey.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n", path)
				for _, issue := range verr.Issues {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", issue.Field, issue.Message)
				}
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%s, %d questions)\n", path, def.Type, len(def.Questions))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(args))
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	def, err := config.LoadSurveyFile(args[0])
	if err != nil {
		return err
	}
	if renderStep < 0 || renderStep >= len(def.Questions) {
		return fmt.Errorf("%w: %d of %d", survey.ErrStepOutOfRange, renderStep, len(def.Questions))
	}
	loc := i18n.Negotiate(renderLang, "", def.DefaultLocale)

	q := &def.Questions[renderStep]
	view := render.Render(q, model.Value{}, render.Options{
		Locale: loc,
		Mode:   def.DisplayMode,
		Marker: render.RequiredMarker(def.RequiredMarker),
		Number: renderStep + 1,
	})
	logger.Debug("rendered question", zap.String("key", q.Key), zap.String("locale", string(loc)))
	return writeIndented(cmd, view)
}

func runSerialize(cmd *cobra.Command, args []string) error {
	def, err := config.LoadSurveyFile(args[0])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read responses: %w", err)
	}
	var responses model.Responses
	if err := json.Unmarshal(data, &responses); err != nil {
		return fmt.Errorf("parse responses: %w", err)
	}

	e := survey.New(def, nil, survey.Options{Logger: logger})
	for key, v := range responses {
		if err := e.SetResponse(cmd.Context(), key, v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if missing := e.Missing(); len(missing) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "missing required answers: %v\n", missing)
	}
	return writeIndented(cmd, e.Serialize())
}

func writeIndented(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
