package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/nikogura/ats-cv/pkg/ats"
	"github.com/nikogura/ats-cv/pkg/config"
	"github.com/nikogura/ats-cv/pkg/cv"
	"github.com/nikogura/ats-cv/pkg/document"
	"github.com/nikogura/ats-cv/pkg/docx"
	"github.com/nikogura/ats-cv/pkg/profile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var inputPath string

//nolint:gochecknoglobals // Cobra boilerplate
var outputPath string

//nolint:gochecknoglobals // Cobra boilerplate
var lang string

//nolint:gochecknoglobals // Cobra boilerplate
var photoPath string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "ats-cv",
	Short: "Render an ATS-friendly CV as a Word document",
	Long: `ats-cv reads a structured CV profile (JSON or YAML, local file or URL) and
writes a single-column .docx that applicant tracking systems parse reliably:
no tables, no text boxes, standard fonts, and headings in English or Spanish.

Example:
  ats-cv
  ats-cv -i cv_data.json -o CV.docx -l es
  ats-cv -i https://example.com/cv.yaml -p photo.jpg`,
	Args:              cobra.NoArgs,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
	RunE:              runGenerate,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.ats-cv/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", config.DefaultInput, "Profile JSON or YAML file, or http(s) URL")
	rootCmd.PersistentFlags().StringVarP(&lang, "lang", "l", config.DefaultLang, "Heading language: en or es")
	rootCmd.PersistentFlags().StringVarP(&photoPath, "photo", "p", "", "Optional photo to float at the top right")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultOutput, "Output .docx path")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

func setupLogger(cmd *cobra.Command, args []string) (err error) {
	level := log.InfoLevel
	if getVerbose() {
		level = log.DebugLevel
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, newLogger(cmd.ErrOrStderr(), level)))

	return err
}

// settings is the fully resolved input for one run.
type settings struct {
	input  string
	output string
	render cv.Config
}

// flagValues are the raw command-line values.
type flagValues struct {
	input  string
	output string
	lang   string
	photo  string
}

func currentFlags() (v flagValues) {
	v = flagValues{
		input:  inputPath,
		output: outputPath,
		lang:   lang,
		photo:  photoPath,
	}
	return v
}

// resolveSettings applies explicitly set flags over the config file values.
// changed reports whether a flag was given on the command line.
func resolveSettings(cfg config.Config, changed func(name string) bool, v flagValues) (s settings, err error) {
	if changed("input") {
		cfg.Defaults.Input = v.input
	}
	if changed("output") {
		cfg.Defaults.Output = v.output
	}
	if changed("lang") {
		cfg.Defaults.Lang = v.lang
	}
	if changed("photo") {
		cfg.Defaults.Photo = v.photo
	}

	err = cfg.Validate()
	if err != nil {
		return s, err
	}

	s.render, err = cfg.RenderConfig()
	if err != nil {
		return s, err
	}

	s.input = cfg.Defaults.Input
	s.output = cfg.Defaults.Output

	return s, err
}

func loadSettings(cmd *cobra.Command) (s settings, err error) {
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return s, err
	}

	s, err = resolveSettings(cfg, cmd.Flags().Changed, currentFlags())
	return s, err
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	var s settings
	s, err = loadSettings(cmd)
	if err != nil {
		return err
	}

	prog := newProgress(logger)

	logger.Info("Generating ATS-optimized CV",
		"language", s.render.Language.Name(),
		"photo", s.render.PhotoPath.OrElse("none"),
	)
	logger.Debug("Loading profile", "input", s.input)

	var p profile.Profile
	p, err = profile.Load(ctx, s.input)
	if err != nil {
		return err
	}

	logger.Debug("Profile loaded",
		"skills", len(p.Skills),
		"experience", len(p.Experience),
		"education", len(p.Education),
	)

	var doc document.Document
	doc, err = cv.Render(ctx, p, s.render)
	if err != nil {
		return err
	}

	logger.Debug("Document built", "paragraphs", len(doc.Paragraphs), "language", s.render.Language)

	report := ats.Check(p, ats.Options{PhotoIncluded: s.render.PhotoPath.IsSet()})
	logFindings(logger, report)

	err = docx.WriteFile(doc, s.output)
	if err != nil {
		return err
	}

	prog.done("Rendered CV")

	outPath := s.output
	if abs, absErr := filepath.Abs(s.output); absErr == nil {
		outPath = abs
	}

	printSuccess("CV generated")
	printFile(outPath)
	printDetail("ATS score %d/100", report.Score)

	return err
}

// logFindings reports ATS findings as warnings. They never fail the run.
func logFindings(logger *log.Logger, report ats.Report) {
	for _, f := range report.Findings {
		logger.Warn(ats.Rules[f.Rule].Description,
			"rule", f.Rule,
			"field", f.Field,
			"detail", f.Detail,
		)
	}
}
