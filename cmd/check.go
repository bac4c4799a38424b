package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nikogura/ats-cv/pkg/ats"
	"github.com/nikogura/ats-cv/pkg/profile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var minScore int

//nolint:gochecknoglobals // Cobra boilerplate
var checkJSON bool

//nolint:gochecknoglobals // Cobra boilerplate
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Score a profile for ATS friendliness",
	Long: `Check loads the profile and reports how well the rendered CV will survive
applicant tracking systems: missing contact details, empty sections, characters
parsers drop, and an estimate of page length. Nothing is written.

Example:
  ats-cv check -i cv_data.json
  ats-cv check -i cv_data.json --min-score 80
  ats-cv check -i cv_data.json --json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVar(&minScore, "min-score", 0, "Fail when the score is below this value (0-100)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the report as JSON")
}

func runCheck(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if minScore < 0 || minScore > 100 {
		err = errors.Errorf("invalid min-score %d: must be between 0 and 100", minScore)
		return err
	}

	var s settings
	s, err = loadSettings(cmd)
	if err != nil {
		return err
	}

	logger.Debug("Loading profile", "input", s.input)

	var p profile.Profile
	p, err = profile.Load(ctx, s.input)
	if err != nil {
		return err
	}

	report := ats.Check(p, ats.Options{PhotoIncluded: s.render.PhotoPath.IsSet()})

	if checkJSON {
		err = writeReportJSON(cmd.OutOrStdout(), report)
		if err != nil {
			return err
		}
	} else {
		printReport(report)
	}

	if !report.Passed(minScore) {
		err = errors.Errorf("ATS score %d is below minimum %d", report.Score, minScore)
		return err
	}

	return err
}

func printReport(report ats.Report) {
	printKeyValue("Score", fmt.Sprintf("%d/100", report.Score))
	printKeyValue("Est. lines", fmt.Sprintf("%d (one page holds %d)", report.EstimatedLines, ats.MaxPageLines))

	if len(report.Findings) == 0 {
		printSuccess("No issues found")
		return
	}

	for _, f := range report.Findings {
		rule := ats.Rules[f.Rule]
		printWarning("[%s] %s (-%d)", f.Severity(), rule.Description, rule.Weight)
		if f.Field != "" {
			printDetail("%s: %s", f.Field, f.Detail)
		} else {
			printDetail("%s", f.Detail)
		}
	}
}

func writeReportJSON(w io.Writer, report ats.Report) (err error) {
	if report.Findings == nil {
		report.Findings = []ats.Finding{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err = enc.Encode(report)
	if err != nil {
		err = errors.Wrap(err, "failed to encode report")
		return err
	}

	return err
}
