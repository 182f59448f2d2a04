package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	sarifout "github.com/openkraft/docsync/internal/adapters/outbound/sarif"
	"github.com/openkraft/docsync/internal/adapters/outbound/tui"
	"github.com/openkraft/docsync/internal/domain"
)

// outputFlags select the report format and the CI exit policy.
type outputFlags struct {
	json   bool
	sarif  bool
	ci     bool
	strict bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "Output report as JSON")
	cmd.Flags().BoolVar(&o.sarif, "sarif", false, "Output report as SARIF 2.1.0")
	cmd.Flags().BoolVar(&o.ci, "ci", false, "CI mode: exit non-zero when the report is INVALID")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "With --ci, warnings fail the run too")
	cmd.MarkFlagsMutuallyExclusive("json", "sarif")
}

// emit writes the report in the selected format and applies the CI policy.
func (o *outputFlags) emit(cmd *cobra.Command, r *domain.ValidationReport, rules []domain.ValidationRule) error {
	w := cmd.OutOrStdout()
	var err error
	switch {
	case o.json:
		err = renderJSON(w, r)
	case o.sarif:
		err = sarifout.Write(w, r, rules)
	default:
		_, err = fmt.Fprint(w, tui.RenderReport(r))
	}
	if err != nil {
		return err
	}

	if !o.ci {
		return nil
	}
	sum := r.Summary()
	if sum.Status == domain.StatusInvalid {
		return fmt.Errorf("validation failed: %d errors, %d warnings", sum.Errors, sum.Warnings)
	}
	if o.strict && sum.Warnings > 0 {
		return fmt.Errorf("validation failed in strict mode: %d warnings", sum.Warnings)
	}
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// barProgress renders per-file analysis progress on stderr.
type barProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newBarProgress(w io.Writer) *barProgress {
	return &barProgress{w: w}
}

func (p *barProgress) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Analyzing[reset]"),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *barProgress) Done(string) {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *barProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
