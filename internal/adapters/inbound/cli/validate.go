package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/docsync/internal/adapters/outbound/cache"
	"github.com/openkraft/docsync/internal/adapters/outbound/history"
	"github.com/openkraft/docsync/internal/application"
	"github.com/openkraft/docsync/internal/domain"
)

func newValidateCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate documentation against code",
		Long:  "Validate a single document, a document paired with a source file, or a whole project.",
	}
	cmd.AddCommand(newValidateDocCmd(g))
	cmd.AddCommand(newValidatePairCmd(g))
	cmd.AddCommand(newValidateProjectCmd(g))
	return cmd
}

func newValidateDocCmd(g *globalFlags) *cobra.Command {
	var (
		out       outputFlags
		rulesPath string
	)
	cmd := &cobra.Command{
		Use:   "doc <file|->",
		Short: "Check a document's structure, links and quality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(g, rulesPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			markup, source, err := readMarkup(cmd, args[0])
			if err != nil {
				return err
			}
			report, err := s.svc.ValidateDocument(cmd.Context(), markup, source, nil)
			if err != nil {
				return fmt.Errorf("validating %s: %w", source, err)
			}
			return out.emit(cmd, report, s.cfg.Rules)
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule file replacing the configured rules")
	return cmd
}

func newValidatePairCmd(g *globalFlags) *cobra.Command {
	var (
		out       outputFlags
		rulesPath string
		lang      string
	)
	cmd := &cobra.Command{
		Use:   "pair <doc> <source>",
		Short: "Compare one document with one source file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(g, rulesPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			language := domain.ParseLanguage(lang)
			if lang != "" && language == domain.LanguageUnknown {
				return fmt.Errorf("unknown language %q (valid: java, python, go)", lang)
			}
			markup, docName, err := readMarkup(cmd, args[0])
			if err != nil {
				return err
			}
			report, err := s.svc.ValidatePair(cmd.Context(), markup, docName, args[1], language)
			if err != nil {
				return fmt.Errorf("validating %s against %s: %w", docName, args[1], err)
			}
			return out.emit(cmd, report, s.cfg.Rules)
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule file replacing the configured rules")
	cmd.Flags().StringVar(&lang, "lang", "", "Source language, overriding the file extension (java, python, go)")
	return cmd
}

func newValidateProjectCmd(g *globalFlags) *cobra.Command {
	var (
		out        outputFlags
		rulesPath  string
		codeDir    string
		docsDir    string
		save       bool
		useCache   bool
		noProgress bool
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Map every code file to its documentation and validate each pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []application.Option
			if useCache {
				extra = append(extra, application.WithAnalysisCache(cache.New()))
			}
			s, err := newSession(g, rulesPath, cmd.ErrOrStderr(), extra...)
			if err != nil {
				return err
			}

			var opts []application.RunOption
			var bar *barProgress
			if !noProgress && !out.json && !out.sarif {
				bar = newBarProgress(cmd.ErrOrStderr())
				opts = append(opts, application.WithProgress(bar))
			}
			report, err := s.svc.ValidateProject(cmd.Context(), codeDir, docsDir, nil, opts...)
			if bar != nil {
				bar.Finish()
			}
			if err != nil {
				return fmt.Errorf("validating project: %w", err)
			}

			if save {
				root, err := filepath.Abs(codeDir)
				if err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
				if err := history.New().Save(root, domain.NewHistoryEntry(report)); err != nil {
					s.logger.Warn("history not saved", "error", err)
				}
			}
			return out.emit(cmd, report, s.cfg.Rules)
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule file replacing the configured rules")
	cmd.Flags().StringVar(&codeDir, "code", ".", "Code root")
	cmd.Flags().StringVar(&docsDir, "docs", "docs", "Documentation root")
	cmd.Flags().BoolVar(&save, "save", false, "Append a digest of the report to the project history")
	cmd.Flags().BoolVar(&useCache, "cache", false, "Reuse analysis of unchanged code files (stored in .docsync/cache)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")
	return cmd
}

// readMarkup reads a document from path, or stdin for "-".
func readMarkup(cmd *cobra.Command, path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), path, nil
}
