package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quiz-diagnosis/internal/app"
	"quiz-diagnosis/internal/config"
	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/dto"
	"quiz-diagnosis/internal/logger"
	"quiz-diagnosis/internal/service"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Run the D&I diagnosis pipeline from the terminal",
		Long: "diagnose scores a completed quiz, asks the configured AI provider for the narrative " +
			"and prints the assembled diagnosis as JSON. AI failures fall back to the configured copy " +
			"and are reported on stderr.",
		SilenceUsage: true,
		RunE:         runDiagnose,
	}

	cmd.PersistentFlags().String("config", "", "Path to config.yaml (overrides CONFIG_PATH)")
	cmd.PersistentFlags().Bool("verbose", false, "Write pipeline logs to stderr")
	cmd.PersistentFlags().String("segment", "", "Segment: Pessoa, Empresa or Escola")

	cmd.Flags().String("answers", "", "Comma-separated answers in question order (s/n)")
	cmd.Flags().Bool("no-ai", false, "Skip the AI narrative and use the configured copy")
	cmd.Flags().String("provider", "", "AI provider override")
	cmd.Flags().String("model", "", "AI model override")

	cmd.AddCommand(newQuestionsCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config named by --config and routes logs to stderr
// so stdout carries only the command output.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logger.Output = "stderr"
		if err := logger.Initialize(cfg.Logger); err != nil {
			return nil, fmt.Errorf("initialize logger: %w", err)
		}
	}
	return cfg, nil
}

func parseSegmentFlag(cmd *cobra.Command) (domain.Segment, error) {
	raw, _ := cmd.Flags().GetString("segment")
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("--segment is required")
	}
	return domain.ParseSegment(raw)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	segment, err := parseSegmentFlag(cmd)
	if err != nil {
		return err
	}
	rawAnswers, _ := cmd.Flags().GetString("answers")
	answers, err := parseAnswers(rawAnswers)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	services := app.NewServices(cfg)
	defer services.Close()

	questions, err := services.Diagnoses.Questions(segment)
	if err != nil {
		return err
	}
	if len(answers) != len(questions) {
		return fmt.Errorf("segment %s has %d questions but %d answers were given", segment, len(questions), len(answers))
	}

	override := config.AIOverride{}
	override.Provider, _ = cmd.Flags().GetString("provider")
	override.Model, _ = cmd.Flags().GetString("model")
	if noAI, _ := cmd.Flags().GetBool("no-ai"); noAI {
		disabled := false
		override.Enabled = &disabled
	}

	assessment, err := services.Diagnoses.Assess(cmd.Context(), service.DiagnosisRequest{
		Segment: segment,
		Answers: domain.AnswersFromSlice(answers),
		AI:      cfg.AI.Resolve(override),
	})
	if err != nil {
		return err
	}

	if assessment.Notice != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Usando a análise padrão (%s): %s\n", assessment.Notice.Kind, assessment.Notice.Message)
	}

	out, err := json.MarshalIndent(dto.NewDiagnosisResponse(*assessment), "", "  ")
	if err != nil {
		return fmt.Errorf("encode diagnosis: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// parseAnswers reads "s,n,sim,não,true,0,..." into positional answers.
// A yes answer marks the question as a weakness.
func parseAnswers(raw string) ([]bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("--answers is required")
	}
	parts := strings.Split(raw, ",")
	answers := make([]bool, 0, len(parts))
	for i, part := range parts {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "s", "sim", "y", "yes", "true", "1":
			answers = append(answers, true)
		case "n", "nao", "não", "no", "false", "0":
			answers = append(answers, false)
		default:
			return nil, fmt.Errorf("answer %d: %q is not s or n", i+1, part)
		}
	}
	return answers, nil
}
