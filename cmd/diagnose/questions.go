package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quiz-diagnosis/internal/app"
)

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the configured questions of a segment",
		RunE: func(cmd *cobra.Command, args []string) error {
			segment, err := parseSegmentFlag(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			services := app.NewServices(cfg)
			defer services.Close()

			questions, err := services.Diagnoses.Questions(segment)
			if err != nil {
				return err
			}
			for i, q := range questions {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, q)
			}
			return nil
		},
	}
}
