// Evidence and feedback commands.
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/venturelab/workbench/pkg/types"
)

var (
	evidenceTitle      string
	evidenceContent    string
	evidenceSourceURL  string
	evidenceConfidence float64
	evidenceRefutes    bool

	feedbackContent string
	feedbackStance  string
)

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Record and inspect evidence",
}

var evidenceAddCmd = &cobra.Command{
	Use:   "add <type> <id> <evidence_type>",
	Short: "Attach an evidence item to an entity",
	Long: `Evidence types: interview, survey, analytics, research, observation,
prototype_test. Evidence supports by default; pass --refutes to record
contradicting material.

Example:
  workbench evidence add assumption 3f8a... interview --confidence 0.7`,
	Args: cobra.ExactArgs(3),
	RunE: runEvidenceAdd,
}

var evidenceListCmd = &cobra.Command{
	Use:   "list <type> <id>",
	Short: "List an entity's evidence",
	Args:  cobra.ExactArgs(2),
	RunE:  runEvidenceList,
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record and inspect feedback",
}

var feedbackAddCmd = &cobra.Command{
	Use:   "add <type> <id> <hat> <feedback_type>",
	Short: "Attach a feedback item to an entity",
	Long: `Hats: white, red, black, yellow, green, blue. Feedback types: comment,
concern, suggestion, question. Stance is neutral unless --stance is
"supports" or "refutes".`,
	Args: cobra.ExactArgs(4),
	RunE: runFeedbackAdd,
}

var feedbackListCmd = &cobra.Command{
	Use:   "list <type> <id>",
	Short: "List an entity's feedback",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeedbackList,
}

func init() {
	evidenceAddCmd.Flags().StringVar(&evidenceTitle, "title", "", "short evidence title")
	evidenceAddCmd.Flags().StringVar(&evidenceContent, "content", "", "evidence body")
	evidenceAddCmd.Flags().StringVar(&evidenceSourceURL, "source-url", "", "where the evidence came from")
	evidenceAddCmd.Flags().Float64Var(&evidenceConfidence, "confidence", 0.5, "confidence in [0,1]")
	evidenceAddCmd.Flags().BoolVar(&evidenceRefutes, "refutes", false, "evidence refutes instead of supports")
	evidenceCmd.AddCommand(evidenceAddCmd)
	evidenceCmd.AddCommand(evidenceListCmd)

	feedbackAddCmd.Flags().StringVar(&feedbackContent, "content", "", "feedback body")
	feedbackAddCmd.Flags().StringVar(&feedbackStance, "stance", "", `"supports", "refutes", or empty for neutral`)
	feedbackCmd.AddCommand(feedbackAddCmd)
	feedbackCmd.AddCommand(feedbackListCmd)
}

func runEvidenceAdd(cmd *cobra.Command, args []string) error {
	ref, err := entityRefArgs(args)
	if err != nil {
		return err
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	item := types.PendingEvidence{
		EvidenceType: args[2],
		Title:        evidenceTitle,
		Content:      evidenceContent,
		SourceURL:    evidenceSourceURL,
		Confidence:   evidenceConfidence,
		Supports:     !evidenceRefutes,
	}
	return emit(newActions(backend).AddEvidence(context.Background(), ref, item))
}

func runEvidenceList(cmd *cobra.Command, args []string) error {
	ref, err := entityRefArgs(args)
	if err != nil {
		return err
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	return emit(newActions(backend).ListEvidence(context.Background(), ref))
}

func runFeedbackAdd(cmd *cobra.Command, args []string) error {
	ref, err := entityRefArgs(args)
	if err != nil {
		return err
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	item := types.PendingFeedback{
		HatType:      args[2],
		FeedbackType: args[3],
		Content:      feedbackContent,
	}
	switch feedbackStance {
	case "supports":
		v := true
		item.Supports = &v
	case "refutes":
		v := false
		item.Supports = &v
	}
	return emit(newActions(backend).AddFeedback(context.Background(), ref, item))
}

func runFeedbackList(cmd *cobra.Command, args []string) error {
	ref, err := entityRefArgs(args)
	if err != nil {
		return err
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	return emit(newActions(backend).ListFeedback(context.Background(), ref))
}
