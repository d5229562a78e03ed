// Link commands: add, remove, and inspect relationships.
package main

import (
	"context"

	"github.com/spf13/cobra"
)

var linkNotes string

var linkCmd = &cobra.Command{
	Use:   "link <type> <id> <link_type> <other_type> <other_id>",
	Short: "Link an entity to another through one of its relationship slots",
	Long: `Link creates one relationship. The slot is picked from the parent type's
registry by (link_type, other_type); inbound slots store the other entity as
the link source automatically.

Example:
  workbench link hypothesis 3f8a... tests assumption 9c1d...`,
	Args: cobra.ExactArgs(5),
	RunE: runLink,
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <type> <id> <link_id>",
	Short: "Remove one of an entity's links",
	Args:  cobra.ExactArgs(3),
	RunE:  runUnlink,
}

var linksCmd = &cobra.Command{
	Use:   "links <type> <id>",
	Short: "Show an entity's relationships grouped by slot",
	Args:  cobra.ExactArgs(2),
	RunE:  runLinks,
}

func init() {
	linkCmd.Flags().StringVar(&linkNotes, "notes", "", "free text attached to the link")
}

func runLink(cmd *cobra.Command, args []string) error {
	ref, err := entityRefArgs(args)
	if err != nil {
		return err
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	return emit(newActions(backend).AddLink(context.Background(), ref, args[2], args[3], args[4], linkNotes))
}

func runUnlink(cmd *cobra.Command, args []string) error {
	ref, err := entityRefArgs(args)
	if err != nil {
		return err
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	return emit(newActions(backend).RemoveLink(context.Background(), ref, args[2]))
}

func runLinks(cmd *cobra.Command, args []string) error {
	ref, err := entityRefArgs(args)
	if err != nil {
		return err
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	return emit(newActions(backend).Relationships(context.Background(), ref))
}
