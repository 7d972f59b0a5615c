package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("challenge not satisfied")

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect lesson catalogs",
	}
	cmd.AddCommand(newValidateCmd(), newCheckCmd())
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load a catalog and report its contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			challenges := 0
			for _, l := range cat.Lessons {
				challenges += len(l.Challenges)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d lessons, %d challenges, %d questions, %d decks, %d terms\n",
				len(cat.Lessons), challenges, len(cat.Questions), len(cat.Decks), len(cat.Terms))
			if len(cat.Questions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "warning: no quiz questions; learners cannot finish the last lesson")
			}
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	var lessonNum, challengeNum int

	cmd := &cobra.Command{
		Use:   "check <file.html>",
		Short: "Evaluate one challenge predicate against a markup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			if lessonNum < 1 || lessonNum > len(cat.Lessons) {
				return fmt.Errorf("lesson %d out of range (1-%d)", lessonNum, len(cat.Lessons))
			}
			l := cat.Lessons[lessonNum-1]
			if challengeNum < 1 || challengeNum > len(l.Challenges) {
				return fmt.Errorf("challenge %d out of range (1-%d)", challengeNum, len(l.Challenges))
			}

			markup, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read markup: %w", err)
			}

			c := l.Challenges[challengeNum-1]
			out := cmd.OutOrStdout()
			if c.Passes(string(markup)) {
				fmt.Fprintf(out, "PASS lesson %d challenge %d: %s\n", lessonNum, challengeNum, c.Text)
				return nil
			}
			fmt.Fprintf(out, "FAIL lesson %d challenge %d: %s\n", lessonNum, challengeNum, c.Text)
			return errCheckFailed
		},
	}
	cmd.Flags().IntVar(&lessonNum, "lesson", 1, "Lesson number, starting at 1")
	cmd.Flags().IntVar(&challengeNum, "challenge", 1, "Challenge number, starting at 1")
	return cmd
}
