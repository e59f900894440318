package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/forum"
)

func questionsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     "questions",
		Aliases: []string{"q"},
		Short:   "Browse and post questions",
	}

	c.AddCommand(questionsListCmd(), questionsShowCmd(), questionsCreateCmd())
	return c
}

func questionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			qs, err := a.client.Questions(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(qs)
		},
	}
}

func questionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID...",
		Short: "Show one or more questions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			a := appFrom(cmd)
			if len(ids) == 1 {
				q, err := a.client.Question(cmd.Context(), ids[0])
				if err != nil {
					return err
				}
				return a.printJSON(q)
			}

			qs, err := a.client.QuestionsByID(cmd.Context(), ids...)
			if err != nil {
				return err
			}
			return a.printJSON(qs)
		},
	}
}

func questionsCreateCmd() *cobra.Command {
	var in forum.QuestionIn

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			q, err := a.client.CreateQuestion(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printJSON(q)
		},
	}

	cmd.Flags().StringVarP(&in.Subject, "subject", "s", "", "question subject")
	cmd.Flags().StringVarP(&in.Content, "content", "m", "", "question body")
	return cmd
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			return nil, errors.Invalid("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
