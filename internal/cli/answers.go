package cli

import (
	"github.com/spf13/cobra"

	"github.com/kochabx/apiclient/forum"
)

func answersCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     "answers",
		Aliases: []string{"a"},
		Short:   "Read and manage answers; all but show need --token",
	}

	c.AddCommand(
		answersShowCmd(),
		answersCreateCmd(),
		answersUpdateCmd(),
		answersDeleteCmd(),
		answersVoteCmd(),
	)
	return c
}

// withID wraps a command that takes exactly one numeric id
func withID(use, short string, run func(cmd *cobra.Command, a *app, id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return run(cmd, appFrom(cmd), ids[0])
		},
	}
}

func answersShowCmd() *cobra.Command {
	return withID("show ID", "Show an answer", func(cmd *cobra.Command, a *app, id int) error {
		ans, err := a.client.Answer(cmd.Context(), id)
		if err != nil {
			return err
		}
		return a.printJSON(ans)
	})
}

func answersCreateCmd() *cobra.Command {
	var in forum.AnswerIn
	cmd := withID("create QUESTION_ID", "Answer a question", func(cmd *cobra.Command, a *app, id int) error {
		ans, err := a.client.CreateAnswer(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		return a.printJSON(ans)
	})
	cmd.Flags().StringVarP(&in.Content, "content", "m", "", "answer body")
	return cmd
}

func answersUpdateCmd() *cobra.Command {
	var in forum.AnswerIn
	cmd := withID("update ID", "Replace the content of an answer", func(cmd *cobra.Command, a *app, id int) error {
		ans, err := a.client.UpdateAnswer(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		return a.printJSON(ans)
	})
	cmd.Flags().StringVarP(&in.Content, "content", "m", "", "answer body")
	return cmd
}

func answersDeleteCmd() *cobra.Command {
	return withID("delete ID", "Delete an answer", func(cmd *cobra.Command, a *app, id int) error {
		if err := a.client.DeleteAnswer(cmd.Context(), id); err != nil {
			return err
		}
		return a.printJSON(map[string]any{"deleted": id})
	})
}

func answersVoteCmd() *cobra.Command {
	return withID("vote ID", "Vote for an answer", func(cmd *cobra.Command, a *app, id int) error {
		if err := a.client.VoteAnswer(cmd.Context(), id); err != nil {
			return err
		}
		return a.printJSON(map[string]any{"voted": id})
	})
}
