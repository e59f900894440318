package cli

import (
	"github.com/spf13/cobra"

	"github.com/kochabx/apiclient/forum"
)

func loginCmd() *cobra.Command {
	var in forum.LoginIn

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange email and password for a bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			tok, err := a.client.Login(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printJSON(tok)
		},
	}

	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func registerCmd() *cobra.Command {
	var (
		in      forum.UserIn
		confirm string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if confirm == "" {
				confirm = in.Password1
			}
			in.Password2 = confirm

			a := appFrom(cmd)
			u, err := a.client.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printJSON(u)
		},
	}

	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "display name")
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&in.Password1, "password", "p", "", "password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation (defaults to --password)")
	return cmd
}
