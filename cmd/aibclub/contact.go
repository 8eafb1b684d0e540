package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/aib-club/internal/contact"
)

var contactForm contact.Form

// contactCmd submits the contact form without the UI
var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message to the club",
	Long: `Validates the form and sends it through the email service.

Example:
  aibclub contact --name "Ada Lovelace" --email ada@iu.edu --message "I'd like to join."`,
	Args: cobra.NoArgs,
	RunE: runContact,
}

func init() {
	contactCmd.Flags().StringVar(&contactForm.Name, "name", "", "Your name")
	contactCmd.Flags().StringVar(&contactForm.Email, "email", "", "Your email address")
	contactCmd.Flags().StringVar(&contactForm.Message, "message", "", "Message body")
}

func runContact(cmd *cobra.Command, args []string) error {
	ctx, cancel := headlessContext(cmd.Context())
	defer cancel()

	receipt, err := newSubmitter().Submit(ctx, contactForm)
	if err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			for _, field := range []string{contact.FieldName, contact.FieldEmail, contact.FieldMessage} {
				if msg, ok := verr.Fields[field]; ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
				}
			}
		}
		return errors.New(contact.UserMessage(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Message sent! We'll get back to you soon.\nReference: %s\n", receipt.Reference)
	return nil
}
