package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/nfrund/attendance/internal/attendance"
	"github.com/spf13/cobra"
)

// runCheck drives one attendance form submission and reports the outcome.
func runCheck(ctx context.Context, cmd *cobra.Command, checker attendance.Checker, session, email, password string) error {
	form := &attendance.Form{}
	query := url.Values{}
	if session != "" {
		query.Set(attendance.SessionParam, session)
	}
	form.ResolveSession(query)
	form.SetEmail(email)
	form.SetPassword(password)

	result, err := form.Submit(ctx, checker, nil)
	if err != nil {
		if form.Error != "" {
			return errors.New(form.Error)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Attendance Recorded")
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", result.DisplayName(email))
	return nil
}
