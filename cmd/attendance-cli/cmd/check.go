package cmd

import (
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/nfrund/attendance/internal/attendance"
	"github.com/spf13/cobra"
)

var checkOpts struct {
	apiBaseURL string
	session    string
	email      string
	password   string
	timeout    time.Duration
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Log in and mark attendance for a session",
	Long: `check submits the same login the attendance form does: it validates
the inputs, posts them to {api}/attendance/check?session=<id> once and prints
the welcome or error message. The password may come from ATTENDANCE_PASSWORD.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if checkOpts.apiBaseURL == "" {
			checkOpts.apiBaseURL = os.Getenv("API_BASE_URL")
		}
		if checkOpts.password == "" {
			checkOpts.password = os.Getenv("ATTENDANCE_PASSWORD")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkOpts.apiBaseURL == "" {
			return errors.New("--api or API_BASE_URL is required")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		client := attendance.NewClient(checkOpts.apiBaseURL, checkOpts.timeout)
		return runCheck(ctx, cmd, client, checkOpts.session, checkOpts.email, checkOpts.password)
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkOpts.apiBaseURL, "api", "", "attendance API base URL (default $API_BASE_URL)")
	checkCmd.Flags().StringVarP(&checkOpts.session, "session", "s", "", "attendance session id")
	checkCmd.Flags().StringVarP(&checkOpts.email, "email", "e", "", "email address")
	checkCmd.Flags().StringVarP(&checkOpts.password, "password", "p", "", "password (default $ATTENDANCE_PASSWORD)")
	checkCmd.Flags().DurationVar(&checkOpts.timeout, "timeout", 15*time.Second, "request timeout")
	rootCmd.AddCommand(checkCmd)
}
