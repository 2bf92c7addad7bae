package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"elitesite-backend/pkg/contactform"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes
const (
	ExitOK         = 0
	ExitFailed     = 1
	ExitValidation = 2
)

// NewRootCommand builds the contact command. Tests call it with their own viper instance.
func NewRootCommand(v *viper.Viper, exitCode *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the website contact form",
		Long: `Submits a contact form message to the relay endpoint (POST /api/send-email)
using the same validation and state rules as the website form.

The relay URL is taken from --server or CONTACT_API_URL. When sending fails,
the --fallback contact (or CONTACT_FALLBACK) is shown as another way to reach us.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*exitCode = run(cmd.Context(), v, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("server", "http://localhost:8080", "relay base URL")
	flags.String("name", "", "your name")
	flags.String("email", "", "your email address")
	flags.String("message", "", "your message")
	flags.Duration("timeout", 15*time.Second, "request timeout")
	flags.String("fallback", "", "alternate contact shown on failure (email or WhatsApp link)")

	for _, name := range []string{"server", "name", "email", "message", "timeout", "fallback"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
	v.SetEnvPrefix("CONTACT")
	_ = v.BindEnv("server", "CONTACT_API_URL")
	v.AutomaticEnv()

	return cmd
}

// Execute runs the command with process-wide viper state and returns the exit code
func Execute() int {
	exitCode := ExitOK
	cmd := NewRootCommand(viper.New(), &exitCode)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitFailed
	}
	return exitCode
}

func run(ctx context.Context, v *viper.Viper, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}

	client := contactform.NewClient(v.GetString("server"), v.GetDuration("timeout")).
		WithFallback(v.GetString("fallback"))
	form := contactform.New(client)
	for _, field := range []string{"name", "email", "message"} {
		if err := form.Set(field, v.GetString(field)); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitFailed
		}
	}

	res, err := form.Submit(ctx)
	var verr *contactform.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(stderr, "%s: %s\n", f, verr.Fields[f])
		}
		return ExitValidation
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailed
	}

	if !res.Success {
		fmt.Fprintln(stderr, res.Message)
		return ExitFailed
	}
	fmt.Fprintln(stdout, res.Message)
	return ExitOK
}
