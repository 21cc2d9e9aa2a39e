package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dvcrn/wework-cli/internal/browser"
	"github.com/dvcrn/wework-cli/internal/calendar"
	"github.com/dvcrn/wework-cli/internal/store"
	"github.com/dvcrn/wework-cli/internal/tui"
	"github.com/spf13/cobra"
)

const defaultCalendarPath = "wework_bookings.ics"

func newCalendarCommand(a *app) *cobra.Command {
	var (
		output  string
		publish bool
		open    bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Generate an ICS calendar of your bookings",
		Long: `Generate an ICS calendar file from your upcoming bookings and the most recent
past ones. With --publish the file is also uploaded to the bucket configured
under calendar-store so calendar apps can subscribe to it. Use --output - to
write the calendar to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var publisher *store.CalendarPublisher
			if publish {
				if !a.cfg.CalendarStore.Enabled() {
					return fmt.Errorf("--publish needs calendar-store endpoint and bucket in the config file")
				}
				p, err := store.NewCalendarPublisher(a.cfg.CalendarStore)
				if err != nil {
					return err
				}
				publisher = p
			}
			toStdout := strings.TrimSpace(output) == "-"
			if toStdout && open {
				return fmt.Errorf("--open cannot be combined with --output -")
			}

			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			var (
				buf   bytes.Buffer
				count int
			)
			err = a.spin(cmd.Context(), "Building calendar", func(ctx context.Context) error {
				var errGen error
				count, errGen = calendar.Generate(ctx, client, &buf)
				return errGen
			})
			if err != nil {
				return fmt.Errorf("failed to generate calendar: %w", err)
			}

			if toStdout {
				_, err = a.out.Write(buf.Bytes())
				if err != nil {
					return err
				}
			} else {
				if err = os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("failed to write calendar: %w", err)
				}
				a.println(tui.Success(fmt.Sprintf("Calendar with %d bookings generated at %s", count, output)))
			}

			if publisher != nil {
				var written bool
				err = a.spin(cmd.Context(), "Publishing calendar", func(ctx context.Context) error {
					var errPub error
					written, errPub = publisher.Publish(ctx, buf.Bytes())
					return errPub
				})
				if err != nil {
					return fmt.Errorf("failed to publish calendar: %w", err)
				}
				msg := "Calendar published to " + publisher.URL()
				if !written {
					msg = "Calendar unchanged at " + publisher.URL()
				}
				_, _ = fmt.Fprintln(a.errOut, tui.Success(msg))
			}

			if open {
				if err = browser.Open(output); err != nil {
					return fmt.Errorf("failed to open calendar: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultCalendarPath, "Output path for the calendar file, or - for stdout")
	cmd.Flags().StringVar(&output, "calendar-path", defaultCalendarPath, "Output path for the calendar file")
	_ = cmd.Flags().MarkDeprecated("calendar-path", "use --output instead")
	cmd.Flags().BoolVar(&publish, "publish", false, "Upload the calendar to the configured calendar-store bucket")
	cmd.Flags().BoolVar(&open, "open", false, "Open the generated calendar with the default application")
	return cmd
}
