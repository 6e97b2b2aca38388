package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Strob0t/followup/internal/domain/mom"
	"github.com/Strob0t/followup/internal/service"
)

const maxMailBody = 4 << 20

// readBody reads a mail body from the named file, or from r when the name is
// empty or "-".
func readBody(args []string, r io.Reader) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxMailBody))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	body := string(data)
	if strings.Contains(strings.ToLower(body), "<html") || strings.Contains(body, "<br") {
		body = mom.CleanHTML(body)
	}
	if strings.TrimSpace(body) == "" {
		return "", errors.New("empty mail body")
	}
	return body, nil
}

func replyCmd(a *app) *cobra.Command {
	var rep service.Reply
	cmd := &cobra.Command{
		Use:   "reply [file|-]",
		Short: "Apply a fetched reply mail: close completed tasks and acknowledge",
		Long: `Apply a fetched reply mail. Task status lines such as

  Task ID: MOM-20260310-001-T01
  Status: Done

or "MOM-20260310-001-T02: pending, vendor on leave" close or re-flag the
matching tasks, and the sender gets an acknowledgment listing what was
recorded. The body is read from the file, or from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			rep.Body = body

			c, err := newCore(cmd.Context(), a.cfg, passClockNow(a), nil)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.coord.ApplyReply(cmd.Context(), rep)
			if err != nil {
				return err
			}
			return a.emit(res, func(w io.Writer) { writeReplyResult(w, res) })
		},
	}
	f := cmd.Flags()
	f.StringVar(&rep.From, "from", "", "sender address (acknowledgment recipient)")
	f.StringVar(&rep.FromName, "name", "", "sender display name")
	f.StringVar(&rep.Subject, "subject", "", "subject of the reply mail")
	return cmd
}

func intakeCmd(a *app) *cobra.Command {
	var msg mom.Message
	cmd := &cobra.Command{
		Use:   "intake [file|-]",
		Short: "Create tasks from a minutes-of-meeting mail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			msg.Body = body
			if msg.From == "" {
				return errors.New("--from is required")
			}

			clk := passClockNow(a)
			msg.ReceivedAt = clk.Now()
			c, err := newCore(cmd.Context(), a.cfg, clk, nil)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.coord.IngestMinutes(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return a.emit(res, func(w io.Writer) {
				fmt.Fprintf(w, "Meeting:\t%s\n", res.MeetingID)
				writeTasks(w, res.Created)
				for _, id := range res.Skipped {
					fmt.Fprintf(w, "%s\t(exists, skipped)\n", id)
				}
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&msg.Subject, "subject", "", "subject of the minutes mail")
	f.StringVar(&msg.From, "from", "", "sender address, the default task owner")
	return cmd
}

func writeReplyResult(w io.Writer, res service.ReplyResult) {
	fmt.Fprintf(w, "Reply type:\t%s\n", res.Type)
	for _, o := range res.Summary.Completed {
		fmt.Fprintf(w, "Completed:\t%s\t%s\n", o.TaskID, o.Rating)
	}
	for _, o := range res.Summary.Pending {
		fmt.Fprintf(w, "Pending:\t%s\t%s\n", o.TaskID, o.Notes)
	}
	for _, o := range res.Summary.Unmatched {
		fmt.Fprintf(w, "Unmatched:\t%s\t%s\n", o.TaskID, o.Reason)
	}
	switch {
	case res.Acknowledged:
		fmt.Fprintln(w, "Acknowledged:\tyes")
	case res.AckError != "":
		fmt.Fprintf(w, "Acknowledged:\tno (%s)\n", res.AckError)
	}
}
