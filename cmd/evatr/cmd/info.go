package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/evatr-go/internal/model"
)

var statusMessagesCmd = &cobra.Command{
	Use:   "status-messages",
	Short: "List the status messages of the eVatR service",
	Long: `Fetch the status message catalog from the eVatR service.

Examples:
  evatr status-messages
  evatr status-messages -f json`,
	Args: cobra.NoArgs,
	RunE: runStatusMessages,
}

var memberStatesCmd = &cobra.Command{
	Use:   "member-states",
	Short: "List the EU member states and their availability",
	Long: `Fetch the EU member states from the eVatR service, including whether
confirmations for that state are currently available.

Examples:
  evatr member-states
  evatr member-states -f json`,
	Args: cobra.NoArgs,
	RunE: runMemberStates,
}

var statusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "Show the status codes known to this client",
	Long: `Print the status codes compiled into this client with their HTTP class.
No request is sent.`,
	Args: cobra.NoArgs,
	RunE: runStatuses,
}

func init() {
	rootCmd.AddCommand(statusMessagesCmd)
	rootCmd.AddCommand(memberStatesCmd)
	rootCmd.AddCommand(statusesCmd)
}

func runStatusMessages(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	messages, err := newClient().StatusMessages(ctx)
	if err != nil {
		return describeError(err)
	}
	log.Debugf("received %d status messages", len(messages))

	if outputFormat == "json" {
		return outputJSON(os.Stdout, messages)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tHTTP\tCATEGORY\tFIELD\tMESSAGE")
	fmt.Fprintln(tw, "------\t----\t--------\t-----\t-------")
	for _, m := range messages {
		field := ""
		if m.Field != nil {
			field = *m.Field
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", m.Status, m.HTTPCode, m.Category, field, m.Message)
	}
	return tw.Flush()
}

func runMemberStates(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	states, err := newClient().MemberStates(ctx)
	if err != nil {
		return describeError(err)
	}
	log.Debugf("received %d member states", len(states))

	if outputFormat == "json" {
		return outputJSON(os.Stdout, states)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tAVAILABLE")
	fmt.Fprintln(tw, "----\t----\t---------")
	for _, s := range states {
		available := "yes"
		if !s.Available {
			available = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.CountryCode, s.Name, available)
	}
	return tw.Flush()
}

func runStatuses(cmd *cobra.Command, args []string) error {
	type statusOutput struct {
		Code      string `json:"code"`
		Name      string `json:"name"`
		HTTPClass int    `json:"httpClass"`
		Valid     bool   `json:"valid"`
	}

	codes := model.StatusCodes()
	out := make([]statusOutput, 0, len(codes))
	for _, c := range codes {
		out = append(out, statusOutput{Code: string(c), Name: c.Name(), HTTPClass: c.HTTPClass(), Valid: c.IsValid()})
	}

	if outputFormat == "json" {
		return outputJSON(os.Stdout, out)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tHTTP\tNAME")
	fmt.Fprintln(tw, "----\t----\t----")
	for _, s := range out {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Code, s.HTTPClass, s.Name)
	}
	return tw.Flush()
}

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
