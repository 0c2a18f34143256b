package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rezonia/evatr-go/internal/model"
)

var (
	ownVatID    string
	companyName string
	city        string
	street      string
	postalCode  string
)

var verifyCmd = &cobra.Command{
	Use:   "verify [own-vat-id] <foreign-vat-id>",
	Short: "Confirm a foreign VAT ID",
	Long: `Confirm a foreign EU VAT ID against the eVatR service.

A simple confirmation only needs both VAT IDs. Passing --company and --city
makes it a qualified confirmation; --street and --zip are optional additions.
VAT IDs are sent as given, the service reports malformed ones.

The command exits with an error unless the VAT ID is currently valid.
The call is never retried; service errors (5xx) may be repeated later.

Examples:
  evatr verify DE123456789 ATU12345678
  evatr verify --own-vat-id DE123456789 ATU12345678
  evatr verify DE123456789 ATU12345678 --company "Test GmbH" --city Wien --zip 1010
  evatr verify -f json DE123456789 ATU12345678`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&ownVatID, "own-vat-id", "", "Own German VAT ID (env: EVATR_OWN_VAT_ID)")
	verifyCmd.Flags().StringVar(&companyName, "company", "", "Company name for a qualified confirmation")
	verifyCmd.Flags().StringVar(&city, "city", "", "City for a qualified confirmation")
	verifyCmd.Flags().StringVar(&street, "street", "", "Street (qualified confirmation only)")
	verifyCmd.Flags().StringVar(&postalCode, "zip", "", "Postal code (qualified confirmation only)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	own, foreign, err := resolveVatIDs(args, ownVatID, os.Getenv("EVATR_OWN_VAT_ID"))
	if err != nil {
		return err
	}

	query, err := buildQuery(own, foreign, companyName, city, street, postalCode)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"own":       own,
		"foreign":   foreign,
		"qualified": query.IsQualified(),
	}).Debug("sending confirmation query")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := newClient().VerifyVatID(ctx, query)
	if err != nil {
		return describeError(err)
	}

	if err := outputConfirmation(os.Stdout, result); err != nil {
		return err
	}

	if !result.IsValid() {
		return fmt.Errorf("VAT ID %s is not valid (%s)", foreign, result.Status.Name())
	}
	return nil
}

// resolveVatIDs takes the own VAT ID from the first argument, the flag or the environment
func resolveVatIDs(args []string, flagOwn, envOwn string) (own, foreign string, err error) {
	if len(args) == 2 {
		return args[0], args[1], nil
	}

	own = flagOwn
	if own == "" {
		own = envOwn
	}
	if own == "" {
		return "", "", errors.New("own VAT ID missing: pass it as first argument, --own-vat-id or EVATR_OWN_VAT_ID")
	}
	return own, args[0], nil
}

func buildQuery(own, foreign, company, city, street, zip string) (model.ConfirmationQuery, error) {
	if company == "" && city == "" {
		if street != "" || zip != "" {
			return model.ConfirmationQuery{}, errors.New("--street and --zip require --company and --city")
		}
		return model.NewSimpleQuery(own, foreign), nil
	}
	if company == "" || city == "" {
		return model.ConfirmationQuery{}, errors.New("a qualified confirmation needs both --company and --city")
	}

	var opts []model.QueryOption
	if street != "" {
		opts = append(opts, model.WithStreet(street))
	}
	if zip != "" {
		opts = append(opts, model.WithPostalCode(zip))
	}
	return model.NewQualifiedQuery(own, foreign, company, city, opts...), nil
}

// describeError adds a retry hint to typed service errors
func describeError(err error) error {
	var e *model.Error
	if !errors.As(err, &e) {
		return err
	}

	log.WithFields(logrus.Fields{
		"kind":      e.Kind,
		"http_code": e.HTTPCode,
	}).Debug("request failed")

	if e.Retryable() {
		return fmt.Errorf("%w (temporary, try again later)", err)
	}
	return err
}

func outputConfirmation(w io.Writer, r *model.ConfirmationResult) error {
	if outputFormat == "json" {
		return outputJSON(w, confirmationOutput{ConfirmationResult: r, Valid: r.IsValid(), StatusName: r.Status.Name()})
	}

	statusIcon := "✓"
	if !r.IsValid() {
		statusIcon = "✗"
	}
	fmt.Fprintf(w, "%s %s (%s)\n", statusIcon, r.Status.Name(), r.Status)
	fmt.Fprintf(w, "  Queried at: %s\n", r.QueryTimestamp)
	if r.ID != nil {
		fmt.Fprintf(w, "  ID:         %s\n", *r.ID)
	}
	if r.ValidFrom != nil {
		fmt.Fprintf(w, "  Valid from: %s\n", *r.ValidFrom)
	}
	if r.ValidUntil != nil {
		fmt.Fprintf(w, "  Valid to:   %s\n", *r.ValidUntil)
	}

	fields := []struct {
		name   string
		value  *string
		result *model.ComparisonResult
	}{
		{"Company", r.CompanyName, r.CompanyNameResult},
		{"Street", r.Street, r.StreetResult},
		{"Postal code", r.PostalCode, r.PostalCodeResult},
		{"City", r.City, r.CityResult},
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := 0
	for _, f := range fields {
		if f.value == nil && f.result == nil {
			continue
		}
		if rows == 0 {
			fmt.Fprintln(tw, "  FIELD\tVALUE\tRESULT")
		}
		rows++
		value, outcome := "-", "-"
		if f.value != nil {
			value = *f.value
		}
		if f.result != nil {
			outcome = f.result.Label()
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.name, value, outcome)
	}
	return tw.Flush()
}

type confirmationOutput struct {
	*model.ConfirmationResult
	Valid      bool   `json:"valid"`
	StatusName string `json:"statusName"`
}
