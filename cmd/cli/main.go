package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/infrastructure/config"
	"github.com/iho/bankcore/internal/infrastructure/logger"
	"github.com/iho/bankcore/internal/infrastructure/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type apiClient struct {
	baseURL string
	timeout time.Duration
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := (&http.Client{Timeout: c.timeout}).Do(req)
	if err != nil {
		return 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusConflict {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return resp.StatusCode, fmt.Errorf("%s: %s", apiErr.Error, apiErr.Message)
		}
		return resp.StatusCode, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(raw), 200))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

func newRootCmd() *cobra.Command {
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "bankcore-cli",
		Short:         "Bankcore CLI tool",
		Long:          `A command line interface for scheduling accruals and inspecting the bankcore ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", "http://localhost:8080", "Base URL of the bankcore API")
	rootCmd.PersistentFlags().DurationVar(&client.timeout, "timeout", 5*time.Minute, "Request timeout")

	rootCmd.AddCommand(accrualCmd(client), reportCmd(client), reconcileCmd(client), migrateCmd())

	return rootCmd
}

func accrualCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accrual",
		Short: "Run periodic interest and fee accruals",
	}

	var accounts []string

	interestCmd := &cobra.Command{
		Use:   "interest",
		Short: "Apply interest to savings accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.InterestRunResponse
			if _, err := client.do(cmd.Context(), http.MethodPost, "/api/v1/accruals/interest",
				dto.AccrualRequest{AccountNumbers: accounts}, &resp); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, r := range resp.Results {
				if r.Error != nil {
					fmt.Fprintf(w, "FAILED  %s  %s: %s\n", r.AccountNumber, r.Error.Error, r.Error.Message)
					continue
				}
				fmt.Fprintf(w, "OK      %s  interest %s  balance %s\n", r.AccountNumber, r.InterestAmount, r.BalanceAfter)
			}

			return summarize(w, resp.Processed, resp.Failed)
		},
	}

	feesCmd := &cobra.Command{
		Use:   "fees",
		Short: "Charge monthly fees on checking accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.FeeRunResponse
			if _, err := client.do(cmd.Context(), http.MethodPost, "/api/v1/accruals/fees",
				dto.AccrualRequest{AccountNumbers: accounts}, &resp); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, r := range resp.Results {
				if r.Error != nil {
					fmt.Fprintf(w, "FAILED  %s  %s: %s\n", r.AccountNumber, r.Error.Error, r.Error.Message)
					continue
				}
				fmt.Fprintf(w, "OK      %s  fee %s  balance %s\n", r.AccountNumber, r.Fee, r.BalanceAfter)
			}

			return summarize(w, resp.Processed, resp.Failed)
		},
	}

	cmd.PersistentFlags().StringSliceVar(&accounts, "account", nil, "Limit the run to these account numbers")
	cmd.AddCommand(interestCmd, feesCmd)

	return cmd
}

// summarize prints the batch totals; any failed account makes the command fail.
func summarize(w io.Writer, processed, failed int) error {
	fmt.Fprintf(w, "processed: %d, failed: %d\n", processed, failed)
	if failed > 0 {
		return fmt.Errorf("%d accounts failed", failed)
	}

	return nil
}

func reportCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Account statements",
	}

	now := time.Now().UTC()
	var (
		year  int
		month int
	)

	monthlyCmd := &cobra.Command{
		Use:   "monthly <account-number>",
		Short: "Print the monthly statement of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("year", strconv.Itoa(year))
			query.Set("month", strconv.Itoa(month))

			var resp dto.MonthlyReportResponse
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/reports/monthly?" + query.Encode()
			if _, err := client.do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			printJSON(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	monthlyCmd.Flags().IntVar(&year, "year", now.Year(), "Statement year")
	monthlyCmd.Flags().IntVar(&month, "month", int(now.Month()), "Statement month (1-12)")
	cmd.AddCommand(monthlyCmd)

	return cmd
}

func reconcileCmd(client *apiClient) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check stored balances against the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if account != "" {
				var resp dto.ReconciliationResponse
				path := "/api/v1/accounts/" + url.PathEscape(account) + "/reconciliation"
				if _, err := client.do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
					return err
				}

				printJSON(w, resp)
				if !resp.IsReconciled {
					return fmt.Errorf("account %s is off by %s", resp.AccountNumber, resp.Difference)
				}
				return nil
			}

			var resp dto.ReconciliationReportResponse
			if _, err := client.do(cmd.Context(), http.MethodGet, "/api/v1/reconciliation", nil, &resp); err != nil {
				return err
			}

			fmt.Fprintf(w, "accounts: %d, reconciled: %d\n", resp.TotalAccounts, resp.ReconciledAccounts)
			for _, d := range resp.Discrepancies {
				fmt.Fprintf(w, "DISCREPANCY  %s  recorded %s  calculated %s  difference %s\n",
					d.AccountNumber, d.RecordedBalance, d.CalculatedBalance, d.Difference)
			}

			if !resp.Consistent {
				return fmt.Errorf("reconciliation FAILED: %d discrepancies", len(resp.Discrepancies))
			}

			fmt.Fprintln(w, "reconciliation PASSED")
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Reconcile a single account")

	return cmd
}

// migrator is satisfied by postgres.Migrator.
type migrator interface {
	Up() error
	Down(steps int) error
}

var newMigrator = func(databaseURL, path string, log zerolog.Logger) migrator {
	return postgres.NewMigrator(databaseURL, path, log)
}

func migrateCmd() *cobra.Command {
	var (
		databaseURL    string
		migrationsPath string
		steps          int
	)

	build := func(cmd *cobra.Command) (migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if databaseURL == "" {
			databaseURL = cfg.DatabaseURL
		}
		if migrationsPath == "" {
			migrationsPath = cfg.MigrationsPath
		}

		log := logger.New(logger.Config{Output: cmd.ErrOrStderr(), Level: cfg.LogLevel, Format: "console"})
		return newMigrator(databaseURL, migrationsPath, log), nil
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := build(cmd)
			if err != nil {
				return err
			}
			return m.Up()
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := build(cmd)
			if err != nil {
				return err
			}
			return m.Down(steps)
		},
	}

	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Database URL (defaults to DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "Migrations directory (defaults to MIGRATIONS_PATH)")
	downCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(upCmd, downCmd)

	return cmd
}

func printJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "failed to encode output: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
