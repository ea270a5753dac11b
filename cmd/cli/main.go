package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finbook/finbook/internal/infrastructure/config"
	"github.com/finbook/finbook/internal/infrastructure/postgres"
)

var (
	baseURL  string
	timeout  time.Duration
	userID   string
	userName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "finbook-cli",
		Short: "Finbook CLI tool",
		Long:  `A command line interface for operating a Finbook deployment.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Finbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "cli", "User ID to act as")
	rootCmd.PersistentFlags().StringVar(&userName, "name", "", "Display name to act as")

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(false)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(true)
		},
	})
	rootCmd.AddCommand(migrateCmd)

	// Budget commands
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Budget operations",
	}
	budgetCmd.AddCommand(&cobra.Command{
		Use:   "balance <budget-id>",
		Short: "Show a budget's stored balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showBalance(args[0])
		},
	})
	budgetCmd.AddCommand(&cobra.Command{
		Use:   "recalculate <budget-id>",
		Short: "Rebuild a budget's balance from its transaction log",
		Run: func(cmd *cobra.Command, args []string) {
			recalculate(args[0])
		},
		Args: cobra.ExactArgs(1),
	})
	budgetCmd.AddCommand(&cobra.Command{
		Use:   "check <budget-id>",
		Short: "Compare the stored balance against the recomputed sum",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			checkBalance(args[0])
		},
	})
	rootCmd.AddCommand(budgetCmd)

	// Statement import
	var importSource string
	importCmd := &cobra.Command{
		Use:   "import <budget-id> <statement.csv>",
		Short: "Import a bank statement into a budget",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			importStatement(args[0], args[1], importSource)
		},
	}
	importCmd.Flags().StringVar(&importSource, "source", "statement", "Statement source name used for deduplication")
	rootCmd.AddCommand(importCmd)

	// Feed export
	var exportCurrency string
	exportCmd := &cobra.Command{
		Use:   "export <budget-id>",
		Short: "Export the latest transactions as a markdown table",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			exportFeed(args[0], exportCurrency)
		},
	}
	exportCmd.Flags().StringVar(&exportCurrency, "currency", "", "Display currency for converted amounts")
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runMigrations(down bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if down {
		err = postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath)
	} else {
		err = postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	}
	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations complete")
}

func doRequest(method, url string, contentType string, body io.Reader) []byte {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-User-ID", userID)
	if userName != "" {
		req.Header.Set("X-User-Name", userName)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	return respBody
}

func showBalance(budgetID string) {
	body := doRequest(http.MethodGet, baseURL+"/api/v1/budgets/"+budgetID, "", nil)

	var budget struct {
		Name           string `json:"name"`
		Currency       string `json:"currency"`
		CurrentBalance string `json:"current_balance"`
	}
	if err := json.Unmarshal(body, &budget); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %s %s\n", budget.Name, budget.CurrentBalance, budget.Currency)
}

func recalculate(budgetID string) {
	body := doRequest(http.MethodPost, baseURL+"/api/v1/budgets/"+budgetID+"/recalculate", "", nil)

	var result struct {
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Balance recalculated: %s\n", result.Balance)
}

func checkBalance(budgetID string) {
	body := doRequest(http.MethodGet, baseURL+"/api/v1/budgets/"+budgetID, "", nil)

	var budget struct {
		CurrentBalance string `json:"current_balance"`
	}
	if err := json.Unmarshal(body, &budget); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	stored, err := decimal.NewFromString(budget.CurrentBalance)
	if err != nil {
		fmt.Printf("Unparseable stored balance %q: %v\n", budget.CurrentBalance, err)
		os.Exit(1)
	}

	body = doRequest(http.MethodPost, baseURL+"/api/v1/budgets/"+budgetID+"/recalculate", "", nil)

	var result struct {
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	recomputed, err := decimal.NewFromString(result.Balance)
	if err != nil {
		fmt.Printf("Unparseable recomputed balance %q: %v\n", result.Balance, err)
		os.Exit(1)
	}

	drift := recomputed.Sub(stored)
	if drift.IsZero() {
		fmt.Printf("OK: stored balance %s matches the transaction log\n", stored)
		return
	}

	fmt.Printf("DRIFT: stored %s, recomputed %s (off by %s); aggregate repaired\n",
		stored, recomputed, drift)
	os.Exit(1)
}

func importStatement(budgetID, path, source string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error opening statement: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("statement", filepath.Base(path))
	if err != nil {
		fmt.Printf("Error building form: %v\n", err)
		os.Exit(1)
	}
	if _, err := io.Copy(part, f); err != nil {
		fmt.Printf("Error reading statement: %v\n", err)
		os.Exit(1)
	}
	form.WriteField("source", source)
	form.Close()

	body := doRequest(http.MethodPost, baseURL+"/api/v1/budgets/"+budgetID+"/imports",
		form.FormDataContentType(), &buf)

	var result struct {
		RunID    string `json:"run_id"`
		Imported int    `json:"imported"`
		Skipped  int    `json:"skipped"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Import %s: %d imported, %d skipped\n", result.RunID, result.Imported, result.Skipped)
}

func exportFeed(budgetID, currency string) {
	url := baseURL + "/api/v1/budgets/" + budgetID + "/transactions/export"
	if currency != "" {
		url += "?display_currency=" + currency
	}

	body := doRequest(http.MethodGet, url, "", nil)
	fmt.Print(string(body))
}
