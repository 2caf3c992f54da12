package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igfetch/pkg/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored Instagram credentials",
	Long: `Manage stored Instagram session credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only)

To find the cookie values, log into Instagram in a browser, open the
developer tools, and copy the sessionid and csrftoken cookies.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store session credentials securely",
	Example: `  # Interactive login
  igfetch auth login

  # Login with username
  igfetch auth login myusername`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogin,
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	RunE:  runAuthList,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove <username>",
	Short: "Remove stored credentials",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authListCmd)
	authCmd.AddCommand(authRemoveCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Print("Instagram username: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(input)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	fmt.Print("sessionid cookie value: ")
	sessionID, err := readSecret(reader)
	if err != nil {
		return fmt.Errorf("failed to read session ID: %w", err)
	}

	fmt.Print("csrftoken cookie value: ")
	csrfToken, err := readSecret(reader)
	if err != nil {
		return fmt.Errorf("failed to read CSRF token: %w", err)
	}

	fmt.Print("User agent (press Enter for default): ")
	userAgent, _ := reader.ReadString('\n')
	userAgent = strings.TrimSpace(userAgent)

	account := &auth.Account{
		Username:  username,
		SessionID: sessionID,
		CSRFToken: csrfToken,
		UserAgent: userAgent,
	}

	if err := manager.Store(account); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	fmt.Printf("Credentials stored for %s\n", username)
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No stored accounts. Use 'igfetch auth login' to add one.")
		return nil
	}

	for _, account := range accounts {
		fmt.Printf("%s\n", account.Username)
		fmt.Printf("  Session ID:    %s\n", auth.MaskSecret(account.SessionID))
		fmt.Printf("  CSRF Token:    %s\n", auth.MaskSecret(account.CSRFToken))
		if account.UserAgent != "" {
			fmt.Printf("  User Agent:    %s\n", account.UserAgent)
		}
		fmt.Printf("  Last Modified: %s\n", account.LastModified.Format("2006-01-02 15:04:05"))
	}

	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	username := args[0]
	if err := manager.Delete(username); err != nil {
		return fmt.Errorf("failed to remove account: %w", err)
	}

	fmt.Printf("Account removed: %s\n", username)
	return nil
}

// readSecret reads a value from stdin without echoing when attached to
// a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(secret), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
