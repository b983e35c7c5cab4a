package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"imageharvest/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage vision API credentials",
	Long: `Manage the credentials used for image classification.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)`,
}

// authSetCmd represents the auth set command
var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a vision API credential securely",
	Long: `Store a vision API credential in the system keychain or encrypted file.

You will be prompted for an API key. The key is read without echo.
Alternatively, point at a service-account JSON file with --credentials-file.`,
	Example: `  # Interactive key entry
  imageharvest auth set

  # Use a service-account file instead of a key
  imageharvest auth set --credentials-file ~/keys/vision.json`,
	RunE: runAuthSet,
}

// authShowCmd represents the auth show command
var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored credential with the key masked",
	RunE:  runAuthShow,
}

// authDeleteCmd represents the auth delete command
var authDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored credential",
	RunE:  runAuthDelete,
}

var credentialsFile string

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authShowCmd)
	authCmd.AddCommand(authDeleteCmd)

	authSetCmd.Flags().StringVar(&credentialsFile, "credentials-file", "", "path to a service-account JSON file")
}

// visionCredentialName is the single credential slot the classifier uses
const visionCredentialName = "vision"

func runAuthSet(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	cred := &auth.Credential{Name: visionCredentialName}

	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			return fmt.Errorf("credentials file not readable: %w", err)
		}
		cred.CredentialsFile = credentialsFile
	} else {
		fmt.Print("API key: ")
		keyBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			// Fall back to plain read when stdin is not a terminal
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read API key: %w", err)
			}
			keyBytes = []byte(strings.TrimSpace(line))
		}
		cred.APIKey = strings.TrimSpace(string(keyBytes))
		if cred.APIKey == "" {
			return fmt.Errorf("API key must not be empty")
		}
	}

	if err := manager.Store(cred); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	fmt.Println("Credential stored.")
	return nil
}

func runAuthShow(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	cred, err := manager.Retrieve(visionCredentialName)
	if err != nil {
		return err
	}

	clean := auth.Sanitize(cred)
	fmt.Printf("Name:             %s\n", clean.Name)
	if clean.APIKey != "" {
		fmt.Printf("API key:          %s\n", clean.APIKey)
	}
	if clean.CredentialsFile != "" {
		fmt.Printf("Credentials file: %s\n", clean.CredentialsFile)
	}
	fmt.Printf("Last modified:    %s\n", clean.LastModified.Format("2006-01-02 15:04:05"))
	return nil
}

func runAuthDelete(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(visionCredentialName); err != nil {
		return err
	}

	fmt.Println("Credential removed.")
	return nil
}
