package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/joho/godotenv"
)

var (
	serverURL string
	email     string
	password  string
)

func init() {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	serverURL = getEnv("SERVER_URL", "http://localhost:8080")
	email = getEnv("EMAIL", "")
	password = getEnv("PASSWORD", "")

	if email == "" || password == "" {
		fmt.Println("Error: EMAIL and PASSWORD not set. Please set them in .env file or environment variables.")
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

func main() {
	fmt.Printf("=== TickList Session Demo ===\n")

	// Step 1: Login
	fmt.Println("Step 1: Logging in...")
	token, err := login()
	if err != nil {
		fmt.Printf("Error logging in: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n========================================\n")
	fmt.Printf("Login successful!\n")
	fmt.Printf("Signed in as: %s <%s>\n", token.User.Name, token.User.Email)
	fmt.Printf("Access Token: %s...\n", token.AccessToken[:min(50, len(token.AccessToken))])
	fmt.Printf("Token Type: %s\n", token.TokenType)
	fmt.Printf("========================================\n")

	// Step 2: Fetch the profile with the token
	fmt.Println("\nStep 2: Fetching profile...")
	if err := fetchProfile(token.AccessToken); err != nil {
		fmt.Printf("Profile fetch failed: %v\n", err)
		os.Exit(1)
	}

	// Step 3: Logout revokes the token server-side
	fmt.Println("\nStep 3: Logging out...")
	if err := logout(token.AccessToken); err != nil {
		fmt.Printf("Logout failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logged out.")

	// Step 4: The token must be dead now, well before its expiry
	fmt.Println("\nStep 4: Reusing the revoked token...")
	if err := fetchProfile(token.AccessToken); err != nil {
		fmt.Printf("Rejected as expected: %v\n", err)
	} else {
		fmt.Println("Unexpected: revoked token still accepted!")
		os.Exit(1)
	}
}

func login() (*LoginResponse, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := http.Post(serverURL+"/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		json.Unmarshal(body, &errResp)
		return nil, fmt.Errorf("%s: %s", errResp.Error, errResp.ErrorDescription)
	}

	var token LoginResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, err
	}

	return &token, nil
}

func fetchProfile(accessToken string) error {
	req, _ := http.NewRequest("GET", serverURL+"/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		json.Unmarshal(body, &errResp)
		return fmt.Errorf("%s: %s", errResp.Error, errResp.ErrorDescription)
	}

	fmt.Printf("Profile: %s\n", string(body))
	return nil
}

func logout(accessToken string) error {
	req, _ := http.NewRequest("POST", serverURL+"/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		json.Unmarshal(body, &errResp)
		return fmt.Errorf("%s: %s", errResp.Error, errResp.ErrorDescription)
	}

	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
