package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/Ramandaygy/tutor-app/internal/config"
	"github.com/Ramandaygy/tutor-app/internal/service"
	"golang.org/x/term"
)

// issue-token mints a student JWT for local development and smoke testing,
// without standing up the portal's identity provider.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Issue Student Token ===")

	// Student ID
	fmt.Print("Enter Student ID: ")
	idStr, _ := reader.ReadString('\n')
	idStr = strings.TrimSpace(idStr)
	studentID, err := strconv.Atoi(idStr)
	if err != nil || studentID <= 0 {
		fmt.Println("Error: Student ID must be a positive number")
		return
	}

	// Let the operator type the signing secret without echoing it when the
	// environment still carries the default.
	if os.Getenv("JWT_SECRET") == "" {
		fmt.Print("Enter JWT Secret (hidden, empty keeps default): ")
		byteSecret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			fmt.Println("Error reading secret")
			return
		}
		if secret := strings.TrimSpace(string(byteSecret)); secret != "" {
			cfg.JWTSecret = secret
		}
	}

	authService := service.NewAuthService(cfg)
	token, err := authService.GenerateStudentToken(studentID)
	if err != nil {
		fmt.Printf("Error: failed to sign token: %v\n", err)
		return
	}

	fmt.Printf("\nToken for student %d (valid %s):\n%s\n", studentID, cfg.JWTExpiry, token)
}
