package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"framez/internal/session"

	"github.com/spf13/cobra"
)

var registerDisplayName string

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	Run:   runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in",
	Args:  cobra.ExactArgs(1),
	Run:   runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	Run:   runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	Run:   runWhoami,
}

func init() {
	registerCmd.Flags().StringVarP(&registerDisplayName, "name", "n", "", "display name (defaults to the email's local part)")
	RootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}

func promptPassword(label string) string {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		exitf("Could not read password: %v", err)
	}
	return strings.TrimRight(line, "\r\n")
}

func runRegister(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	email := args[0]
	name := registerDisplayName
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	password := promptPassword("Password")

	sess, err := a.client.Auth.SignUp(context.Background(), email, password, name)
	if err != nil {
		exitf("Registration failed: %v", err)
	}
	if err := writeSessionToken(sess.Token); err != nil {
		exitf("Could not persist session: %v", err)
	}
	fmt.Printf("Welcome, %s. You are signed in.\n", sess.User.DisplayName)
}

func runLogin(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	password := promptPassword("Password")

	sess, err := a.client.Auth.SignInWithPassword(context.Background(), args[0], password)
	if err != nil {
		exitf("Login failed: %v", err)
	}
	if err := writeSessionToken(sess.Token); err != nil {
		exitf("Could not persist session: %v", err)
	}
	fmt.Printf("Signed in as %s.\n", sess.User.DisplayName)
}

func runLogout(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	if a.restoreSession(ctx) != nil {
		if err := session.Logout(ctx, a.sessions, a.client); err != nil {
			exitf("Sign out failed: %v", err)
		}
	}
	if err := clearSessionToken(); err != nil {
		exitf("Could not clear session: %v", err)
	}
	fmt.Println("Signed out.")
}

func runWhoami(cmd *cobra.Command, args []string) {
	a, err := openApp()
	if err != nil {
		exitf("Startup failed: %v", err)
	}
	defer a.Close()

	a.restoreSession(context.Background())
	state := a.sessions.Current()
	if !state.LoggedIn() {
		fmt.Println("Not signed in.")
		return
	}
	fmt.Printf("%s <%s> (id %d)\n", state.User.DisplayName, state.User.Email, state.User.ID)
}
