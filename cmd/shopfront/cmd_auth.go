package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shopfront/internal/storeapi"
)

var (
	authUsername string
	authPassword string

	regEmail     string
	regFirstname string
	regLastname  string
	regPhone     string
	regCity      string
	regStreet    string
	regZip       string
)

// loginCmd signs in and persists the session.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the store",
	Long: `Sign in with a username and password and persist the session.

The public demo API accepts its own seeded accounts, e.g.:
  shopfront login -u johnd -p 'm38rmF$'`,
	RunE: runLogin,
}

// registerCmd creates an account and signs in.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE:  runRegister,
}

// logoutCmd clears the persisted session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the persisted session",
	RunE:  runLogout,
}

// whoamiCmd verifies and prints the current session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&authUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVarP(&authUsername, "username", "u", "", "username")
	registerCmd.Flags().StringVarP(&authPassword, "password", "p", "", "password")
	registerCmd.Flags().StringVar(&regEmail, "email", "", "email address")
	registerCmd.Flags().StringVar(&regFirstname, "firstname", "", "first name")
	registerCmd.Flags().StringVar(&regLastname, "lastname", "", "last name")
	registerCmd.Flags().StringVar(&regPhone, "phone", "", "phone number")
	registerCmd.Flags().StringVar(&regCity, "city", "", "city")
	registerCmd.Flags().StringVar(&regStreet, "street", "", "street")
	registerCmd.Flags().StringVar(&regZip, "zipcode", "", "ZIP code")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("password")
	_ = registerCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	err = rt.auth.Login(ctx, storeapi.Credentials{
		Username: authUsername,
		Password: authPassword,
	})
	if err != nil {
		state := rt.auth.State()
		if state.Err != "" {
			return fmt.Errorf("%s", state.Err)
		}
		return err
	}

	state := rt.auth.State()
	cmd.Printf("Signed in as %s.\n", state.User.Username)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	reg := storeapi.Registration{
		Email:    regEmail,
		Username: authUsername,
		Password: authPassword,
		Name:     storeapi.Name{Firstname: regFirstname, Lastname: regLastname},
		Address: storeapi.Address{
			City:    regCity,
			Street:  regStreet,
			Zipcode: regZip,
		},
		Phone: regPhone,
	}
	if err := rt.auth.Register(ctx, reg); err != nil {
		state := rt.auth.State()
		if state.Err != "" {
			return fmt.Errorf("%s", state.Err)
		}
		return err
	}

	state := rt.auth.State()
	cmd.Printf("Account created. Signed in as %s.\n", state.User.Username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.auth.Logout(ctx)
	cmd.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.auth.Bootstrap(ctx)
	state := rt.auth.State()
	if !state.IsAuthenticated {
		cmd.Println("Not signed in.")
		return nil
	}
	cmd.Printf("%s (%s %s)\n", state.User.Username, state.User.Name.Firstname, state.User.Name.Lastname)
	cmd.Printf("Email: %s\n", state.User.Email)
	return nil
}
