package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutriplan/client/internal/domain/user"
)

func (c *cli) loginCommand() *cobra.Command {
	var creds user.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session on this device",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		if err := c.app.Session.Login(cmd.Context(), creds); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", creds.Email)
		return nil
	})

	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	return cmd
}

func (c *cli) logoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		if err := c.app.Session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	})
	return cmd
}

// accountFlags binds the fields shared by register and profile update
type accountFlags struct {
	name, email, password string
	height, weight, age   float64
	activity, sex         string
}

func (f *accountFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "password (8+ chars, upper case, digit, symbol)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "height in cm")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "weight in kg")
	cmd.Flags().Float64Var(&f.age, "age", 0, "age in years")
	cmd.Flags().StringVar(&f.activity, "activity", "", "activity level: baja, moderada or alta")
	cmd.Flags().StringVar(&f.sex, "sex", "", "sex: femenino or masculino")
}

func (c *cli) registerCommand() *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		err := c.app.Session.Register(cmd.Context(), user.Registration{
			Name:          f.name,
			Email:         f.email,
			Password:      f.password,
			HeightCm:      f.height,
			WeightKg:      f.weight,
			ActivityLevel: f.activity,
			Sex:           f.sex,
			Age:           f.age,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Account created, sign in with 'nutriplan login'")
		return nil
	})

	f.bind(cmd)
	return cmd
}

func (c *cli) profileCommand() *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Replace the account and biometric profile",
		Long: `Replace the account and biometric profile of the signed-in user.

Every field is required. The session is cleared afterwards, sign in again
with the new credentials.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = c.run(func(cmd *cobra.Command, args []string) error {
		err := c.app.Session.UpdateProfile(cmd.Context(), user.ProfileUpdate{
			Name:          f.name,
			Email:         f.email,
			Password:      f.password,
			HeightCm:      f.height,
			WeightKg:      f.weight,
			ActivityLevel: f.activity,
			Sex:           f.sex,
			Age:           f.age,
		})
		if err != nil {
			return err
		}
		if err := c.app.Session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Profile updated, sign in again")
		return nil
	})

	f.bind(cmd)
	return cmd
}
