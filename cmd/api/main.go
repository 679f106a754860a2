package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/medihub-api/internal/config"
	"github.com/harentsoaR/medihub-api/internal/models"
	"github.com/harentsoaR/medihub-api/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "medihub-api",
		Short:        "MediHub clinic API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// createAdminCmd seeds an Admin account. Admin registration over HTTP needs
// an Admin session, so the first one is created here.
func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an Admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			get := func(name string) string {
				v, _ := flags.GetString(name)
				return v
			}
			dob, err := time.Parse("2006-01-02", get("dob"))
			if err != nil {
				return fmt.Errorf("--dob must be YYYY-MM-DD: %w", err)
			}
			admin := &models.Account{
				FirstName: get("first-name"),
				LastName:  get("last-name"),
				Email:     get("email"),
				Phone:     get("phone"),
				Password:  get("password"),
				Address: models.Address{
					Country: get("country"),
					City:    get("city"),
					Pincode: get("pincode"),
				},
				Gender: get("gender"),
				DOB:    dob,
				Role:   models.RoleAdmin,
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			client, err := connectMongo(ctx, cfg.MongoURI)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			st := store.New(client.Database(cfg.MongoDatabase))
			if err := st.EnsureIndexes(ctx); err != nil {
				return err
			}
			if err := st.Accounts.Create(ctx, admin); err != nil {
				return err
			}
			fmt.Printf("Admin %s created with id %s\n", admin.Email, admin.ID.Hex())
			return nil
		},
	}
	f := cmd.Flags()
	f.String("first-name", "", "First name (at least 3 characters)")
	f.String("last-name", "", "Last name (at least 3 characters)")
	f.String("email", "", "Login email")
	f.String("phone", "", "10 digit phone number")
	f.String("password", "", "Password (at least 8 characters)")
	f.String("gender", "", "Male or Female")
	f.String("dob", "", "Date of birth, YYYY-MM-DD")
	f.String("country", "", "Country")
	f.String("city", "", "City")
	f.String("pincode", "", "Pincode")
	for _, name := range []string{"first-name", "last-name", "email", "phone", "password", "gender", "dob"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}
	return logger
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}
