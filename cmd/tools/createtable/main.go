package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"orderdesk.io/app/internal/config"
	"orderdesk.io/app/internal/database"
	"orderdesk.io/app/internal/modules/orders"
)

var seed bool

var rootCmd = &cobra.Command{
	Use:   "createtable",
	Short: "Create the MySQL order tables, optionally with demo orders",
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVar(&seed, "seed", false, "insert demo orders")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	db, err := database.OpenMySQL(config.MySQLConfig{DSN: dsn})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	if err := orders.Migrate(db); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	cmd.Println("✓ orders, order_items and order_events are ready")

	if !seed {
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	repo := orders.NewRepo(db)
	for _, o := range demoOrders(time.Now().UTC()) {
		created, err := repo.Create(ctx, o)
		if err != nil {
			return fmt.Errorf("seed order for %s: %w", o.Email, err)
		}
		cmd.Printf("✓ seeded order %s (%s)\n", created.ID, created.NormalizedStatus())
	}
	return nil
}

func demoOrders(now time.Time) []orders.Order {
	return []orders.Order{
		{
			FirstName: "Ada", LastName: "Lovelace", Phone: 5550101, Email: "ada@example.com",
			Address: "12 St James's Square", City: "London", ZipCode: "SW1Y 4JH",
			Total: 84.5, Discount: 5, OrderDate: now.Add(-2 * time.Hour).Format(time.RFC3339),
			CartItems: []orders.CartItem{{Title: "Analytical Engine Mug"}, {Title: "Punch Card Notebook"}},
		},
		{
			FirstName: "Alan", LastName: "Turing", Phone: 5550102, Email: "alan@example.com",
			Address: "Bletchley Park", City: "Milton Keynes", ZipCode: "MK3 6EB",
			Total: 42, OrderDate: now.Add(-26 * time.Hour).Format(time.RFC3339), Status: orders.StatusDispatch,
			CartItems: []orders.CartItem{{Title: "Enigma Puzzle Box"}},
		},
		{
			FirstName: "Grace", LastName: "Hopper", Phone: 5550103, Email: "grace@example.com",
			Address: "1 Navy Yard", City: "Arlington", ZipCode: "22202",
			Total: 19.99, OrderDate: now.Add(-72 * time.Hour).Format(time.RFC3339), Status: orders.StatusSuccess,
			CartItems: []orders.CartItem{{Title: "Nanosecond Wire"}},
		},
	}
}
