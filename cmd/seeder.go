package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := gorm.Open(gormpg.Open(cfg.Database.Source), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open db: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM expense_report").Error; err != nil {
				log.Fatalf("failed to clear expense_report: %v", err)
			}
			if err := db.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		demoGPN := "10230045"
		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE gpn = ?", demoGPN).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("demo user already exists")
		} else {
			if err := db.Exec(
				"INSERT INTO users (gpn, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
				demoGPN, "demo@expense-portal.local", string(hash)).Error; err != nil {
				log.Fatalf("failed to insert demo user: %v", err)
			}
			fmt.Println("Seeded demo user:", demoGPN)
		}

		reports := []struct {
			GPN     string
			Invoice string
			Item    string
			Amount  float64
			Date    string
		}{
			{demoGPN, "INV-2025-001", "Taxi", 42.50, "2025-11-03"},
			{demoGPN, "INV-2025-001", "Hotel", 380.00, "2025-11-03"},
			{demoGPN, "INV-2025-002", "Meals", 27.80, "2025-11-10"},
			{"10230046", "INV-2025-003", "Taxi", 18.00, "2025-11-12"},
		}

		for _, r := range reports {
			row := db.Raw(
				"SELECT 1 FROM expense_report WHERE gpn = ? AND invoice_number = ? AND item = ? AND report_date = ?",
				r.GPN, r.Invoice, r.Item, r.Date).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO expense_report (gpn, invoice_number, item, amount, report_date, created_at) VALUES (?, ?, ?, ?, ?, now())",
				r.GPN, r.Invoice, r.Item, r.Amount, r.Date).Error; err != nil {
				log.Fatalf("failed to insert report %s/%s: %v", r.Invoice, r.Item, err)
			}
			fmt.Printf("Seeded report %s %s\n", r.Invoice, r.Item)
		}
	},
}
