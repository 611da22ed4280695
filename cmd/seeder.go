package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mfadhilr/office-management/internal/auth"
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

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"attendance_records", "task_history", "tasks",
				"purchase_order_items", "purchase_orders",
				"supply_request_items", "supply_requests",
				"toners", "inventory_items",
				"leave_requests", "leave_balances",
				"users", "employees",
			} {
				if err := db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		seedEmployee(db, "EMP-001", "Sara Malik", "sara@office.local", "HR", "HR Manager", auth.RoleHR)
		seedEmployee(db, "EMP-002", "Imran Qureshi", "imran@office.local", "IT", "Head of Department", auth.RoleHOD)
		seedEmployee(db, "EMP-003", "Nadia Hussain", "nadia@office.local", "Accounts", "Account Manager", auth.RoleAccountManager)
		seedEmployee(db, "EMP-004", "Tariq Javed", "tariq@office.local", "Store", "Store Keeper", auth.RoleStore)
		seedEmployee(db, "EMP-005", "Farah Siddiqui", "farah@office.local", "Purchase", "Purchase Officer", auth.RolePurchase)
		seedEmployee(db, "EMP-006", "Ali Raza", "ali@office.local", "IT", "Software Engineer", auth.RoleEmployee)

		seedUser(db, "admin@office.local", "System Admin", string(hash), auth.RoleSuperAdmin, nil, "{}")
		seedUser(db, "sara@office.local", "Sara Malik", string(hash), auth.RoleHR, employeeID(db, "EMP-001"), hrMatrix)
		seedUser(db, "imran@office.local", "Imran Qureshi", string(hash), auth.RoleHOD, employeeID(db, "EMP-002"), hodMatrix)
		seedUser(db, "nadia@office.local", "Nadia Hussain", string(hash), auth.RoleAccountManager, employeeID(db, "EMP-003"), supplyMatrix)
		seedUser(db, "tariq@office.local", "Tariq Javed", string(hash), auth.RoleStore, employeeID(db, "EMP-004"), supplyMatrix)
		seedUser(db, "farah@office.local", "Farah Siddiqui", string(hash), auth.RolePurchase, employeeID(db, "EMP-005"), supplyMatrix)
		seedUser(db, "ali@office.local", "Ali Raza", string(hash), auth.RoleEmployee, employeeID(db, "EMP-006"), employeeMatrix)

		seedBalances(db)
		seedInventory(db)

		fmt.Println("Seeding complete. Default password for all accounts: password")
	},
}

// JSONB matrices per role. Modules/pages mirror the route guards; an entry
// absent here is denied outright.
const (
	hrMatrix = `{
		"hr": {
			"employees": {"view": true, "edit": true, "update": true, "delete": true},
			"leave_requests": {"view": true, "edit": true, "update": true, "delete": false},
			"attendance": {"view": true, "edit": true, "update": true, "delete": false},
			"reports": {"view": true, "edit": false, "update": false, "delete": false}
		}
	}`

	hodMatrix = `{
		"hr": {
			"leave_requests": {"view": true, "edit": false, "update": true, "delete": false}
		},
		"tasks": {
			"board": {"view": true, "edit": true, "update": true, "delete": false}
		}
	}`

	supplyMatrix = `{
		"supply_chain": {
			"requests": {"view": true, "edit": true, "update": true, "delete": false},
			"purchase_orders": {"view": true, "edit": true, "update": true, "delete": false}
		},
		"assets": {
			"items": {"view": true, "edit": true, "update": true, "delete": false},
			"toners": {"view": true, "edit": true, "update": true, "delete": false}
		}
	}`

	employeeMatrix = `{
		"supply_chain": {
			"requests": {"view": true, "edit": true, "update": false, "delete": false}
		},
		"tasks": {
			"board": {"view": true, "edit": false, "update": false, "delete": false}
		}
	}`
)

func seedEmployee(db *gorm.DB, code, name, email, department, designation, role string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM employees WHERE employee_code = ?", code).Row().Scan(&exists); err == nil {
		return
	}
	err := db.Exec(`INSERT INTO employees (employee_code, full_name, email, department, designation, role, employment_type, status, joined_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 'permanent', 'active', now() - interval '2 years', now(), now())`,
		code, name, email, department, designation, role).Error
	if err != nil {
		log.Fatalf("failed to seed employee %s: %v", code, err)
	}
	fmt.Println("Seeded employee:", code, name)
}

func employeeID(db *gorm.DB, code string) *int64 {
	var id int64
	if err := db.Raw("SELECT id FROM employees WHERE employee_code = ?", code).Row().Scan(&id); err != nil {
		return nil
	}
	return &id
}

func seedUser(db *gorm.DB, email, name, hash, role string, employeeID *int64, permissions string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", email).Row().Scan(&exists); err == nil {
		return
	}
	err := db.Exec(`INSERT INTO users (email, name, password_hash, role, employee_id, permissions, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?::jsonb, true, now(), now())`,
		email, name, hash, role, employeeID, permissions).Error
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
}

func seedBalances(db *gorm.DB) {
	err := db.Exec(`INSERT INTO leave_balances (employee_id, leave_type, total, used, updated_at)
		SELECT e.id, t.leave_type, t.total, 0, now()
		FROM employees e
		CROSS JOIN (VALUES ('Casual', 6), ('Sick', 8), ('Annual', 14)) AS t(leave_type, total)
		ON CONFLICT (employee_id, leave_type) DO NOTHING`).Error
	if err != nil {
		log.Fatalf("failed to seed leave balances: %v", err)
	}
	fmt.Println("Seeded leave balances")
}

func seedInventory(db *gorm.DB) {
	items := []struct {
		category, name, model string
		consumable            bool
		quantity, unit        string
	}{
		{"Laptop", "ThinkPad T14", "T14 Gen 4", false, "", ""},
		{"Printer", "LaserJet Pro", "M404dn", false, "", ""},
		{"Furniture", "Office Chair", "Ergo-7", false, "", ""},
		{"Kitchen", "Tea Leaves", "", true, "5.000", "kg"},
		{"Kitchen", "Sugar", "", true, "10.000", "kg"},
	}
	for _, item := range items {
		var exists int
		if err := db.Raw("SELECT 1 FROM inventory_items WHERE name = ?", item.name).Row().Scan(&exists); err == nil {
			continue
		}
		var err error
		if item.consumable {
			err = db.Exec(`INSERT INTO inventory_items (category, name, model, status, consumable, quantity, unit, is_active, created_at, updated_at)
				VALUES (?, ?, ?, 'In Stock', true, ?::numeric, ?, true, now(), now())`,
				item.category, item.name, item.model, item.quantity, item.unit).Error
		} else {
			err = db.Exec(`INSERT INTO inventory_items (category, name, model, status, consumable, is_active, created_at, updated_at)
				VALUES (?, ?, ?, 'In Stock', false, true, now(), now())`,
				item.category, item.name, item.model).Error
		}
		if err != nil {
			log.Fatalf("failed to seed item %s: %v", item.name, err)
		}
		fmt.Println("Seeded item:", item.name)
	}

	err := db.Exec(`INSERT INTO toners (model, status, count, updated_at) VALUES
		('M404dn', 'Filled', 4, now()),
		('M404dn', 'Empty', 1, now())
		ON CONFLICT (model, status) DO NOTHING`).Error
	if err != nil {
		log.Fatalf("failed to seed toners: %v", err)
	}
	fmt.Println("Seeded toner counters")
}
