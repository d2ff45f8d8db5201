package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aokimoto/orderdesk-backend/config"
	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/app/repository"
	"github.com/aokimoto/orderdesk-backend/internal/app/service"
	"github.com/aokimoto/orderdesk-backend/internal/db"
	"github.com/aokimoto/orderdesk-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Imports historical orders from an xlsx sheet. Expected columns:
// order_token, order_date, status, customer_name, customer_email,
// items (comma separated), delivery_address, payment_method, notes.
// A blank order_token gets a fresh one.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	orderRepo := repository.NewOrderRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	orders, err := readOrdersFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total orders to import: %d\n", len(orders))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := orderRepo.BulkCreate(orders, batchSize); err != nil {
		log.Fatal("Failed to bulk create orders:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total orders imported: %d\n", len(orders))
}

func readOrdersFromXLSX(filePath string) ([]model.Order, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var orders []model.Order
	seenTokens := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 8 {
			skippedCount++
			continue
		}

		token := strings.TrimSpace(cell(row, 0))
		orderDateStr := strings.TrimSpace(cell(row, 1))
		status := model.OrderStatus(strings.TrimSpace(cell(row, 2)))
		customerName := strings.TrimSpace(cell(row, 3))
		customerEmail := model.NormalizeEmail(cell(row, 4))
		items := service.SplitItems(cell(row, 5))
		deliveryAddress := strings.TrimSpace(cell(row, 6))
		paymentMethod := model.PaymentMethod(strings.TrimSpace(cell(row, 7)))
		notes := strings.TrimSpace(cell(row, 8))

		if customerName == "" || customerEmail == "" || len(items) == 0 || deliveryAddress == "" {
			skippedCount++
			continue
		}
		if !status.Valid() || !paymentMethod.Valid() {
			skippedCount++
			continue
		}

		orderDate, err := time.Parse("2006-01-02", orderDateStr)
		if err != nil {
			skippedCount++
			continue
		}

		if token == "" {
			token, err = util.GenerateOrderToken()
			if err != nil {
				return nil, fmt.Errorf("failed to generate order token: %w", err)
			}
		}
		if len(token) != util.OrderTokenLength || seenTokens[token] {
			skippedCount++
			continue
		}
		seenTokens[token] = true

		orders = append(orders, model.Order{
			OrderToken:      token,
			CustomerName:    customerName,
			CustomerEmail:   customerEmail,
			Items:           items,
			DeliveryAddress: deliveryAddress,
			PaymentMethod:   paymentMethod,
			Notes:           notes,
			Status:          status,
			OrderDate:       orderDate,
		})

		if len(orders)%500 == 0 {
			fmt.Printf("Processed %d orders...\n", len(orders))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid orders: %d\n", len(orders))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return orders, nil
}

// cell reads a column that excelize may have trimmed off the row
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
