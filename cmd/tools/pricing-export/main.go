// Command pricing-export writes the full membership price matrix to a file.
// Product and finance teams use the export to review localized prices without
// hitting the API.
//
// Usage:
//
//	pricing-export -format xlsx -out prices.xlsx
//	pricing-export -format json -out prices.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"zzik-backend/pkg/pricing"
)

type priceRow struct {
	Tier     string  `json:"tier"`
	Region   string  `json:"region"`
	Period   string  `json:"period"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Display  string  `json:"display"`
}

func main() {
	format := flag.String("format", "xlsx", "output format: xlsx or json")
	out := flag.String("out", "prices.xlsx", "output file path")
	flag.Parse()

	rows, err := buildMatrix()
	if err != nil {
		fmt.Fprintf(os.Stderr, "building price matrix: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "xlsx":
		err = writeXLSX(rows, *out)
	case "json":
		err = writeJSON(rows, *out)
	default:
		err = fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d prices to %s\n", len(rows), *out)
}

func buildMatrix() ([]priceRow, error) {
	var rows []priceRow
	for _, tier := range pricing.Tiers() {
		for _, region := range pricing.Regions() {
			for _, period := range pricing.Periods() {
				price, err := pricing.Calculate(tier, region, period)
				if err != nil {
					return nil, err
				}
				rows = append(rows, priceRow{
					Tier:     string(tier),
					Region:   string(region),
					Period:   string(period),
					Amount:   price.Amount,
					Currency: string(price.Currency),
					Display:  pricing.FormatPrice(price),
				})
			}
		}
	}
	return rows, nil
}

func writeXLSX(rows []priceRow, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Prices"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Tier", "Region", "Period", "Amount", "Currency", "Display"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for r, row := range rows {
		values := []interface{}{row.Tier, row.Region, row.Period, row.Amount, row.Currency, row.Display}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f.SaveAs(path)
}

func writeJSON(rows []priceRow, path string) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
