// Package csvdata loads airport and aircraft-type fixtures from
// semicolon-separated CSV files.
package csvdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kilianp07/kitflow/core/logger"
	"github.com/kilianp07/kitflow/core/model"
)

// Loader reads fleet reference data from CSV files.
type Loader struct {
	log logger.Logger
}

// NewLoader creates a CSV loader.
func NewLoader(log logger.Logger) *Loader {
	return &Loader{log: log}
}

func (l *Loader) readAll(filename string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have a header and at least one data row", filename)
	}
	return records[1:], nil
}

// LoadAircraftTypes loads aircraft types keyed by type code. Rows that
// cannot be parsed are skipped with a diagnostic, matching the tolerant
// behavior of the rest of the ingestion path.
//
// Expected columns: id;type_code;...;first_cap;business_cap;premium_cap;economy_cap
// with the capacities in columns 7..10.
func (l *Loader) LoadAircraftTypes(filename string) (map[string]model.AircraftType, error) {
	rows, err := l.readAll(filename)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.AircraftType, len(rows))
	for i, cols := range rows {
		if len(cols) < 11 {
			l.log.Warnf("%s row %d: expected 11 columns, got %d, skipping", filename, i+2, len(cols))
			continue
		}
		code := strings.TrimSpace(cols[1])
		var capacity model.KitQuantities
		capacity.First = parseQty(cols[7])
		capacity.Business = parseQty(cols[8])
		capacity.PremiumEconomy = parseQty(cols[9])
		capacity.Economy = parseQty(cols[10])
		ac := model.AircraftType{Code: code, Capacity: capacity}
		if err := ac.Validate(); err != nil {
			l.log.Warnf("%s row %d: %v, skipping", filename, i+2, err)
			continue
		}
		out[code] = ac
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no usable aircraft types", filename)
	}
	return out, nil
}

// LoadAirports loads airports keyed by code.
//
// Expected columns: code;hub;first_stock;business_stock;premium_stock;economy_stock;
// first_storage;business_storage;premium_storage;economy_storage
func (l *Loader) LoadAirports(filename string) (map[string]model.Airport, error) {
	rows, err := l.readAll(filename)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Airport, len(rows))
	for i, cols := range rows {
		if len(cols) < 10 {
			l.log.Warnf("%s row %d: expected 10 columns, got %d, skipping", filename, i+2, len(cols))
			continue
		}
		code := strings.TrimSpace(cols[0])
		hub := strings.EqualFold(strings.TrimSpace(cols[1]), "true")
		var stock, storage model.KitQuantities
		stock.First = parseQty(cols[2])
		stock.Business = parseQty(cols[3])
		stock.PremiumEconomy = parseQty(cols[4])
		stock.Economy = parseQty(cols[5])
		storage.First = parseQty(cols[6])
		storage.Business = parseQty(cols[7])
		storage.PremiumEconomy = parseQty(cols[8])
		storage.Economy = parseQty(cols[9])
		ap := model.Airport{
			Code:            code,
			Hub:             hub,
			InitialStock:    stock,
			StorageCapacity: storage,
		}
		if err := ap.Validate(); err != nil {
			l.log.Warnf("%s row %d: %v, skipping", filename, i+2, err)
			continue
		}
		out[code] = ap
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no usable airports", filename)
	}
	return out, nil
}

func parseQty(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
