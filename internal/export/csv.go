// Package export reads and writes the dashboard's CSV files
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"whatsapp-dashboard/internal/models"
)

var (
	AddressHeader     = []string{"Nama", "Nomor HP", "Email", "Alamat", "Kota", "Status", "Rating"}
	NumberCheckHeader = []string{"Phone Number", "Valid", "Has WhatsApp", "Last Checked", "Error"}
)

// WriteAddresses writes one row per address after the header. Fields with
// commas, quotes or newlines are quoted.
func WriteAddresses(w io.Writer, items []models.Address) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AddressHeader); err != nil {
		return err
	}
	for _, a := range items {
		rating := ""
		if a.Rating != nil && *a.Rating != 0 {
			rating = strconv.FormatFloat(*a.Rating, 'f', -1, 64)
		}
		row := []string{a.Name, a.PhoneNumber, str(a.Email), a.Address, str(a.City), str(a.Status), rating}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteNumberChecks(w io.Writer, items []models.NumberCheck) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(NumberCheckHeader); err != nil {
		return err
	}
	for _, n := range items {
		row := []string{
			n.PhoneNumber,
			strconv.FormatBool(n.IsValid),
			strconv.FormatBool(n.HasWhatsApp),
			n.LastChecked.UTC().Format(time.RFC3339),
			n.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseNumberList reads one phone number per line, trimmed, blanks dropped
func ParseNumberList(r io.Reader) ([]string, error) {
	var numbers []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if n := strings.TrimSpace(sc.Text()); n != "" {
			numbers = append(numbers, n)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read numbers: %w", err)
	}
	return numbers, nil
}

// ParseNumbersCSV takes the first column of every row after the header
func ParseNumbersCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var numbers []string
	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(rec) == 0 {
			continue
		}
		if n := strings.TrimSpace(rec[0]); n != "" {
			numbers = append(numbers, n)
		}
	}
	return numbers, nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
