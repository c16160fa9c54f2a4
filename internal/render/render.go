// Package render holds the two presentation backends of the proposal
// document pipeline: the structured preview model consumed by the
// interactive client and the self-contained HTML string handed to the PDF
// rasterization backend. Both read the same docmodel output; only the
// height-measurement capability differs between them.
package render

import (
	"fmt"
	"strings"
)

// ContactInfo is the static content of the trailing contact page
type ContactInfo struct {
	CompanyName string
	Email       string
	Phone       string
	Address     string
	Website     string
}

// PaymentTermsText is the static terms/conditions copy shown above the
// payment plan table
const PaymentTermsText = "All amounts are exclusive of VAT. Invoices are payable within 14 days. " +
	"Work is scheduled upon receipt of the first installment. Any change to the agreed scope " +
	"is quoted separately before work begins."

// NoTermsPlaceholder is rendered when a proposal defines no payment terms
const NoTermsPlaceholder = "No payment terms defined for this proposal."

// FormatMoney renders an amount with thousands separators and no decimals
func FormatMoney(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, " ")
	if neg {
		out = "-" + out
	}
	return out
}

// Paragraphs splits block content on blank lines for display
func Paragraphs(content string) []string {
	var out []string
	for _, p := range strings.Split(content, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
