// Package checkout implements the 3-step order flow: shipping, payment,
// review. Validation is pure and field-scoped; a failed check populates
// a field→message map rather than returning an error. Order placement
// goes through a pluggable Placer so the wizard never fakes its own
// network delay.
package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ShippingInfo is the delivery form. Plain typed fields; validation
// lives in ValidateShipping.
type ShippingInfo struct {
	FullName string
	Email    string
	Phone    string
	Street   string
	City     string
	State    string
	ZipCode  string
}

// PaymentInfo is the payment form. Card fields accept user formatting
// (spaces, dashes); validation strips non-digits before checking.
type PaymentInfo struct {
	CardNumber                   string
	ExpiryDate                   string // MM/YY
	CVV                          string
	CardholderName               string
	BillingAddressSameAsShipping bool
	BillingStreet                string
	BillingCity                  string
	BillingState                 string
	BillingZipCode               string
}

// FieldErrors maps field names to one message each. Empty means valid.
type FieldErrors map[string]string

var (
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	zipPattern    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	nonDigits     = regexp.MustCompile(`\D`)
)

func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ValidateShipping checks the shipping form and returns field-scoped
// errors. An empty map means the step may advance.
func ValidateShipping(info ShippingInfo) FieldErrors {
	errs := make(FieldErrors)

	if strings.TrimSpace(info.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}
	switch {
	case strings.TrimSpace(info.Email) == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(info.Email):
		errs["email"] = "Please enter a valid email"
	}
	switch {
	case strings.TrimSpace(info.Phone) == "":
		errs["phone"] = "Phone number is required"
	case len(digitsOnly(info.Phone)) != 10:
		errs["phone"] = "Please enter a valid 10-digit phone number"
	}
	if strings.TrimSpace(info.Street) == "" {
		errs["street"] = "Street is required"
	}
	if strings.TrimSpace(info.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(info.State) == "" {
		errs["state"] = "State is required"
	}
	switch {
	case strings.TrimSpace(info.ZipCode) == "":
		errs["zipCode"] = "ZIP code is required"
	case !zipPattern.MatchString(info.ZipCode):
		errs["zipCode"] = "Please enter a valid ZIP code"
	}

	return errs
}

// ValidatePayment checks the payment form against the current time (the
// expiry month must not be strictly before now's month).
func ValidatePayment(info PaymentInfo, now time.Time) FieldErrors {
	errs := make(FieldErrors)

	switch {
	case strings.TrimSpace(info.CardNumber) == "":
		errs["cardNumber"] = "Card number is required"
	case len(digitsOnly(info.CardNumber)) != 16:
		errs["cardNumber"] = "Please enter a valid 16-digit card number"
	}

	switch {
	case strings.TrimSpace(info.ExpiryDate) == "":
		errs["expiryDate"] = "Expiry date is required"
	case !expiryPattern.MatchString(info.ExpiryDate):
		errs["expiryDate"] = "Please enter date in MM/YY format"
	case expiryBeforeMonth(info.ExpiryDate, now):
		errs["expiryDate"] = "Card has expired"
	}

	cvv := digitsOnly(info.CVV)
	switch {
	case strings.TrimSpace(info.CVV) == "":
		errs["cvv"] = "CVV is required"
	case len(cvv) < 3 || len(cvv) > 4:
		errs["cvv"] = "Please enter a valid 3 or 4-digit CVV"
	}

	if strings.TrimSpace(info.CardholderName) == "" {
		errs["cardholderName"] = "Cardholder name is required"
	}

	if !info.BillingAddressSameAsShipping {
		if strings.TrimSpace(info.BillingStreet) == "" {
			errs["billingStreet"] = "Billing street is required"
		}
		if strings.TrimSpace(info.BillingCity) == "" {
			errs["billingCity"] = "Billing city is required"
		}
		if strings.TrimSpace(info.BillingState) == "" {
			errs["billingState"] = "Billing state is required"
		}
		switch {
		case strings.TrimSpace(info.BillingZipCode) == "":
			errs["billingZipCode"] = "Billing ZIP code is required"
		case !zipPattern.MatchString(info.BillingZipCode):
			errs["billingZipCode"] = "Please enter a valid ZIP code"
		}
	}

	return errs
}

// expiryBeforeMonth reports whether an MM/YY expiry (already known to
// match the pattern) names a month strictly before now's month.
func expiryBeforeMonth(expiry string, now time.Time) bool {
	month, _ := strconv.Atoi(expiry[:2])
	year, _ := strconv.Atoi(expiry[3:])
	year += 2000
	if year != now.Year() {
		return year < now.Year()
	}
	return month < int(now.Month())
}

// FormatCardNumber normalizes a card number to groups of four digits,
// the way the payment field displays it.
func FormatCardNumber(s string) string {
	digits := digitsOnly(s)
	if len(digits) > 16 {
		digits = digits[:16]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry normalizes expiry input to MM/YY as the user types.
func FormatExpiry(s string) string {
	digits := digitsOnly(s)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}
