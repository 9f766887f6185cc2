package extractor

import (
	"regexp"
	"strings"
)

// PaymentSuffixes is the closed set of payment-provider handle suffixes
var PaymentSuffixes = []string{
	"upi", "paytm", "phonepe", "gpay", "googlepay", "bhim", "amazonpay", "whatsapp",
	"okaxis", "oksbi", "okicici", "okhdfcbank", "axl", "apl", "yapl", "ibl", "ybl",
	"icici", "airtel", "freecharge", "mobikwik",
}

// LinkTLDs bounds which scheme-less domains count as links
var LinkTLDs = []string{
	"com", "net", "org", "info", "biz", "io", "co", "in", "xyz", "online", "site", "shop",
	"app", "link", "click", "ltd", "tech", "store", "live", "pro", "dev", "me", "tv",
	"us", "uk", "ca", "au", "de", "fr", "jp", "cn", "ru",
}

var (
	httpURLPattern = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"'{}|\\^\x60\[\]]+`)
	wwwURLPattern  = regexp.MustCompile(`(?i)\bwww\.[a-z0-9\-]+(?:\.[a-z0-9\-]+)+[^\s<>"'{}|\\^\x60\[\]]*`)

	bareDomainPattern = regexp.MustCompile(
		`(?i)\b(?:[a-z0-9][a-z0-9\-]*\.)+(?:` + strings.Join(LinkTLDs, "|") + `)\b(?:/[^\s<>"'{}|\\^\x60\[\]]*)?`,
	)

	paymentHandlePattern = regexp.MustCompile(
		`(?i)\b[a-z0-9][a-z0-9._\-]*@(?:` + strings.Join(PaymentSuffixes, "|") + `)\b`,
	)

	// phone candidates: optional + or 00, optional opening paren, then digits
	// joined by at most two separator characters
	phoneCandidatePattern = regexp.MustCompile(`(?:\+|\b00)?\(?\d(?:[\s\-.()]{0,2}\d){7,}`)
	tokenPattern          = regexp.MustCompile(`\S+`)

	ifscPattern    = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)
	accountPattern = regexp.MustCompile(`\b\d{9,18}\b`)

	nonDigit = regexp.MustCompile(`\D`)
)

// urlTrailing is trimmed from the end of URL matches
const urlTrailing = `.,;:!?)]}'"`

// countryCodes maps a dialing code to the accepted national number length
var countryCodes = map[string][2]int{
	"1":   {10, 10},
	"44":  {10, 10},
	"60":  {9, 10},
	"61":  {9, 9},
	"65":  {8, 8},
	"91":  {10, 10},
	"971": {8, 9},
}

// DefaultCountryCode is assumed for numbers written without one
const DefaultCountryCode = "91"
