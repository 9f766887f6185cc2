package extractor

import (
	"net/url"
	"strings"

	"github.com/Rrens/honeypot/internal/domain"
)

// Extract finds payment handles, phone numbers, bank identifiers and URLs in text.
// It is pure: the same text always yields the same sets.
func Extract(text string) domain.Intelligence {
	intel := domain.NewIntelligence()
	if strings.TrimSpace(text) == "" {
		return intel
	}

	// Each stage masks the spans it claimed so later stages cannot reuse them.
	buf := []byte(text)

	for _, span := range httpURLPattern.FindAllIndex(buf, -1) {
		if u := normalizeURL(string(buf[span[0]:span[1]])); u != "" {
			intel.URLs.Add(u)
		}
		mask(buf, span)
	}
	for _, span := range wwwURLPattern.FindAllIndex(buf, -1) {
		if u := normalizeURL("http://" + string(buf[span[0]:span[1]])); u != "" {
			intel.URLs.Add(u)
		}
		mask(buf, span)
	}

	for _, span := range bareDomainPattern.FindAllIndex(buf, -1) {
		if partOfAddress(buf, span) {
			continue
		}
		if u := normalizeURL("http://" + string(buf[span[0]:span[1]])); u != "" {
			intel.URLs.Add(u)
		}
		mask(buf, span)
	}

	for _, span := range paymentHandlePattern.FindAllIndex(buf, -1) {
		if isDottedDomain(buf, span[1]) {
			continue
		}
		intel.PaymentHandles.Add(strings.ToLower(string(buf[span[0]:span[1]])))
		mask(buf, span)
	}

	for _, span := range phoneCandidatePattern.FindAllIndex(buf, -1) {
		for _, found := range splitPhones(buf, span) {
			intel.PhoneNumbers.Add(found.number)
			mask(buf, found.span)
		}
	}

	for _, span := range ifscPattern.FindAllIndex(buf, -1) {
		intel.BankAccounts.Add("IFSC:" + string(buf[span[0]:span[1]]))
		mask(buf, span)
	}
	for _, span := range accountPattern.FindAllIndex(buf, -1) {
		digits := string(buf[span[0]:span[1]])
		if repeatedDigit(digits) {
			continue
		}
		intel.BankAccounts.Add("ACCOUNT:" + digits)
	}

	return intel
}

// ExtractAll runs Extract over each text and unions the results
func ExtractAll(texts ...string) domain.Intelligence {
	intel := domain.NewIntelligence()
	for _, t := range texts {
		intel.Merge(Extract(t))
	}
	return intel
}

type phoneMatch struct {
	number string
	span   []int
}

// maxPhoneDigits bounds how many tokens are joined while looking for a number
const maxPhoneDigits = 15

// splitPhones walks the whitespace-separated tokens of a candidate span and
// joins consecutive tokens until they form a valid number. This keeps
// "98765 43210" together while still separating two adjacent numbers.
func splitPhones(buf []byte, span []int) []phoneMatch {
	candidate := buf[span[0]:span[1]]
	if n, ok := NormalizePhone(string(candidate)); ok {
		return []phoneMatch{{number: n, span: span}}
	}

	var out []phoneMatch
	toks := tokenPattern.FindAllIndex(candidate, -1)
	for i := 0; i < len(toks); {
		next := i + 1
		var acc strings.Builder
		for j := i; j < len(toks); j++ {
			acc.Write(candidate[toks[j][0]:toks[j][1]])
			if len(nonDigit.ReplaceAllString(acc.String(), "")) > maxPhoneDigits {
				break
			}
			if n, ok := NormalizePhone(acc.String()); ok {
				out = append(out, phoneMatch{
					number: n,
					span:   []int{span[0] + toks[i][0], span[0] + toks[j][1]},
				})
				next = j + 1
				break
			}
		}
		i = next
	}
	return out
}

// NormalizePhone converts a raw phone string to +<country code><national number>
func NormalizePhone(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	international := strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "00")
	digits := nonDigit.ReplaceAllString(raw, "")
	if strings.HasPrefix(raw, "00") {
		digits = strings.TrimPrefix(digits, "00")
	}
	if digits == "" || repeatedDigit(digits) {
		return "", false
	}

	if international {
		for l := 1; l <= 3 && l < len(digits); l++ {
			cc := digits[:l]
			bounds, ok := countryCodes[cc]
			if !ok {
				continue
			}
			nsn := digits[l:]
			if len(nsn) >= bounds[0] && len(nsn) <= bounds[1] && !repeatedDigit(nsn) {
				return "+" + cc + nsn, true
			}
		}
		return "", false
	}

	switch {
	case len(digits) == 10 && isIndianMobile(digits):
		return "+" + DefaultCountryCode + digits, true
	case len(digits) == 11 && digits[0] == '0' && isIndianMobile(digits[1:]):
		return "+" + DefaultCountryCode + digits[1:], true
	case len(digits) == 12 && strings.HasPrefix(digits, DefaultCountryCode) && isIndianMobile(digits[2:]):
		return "+" + digits, true
	}
	return "", false
}

func isIndianMobile(nsn string) bool {
	return len(nsn) == 10 && nsn[0] >= '6' && nsn[0] <= '9' && !repeatedDigit(nsn)
}

func repeatedDigit(digits string) bool {
	if digits == "" {
		return false
	}
	return strings.Count(digits, digits[:1]) == len(digits)
}

// normalizeURL trims trailing punctuation and lower-cases scheme and host
func normalizeURL(raw string) string {
	raw = strings.TrimRight(raw, urlTrailing)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

// isDottedDomain reports whether the match ending at end continues as an
// e-mail style domain such as "@paytm.com"
func isDottedDomain(buf []byte, end int) bool {
	if end+1 >= len(buf) || buf[end] != '.' {
		return false
	}
	c := buf[end+1]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// partOfAddress reports whether a bare domain match belongs to an e-mail
// address or payment handle: preceded by '@', '.' or '-', or followed by '@'
func partOfAddress(buf []byte, span []int) bool {
	if span[0] > 0 {
		switch buf[span[0]-1] {
		case '@', '.', '-':
			return true
		}
	}
	return span[1] < len(buf) && buf[span[1]] == '@'
}

func mask(buf []byte, span []int) {
	for i := span[0]; i < span[1]; i++ {
		buf[i] = ' '
	}
}
