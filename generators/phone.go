// Package generators provides pure random formatters for temporary
// phone numbers, street addresses, and test credit card numbers.
// Everything here is stateless formatting over lookup tables; nothing
// touches the network or persists.
package generators

import (
	"math/rand"
	"strings"
)

type phoneFormat struct {
	Format string
	Prefix string
}

var phoneFormats = map[string]phoneFormat{
	"US": {Format: "(###) ###-####", Prefix: "+1"},
	"CA": {Format: "(###) ###-####", Prefix: "+1"},
	"GB": {Format: "#### ### ####", Prefix: "+44"},
	"DE": {Format: "### ### ####", Prefix: "+49"},
	"FR": {Format: "## ## ## ## ##", Prefix: "+33"},
	"IT": {Format: "### ### ####", Prefix: "+39"},
	"ES": {Format: "### ### ###", Prefix: "+34"},
	"AU": {Format: "#### ### ###", Prefix: "+61"},
	"IN": {Format: "##### #####", Prefix: "+91"},
	"BR": {Format: "(##) #####-####", Prefix: "+55"},
	"MX": {Format: "### ### ####", Prefix: "+52"},
	"JP": {Format: "###-####-####", Prefix: "+81"},
	"KR": {Format: "###-####-####", Prefix: "+82"},
	"CN": {Format: "### #### ####", Prefix: "+86"},
	"RU": {Format: "### ###-##-##", Prefix: "+7"},
}

// Phone returns a random phone number formatted for the given country
// code. Unknown countries fall back to the US format. US and CA
// numbers never start with a 0 area code.
func Phone(countryCode string) string {
	format, ok := phoneFormats[countryCode]
	if !ok {
		format = phoneFormats["US"]
	}

	number := fillDigits(format.Format)

	if countryCode == "US" || countryCode == "CA" {
		if strings.HasPrefix(number, "(0") {
			number = "(2" + number[len("(0"):]
		}
	}

	return format.Prefix + " " + number
}

// fillDigits replaces every '#' placeholder with a random digit.
func fillDigits(format string) string {
	var b strings.Builder
	b.Grow(len(format))
	for _, r := range format {
		if r == '#' {
			b.WriteByte(byte('0' + rand.Intn(10)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
