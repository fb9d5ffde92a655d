package generators

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

type cardNetwork struct {
	Name   string
	Prefix string
	Length int
}

var cardNetworks = []cardNetwork{
	{Name: "Visa", Prefix: "4", Length: 16},
	{Name: "Mastercard", Prefix: "5", Length: 16},
	{Name: "Amex", Prefix: "34", Length: 15},
	{Name: "Discover", Prefix: "6", Length: 16},
}

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer",
	"Michael", "Linda", "David", "Elizabeth", "William", "Barbara",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
	"Miller", "Davis", "Rodriguez", "Martinez", "Wilson", "Anderson",
}

// CreditCard holds one generated test card. The number passes the Luhn
// check but belongs to no real account.
type CreditCard struct {
	Network string
	Number  string
	Expiry  string
	CVV     string
	Holder  string
}

// NewCreditCard returns a random Luhn-valid test card on one of the
// major networks. The expiry lands one to five years out and Amex
// cards get a four digit CVV.
func NewCreditCard() CreditCard {
	network := cardNetworks[rand.Intn(len(cardNetworks))]

	digits := make([]int, 0, network.Length)
	for _, r := range network.Prefix {
		digits = append(digits, int(r-'0'))
	}
	for len(digits) < network.Length-1 {
		digits = append(digits, rand.Intn(10))
	}
	digits = append(digits, luhnCheckDigit(digits))

	cvvLen := 3
	if network.Name == "Amex" {
		cvvLen = 4
	}
	cvv := make([]byte, cvvLen)
	for i := range cvv {
		cvv[i] = byte('0' + rand.Intn(10))
	}

	expiry := time.Now().AddDate(1+rand.Intn(5), rand.Intn(12), 0)

	return CreditCard{
		Network: network.Name,
		Number:  groupDigits(digits),
		Expiry:  fmt.Sprintf("%02d/%02d", expiry.Month(), expiry.Year()%100),
		CVV:     string(cvv),
		Holder:  firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))],
	}
}

// LuhnValid reports whether a digit sequence passes the Luhn checksum.
func LuhnValid(digits []int) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// luhnCheckDigit computes the final digit that makes the sequence pass
// the Luhn checksum.
func luhnCheckDigit(digits []int) int {
	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}

// groupDigits renders the card number with a space every four digits.
func groupDigits(digits []int) string {
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte('0' + d))
	}
	return b.String()
}
