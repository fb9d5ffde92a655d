package generators

import (
	"fmt"
	"math/rand"
)

type addressLocale struct {
	Streets      []string
	Cities       []string
	Regions      []string
	PostalFormat string
}

var addressLocales = map[string]addressLocale{
	"US": {
		Streets:      []string{"Main St", "Oak Ave", "Elm St", "Park Rd", "First Ave", "Second St", "Broadway", "Church St"},
		Cities:       []string{"Springfield", "Madison", "Georgetown", "Franklin", "Clinton", "Washington", "Arlington", "Salem"},
		Regions:      []string{"CA", "NY", "TX", "FL", "IL", "PA", "OH", "GA", "NC", "MI"},
		PostalFormat: "#####",
	},
	"CA": {
		Streets:      []string{"Main St", "King St", "Queen St", "Yonge St", "Bay St", "Church St", "Front St", "College St"},
		Cities:       []string{"Toronto", "Vancouver", "Montreal", "Calgary", "Ottawa", "Edmonton", "Mississauga", "Winnipeg"},
		Regions:      []string{"ON", "BC", "QC", "AB", "MB", "SK", "NS", "NB"},
		PostalFormat: "### ###",
	},
	"GB": {
		Streets:      []string{"High St", "Victoria Rd", "Station Rd", "Church Lane", "Mill Lane", "Park Ave", "Queens Rd", "Kings St"},
		Cities:       []string{"London", "Birmingham", "Manchester", "Glasgow", "Liverpool", "Leeds", "Sheffield", "Edinburgh"},
		Regions:      []string{"England", "Scotland", "Wales", "Northern Ireland"},
		PostalFormat: "## ###",
	},
	"DE": {
		Streets:      []string{"Hauptstraße", "Bahnhofstraße", "Dorfstraße", "Schulstraße", "Gartenstraße", "Berliner Straße"},
		Cities:       []string{"Berlin", "Hamburg", "München", "Köln", "Frankfurt", "Stuttgart", "Düsseldorf", "Dortmund"},
		Regions:      []string{"Bayern", "Baden-Württemberg", "Nordrhein-Westfalen", "Hessen", "Sachsen"},
		PostalFormat: "#####",
	},
	"FR": {
		Streets:      []string{"Rue de la Paix", "Avenue des Champs", "Rue Victor Hugo", "Boulevard Saint-Michel", "Rue de Rivoli"},
		Cities:       []string{"Paris", "Marseille", "Lyon", "Toulouse", "Nice", "Nantes", "Strasbourg", "Montpellier"},
		Regions:      []string{"Île-de-France", "Provence-Alpes-Côte d'Azur", "Auvergne-Rhône-Alpes", "Occitanie"},
		PostalFormat: "#####",
	},
}

// Address holds one generated street address.
type Address struct {
	StreetNumber int
	Street       string
	City         string
	Region       string
	PostalCode   string
}

// String renders the address as two mailing lines.
func (a Address) String() string {
	return fmt.Sprintf("%d %s\n%s, %s %s", a.StreetNumber, a.Street, a.City, a.Region, a.PostalCode)
}

// NewAddress returns a random street address for the given country
// code. Unknown countries fall back to the US tables.
func NewAddress(countryCode string) Address {
	locale, ok := addressLocales[countryCode]
	if !ok {
		locale = addressLocales["US"]
	}

	return Address{
		StreetNumber: rand.Intn(9999) + 1,
		Street:       locale.Streets[rand.Intn(len(locale.Streets))],
		City:         locale.Cities[rand.Intn(len(locale.Cities))],
		Region:       locale.Regions[rand.Intn(len(locale.Regions))],
		PostalCode:   fillDigits(locale.PostalFormat),
	}
}
