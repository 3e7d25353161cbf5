// Package schemes lists central government schemes relevant to farmers.
package schemes

// Scheme is one government programme.
type Scheme struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
	URL   string `json:"url"`
}

var catalogue = []Scheme{
	{
		Title: "PM-KISAN (Income Support)",
		Desc:  "₹6,000/year to eligible farmer families in 3 equal installments.",
		URL:   "https://pmkisan.gov.in/",
	},
	{
		Title: "PMFBY (Crop Insurance)",
		Desc:  "Government-backed crop insurance against natural risks.",
		URL:   "https://pmfby.gov.in/",
	},
	{
		Title: "Soil Health Card",
		Desc:  "Get soil testing-based nutrient management recommendations.",
		URL:   "https://www.soilhealth.dac.gov.in/",
	},
	{
		Title: "Kisan Credit Card (KCC)",
		Desc:  "Short-term credit for crop cultivation and allied activities.",
		URL:   "https://www.myscheme.gov.in/schemes/kcc",
	},
	{
		Title: "PM-KUSUM",
		Desc:  "Solar pumps and grid-connected solar power for agriculture.",
		URL:   "https://mnre.gov.in/pm-kusum/",
	},
}

// All returns a copy of the catalogue.
func All() []Scheme {
	out := make([]Scheme, len(catalogue))
	copy(out, catalogue)
	return out
}
