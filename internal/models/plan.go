package models

type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Credits     int      `json:"credits"`
	Description string   `json:"description"`
	Inclusions  []string `json:"inclusions"`
}

// Satın alınabilir kredi paketleri
var Plans = []Plan{
	{
		ID:          DefaultPlanID,
		Name:        "Free",
		Price:       0,
		Credits:     DefaultCreditBalance,
		Description: "Starter credits for every new account",
		Inclusions:  []string{"10 free credits", "Basic access to services"},
	},
	{
		ID:          "pro",
		Name:        "Pro Package",
		Price:       40,
		Credits:     120,
		Description: "120 credits for regular use",
		Inclusions:  []string{"120 credits", "Full access to services", "Priority customer support"},
	},
	{
		ID:          "premium",
		Name:        "Premium Package",
		Price:       199,
		Credits:     2000,
		Description: "2000 credits for heavy use",
		Inclusions:  []string{"2000 credits", "Full access to services", "Priority customer support", "Priority updates"},
	},
}

func FindPlan(id string) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
