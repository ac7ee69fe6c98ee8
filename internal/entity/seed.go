package entity

import "time"

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// SeedLeads returns the fixed working set a session starts from.
func SeedLeads(now time.Time) []Lead {
	type seed struct {
		id, ixID, name, company string
		profile                 Profile
		score                   int
	}

	seeds := []seed{
		{
			id: "l1", ixID: "i1", name: "Alex Chen", company: "NimbusOps", score: 58,
			profile: Profile{
				Title:     "VP Engineering",
				Email:     "alex@nimbusops.io",
				Website:   "https://nimbusops.io",
				Industry:  "SaaS",
				Size:      intPtr(240),
				Revenue:   floatPtr(32),
				TechStack: []string{"Postgres", "Node", "Kotlin"},
				Location:  "Austin, TX",
			},
		},
		{
			id: "l2", ixID: "i2", name: "Priya Singh", company: "Acme Retail", score: 44,
			profile: Profile{
				Title:     "Head of RevOps",
				Email:     "priya@acmeretail.com",
				Website:   "https://acmeretail.com",
				Industry:  "Retail",
				Size:      intPtr(5000),
				Revenue:   floatPtr(1800),
				TechStack: []string{"Snowflake", "Salesforce", "Python"},
				Location:  "Chicago, IL",
			},
		},
		{
			id: "l3", ixID: "i3", name: "Diego Alvarez", company: "Finovia", score: 67,
			profile: Profile{
				Title:     "Director of Data",
				Email:     "diego@finovia.co",
				Website:   "https://finovia.co",
				Industry:  "FinServ",
				Size:      intPtr(900),
				Revenue:   floatPtr(220),
				TechStack: []string{"Postgres", "dbt", "TypeScript"},
				Location:  "Miami, FL",
			},
		},
		{
			id: "l4", ixID: "i4", name: "Hannah Lee", company: "CareBridge Health", score: 51,
			profile: Profile{
				Title:     "CTO",
				Email:     "hannah@carebridge.health",
				Website:   "https://carebridge.health",
				Industry:  "Healthcare",
				Size:      intPtr(1200),
				Revenue:   floatPtr(410),
				TechStack: []string{"Ruby", "React", "Postgres"},
				Location:  "Boston, MA",
			},
		},
	}

	leads := make([]Lead, 0, len(seeds))
	for _, s := range seeds {
		lead, err := NewLead(s.id, s.name, s.company, s.profile, s.score, StageNew, now)
		if err != nil {
			// the seed set is static; a failure here is a programming error
			panic(err)
		}
		lead.Interactions[0].ID = s.ixID
		leads = append(leads, *lead)
	}
	return leads
}
