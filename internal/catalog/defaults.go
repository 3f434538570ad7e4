package catalog

import (
	pricingdomain "github.com/railzwaylabs/supportdesk/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

func Defaults() []pricingdomain.ServiceDefinition {
	return []pricingdomain.ServiceDefinition{
		{
			ID:           "phone-basic",
			Name:         "Phone Support",
			SupportLevel: pricingdomain.SupportLevelBasic,
			BasePrice:    decimal.NewFromInt(25),
			MinimumTime:  15,
			Category:     "phone",
			Includes:     []string{"Troubleshooting call", "Account and password help", "Follow-up notes by email"},
		},
		{
			ID:           "remote-intermediate",
			Name:         "Remote Desktop Support",
			SupportLevel: pricingdomain.SupportLevelIntermediate,
			BasePrice:    decimal.NewFromInt(55),
			MinimumTime:  30,
			Category:     "remote",
			Includes:     []string{"Screen-sharing session", "Software installation", "Malware scan"},
		},
		{
			ID:           "remote-advanced",
			Name:         "Advanced Remote Diagnostics",
			SupportLevel: pricingdomain.SupportLevelAdvanced,
			BasePrice:    decimal.NewFromInt(85),
			MinimumTime:  45,
			Category:     "remote",
			Includes:     []string{"System performance tuning", "Network configuration", "Data recovery attempt"},
		},
		{
			ID:           "onsite-advanced",
			Name:         "On-site Visit",
			SupportLevel: pricingdomain.SupportLevelAdvanced,
			BasePrice:    decimal.NewFromInt(95),
			MinimumTime:  60,
			Category:     "onsite",
			Includes:     []string{"Hardware inspection", "Peripheral setup", "Home network setup"},
		},
		{
			ID:           "onsite-expert",
			Name:         "Expert On-site Engineering",
			SupportLevel: pricingdomain.SupportLevelExpert,
			BasePrice:    decimal.NewFromInt(150),
			MinimumTime:  60,
			Category:     "onsite",
			Includes:     []string{"Server and NAS work", "Small office network design", "Written findings report"},
		},
	}
}
