package main

import (
	"context"
	"fmt"
	"time"

	"github.com/uniwayhq/uniway/core"
	"github.com/uniwayhq/uniway/core/partner"
	"github.com/uniwayhq/uniway/core/student"
)

// seedDemo populates an agency with a handful of partners and pipeline
// students so a fresh install has something to click on.
func (cli *commandLine) seedDemo(agencyID string) error {
	ctx := context.Background()
	tenant := core.Tenant{AgencyID: agencyID}
	now := time.Now().UTC()

	partners := []partner.Partner{
		{Name: "Melbourne Institute of Technology", Type: partner.TypeUniversity, Country: "Australia", ContactEmail: "admissions@mit.edu.au", CommissionRate: 15, CreatedAt: now, UpdatedAt: now},
		{Name: "Maple Pathways", Type: partner.TypeAggregator, Country: "Canada", ContactEmail: "partners@maplepathways.ca", CommissionRate: 12.5, CreatedAt: now, UpdatedAt: now},
		{Name: "Thames Valley College", Type: partner.TypeCollege, Country: "UK", ContactEmail: "intl@thamesvalley.ac.uk", CommissionRate: 10, CreatedAt: now, UpdatedAt: now},
	}
	for i, p := range partners {
		created, err := cli.partnerRepo.CreatePartner(ctx, tenant, p)
		if err != nil {
			return fmt.Errorf("seeding partner %q: %w", p.Name, err)
		}
		partners[i] = created
	}

	students := []student.Student{
		{Name: "Ravi Kumar", Email: "ravi.kumar@example.com", Phone: "+91 98200 00001", TargetCountry: "Australia", Course: "MSc Data Science", AnnualTuition: 500000, Status: student.StatusLead, NocStatus: student.NocPending, CommissionStatus: student.CommissionPending, Source: "web form", CreatedAt: now, UpdatedAt: now},
		{Name: "Asha Thapa", Email: "asha.thapa@example.com", Phone: "+977 980 000 0002", TargetCountry: "Canada", Course: "BBA", AnnualTuition: 420000, Status: student.StatusApplied, NocStatus: student.NocApplied, CommissionStatus: student.CommissionPending, Source: "referral", AssignedPartnerID: partners[1].ID, AssignedPartnerName: partners[1].Name, CommissionAmount: 52500, CreatedAt: now, UpdatedAt: now},
		{Name: "Tenzin Dorji", Email: "tenzin.dorji@example.com", Phone: "+975 1711 0003", TargetCountry: "UK", Course: "LLM", AnnualTuition: 380000, Status: student.StatusOfferReceived, NocStatus: student.NocApproved, CommissionStatus: student.CommissionPending, Source: "walk-in", AssignedPartnerID: partners[2].ID, AssignedPartnerName: partners[2].Name, CommissionAmount: 38000, CreatedAt: now, UpdatedAt: now},
	}
	for _, st := range students {
		if _, err := cli.studentRepo.CreateStudent(ctx, tenant, st); err != nil {
			return fmt.Errorf("seeding student %q: %w", st.Name, err)
		}
	}

	fmt.Printf("seeded %d partners and %d students into agency %s\n", len(partners), len(students), agencyID)
	return nil
}
