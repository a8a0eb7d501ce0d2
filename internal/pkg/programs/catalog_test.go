package programs

import (
	"testing"

	"github.com/elevateforhumanity/elevate/app/models"
	"github.com/elevateforhumanity/elevate/app/repository"
)

func TestCatalogIsComplete(t *testing.T) {
	all := All()
	if len(all) != 9 {
		t.Fatalf("catalog has %d programs, want 9", len(all))
	}

	seen := map[string]bool{}
	for _, p := range all {
		if p.Slug == "" || p.Label == "" {
			t.Errorf("program %+v is missing slug or label", p)
		}
		if p.FullPrice <= 0 {
			t.Errorf("program %s has price %v", p.Slug, p.FullPrice)
		}
		if seen[p.Slug] {
			t.Errorf("duplicate slug %s", p.Slug)
		}
		seen[p.Slug] = true
	}
}

func TestGet(t *testing.T) {
	p := Get(SlugBarber)
	if p == nil {
		t.Fatal("Get(SlugBarber) = nil")
	}
	if p.FullPrice != 4980 || p.TotalHoursRequired != 2000 {
		t.Errorf("barber program = %+v", p)
	}

	if Get("underwater-basket-weaving") != nil {
		t.Error("Get() returned a program for an unknown slug")
	}

	// Get returns a copy; mutating it must not touch the catalog.
	p.FullPrice = 1
	if Get(SlugBarber).FullPrice != 4980 {
		t.Error("mutating a Get() result changed the catalog")
	}
}

func TestVendorPrograms(t *testing.T) {
	for _, slug := range []string{SlugBarber, SlugCosmetology, SlugEsthetician, SlugNailTech} {
		p := Get(slug)
		if p == nil || !p.HasVendor() {
			t.Errorf("program %s should have a Milady vendor", slug)
			continue
		}
		if p.VendorName != models.VendorMilady {
			t.Errorf("program %s vendor = %s", slug, p.VendorName)
		}
	}

	for _, slug := range []string{SlugDSP, SlugHVAC, SlugCPR, SlugTaxPrep, SlugPeerRecovery} {
		if p := Get(slug); p == nil || p.HasVendor() {
			t.Errorf("program %s should not have a vendor", slug)
		}
	}
}

func TestSplit(t *testing.T) {
	s := Split(SlugBarber, 1743)
	if s.Vendor != 295 {
		t.Errorf("vendor share = %v, want 295", s.Vendor)
	}
	if s.Elevate != 1448 {
		t.Errorf("platform share = %v, want 1448", s.Elevate)
	}
	if s.VendorName != models.VendorMilady {
		t.Errorf("vendor name = %s", s.VendorName)
	}

	// No vendor: the platform keeps everything.
	s = Split(SlugHVAC, 1750)
	if s.Vendor != 0 || s.Elevate != 1750 {
		t.Errorf("split without vendor = %+v", s)
	}

	// Unknown slug behaves like a vendorless program.
	s = Split("unknown", 100)
	if s.Vendor != 0 || s.Elevate != 100 {
		t.Errorf("split for unknown slug = %+v", s)
	}
}

func TestMonthlyPlans(t *testing.T) {
	plans := MonthlyPlans(4980)
	if len(plans) != 4 {
		t.Fatalf("MonthlyPlans returned %d presets, want 4", len(plans))
	}

	if plans[0].Months != 1 || plans[0].MonthlyAmount != 4980 || plans[0].Label != "Pay in Full" {
		t.Errorf("pay in full preset = %+v", plans[0])
	}

	want := map[int]float64{4: 1245, 6: 830, 12: 415}
	for _, p := range plans[1:] {
		if p.TotalAmount != 4980 {
			t.Errorf("%d-month total = %v, want 4980", p.Months, p.TotalAmount)
		}
		if amt, ok := want[p.Months]; !ok || p.MonthlyAmount != amt {
			t.Errorf("%d-month amount = %v, want %v", p.Months, p.MonthlyAmount, want[p.Months])
		}
	}
}

type upsertRecorder struct {
	repository.ProgramRepository
	slugs []string
}

func (r *upsertRecorder) Upsert(p *models.Program) error {
	r.slugs = append(r.slugs, p.Slug)
	return nil
}

func TestSyncUpsertsEveryProgram(t *testing.T) {
	rec := &upsertRecorder{}
	if err := Sync(rec); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(rec.slugs) != len(All()) {
		t.Fatalf("Sync() upserted %d programs, want %d", len(rec.slugs), len(All()))
	}
}
