package dedupe_test

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadflow-service/internal/dedupe"
	"leadflow-service/internal/domain/customer"
)

func TestReconcile_FillsOnlyEmptyFields(t *testing.T) {
	canonical := &customer.CustomerRecord{
		LeadID: "a",
		Name:   "Jo",
		Phone:  "+1 (555) 111-2222",
	}
	donor := &customer.CustomerRecord{
		LeadID:  "b",
		Name:    "Jo Smith",
		Phone:   "555.111.2222",
		Email:   "jo@x.com",
		Country: "US",
	}

	p := dedupe.Reconcile(canonical, donor)

	// Empty canonical fields picked up the donor's values.
	assert.Equal(t, "jo@x.com", p.Fields["email"])
	assert.Equal(t, "US", p.Fields["country"])

	// Non-empty canonical values were left alone.
	assert.NotContains(t, p.Fields, "name")
	assert.NotContains(t, p.Fields, "phone")
}

func TestReconcile_AuditSetsRecordDonor(t *testing.T) {
	canonical := &customer.CustomerRecord{
		LeadID:    "a",
		Phone:     "+1 (555) 111-2222",
		DateAdded: "2024-01-01",
	}
	donor := &customer.CustomerRecord{
		LeadID:    "b",
		Phone:     "555.111.2222",
		DateAdded: "2024-02-02",
	}

	p := dedupe.Reconcile(canonical, donor)

	assert.Equal(t, pq.StringArray{"555.111.2222"}, p.Fields["duplicate_phones"])
	assert.Equal(t, pq.StringArray{"b"}, p.Fields["duplicate_lead_ids"])
	assert.Equal(t, pq.StringArray{"2024-02-02"}, p.Fields["duplicate_date_adds"])
}

func TestReconcile_SamePhoneNotSelfRecorded(t *testing.T) {
	canonical := &customer.CustomerRecord{LeadID: "a", Phone: "0712345678"}
	donor := &customer.CustomerRecord{LeadID: "b", Phone: "0712345678"}

	p := dedupe.Reconcile(canonical, donor)
	assert.NotContains(t, p.Fields, "duplicate_phones")
}

func TestReconcile_AuditSetsOnlyGrow(t *testing.T) {
	canonical := &customer.CustomerRecord{
		LeadID:           "a",
		Phone:            "111",
		DuplicateLeadIDs: pq.StringArray{"b", "c"},
	}
	donor := &customer.CustomerRecord{
		LeadID:           "d",
		Phone:            "222",
		DuplicateLeadIDs: pq.StringArray{"c", "e"},
	}

	p := dedupe.Reconcile(canonical, donor)

	got, ok := p.Fields["duplicate_lead_ids"].(pq.StringArray)
	require.True(t, ok)
	// Existing entries survive, new ones append, duplicates collapse.
	assert.Equal(t, pq.StringArray{"b", "c", "d", "e"}, got)
}

func TestReconcile_NoChangesYieldsEmptyPatch(t *testing.T) {
	canonical := &customer.CustomerRecord{
		LeadID:           "a",
		Name:             "Jo",
		Phone:            "111",
		Email:            "jo@x.com",
		DuplicateLeadIDs: pq.StringArray{"b"},
	}
	// Donor adds nothing new: same phone, already-recorded lead id, no extra
	// fields.
	donor := &customer.CustomerRecord{LeadID: "b", Phone: "111"}

	p := dedupe.Reconcile(canonical, donor)
	assert.True(t, p.IsEmpty())
}

func TestReconcile_ScopeNeverDowngraded(t *testing.T) {
	canonical := &customer.CustomerRecord{LeadID: "a", TenantScope: "acme", Phone: "111"}
	donor := &customer.CustomerRecord{LeadID: "b", Phone: "222", TenantScope: ""}

	p := dedupe.Reconcile(canonical, donor)
	assert.NotContains(t, p.Fields, "tenant_scope")

	// The other direction fills a legacy canonical.
	legacy := &customer.CustomerRecord{LeadID: "c", Phone: "333"}
	scoped := &customer.CustomerRecord{LeadID: "d", Phone: "444", TenantScope: "acme"}
	p = dedupe.Reconcile(legacy, scoped)
	assert.Equal(t, "acme", p.Fields["tenant_scope"])
}

func TestReconcile_NumericFieldsFillOnly(t *testing.T) {
	canonical := &customer.CustomerRecord{LeadID: "a", Phone: "111", LeadScore: 7}
	donor := &customer.CustomerRecord{
		LeadID:       "b",
		Phone:        "222",
		LeadScore:    3,
		MessageCount: 12,
		LastUpdated:  1710000000000,
	}

	p := dedupe.Reconcile(canonical, donor)

	assert.NotContains(t, p.Fields, "lead_score")
	assert.Equal(t, 12, p.Fields["message_count"])
	assert.Equal(t, int64(1710000000000), p.Fields["last_updated"])
}

func TestApply_MutatesWorkingCopy(t *testing.T) {
	rec := &customer.CustomerRecord{LeadID: "a", Phone: "111"}
	donor := &customer.CustomerRecord{LeadID: "b", Phone: "222", Email: "b@x.com"}

	p := dedupe.Reconcile(rec, donor)
	dedupe.Apply(rec, p)

	assert.Equal(t, "b@x.com", rec.Email)
	assert.Equal(t, pq.StringArray{"222"}, rec.DuplicatePhones)
	assert.Equal(t, pq.StringArray{"b"}, rec.DuplicateLeadIDs)

	// A second donor reconciles against the merged state: email is now
	// occupied and stays put.
	second := &customer.CustomerRecord{LeadID: "c", Phone: "333", Email: "c@x.com"}
	p2 := dedupe.Reconcile(rec, second)
	assert.NotContains(t, p2.Fields, "email")
}

func TestPatchMerge(t *testing.T) {
	acc := dedupe.NewPatch()
	require.True(t, acc.IsEmpty())

	p := dedupe.NewPatch()
	p.Fields["email"] = "x@y.z"
	acc.Merge(p)

	assert.False(t, acc.IsEmpty())
	assert.Equal(t, "x@y.z", acc.Fields["email"])
}
