// internal/dedupe/reconcile.go
package dedupe

import (
	"strings"

	"github.com/lib/pq"

	"leadflow-service/internal/domain/customer"
)

// Patch is a sparse field update produced by reconciling a donor record into
// a canonical one. Keys are storage column names; values are the new field
// values. A patch only ever fills blanks and grows audit sets, so applying
// it can never destroy data already on the canonical record.
type Patch struct {
	Fields map[string]any
}

func NewPatch() Patch {
	return Patch{Fields: make(map[string]any)}
}

func (p Patch) IsEmpty() bool {
	return len(p.Fields) == 0
}

// Merge folds other into p. Reconciliation is fill-only against a working
// copy that already absorbed earlier patches, so the same field never
// arrives twice with different values.
func (p Patch) Merge(other Patch) {
	for k, v := range other.Fields {
		p.Fields[k] = v
	}
}

// Reconcile computes the patch that merges donor into canonical. String and
// numeric fields transfer only where the canonical value is empty; the
// duplicate-audit sets are unioned with the donor's identifiers so the merge
// trail survives the donor's deletion. The donor's raw phone is recorded
// under duplicate_phones unless it equals the canonical's own phone.
func Reconcile(canonical, donor *customer.CustomerRecord) Patch {
	p := NewPatch()

	fill := func(col, cur, next string) {
		if strings.TrimSpace(cur) == "" && strings.TrimSpace(next) != "" {
			p.Fields[col] = next
		}
	}

	fill("name", canonical.Name, donor.Name)
	fill("phone", canonical.Phone, donor.Phone)
	fill("email", canonical.Email, donor.Email)
	fill("country", canonical.Country, donor.Country)
	fill("source", canonical.Source, donor.Source)
	fill("first_call_date", canonical.FirstCallDate, donor.FirstCallDate)
	fill("first_call_status", canonical.FirstCallStatus, donor.FirstCallStatus)
	fill("notes", canonical.Notes, donor.Notes)
	fill("second_call_date", canonical.SecondCallDate, donor.SecondCallDate)
	fill("second_call_status", canonical.SecondCallStatus, donor.SecondCallStatus)
	fill("second_call_notes", canonical.SecondCallNotes, donor.SecondCallNotes)
	fill("final_call_date", canonical.FinalCallDate, donor.FinalCallDate)
	fill("final_status", canonical.FinalStatus, donor.FinalStatus)
	fill("final_notes", canonical.FinalNotes, donor.FinalNotes)
	fill("pronouns", canonical.Pronouns, donor.Pronouns)
	fill("device", canonical.Device, donor.Device)
	fill("last_message_snippet", canonical.LastMessageSnippet, donor.LastMessageSnippet)
	fill("date_added", canonical.DateAdded, donor.DateAdded)
	// A concrete scope never replaces another concrete scope, and is never
	// cleared back to legacy.
	fill("tenant_scope", canonical.TenantScope, donor.TenantScope)

	if canonical.LeadScore == 0 && donor.LeadScore != 0 {
		p.Fields["lead_score"] = donor.LeadScore
	}
	if canonical.LastUpdated == 0 && donor.LastUpdated != 0 {
		p.Fields["last_updated"] = donor.LastUpdated
	}
	if canonical.MessageCount == 0 && donor.MessageCount != 0 {
		p.Fields["message_count"] = donor.MessageCount
	}

	phones := donor.DuplicatePhones
	if donor.Phone != "" && donor.Phone != canonical.Phone {
		phones = append(append(pq.StringArray(nil), phones...), donor.Phone)
	}
	unionInto(p, "duplicate_phones", canonical.DuplicatePhones, phones)

	leadIDs := donor.DuplicateLeadIDs
	if donor.LeadID != "" && donor.LeadID != canonical.LeadID {
		leadIDs = append(append(pq.StringArray(nil), leadIDs...), donor.LeadID)
	}
	unionInto(p, "duplicate_lead_ids", canonical.DuplicateLeadIDs, leadIDs)

	dateAdds := donor.DuplicateDateAdds
	if donor.DateAdded != "" {
		dateAdds = append(append(pq.StringArray(nil), dateAdds...), donor.DateAdded)
	}
	unionInto(p, "duplicate_date_adds", canonical.DuplicateDateAdds, dateAdds)

	return p
}

// unionInto records existing ∪ incoming under col, but only when the union
// actually grew. Existing entries are never dropped.
func unionInto(p Patch, col string, existing, incoming []string) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	union := append(pq.StringArray(nil), existing...)
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	for _, v := range incoming {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		union = append(union, v)
	}
	if len(union) > len(existing) {
		p.Fields[col] = union
	}
}

// Apply mutates rec with the patch's fields. The dedupe sweep applies each
// donor patch to a local working copy so later donors reconcile against the
// already-merged state.
func Apply(rec *customer.CustomerRecord, p Patch) {
	for col, v := range p.Fields {
		switch col {
		case "name":
			rec.Name = v.(string)
		case "phone":
			rec.Phone = v.(string)
		case "email":
			rec.Email = v.(string)
		case "country":
			rec.Country = v.(string)
		case "source":
			rec.Source = v.(string)
		case "first_call_date":
			rec.FirstCallDate = v.(string)
		case "first_call_status":
			rec.FirstCallStatus = v.(string)
		case "notes":
			rec.Notes = v.(string)
		case "second_call_date":
			rec.SecondCallDate = v.(string)
		case "second_call_status":
			rec.SecondCallStatus = v.(string)
		case "second_call_notes":
			rec.SecondCallNotes = v.(string)
		case "final_call_date":
			rec.FinalCallDate = v.(string)
		case "final_status":
			rec.FinalStatus = v.(string)
		case "final_notes":
			rec.FinalNotes = v.(string)
		case "pronouns":
			rec.Pronouns = v.(string)
		case "device":
			rec.Device = v.(string)
		case "last_message_snippet":
			rec.LastMessageSnippet = v.(string)
		case "date_added":
			rec.DateAdded = v.(string)
		case "tenant_scope":
			rec.TenantScope = v.(string)
		case "lead_score":
			rec.LeadScore = v.(float64)
		case "last_updated":
			rec.LastUpdated = v.(int64)
		case "message_count":
			rec.MessageCount = v.(int)
		case "duplicate_phones":
			rec.DuplicatePhones = v.(pq.StringArray)
		case "duplicate_lead_ids":
			rec.DuplicateLeadIDs = v.(pq.StringArray)
		case "duplicate_date_adds":
			rec.DuplicateDateAdds = v.(pq.StringArray)
		}
	}
}
