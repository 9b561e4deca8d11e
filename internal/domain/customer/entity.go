// internal/domain/customer/entity.go
package customer

import (
	"time"

	"github.com/lib/pq"
)

// Lead sources recognised by the dashboard. Anything else is stored as-is
// but never normalised.
const (
	SourceInstagram = "Instagram"
	SourceFacebook  = "Facebook"
	SourceTikTok    = "TikTok"
	SourceWhatsApp  = "WhatsApp"
	SourceWebForm   = "WebForm"
)

// StatusRegistered is the terminal pipeline status. Registered records always
// win canonical selection during a phone dedupe sweep.
const StatusRegistered = "Registered"

type CustomerRecord struct {
	ID          int64  `json:"id" db:"id"`
	LeadID      string `json:"lead_id" db:"lead_id"`
	TenantScope string `json:"tenant_scope,omitempty" db:"tenant_scope"` // "" = legacy/global

	// Identity
	Name    string `json:"name" db:"name"`
	Phone   string `json:"phone" db:"phone"` // raw, as received
	Email   string `json:"email,omitempty" db:"email"`
	Country string `json:"country,omitempty" db:"country"`
	Source  string `json:"source,omitempty" db:"source"`

	// Pipeline stages: contact -> first call -> second call -> final registration
	FirstCallDate    string `json:"first_call_date,omitempty" db:"first_call_date"`
	FirstCallStatus  string `json:"first_call_status,omitempty" db:"first_call_status"`
	Notes            string `json:"notes,omitempty" db:"notes"`
	SecondCallDate   string `json:"second_call_date,omitempty" db:"second_call_date"`
	SecondCallStatus string `json:"second_call_status,omitempty" db:"second_call_status"`
	SecondCallNotes  string `json:"second_call_notes,omitempty" db:"second_call_notes"`
	FinalCallDate    string `json:"final_call_date,omitempty" db:"final_call_date"`
	FinalStatus      string `json:"final_status,omitempty" db:"final_status"`
	FinalNotes       string `json:"final_notes,omitempty" db:"final_notes"`

	// Enrichment
	Pronouns           string  `json:"pronouns,omitempty" db:"pronouns"`
	Device             string  `json:"device,omitempty" db:"device"`
	LeadScore          float64 `json:"lead_score,omitempty" db:"lead_score"`
	LastUpdated        int64   `json:"last_updated,omitempty" db:"last_updated"` // unix millis, 0 = absent
	LastMessageSnippet string  `json:"last_message_snippet,omitempty" db:"last_message_snippet"`
	MessageCount       int     `json:"message_count,omitempty" db:"message_count"`

	// Duplicate-audit trail. Only ever grows: merging records appends, never
	// removes.
	DuplicatePhones   pq.StringArray `json:"duplicate_phones,omitempty" db:"duplicate_phones"`
	DuplicateLeadIDs  pq.StringArray `json:"duplicate_lead_ids,omitempty" db:"duplicate_lead_ids"`
	DuplicateDateAdds pq.StringArray `json:"duplicate_date_adds,omitempty" db:"duplicate_date_adds"`

	DateAdded string    `json:"date_added,omitempty" db:"date_added"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy. The dedupe sweep mutates a local copy of the
// canonical record while accumulating donor patches.
func (r *CustomerRecord) Clone() *CustomerRecord {
	cp := *r
	cp.DuplicatePhones = append(pq.StringArray(nil), r.DuplicatePhones...)
	cp.DuplicateLeadIDs = append(pq.StringArray(nil), r.DuplicateLeadIDs...)
	cp.DuplicateDateAdds = append(pq.StringArray(nil), r.DuplicateDateAdds...)
	return &cp
}
