// internal/domain/customer/dto.go
package customer

type BulkUpsertRequest struct {
	Records []*CustomerRecord `json:"records" binding:"required"`
}

// RecordError ties a per-record storage failure to the lead it belonged to.
type RecordError struct {
	LeadID string `json:"lead_id"`
	Error  string `json:"error"`
}

type BulkUpsertResult struct {
	Count                     int           `json:"count"`
	Skipped                   int           `json:"skipped"`
	CollapsedDuplicateLeadIDs int           `json:"collapsed_duplicate_lead_ids"`
	Errors                    []RecordError `json:"errors,omitempty"`
	ErrorsTruncated           bool          `json:"errors_truncated,omitempty"`
}

type RemoveResult struct {
	Removed bool `json:"removed"`
}

// MergeDetail records one collapsed phone group from a dedupe sweep.
type MergeDetail struct {
	Phone         string   `json:"phone"` // normalized key
	KeptLeadID    string   `json:"kept_lead_id"`
	MergedLeadIDs []string `json:"merged_lead_ids"`
}

type DedupeResult struct {
	Removed         int           `json:"removed"`
	Merged          int           `json:"merged"`
	GroupsProcessed int           `json:"groups_processed"`
	Details         []MergeDetail `json:"details"`
}

type PurgeResult struct {
	Scanned int `json:"scanned"`
	Removed int `json:"removed"`
}

type MigrateResult struct {
	Legacy  int  `json:"legacy"`
	Updated int  `json:"updated"`
	DryRun  bool `json:"dry_run"`
}
