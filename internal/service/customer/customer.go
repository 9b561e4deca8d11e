// internal/service/customer/customer.go
package customer

import (
	"context"
	"fmt"
	"sort"

	"leadflow-service/internal/dedupe"
	"leadflow-service/internal/domain/customer"
	"leadflow-service/internal/domain/scope"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Store is the record collection the service reconciles against. The
// postgres repository satisfies it in production; tests use an in-memory
// fake. Only single-record operations exist: a crash mid-batch leaves
// partial writes, which the per-record counters surface rather than hide.
type Store interface {
	ListByScope(ctx context.Context, tenantScope string) ([]*customer.CustomerRecord, error)
	ListAll(ctx context.Context) ([]*customer.CustomerRecord, error)
	Insert(ctx context.Context, rec *customer.CustomerRecord) (int64, error)
	Patch(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// EventPublisher receives operation summaries for the dashboard event feed.
type EventPublisher interface {
	Publish(event string, payload any)
}

type Config struct {
	// MinPhoneDigits is how many digits a phone needs before it counts as an
	// identifying signal. Heuristic, kept configurable.
	MinPhoneDigits int
	// BatchWarnSize is the bulk-upsert size above which a warning is logged.
	BatchWarnSize int
	// ErrorCap bounds how many per-record errors a batch result carries.
	ErrorCap int
}

func DefaultConfig() Config {
	return Config{
		MinPhoneDigits: 5,
		BatchWarnSize:  1500,
		ErrorCap:       25,
	}
}

type CustomerService struct {
	store  Store
	cfg    Config
	events EventPublisher
	logger *zap.Logger
}

func NewCustomerService(store Store, cfg Config, events EventPublisher, logger *zap.Logger) *CustomerService {
	if cfg.MinPhoneDigits <= 0 {
		cfg.MinPhoneDigits = DefaultConfig().MinPhoneDigits
	}
	if cfg.BatchWarnSize <= 0 {
		cfg.BatchWarnSize = DefaultConfig().BatchWarnSize
	}
	if cfg.ErrorCap <= 0 {
		cfg.ErrorCap = DefaultConfig().ErrorCap
	}
	return &CustomerService{
		store:  store,
		cfg:    cfg,
		events: events,
		logger: logger,
	}
}

// fetchScope reads the call's working snapshot: one instance's records, or
// every record when operating in the legacy/global scope.
func (s *CustomerService) fetchScope(ctx context.Context, sc scope.Scope) ([]*customer.CustomerRecord, error) {
	if sc.IsGlobal() {
		return s.store.ListAll(ctx)
	}
	return s.store.ListByScope(ctx, sc.TenantID())
}

// BulkUpsert reconciles a client-supplied batch against the scope's existing
// records. Pre-existing duplicate lead ids are collapsed first so each
// incoming record lands on exactly one target; junk records are skipped;
// everything else inserts or patches. No single record failure aborts the
// batch.
func (s *CustomerService) BulkUpsert(ctx context.Context, sc scope.Scope, incoming []*customer.CustomerRecord) (*customer.BulkUpsertResult, error) {
	existing, err := s.fetchScope(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("bulk upsert prefetch failed for scope %s: %w", sc, err)
	}

	if len(incoming) > s.cfg.BatchWarnSize {
		s.logger.Warn("bulk upsert batch exceeds recommended size",
			zap.Int("batch_size", len(incoming)),
			zap.Int("warn_size", s.cfg.BatchWarnSize),
			zap.String("scope", sc.String()),
		)
	}

	result := &customer.BulkUpsertResult{}
	addError := func(leadID string, err error) {
		if len(result.Errors) >= s.cfg.ErrorCap {
			result.ErrorsTruncated = true
			return
		}
		result.Errors = append(result.Errors, customer.RecordError{LeadID: leadID, Error: err.Error()})
	}

	// Collapse pre-existing duplicate lead ids: keep the earliest-created
	// member, delete the rest. An incoming patch must have exactly one
	// target. The snapshot arrives in created_at order, so the head of each
	// group is the earliest.
	byLeadID := make(map[string]*customer.CustomerRecord, len(existing))
	for _, g := range dedupe.Actionable(dedupe.GroupByLeadID(existing)) {
		for _, dup := range g.Records[1:] {
			if err := s.store.Delete(ctx, dup.ID); err != nil {
				s.logger.Error("failed to collapse duplicate lead id",
					zap.String("lead_id", dup.LeadID), zap.Error(err))
				addError(dup.LeadID, err)
				continue
			}
			result.CollapsedDuplicateLeadIDs++
		}
	}
	for _, rec := range existing {
		if rec.LeadID == "" {
			continue
		}
		// First occurrence wins; later duplicates were just deleted.
		if _, ok := byLeadID[rec.LeadID]; !ok {
			byLeadID[rec.LeadID] = rec
		}
	}

	for _, in := range incoming {
		if !dedupe.Meaningful(in, s.cfg.MinPhoneDigits) {
			result.Skipped++
			continue
		}

		if in.LeadID == "" {
			in.LeadID = ulid.Make().String()
		}

		if target, ok := byLeadID[in.LeadID]; ok {
			fields := incomingFields(in, target, sc)
			if len(fields) > 0 {
				if err := s.store.Patch(ctx, target.ID, fields); err != nil {
					addError(in.LeadID, err)
					continue
				}
				dedupe.Apply(target, dedupe.Patch{Fields: fields})
			}
			result.Count++
			continue
		}

		if !sc.IsGlobal() {
			in.TenantScope = sc.TenantID()
		}
		if _, err := s.store.Insert(ctx, in); err != nil {
			addError(in.LeadID, err)
			continue
		}
		// Register in the in-batch index so a second record with the same
		// lead id patches instead of inserting again.
		byLeadID[in.LeadID] = in
		result.Count++
	}

	s.logger.Info("bulk upsert completed",
		zap.String("scope", sc.String()),
		zap.Int("count", result.Count),
		zap.Int("skipped", result.Skipped),
		zap.Int("collapsed", result.CollapsedDuplicateLeadIDs),
		zap.Int("errors", len(result.Errors)),
	)
	s.publish("customers.bulk_upsert", result)

	return result, nil
}

// incomingFields turns a sparse incoming record into an overwrite patch.
// Unlike dedupe.Reconcile this is client data replacing stored data, so
// populated incoming values win; only absent incoming values leave the
// target untouched. Audit sets are still unioned, never replaced, and a
// concrete tenant scope is never cleared.
func incomingFields(in, target *customer.CustomerRecord, sc scope.Scope) map[string]any {
	fields := make(map[string]any)

	set := func(col, v string) {
		if v != "" {
			fields[col] = v
		}
	}

	set("name", in.Name)
	set("phone", in.Phone)
	set("email", in.Email)
	set("country", in.Country)
	set("source", in.Source)
	set("first_call_date", in.FirstCallDate)
	set("first_call_status", in.FirstCallStatus)
	set("notes", in.Notes)
	set("second_call_date", in.SecondCallDate)
	set("second_call_status", in.SecondCallStatus)
	set("second_call_notes", in.SecondCallNotes)
	set("final_call_date", in.FinalCallDate)
	set("final_status", in.FinalStatus)
	set("final_notes", in.FinalNotes)
	set("pronouns", in.Pronouns)
	set("device", in.Device)
	set("last_message_snippet", in.LastMessageSnippet)
	set("date_added", in.DateAdded)

	if in.LeadScore != 0 {
		fields["lead_score"] = in.LeadScore
	}
	if in.LastUpdated != 0 {
		fields["last_updated"] = in.LastUpdated
	}
	if in.MessageCount != 0 {
		fields["message_count"] = in.MessageCount
	}

	if !sc.IsGlobal() && target.TenantScope != sc.TenantID() {
		fields["tenant_scope"] = sc.TenantID()
	}

	unionField(fields, "duplicate_phones", target.DuplicatePhones, in.DuplicatePhones)
	unionField(fields, "duplicate_lead_ids", target.DuplicateLeadIDs, in.DuplicateLeadIDs)
	unionField(fields, "duplicate_date_adds", target.DuplicateDateAdds, in.DuplicateDateAdds)

	return fields
}

func unionField(fields map[string]any, col string, existing, incoming pq.StringArray) {
	if len(incoming) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(existing))
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
		fields[col] = union
	}
}

// DedupePhones collapses records sharing a normalized phone. The
// highest-scoring meaningful member of each group survives and absorbs the
// others' fields; the rest are deleted with an audit trail on the survivor.
// Re-running after a completed sweep finds nothing left to collapse.
func (s *CustomerService) DedupePhones(ctx context.Context, sc scope.Scope) (*customer.DedupeResult, error) {
	records, err := s.fetchScope(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("dedupe prefetch failed for scope %s: %w", sc, err)
	}

	result := &customer.DedupeResult{Details: []customer.MergeDetail{}}

	for _, g := range dedupe.Actionable(dedupe.GroupByNormalizedPhone(records)) {
		members := make([]*customer.CustomerRecord, len(g.Records))
		copy(members, g.Records)
		sort.SliceStable(members, func(i, j int) bool {
			return dedupe.Score(members[i]) > dedupe.Score(members[j])
		})

		canonical := s.pickCanonical(members)
		if canonical == nil {
			// Every member is junk; the unknown purge owns those.
			continue
		}

		result.GroupsProcessed++

		working := canonical.Clone()
		acc := dedupe.NewPatch()
		var mergedLeadIDs []string
		for _, donor := range members {
			if donor == canonical {
				continue
			}
			p := dedupe.Reconcile(working, donor)
			dedupe.Apply(working, p)
			acc.Merge(p)
			mergedLeadIDs = append(mergedLeadIDs, donor.LeadID)
		}

		if !acc.IsEmpty() {
			if err := s.store.Patch(ctx, canonical.ID, acc.Fields); err != nil {
				// Without the merged fields on the survivor, deleting the
				// donors would lose data. Leave the group for a retry.
				s.logger.Error("failed to apply merge patch, leaving group intact",
					zap.String("phone", g.Key),
					zap.String("kept_lead_id", canonical.LeadID),
					zap.Error(err),
				)
				result.GroupsProcessed--
				continue
			}
			result.Merged++
		}

		for _, donor := range members {
			if donor == canonical {
				continue
			}
			if err := s.store.Delete(ctx, donor.ID); err != nil {
				s.logger.Error("failed to delete merged duplicate",
					zap.String("lead_id", donor.LeadID), zap.Error(err))
				continue
			}
			result.Removed++
		}

		result.Details = append(result.Details, customer.MergeDetail{
			Phone:         g.Key,
			KeptLeadID:    canonical.LeadID,
			MergedLeadIDs: mergedLeadIDs,
		})
	}

	s.logger.Info("phone dedupe sweep completed",
		zap.String("scope", sc.String()),
		zap.Int("groups", result.GroupsProcessed),
		zap.Int("merged", result.Merged),
		zap.Int("removed", result.Removed),
	)
	s.publish("customers.dedupe_phones", result)

	return result, nil
}

// pickCanonical returns the first meaningful member of a score-sorted group.
// Unknown records are never chosen as survivors; nil means the whole group
// is junk.
func (s *CustomerService) pickCanonical(sorted []*customer.CustomerRecord) *customer.CustomerRecord {
	for _, r := range sorted {
		if dedupe.Meaningful(r, s.cfg.MinPhoneDigits) {
			return r
		}
	}
	return nil
}

// Remove deletes the record(s) carrying one lead id within a scope.
func (s *CustomerService) Remove(ctx context.Context, sc scope.Scope, leadID string) (*customer.RemoveResult, error) {
	if leadID == "" {
		return nil, fmt.Errorf("lead id is required: %w", xerrors.ErrInvalidInput)
	}

	records, err := s.fetchScope(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("remove prefetch failed for scope %s: %w", sc, err)
	}

	result := &customer.RemoveResult{}
	for _, rec := range records {
		if rec.LeadID != leadID {
			continue
		}
		if err := s.store.Delete(ctx, rec.ID); err != nil {
			return result, fmt.Errorf("failed to remove lead %q: %w", leadID, err)
		}
		result.Removed = true
	}

	return result, nil
}

// PurgeUnknown deletes records with no identifying signal at all: no real
// name, no phone worth matching on, no email.
func (s *CustomerService) PurgeUnknown(ctx context.Context, sc scope.Scope) (*customer.PurgeResult, error) {
	records, err := s.fetchScope(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("purge prefetch failed for scope %s: %w", sc, err)
	}

	result := &customer.PurgeResult{Scanned: len(records)}
	for _, rec := range records {
		if dedupe.Meaningful(rec, s.cfg.MinPhoneDigits) {
			continue
		}
		if err := s.store.Delete(ctx, rec.ID); err != nil {
			s.logger.Error("failed to purge unknown record",
				zap.String("lead_id", rec.LeadID), zap.Error(err))
			continue
		}
		result.Removed++
	}

	s.logger.Info("unknown-record purge completed",
		zap.String("scope", sc.String()),
		zap.Int("scanned", result.Scanned),
		zap.Int("removed", result.Removed),
	)
	s.publish("customers.purge_unknown", result)

	return result, nil
}

// MigrateLegacyCustomers stamps the given scope onto records written before
// instances existed. Idempotent: once every legacy row is stamped, a rerun
// reports legacy 0.
func (s *CustomerService) MigrateLegacyCustomers(ctx context.Context, sc scope.Scope, dryRun bool) (*customer.MigrateResult, error) {
	if sc.IsGlobal() {
		return nil, fmt.Errorf("migration target must be a concrete instance: %w", xerrors.ErrInvalidScope)
	}

	legacy, err := s.store.ListByScope(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("legacy migration prefetch failed: %w", err)
	}

	result := &customer.MigrateResult{Legacy: len(legacy), DryRun: dryRun}
	if dryRun {
		return result, nil
	}

	for _, rec := range legacy {
		if err := s.store.Patch(ctx, rec.ID, map[string]any{"tenant_scope": sc.TenantID()}); err != nil {
			s.logger.Error("failed to stamp tenant scope on legacy record",
				zap.String("lead_id", rec.LeadID), zap.Error(err))
			continue
		}
		result.Updated++
	}

	s.logger.Info("legacy customer migration completed",
		zap.String("scope", sc.String()),
		zap.Int("legacy", result.Legacy),
		zap.Int("updated", result.Updated),
	)

	return result, nil
}

// List returns the scope's records for the dashboard feed.
func (s *CustomerService) List(ctx context.Context, sc scope.Scope) ([]*customer.CustomerRecord, error) {
	records, err := s.fetchScope(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers for scope %s: %w", sc, err)
	}
	return records, nil
}

func (s *CustomerService) publish(event string, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(event, payload)
}
