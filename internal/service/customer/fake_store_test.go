package customer_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"leadflow-service/internal/dedupe"
	"leadflow-service/internal/domain/customer"
	xerrors "leadflow-service/internal/pkg/errors"
)

// fakeStore is an in-memory record collection for unit tests. Insertion
// order doubles as creation order, matching the repository's
// created_at-sorted listings. Individual operations can be made to fail to
// exercise partial-failure paths.
type fakeStore struct {
	mu      sync.Mutex
	records []*customer.CustomerRecord
	nextID  int64

	insertErr error
	patchErr  error
	deleteErr error
	listErr   error

	inserts int
	patches int
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) seed(recs ...*customer.CustomerRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range recs {
		cp := r.Clone()
		cp.ID = f.nextID
		cp.CreatedAt = time.Unix(f.nextID, 0)
		f.nextID++
		f.records = append(f.records, cp)
	}
}

func (f *fakeStore) ListByScope(ctx context.Context, tenantScope string) ([]*customer.CustomerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*customer.CustomerRecord
	for _, r := range f.records {
		if r.TenantScope == tenantScope {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]*customer.CustomerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*customer.CustomerRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, rec *customer.CustomerRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserts++
	cp := rec.Clone()
	cp.ID = f.nextID
	cp.CreatedAt = time.Unix(f.nextID, 0)
	f.nextID++
	f.records = append(f.records, cp)
	rec.ID = cp.ID
	return cp.ID, nil
}

func (f *fakeStore) Patch(ctx context.Context, id int64, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patchErr != nil {
		return f.patchErr
	}
	for _, r := range f.records {
		if r.ID == id {
			f.patches++
			dedupe.Apply(r, dedupe.Patch{Fields: fields})
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.deletes++
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return xerrors.ErrNotFound
}

// byLeadID finds the stored record for a lead id, or nil.
func (f *fakeStore) byLeadID(leadID string) *customer.CustomerRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.LeadID == leadID {
			return r.Clone()
		}
	}
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

var errStorageDown = fmt.Errorf("storage unavailable")
