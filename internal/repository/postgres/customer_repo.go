// internal/repository/postgres/customer_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"leadflow-service/internal/domain/customer"
	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const customerColumns = `
	id, lead_id, tenant_scope, name, phone, email, country, source,
	first_call_date, first_call_status, notes,
	second_call_date, second_call_status, second_call_notes,
	final_call_date, final_status, final_notes,
	pronouns, device, lead_score, last_updated, last_message_snippet, message_count,
	duplicate_phones, duplicate_lead_ids, duplicate_date_adds,
	date_added, created_at, updated_at`

// patchableColumns is the allowlist for partial updates. Patch maps come
// from the reconciler and the services, but a bad key must fail loudly
// rather than reach the SQL string.
var patchableColumns = map[string]bool{
	"lead_id": true, "tenant_scope": true, "name": true, "phone": true,
	"email": true, "country": true, "source": true,
	"first_call_date": true, "first_call_status": true, "notes": true,
	"second_call_date": true, "second_call_status": true, "second_call_notes": true,
	"final_call_date": true, "final_status": true, "final_notes": true,
	"pronouns": true, "device": true, "lead_score": true, "last_updated": true,
	"last_message_snippet": true, "message_count": true,
	"duplicate_phones": true, "duplicate_lead_ids": true, "duplicate_date_adds": true,
	"date_added": true,
}

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// ListByScope returns every record belonging to one instance scope. The
// empty scope selects legacy rows that predate instances.
func (r *CustomerRepository) ListByScope(ctx context.Context, tenantScope string) ([]*customer.CustomerRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE tenant_scope = $1
		ORDER BY created_at, id
	`, customerColumns)

	rows, err := r.db.Query(ctx, query, tenantScope)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers for scope %q: %w", tenantScope, err)
	}
	defer rows.Close()

	return scanCustomers(rows)
}

// ListAll returns every record regardless of scope. Used by the legacy
// migration, which has to find scope-less rows.
func (r *CustomerRepository) ListAll(ctx context.Context) ([]*customer.CustomerRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		ORDER BY created_at, id
	`, customerColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	return scanCustomers(rows)
}

// Insert creates a new record and fills in its generated id and timestamps.
func (r *CustomerRepository) Insert(ctx context.Context, c *customer.CustomerRecord) (int64, error) {
	query := `
		INSERT INTO customers (
			lead_id, tenant_scope, name, phone, email, country, source,
			first_call_date, first_call_status, notes,
			second_call_date, second_call_status, second_call_notes,
			final_call_date, final_status, final_notes,
			pronouns, device, lead_score, last_updated, last_message_snippet, message_count,
			duplicate_phones, duplicate_lead_ids, duplicate_date_adds, date_added
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13,
			$14, $15, $16,
			$17, $18, $19, $20, $21, $22,
			$23, $24, $25, $26
		)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.LeadID, c.TenantScope, c.Name, c.Phone, c.Email, c.Country, c.Source,
		c.FirstCallDate, c.FirstCallStatus, c.Notes,
		c.SecondCallDate, c.SecondCallStatus, c.SecondCallNotes,
		c.FinalCallDate, c.FinalStatus, c.FinalNotes,
		c.Pronouns, c.Device, c.LeadScore, c.LastUpdated, c.LastMessageSnippet, c.MessageCount,
		c.DuplicatePhones, c.DuplicateLeadIDs, c.DuplicateDateAdds, c.DateAdded,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return 0, fmt.Errorf("failed to insert customer %q: %w", c.LeadID, err)
	}

	return c.ID, nil
}

// Patch applies a partial field update to one record. Keys must be in the
// patchable allowlist.
func (r *CustomerRepository) Patch(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	i := 1
	for col, v := range fields {
		if !patchableColumns[col] {
			return fmt.Errorf("column %q is not patchable: %w", col, xerrors.ErrInvalidInput)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, v)
		i++
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d", strings.Join(sets, ", "), i)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to patch customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes one record by storage id.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func scanCustomers(rows pgx.Rows) ([]*customer.CustomerRecord, error) {
	var out []*customer.CustomerRecord
	for rows.Next() {
		var c customer.CustomerRecord
		err := rows.Scan(
			&c.ID, &c.LeadID, &c.TenantScope, &c.Name, &c.Phone, &c.Email, &c.Country, &c.Source,
			&c.FirstCallDate, &c.FirstCallStatus, &c.Notes,
			&c.SecondCallDate, &c.SecondCallStatus, &c.SecondCallNotes,
			&c.FinalCallDate, &c.FinalStatus, &c.FinalNotes,
			&c.Pronouns, &c.Device, &c.LeadScore, &c.LastUpdated, &c.LastMessageSnippet, &c.MessageCount,
			&c.DuplicatePhones, &c.DuplicateLeadIDs, &c.DuplicateDateAdds,
			&c.DateAdded, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("customer rows iteration failed: %w", err)
	}
	return out, nil
}
