// internal/dedupe/group.go
package dedupe

import "leadflow-service/internal/domain/customer"

// Group is an ordered set of records sharing one matching key. Order is the
// order records appeared in the input, which keeps downstream canonical
// selection deterministic.
type Group struct {
	Key     string
	Records []*customer.CustomerRecord
}

// GroupByNormalizedPhone partitions records by normalized phone key. Records
// whose phone normalizes to "" are skipped: an empty key matches nothing.
// Groups are returned in first-seen key order.
func GroupByNormalizedPhone(records []*customer.CustomerRecord) []Group {
	return groupBy(records, func(r *customer.CustomerRecord) string {
		return NormalizePhone(r.Phone)
	})
}

// GroupByLeadID partitions records by their lead id, skipping records with a
// blank id.
func GroupByLeadID(records []*customer.CustomerRecord) []Group {
	return groupBy(records, func(r *customer.CustomerRecord) string {
		return r.LeadID
	})
}

// Actionable filters to groups of size >= 2. Singleton groups are not
// duplicates and must not reach merge processing.
func Actionable(groups []Group) []Group {
	var out []Group
	for _, g := range groups {
		if len(g.Records) >= 2 {
			out = append(out, g)
		}
	}
	return out
}

func groupBy(records []*customer.CustomerRecord, keyFn func(*customer.CustomerRecord) string) []Group {
	index := make(map[string]int, len(records))
	var groups []Group

	for _, r := range records {
		key := keyFn(r)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			groups[i].Records = append(groups[i].Records, r)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Key: key, Records: []*customer.CustomerRecord{r}})
	}

	return groups
}
