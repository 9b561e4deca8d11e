package dedupe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadflow-service/internal/dedupe"
	"leadflow-service/internal/domain/customer"
)

func TestGroupByNormalizedPhone(t *testing.T) {
	a := &customer.CustomerRecord{LeadID: "a", Phone: "+1 (555) 111-2222"}
	b := &customer.CustomerRecord{LeadID: "b", Phone: "555.111.2222"}
	c := &customer.CustomerRecord{LeadID: "c", Phone: "0712 345 678"}
	noPhone := &customer.CustomerRecord{LeadID: "d", Phone: "whatsapp only"}

	groups := dedupe.GroupByNormalizedPhone([]*customer.CustomerRecord{a, b, c, noPhone})
	require.Len(t, groups, 2)

	// First-seen key order is preserved.
	assert.Equal(t, "15551112222", groups[0].Key)
	require.Len(t, groups[0].Records, 2)
	assert.Equal(t, "a", groups[0].Records[0].LeadID)
	assert.Equal(t, "b", groups[0].Records[1].LeadID)

	assert.Equal(t, "0712345678", groups[1].Key)
	assert.Len(t, groups[1].Records, 1)
}

func TestGroupByNormalizedPhone_DifferentCountryPrefixStaysSplit(t *testing.T) {
	a := &customer.CustomerRecord{LeadID: "a", Phone: "+1 555 111 2222"}
	b := &customer.CustomerRecord{LeadID: "b", Phone: "555 111 2222"}

	groups := dedupe.GroupByNormalizedPhone([]*customer.CustomerRecord{a, b})
	assert.Len(t, groups, 2)
}

func TestGroupByLeadID(t *testing.T) {
	records := []*customer.CustomerRecord{
		{LeadID: "a"},
		{LeadID: "b"},
		{LeadID: "a"},
		{LeadID: ""},
	}

	groups := dedupe.GroupByLeadID(records)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Records, 2)
	assert.Len(t, groups[1].Records, 1)
}

func TestActionable(t *testing.T) {
	groups := []dedupe.Group{
		{Key: "1", Records: make([]*customer.CustomerRecord, 1)},
		{Key: "2", Records: make([]*customer.CustomerRecord, 2)},
		{Key: "3", Records: make([]*customer.CustomerRecord, 3)},
	}

	actionable := dedupe.Actionable(groups)
	require.Len(t, actionable, 2)
	assert.Equal(t, "2", actionable[0].Key)
	assert.Equal(t, "3", actionable[1].Key)

	assert.Nil(t, dedupe.Actionable(nil))
}
