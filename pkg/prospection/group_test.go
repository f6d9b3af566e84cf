package prospection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupFirstSeenOrderAndBuckets(t *testing.T) {
	log := []Entry{
		entry(1, "Rue A", Courrier, "Février 2024"),
		entry(2, "Rue B", Boitage, "Janvier 2024"),
		entry(3, "Rue C", PorteAPorte, "Février 2024"),
		entry(4, "Rue D", "inconnu", "Février 2024"),
		sentinel(5, "Mars 2024"),
	}

	groups := Group(log)
	require.Len(t, groups, 3)
	assert.Equal(t, "Février 2024", groups[0].Label)
	assert.Equal(t, "Janvier 2024", groups[1].Label)
	assert.Equal(t, "Mars 2024", groups[2].Label)

	feb := groups[0]
	assert.Equal(t, 3, feb.Count())
	assert.Len(t, feb.Buckets[Courrier], 1)
	assert.Len(t, feb.Buckets[PorteAPorte], 1)
	assert.Len(t, feb.Buckets[Boitage], 1, "unknown types fall into boitage")
	assert.False(t, feb.Empty)
	assert.True(t, groups[2].Empty)
}

func TestCountsAndSearchSkipSentinels(t *testing.T) {
	log := []Entry{
		sentinel(1, "Janvier 2024"),
		entry(2, "Rue Foch", Boitage, "Janvier 2024"),
		entry(3, "Avenue Foch", Courrier, "Janvier 2024"),
		entry(4, "Rue Victor Hugo", Boitage, "Janvier 2024"),
	}

	counts := Counts(log)
	assert.Equal(t, map[ActionType]int{Boitage: 2, PorteAPorte: 0, Courrier: 1}, counts)

	found := Search(log, "FOCH")
	require.Len(t, found, 2)
	assert.Equal(t, int64(2), found[0].ID)

	assert.Empty(t, Search(log, "system_init"))
	assert.Len(t, Search(log, ""), 3)
}

func TestColdZone(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		date string
		want bool
	}{
		{"2024-05-20", false},
		{"2024-02-03", false},
		{"2024-02-01", true},
		{"2023-11-01", true},
		{"pas une date", false},
	}
	for _, tc := range tests {
		e := Entry{Zone: "Rue A", Date: tc.date}
		assert.Equal(t, tc.want, e.IsCold(now), tc.date)
	}

	log := []Entry{
		{ID: 1, Zone: "Récente", Date: "2024-05-20"},
		{ID: 2, Zone: "Ancienne", Date: "2023-11-01"},
		{ID: 3, Zone: "Moins ancienne", Date: "2024-01-10"},
		{ID: 4, Zone: SentinelZone, Date: "2020-01-01"},
	}
	cold := ColdZones(log, now)
	require.Len(t, cold, 2)
	assert.Equal(t, int64(2), cold[0].ID)
	assert.Equal(t, int64(3), cold[1].ID)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Janvier 2024", MonthLabel(testNow))
	assert.Equal(t, "Août 2025", MonthLabel(time.Date(2025, time.August, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Décembre 2023", MonthLabel(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", CapitalizeFirst(""))
	assert.Equal(t, "École", CapitalizeFirst("école"))
}

func TestParseActionType(t *testing.T) {
	for in, want := range map[string]ActionType{
		"boitage":       Boitage,
		"Boîtage":       Boitage,
		"porte-à-porte": PorteAPorte,
		"porte a porte": PorteAPorte,
		"COURRIER":      Courrier,
	} {
		got, ok := ParseActionType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseActionType("sms")
	assert.False(t, ok)
}
