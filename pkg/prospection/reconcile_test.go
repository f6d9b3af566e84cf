package prospection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

func entry(id int64, zone string, typ ActionType, mois string) Entry {
	return Entry{ID: id, Zone: zone, Type: typ, Date: "2024-01-10", Mois: mois}
}

func sentinel(id int64, mois string) Entry {
	return Entry{ID: id, Zone: SentinelZone, Type: Boitage, Date: "2024-01-01", Mois: mois}
}

func TestApplyLogDefaults(t *testing.T) {
	res, err := Apply(nil, Intent{Kind: IntentLog, Data: LogData{Zone: "12 Rue Foch"}}, testNow)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)

	got := res.Entries[0]
	assert.Equal(t, "12 Rue Foch", got.Zone)
	assert.Equal(t, Boitage, got.Type)
	assert.Equal(t, "2024-01-15", got.Date)
	assert.Equal(t, "Janvier 2024", got.Mois)
	assert.Equal(t, testNow.UnixMilli(), got.ID)
	assert.True(t, res.Changed)
	require.NotNil(t, res.Added)
	assert.Equal(t, got, *res.Added)
}

func TestApplyLogNormalizes(t *testing.T) {
	existing := []Entry{entry(testNow.UnixMilli(), "Rue A", Courrier, "Janvier 2024")}

	res, err := Apply(existing, Intent{Kind: IntentLog, Data: LogData{
		Zone: "  3 avenue Jean Jaurès ",
		Type: "porte à porte",
		Date: "2024-02-03",
		Mois: "février 2024",
	}}, testNow)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)

	head := res.Entries[0]
	assert.Equal(t, "3 avenue Jean Jaurès", head.Zone)
	assert.Equal(t, PorteAPorte, head.Type)
	assert.Equal(t, "2024-02-03", head.Date)
	assert.Equal(t, "Février 2024", head.Mois)
	assert.Equal(t, testNow.UnixMilli()+1, head.ID, "id must stay unique")
	assert.Equal(t, existing[0], res.Entries[1], "new entries go to the head")
}

func TestApplyLogUnknownTypeFallsBack(t *testing.T) {
	res, err := Apply(nil, Intent{Kind: IntentLog, Data: LogData{Zone: "Rue B", Type: "flyers"}}, testNow)
	require.NoError(t, err)
	assert.Equal(t, Boitage, res.Entries[0].Type)
}

func TestApplyLogRequiresZone(t *testing.T) {
	existing := []Entry{entry(1, "Rue A", Boitage, "Janvier 2024")}
	_, err := Apply(existing, Intent{Kind: IntentLog, Data: LogData{Zone: "   "}}, testNow)
	require.ErrorIs(t, err, ErrEmptyZone)
	assert.Len(t, existing, 1)
}

func TestApplyDeleteMonth(t *testing.T) {
	log := []Entry{
		sentinel(1, "Janvier 2024"),
		entry(2, "Rue A", Boitage, "Janvier 2024"),
		entry(3, "Rue B", Courrier, "Février 2024"),
		entry(4, "Rue C", PorteAPorte, "janvier 2024"),
		sentinel(5, "Février 2024"),
	}
	before := clone(log)

	res, err := Apply(log, Intent{Kind: IntentDelete, Target: "Janvier", Scope: ScopeMonth}, testNow)
	require.NoError(t, err)

	assert.Equal(t, []Entry{log[0], log[2], log[4]}, res.Entries)
	assert.Equal(t, 2, res.Removed)
	assert.True(t, res.Changed)
	assert.Equal(t, before, log, "input must not be modified")
}

func TestApplyDeleteSingleIsSubstringMatch(t *testing.T) {
	log := []Entry{
		entry(1, "Lille-Sud", Boitage, "Janvier 2024"),
		entry(2, "Villeneuve-d'Ascq-lez-Lille", Boitage, "Janvier 2024"),
		entry(3, "Roubaix", Boitage, "Janvier 2024"),
		{ID: 4, Zone: SentinelZone, Mois: "lille"},
	}

	res, err := Apply(log, Intent{Kind: IntentDelete, Target: "lille", Scope: ScopeSingle}, testNow)
	require.NoError(t, err)
	assert.Equal(t, []Entry{log[2], log[3]}, res.Entries)
}

func TestApplyDeleteValidation(t *testing.T) {
	_, err := Apply(nil, Intent{Kind: IntentDelete, Scope: ScopeSingle}, testNow)
	assert.ErrorIs(t, err, ErrEmptyTarget)

	_, err = Apply(nil, Intent{Kind: IntentDelete, Target: "x", Scope: "all"}, testNow)
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestApplyDeleteNoMatch(t *testing.T) {
	log := []Entry{entry(1, "Rue A", Boitage, "Janvier 2024")}
	res, err := Apply(log, Intent{Kind: IntentDelete, Target: "zzz", Scope: ScopeSingle}, testNow)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, log, res.Entries)
}

func TestApplyReset(t *testing.T) {
	log := []Entry{entry(1, "Rue A", Boitage, "Janvier 2024"), sentinel(2, "Janvier 2024")}
	res, err := Apply(log, Intent{Kind: IntentReset}, testNow)
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.NotNil(t, res.Entries)
	assert.True(t, res.Changed)
}

func TestApplyInformational(t *testing.T) {
	log := []Entry{entry(1, "Rue A", Boitage, "Janvier 2024")}
	res, err := Apply(log, Intent{Kind: "info", Message: "Vous avez 1 action ce mois-ci."}, testNow)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, log, res.Entries)
	assert.Equal(t, "Vous avez 1 action ce mois-ci.", res.Message)
}
