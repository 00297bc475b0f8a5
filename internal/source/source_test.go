package source

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMapManagerData_PresentSlots(t *testing.T) {
	d := ManagerData[int]{R2modman: ptr(2), Thunderstore: ptr(5)}
	double := func(n int) (string, bool) { return strconv.Itoa(n * 2), true }

	got := MapManagerData(d, double)

	// Mapping the pair matches mapping each slot on its own.
	want1, _ := double(2)
	want2, _ := double(5)
	require.NotNil(t, got.R2modman)
	require.NotNil(t, got.Thunderstore)
	assert.Equal(t, want1, *got.R2modman)
	assert.Equal(t, want2, *got.Thunderstore)
}

func TestMapManagerData_AbsentSlotsStayAbsent(t *testing.T) {
	calls := 0
	f := func(n int) (int, bool) { calls++; return n + 1, true }

	got := MapManagerData(ManagerData[int]{Thunderstore: ptr(1)}, f)
	assert.Nil(t, got.R2modman)
	require.NotNil(t, got.Thunderstore)
	assert.Equal(t, 2, *got.Thunderstore)
	assert.Equal(t, 1, calls, "f must not run for absent slots")

	got = MapManagerData(ManagerData[int]{}, f)
	assert.Nil(t, got.R2modman)
	assert.Nil(t, got.Thunderstore)
	assert.Equal(t, 1, calls)
}

func TestMapManagerData_RejectedSlotBecomesAbsent(t *testing.T) {
	d := ManagerData[string]{R2modman: ptr("keep"), Thunderstore: ptr("drop")}
	got := MapManagerData(d, func(s string) (string, bool) {
		return strings.ToUpper(s), s == "keep"
	})
	require.NotNil(t, got.R2modman)
	assert.Equal(t, "KEEP", *got.R2modman)
	assert.Nil(t, got.Thunderstore)
}

func TestManagerData_Get(t *testing.T) {
	d := ManagerData[string]{R2modman: ptr("a")}
	assert.Equal(t, "a", *d.Get(KindR2modman))
	assert.Nil(t, d.Get(KindThunderstore))
	assert.Nil(t, d.Get(Kind("other")))
}

func TestManagerData_JSON(t *testing.T) {
	d := ManagerData[ProfileImportData]{
		R2modman: &ProfileImportData{Path: "/x", Profiles: []string{"Default"}},
	}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"r2modman":{"path":"/x","profiles":["Default"]},"thunderstore":null}`, string(b))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("thunderstore")
	require.NoError(t, err)
	assert.Equal(t, KindThunderstore, k)

	_, err = ParseKind("vortex")
	assert.Error(t, err)
}
