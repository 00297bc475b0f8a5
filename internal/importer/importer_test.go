package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/modport/internal/importer/mocks"
	"github.com/vmunix/modport/internal/install"
	"github.com/vmunix/modport/internal/profile"
	"go.uber.org/mock/gomock"
)

func newTestImporter(t *testing.T, applier Applier) (*Importer, *recordingPublisher) {
	t.Helper()
	mgr := setupTestManager(t)
	status := &recordingPublisher{}
	imp := New(mgr, testCatalog(), applier, status, Config{GameDir: testGameDir, Clock: &fakeClock{}}, testLogger())
	return imp, status
}

func TestImporter_Prepare(t *testing.T) {
	imp, _ := newTestImporter(t, nil)
	dir := writeProfile(t, t.TempDir(), "Friends", ptr(twoMods))

	data, skip, err := imp.Prepare(dir)
	require.NoError(t, err)
	assert.Equal(t, SkipNone, skip)
	require.NotNil(t, data)

	assert.Equal(t, "Friends", data.Name)
	assert.Equal(t, dir, data.SourceRoot)
	assert.Equal(t, install.SourceR2, data.Source)
	assert.False(t, data.Overwrite)
	assert.Empty(t, data.ExtraFiles)
	require.Len(t, data.Mods, 2)
	assert.Equal(t, "BepInEx-BepInExPack", data.Mods[0].FullName)
	assert.Equal(t, "5.4.2100", data.Mods[0].Version)
	assert.True(t, data.Mods[0].Enabled)
	assert.False(t, data.Mods[1].Enabled)
}

func TestImporter_Prepare_NoDescriptor(t *testing.T) {
	imp, _ := newTestImporter(t, nil)
	dir := writeProfile(t, t.TempDir(), "Bare", nil)

	data, skip, err := imp.Prepare(dir)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, SkipNoDescriptor, skip)
}

func TestImporter_Prepare_EmptyDescriptor(t *testing.T) {
	imp, _ := newTestImporter(t, nil)

	for _, doc := range []string{"", "[]\n"} {
		dir := writeProfile(t, t.TempDir(), "Empty", ptr(doc))
		data, skip, err := imp.Prepare(dir)
		require.NoError(t, err)
		assert.Nil(t, data)
		assert.Equal(t, SkipEmpty, skip, "descriptor %q", doc)
	}
}

func TestImporter_Prepare_Malformed(t *testing.T) {
	imp, _ := newTestImporter(t, nil)
	dir := writeProfile(t, t.TempDir(), "Broken", ptr("name: [unterminated\n"))

	data, _, err := imp.Prepare(dir)
	require.ErrorIs(t, err, ErrDescriptorParse)
	assert.Nil(t, data)
}

func TestImporter_Prepare_Unreadable(t *testing.T) {
	imp, _ := newTestImporter(t, nil)
	dir := writeProfile(t, t.TempDir(), "Odd", nil)
	// A directory named mods.yml exists but cannot be read as a file
	require.NoError(t, os.Mkdir(filepath.Join(dir, "mods.yml"), 0o755))

	_, _, err := imp.Prepare(dir)
	require.ErrorIs(t, err, ErrDescriptorRead)
}

func TestImporter_Prepare_UnknownModsOnly(t *testing.T) {
	imp, _ := newTestImporter(t, nil)
	doc := "- name: Nobody-Nothing\n  versionNumber: {major: 1, minor: 0, patch: 0}\n"
	dir := writeProfile(t, t.TempDir(), "Ghost", ptr(doc))

	data, skip, err := imp.Prepare(dir)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, SkipEmpty, skip)
}

func TestImporter_Prepare_DropsUnknownMods(t *testing.T) {
	imp, _ := newTestImporter(t, nil)
	doc := twoMods + "- name: BepInEx-BepInExPak\n  versionNumber: {major: 5, minor: 4, patch: 2100}\n"
	dir := writeProfile(t, t.TempDir(), "Typo", ptr(doc))

	data, _, err := imp.Prepare(dir)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Len(t, data.Mods, 2)
}

func TestImporter_Prepare_DeletesExisting(t *testing.T) {
	mgr := setupTestManager(t)
	imp := New(mgr, testCatalog(), nil, &recordingPublisher{}, Config{GameDir: testGameDir}, testLogger())

	_, err := mgr.CreateProfile("Friends", "manual")
	require.NoError(t, err)

	dir := writeProfile(t, t.TempDir(), "Friends", ptr(twoMods))
	data, _, err := imp.Prepare(dir)
	require.NoError(t, err)
	require.NotNil(t, data)

	_, ok := mgr.ProfileIndex("Friends")
	assert.False(t, ok, "existing profile should be deleted during preparation")
}

func TestImporter_Prepare_NoDescriptorKeepsExisting(t *testing.T) {
	mgr := setupTestManager(t)
	imp := New(mgr, testCatalog(), nil, &recordingPublisher{}, Config{GameDir: testGameDir}, testLogger())

	_, err := mgr.CreateProfile("Friends", "manual")
	require.NoError(t, err)

	dir := writeProfile(t, t.TempDir(), "Friends", nil)
	_, skip, err := imp.Prepare(dir)
	require.NoError(t, err)
	assert.Equal(t, SkipNoDescriptor, skip)

	_, ok := mgr.ProfileIndex("Friends")
	assert.True(t, ok)
}

func TestImporter_Prepare_UnknownModsKeepsExisting(t *testing.T) {
	mgr := setupTestManager(t)
	imp := New(mgr, testCatalog(), nil, &recordingPublisher{}, Config{GameDir: testGameDir}, testLogger())

	existing, err := mgr.CreateProfile("Friends", "manual")
	require.NoError(t, err)
	require.NoError(t, mgr.AddMod(existing.ID, 0, profile.Mod{FullName: "BepInEx-BepInExPack", Version: "5.4.2100", Enabled: true}))

	doc := "- name: Gone-Mod\n  versionNumber: {major: 1, minor: 0, patch: 0}\n"
	dir := writeProfile(t, t.TempDir(), "Friends", ptr(doc))
	data, skip, err := imp.Prepare(dir)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, SkipEmpty, skip)

	_, ok := mgr.ProfileIndex("Friends")
	require.True(t, ok, "skipped profile must not delete the existing one")
	modList, err := mgr.Mods(existing.ID)
	require.NoError(t, err)
	assert.Len(t, modList, 1)
	assert.DirExists(t, existing.Path)
}

func TestImporter_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	applier := mocks.NewMockApplier(ctrl)
	imp, _ := newTestImporter(t, applier)

	data := install.ImportData{Name: "Friends", Source: install.SourceR2}
	applier.EXPECT().
		Apply(gomock.Any(), data, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ install.ImportData, opts install.Options) error {
			assert.False(t, opts.CanCancel)
			assert.False(t, opts.SendProgress)
			assert.Nil(t, ctx.Done(), "install step should not be cancellable")
			opts.OnProgress(install.Progress{TotalProgress: 0.5})
			opts.OnProgress(install.Progress{TotalProgress: 1})
			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fractions []float64
	require.NoError(t, imp.Execute(ctx, data, func(f float64) { fractions = append(fractions, f) }))
	assert.Equal(t, []float64{0.5, 1}, fractions)
}

func TestImporter_Execute_PropagatesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	applier := mocks.NewMockApplier(ctrl)
	imp, _ := newTestImporter(t, applier)

	boom := errors.New("disk full")
	applier.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom)

	err := imp.Execute(context.Background(), install.ImportData{Name: "Friends"}, nil)
	assert.Equal(t, boom, err)
}

func TestImporter_ImportProfile_PublishesProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	applier := mocks.NewMockApplier(ctrl)
	imp, status := newTestImporter(t, applier)

	applier.EXPECT().
		Apply(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ install.ImportData, opts install.Options) error {
			opts.OnProgress(install.Progress{TotalProgress: 1.0 / 3})
			opts.OnProgress(install.Progress{TotalProgress: 1})
			return nil
		})

	require.NoError(t, imp.importProfile(context.Background(), install.ImportData{Name: "Friends"}))
	assert.Equal(t, []string{
		"Importing profile 'Friends'... 0%",
		"Importing profile 'Friends'... 33%",
		"Importing profile 'Friends'... 100%",
	}, status.all())
}

func TestProgressMessage(t *testing.T) {
	tests := []struct {
		fraction float64
		want     string
	}{
		{0, "Importing profile 'A'... 0%"},
		{0.125, "Importing profile 'A'... 13%"},
		{0.996, "Importing profile 'A'... 100%"},
		{1, "Importing profile 'A'... 100%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressMessage("A", tt.fraction))
	}
}

func TestSkipReason_String(t *testing.T) {
	assert.Equal(t, "no mods.yml", SkipNoDescriptor.String())
	assert.Equal(t, "no mods", SkipEmpty.String())
	assert.Empty(t, SkipNone.String())
}
