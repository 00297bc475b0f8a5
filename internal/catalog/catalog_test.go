package catalog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/modport/internal/catalog"
	"github.com/vmunix/modport/internal/catalog/mocks"
	"github.com/vmunix/modport/internal/mods"
	"go.uber.org/mock/gomock"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPackages() []catalog.Package {
	return []catalog.Package{
		{
			Name: "BepInExPack", FullName: "BepInEx-BepInExPack", Owner: "BepInEx",
			Versions: []catalog.Version{
				{FullName: "BepInEx-BepInExPack-5.4.2100", VersionNumber: "5.4.2100", DownloadURL: "https://example.com/bep"},
				{FullName: "BepInEx-BepInExPack-5.4.2000", VersionNumber: "5.4.2000"},
			},
		},
		{
			Name: "MoreCompany", FullName: "notnotnotswipez-MoreCompany", Owner: "notnotnotswipez",
			Versions: []catalog.Version{{FullName: "notnotnotswipez-MoreCompany-1.8.1", VersionNumber: "1.8.1"}},
		},
	}
}

func TestCatalog_ReadyAfterReplace(t *testing.T) {
	c := catalog.New(testLogger())
	assert.False(t, c.Ready())
	assert.Zero(t, c.Len())

	c.Replace(testPackages())
	assert.True(t, c.Ready())
	assert.Equal(t, 2, c.Len())

	installs, missing := c.Resolve([]mods.Ref{{Name: "BepInEx-BepInExPack", Version: mods.Version{Major: 5, Minor: 4, Patch: 2100}}})
	assert.Empty(t, missing)
	assert.Len(t, installs, 1)
}

func TestCatalog_Replace_DropsDuplicates(t *testing.T) {
	c := catalog.New(nil)
	pkgs := append(testPackages(), catalog.Package{FullName: "BepInEx-BepInExPack", Owner: "impostor"})
	c.Replace(pkgs)

	assert.Equal(t, 2, c.Len())
	// The impostor listing has no versions, so resolving only works if the first listing won.
	installs, missing := c.Resolve([]mods.Ref{{Name: "BepInEx-BepInExPack", Version: mods.Version{Major: 5, Minor: 4, Patch: 2100}}})
	assert.Empty(t, missing, "first listing wins")
	assert.Len(t, installs, 1)
}

func TestCatalog_Resolve(t *testing.T) {
	c := catalog.New(testLogger())
	c.Replace(testPackages())

	refs := []mods.Ref{
		{Name: "BepInEx-BepInExPack", Version: mods.Version{Major: 5, Minor: 4, Patch: 2100}, Enabled: true},
		{Name: "Someone-Unknown", Version: mods.Version{Major: 1}, Enabled: true},
		{Name: "notnotnotswipez-MoreCompany", Version: mods.Version{Major: 1, Minor: 8, Patch: 1}, Enabled: false},
		{Name: "notnotnotswipez-MoreCompany", Version: mods.Version{Major: 9}, Enabled: true},
	}

	installs, missing := c.Resolve(refs)
	require.Len(t, installs, 2)
	assert.Equal(t, catalog.ModInstall{
		FullName: "BepInEx-BepInExPack", Version: "5.4.2100", Enabled: true, DownloadURL: "https://example.com/bep",
	}, installs[0])
	assert.Equal(t, "notnotnotswipez-MoreCompany", installs[1].FullName)
	assert.False(t, installs[1].Enabled)

	require.Len(t, missing, 2)
	assert.Equal(t, "Someone-Unknown", missing[0].Name)
	assert.Equal(t, mods.Version{Major: 9}, missing[1].Version)
}

func TestCatalog_Suggest(t *testing.T) {
	c := catalog.New(testLogger())
	c.Replace(testPackages())

	name, ok := c.Suggest("BepInEx-BepInExPak")
	require.True(t, ok)
	assert.Equal(t, "BepInEx-BepInExPack", name)

	_, ok = c.Suggest("zzzz")
	assert.False(t, ok)

	_, ok = c.Suggest("BepInEx-BepInExPack")
	assert.False(t, ok, "an exact match is not a suggestion")
}

func TestCatalog_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any()).Return(testPackages(), nil)

	c := catalog.New(testLogger())
	require.NoError(t, c.Load(context.Background(), fetcher))
	assert.True(t, c.Ready())
	assert.Equal(t, 2, c.Len())
}

func TestCatalog_Load_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("offline"))

	c := catalog.New(testLogger())
	err := c.Load(context.Background(), fetcher)
	assert.ErrorContains(t, err, "offline")
	assert.False(t, c.Ready())
}

func TestCatalog_ConcurrentReaders(t *testing.T) {
	c := catalog.New(testLogger())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = c.Ready()
				_, _ = c.Resolve([]mods.Ref{{Name: "BepInEx-BepInExPack"}})
			}
		}()
	}
	c.Replace(testPackages())
	wg.Wait()
	assert.True(t, c.Ready())
}

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"A","full_name":"o-A","owner":"o","versions":[{"version_number":"1.0.0"}]}]`), 0644))

	pkgs, err := catalog.FileFetcher{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "o-A", pkgs[0].FullName)
	assert.Equal(t, "1.0.0", pkgs[0].Versions[0].VersionNumber)

	_, err = catalog.FileFetcher{Path: filepath.Join(t.TempDir(), "missing.json")}.Fetch(context.Background())
	assert.Error(t, err)
}
