package checker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethanolivertroy/version-checker/internal/clients"
	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/manager"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func pypi(name, current string) models.PackageSpec {
	return models.PackageSpec{Name: name, CurrentVersion: current, Ecosystem: models.EcosystemPyPI}
}

func latest(name, v string) models.VersionInfo {
	return models.VersionInfo{Name: name, LatestVersion: v}
}

func TestCheck_OutdatedWithoutUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := clients.NewMockIndex(ctrl)
	mgr := manager.NewMockManager(ctrl)

	index.EXPECT().Latest(gomock.Any(), "requests").Return(latest("requests", "2.31.0"), nil)

	outcomes, err := New(index, mgr, Options{ResolveInstalled: true}).
		Check(context.Background(), []models.PackageSpec{pypi("requests", "2.0.0")}, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	o := outcomes[0]
	require.NotNil(t, o.Comparison)
	assert.Equal(t, models.ComparisonResult{Name: "requests", Current: "2.0.0", Latest: "2.31.0", IsOutdated: true}, *o.Comparison)
	assert.False(t, o.Updated)
	assert.NoError(t, o.LookupErr)
}

func TestCheck_UpdateInstallsLatest(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := clients.NewMockIndex(ctrl)
	mgr := manager.NewMockManager(ctrl)

	index.EXPECT().Latest(gomock.Any(), "requests").Return(latest("requests", "2.31.0"), nil)
	mgr.EXPECT().Install(gomock.Any(), "requests", "2.31.0").Return(nil)

	outcomes, err := New(index, mgr, Options{}).
		Check(context.Background(), []models.PackageSpec{pypi("requests", "2.0.0")}, true)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Updated)
	assert.NoError(t, outcomes[0].UpdateErr)
}

func TestCheck_UpToDateIsNotInstalled(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := clients.NewMockIndex(ctrl)
	mgr := manager.NewMockManager(ctrl)

	index.EXPECT().Latest(gomock.Any(), "flask").Return(latest("flask", "3.0.0"), nil)
	// No Install expectation: gomock fails the test if it is called

	outcomes, err := New(index, mgr, Options{}).
		Check(context.Background(), []models.PackageSpec{pypi("flask", "3.0.0")}, true)
	require.NoError(t, err)
	assert.False(t, outcomes[0].IsOutdated())
	assert.False(t, outcomes[0].Updated)
}

func TestCheck_UnknownPackageDoesNotStopOthers(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := clients.NewMockIndex(ctrl)

	gomock.InOrder(
		index.EXPECT().Latest(gomock.Any(), "requests").Return(latest("requests", "2.31.0"), nil),
		index.EXPECT().Latest(gomock.Any(), "no-such-package").
			Return(models.VersionInfo{}, &checkerrors.LookupError{Package: "no-such-package", Err: checkerrors.ErrPackageNotFound}),
		index.EXPECT().Latest(gomock.Any(), "flask").Return(latest("flask", "3.0.0"), nil),
	)

	specs := []models.PackageSpec{
		pypi("requests", "2.0.0"),
		pypi("no-such-package", "1.0.0"),
		pypi("flask", "3.0.0"),
	}
	outcomes, err := New(index, nil, Options{}).Check(context.Background(), specs, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.NoError(t, outcomes[0].LookupErr)
	assert.True(t, outcomes[0].IsOutdated())

	var le *checkerrors.LookupError
	require.True(t, errors.As(outcomes[1].LookupErr, &le))
	assert.Equal(t, "no-such-package", le.Package)
	assert.True(t, checkerrors.IsNotFound(outcomes[1].LookupErr))
	assert.Nil(t, outcomes[1].Comparison)

	assert.NoError(t, outcomes[2].LookupErr)
	assert.False(t, outcomes[2].IsOutdated())

	assert.Equal(t, models.Summary{Total: 3, Outdated: 1, UpToDate: 1, Failed: 1}, models.Summarize(outcomes))
}

func TestCheck_PlainLookupErrorIsWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := clients.NewMockIndex(ctrl)
	index.EXPECT().Latest(gomock.Any(), "requests").Return(models.VersionInfo{}, errors.New("boom"))

	outcomes, err := New(index, nil, Options{}).
		Check(context.Background(), []models.PackageSpec{pypi("requests", "")}, false)
	require.NoError(t, err)

	var le *checkerrors.LookupError
	require.True(t, errors.As(outcomes[0].LookupErr, &le))
	assert.Equal(t, "requests", le.Package)
}

func TestCheck_UnparsableLatestIsLookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := clients.NewMockIndex(ctrl)
	index.EXPECT().Latest(gomock.Any(), "weird").Return(latest("weird", "not a version"), nil)

	outcomes, err := New(index, nil, Options{}).
		Check(context.Background(), []models.PackageSpec{pypi("weird", "1.0")}, false)
	require.NoError(t, err)

	var le *checkerrors.LookupError
	require.True(t, errors.As(outcomes[0].LookupErr, &le))
	assert.Contains(t, le.Error(), "compare versions")
}

func TestCheck_UpdateFailureDoesNotAbort(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := clients.NewMockIndex(ctrl)
	mgr := manager.NewMockManager(ctrl)

	index.EXPECT().Latest(gomock.Any(), "requests").Return(latest("requests", "2.31.0"), nil)
	index.EXPECT().Latest(gomock.Any(), "flask").Return(latest("flask", "3.0.0"), nil)
	mgr.EXPECT().Install(gomock.Any(), "requests", "2.31.0").Return(errors.New("exit status 1"))
	mgr.EXPECT().Install(gomock.Any(), "flask", "3.0.0").Return(nil)

	specs := []models.PackageSpec{pypi("requests", "2.0.0"), pypi("flask", "2.3.0")}
	outcomes, err := New(index, mgr, Options{}).Check(context.Background(), specs, true)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	var ue *checkerrors.UpdateError
	require.True(t, errors.As(outcomes[0].UpdateErr, &ue))
	assert.Equal(t, "requests", ue.Package)
	assert.Equal(t, "2.31.0", ue.Version)
	assert.False(t, outcomes[0].Updated)

	assert.True(t, outcomes[1].Updated)
	assert.Equal(t, 1, models.Summarize(outcomes).Failed)
	assert.Error(t, Failures(outcomes))
}

func TestCheck_ResolvesInstalledVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := clients.NewMockIndex(ctrl)
	mgr := manager.NewMockManager(ctrl)

	mgr.EXPECT().Installed(gomock.Any(), "requests").Return("2.31.0", true, nil)
	mgr.EXPECT().Installed(gomock.Any(), "flask").Return("", false, errors.New("pip missing"))
	index.EXPECT().Latest(gomock.Any(), "requests").Return(latest("requests", "2.31.0"), nil)
	index.EXPECT().Latest(gomock.Any(), "flask").Return(latest("flask", "3.0.0"), nil)

	specs := []models.PackageSpec{pypi("requests", ""), pypi("flask", "")}
	outcomes, err := New(index, mgr, Options{ResolveInstalled: true}).Check(context.Background(), specs, false)
	require.NoError(t, err)

	assert.Equal(t, "2.31.0", outcomes[0].Spec.CurrentVersion)
	assert.False(t, outcomes[0].IsOutdated())

	// A failed installed lookup leaves the version absent, which counts as outdated
	assert.Empty(t, outcomes[1].Spec.CurrentVersion)
	assert.True(t, outcomes[1].IsOutdated())
	assert.NoError(t, outcomes[1].LookupErr)
}

func TestCheck_SkipsInstalledLookupWhenDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := clients.NewMockIndex(ctrl)
	mgr := manager.NewMockManager(ctrl)

	index.EXPECT().Latest(gomock.Any(), "requests").Return(latest("requests", "2.31.0"), nil)

	outcomes, err := New(index, mgr, Options{ResolveInstalled: false}).
		Check(context.Background(), []models.PackageSpec{pypi("requests", "")}, false)
	require.NoError(t, err)
	assert.True(t, outcomes[0].IsOutdated())
}

func TestCheck_CancelledContextStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	index := clients.NewMockIndex(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	index.EXPECT().Latest(gomock.Any(), "first").DoAndReturn(func(ctx context.Context, name string) (models.VersionInfo, error) {
		cancel()
		return latest(name, "1.0.0"), nil
	})

	specs := []models.PackageSpec{pypi("first", "1.0.0"), pypi("second", "1.0.0")}
	outcomes, err := New(index, nil, Options{}).Check(ctx, specs, false)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "first", outcomes[0].Spec.Name)
}

func TestLoadSpecs(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.Package = "requests==2.0.0"
	specs, err := LoadSpecs(cfg)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "2.0.0", specs[0].CurrentVersion)

	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte("requests==2.0.0\nflask\n"), 0o644))
	cfg = models.DefaultConfig()
	cfg.Requirements = path
	specs, err = LoadSpecs(cfg)
	require.NoError(t, err)
	assert.Len(t, specs, 2)
	assert.Equal(t, dir, WorkDir(cfg))
}

func TestLoadSpecs_Errors(t *testing.T) {
	var pe *checkerrors.ParseError

	_, err := LoadSpecs(models.DefaultConfig())
	assert.True(t, errors.As(err, &pe))

	cfg := models.DefaultConfig()
	cfg.Requirements = filepath.Join(t.TempDir(), "missing.txt")
	specs, err := LoadSpecs(cfg)
	assert.Empty(t, specs)
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, checkerrors.ExitFailure, checkerrors.GetExitCode(err))
}

func TestFromConfig(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfg := models.DefaultConfig()

	c, err := FromConfig(cfg, models.EcosystemNpm, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &clients.NPMClient{}, c.index)
	assert.IsType(t, &manager.NPM{}, c.manager)

	_, err = FromConfig(cfg, "cargo", "", nil)
	assert.Error(t, err)
}

func TestFromConfig_ClearCache(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	dir := filepath.Join(cacheHome, appName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, "0123456789abcdef.json")

	for _, noCache := range []bool{false, true} {
		require.NoError(t, os.WriteFile(stale, []byte(`{"info":{"version":"1.0"}}`), 0o644))

		cfg := models.DefaultConfig()
		cfg.ClearCache = true
		cfg.NoCache = noCache
		_, err := FromConfig(cfg, models.EcosystemPyPI, "", nil)
		require.NoError(t, err)

		_, err = os.Stat(stale)
		assert.True(t, errors.Is(err, os.ErrNotExist), "no_cache=%v", noCache)
	}

	// Without the flag cached entries are left alone
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))
	_, err := FromConfig(models.DefaultConfig(), models.EcosystemPyPI, "", nil)
	require.NoError(t, err)
	assert.FileExists(t, stale)
}

func TestLoadSpecs_IncludeIndirect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.mod")
	content := "module example.com/app\n\nrequire (\n\tgolang.org/x/text v0.3.0\n\tgolang.org/x/sys v0.1.0 // indirect\n)\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := models.DefaultConfig()
	cfg.Requirements = path
	specs, err := LoadSpecs(cfg)
	require.NoError(t, err)
	assert.Len(t, specs, 1)

	cfg.IncludeIndirect = true
	specs, err = LoadSpecs(cfg)
	require.NoError(t, err)
	assert.Len(t, specs, 2)
}

func TestFailures(t *testing.T) {
	assert.NoError(t, Failures(nil))
	assert.NoError(t, Failures([]models.Outcome{{Spec: pypi("ok", "1.0")}}))

	lookup := &checkerrors.LookupError{Package: "ghost", Err: checkerrors.ErrPackageNotFound}
	update := &checkerrors.UpdateError{Package: "flask", Version: "3.0.0", Err: errors.New("exit status 1")}
	err := Failures([]models.Outcome{
		{Spec: pypi("ok", "1.0")},
		{Spec: pypi("ghost", ""), LookupErr: lookup},
		{Spec: pypi("flask", "2.0.0"), UpdateErr: update},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, lookup)
	assert.ErrorIs(t, err, update)
}
