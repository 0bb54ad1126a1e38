package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

type DuckDBPresetStoreTestSuite struct {
	suite.Suite
	store *DuckDBPresetStore
	clock time.Time
	ctx   context.Context
}

func TestDuckDBPresetStoreSuite(t *testing.T) {
	suite.Run(t, new(DuckDBPresetStoreTestSuite))
}

func (suite *DuckDBPresetStoreTestSuite) SetupTest() {
	store, err := NewDuckDBPresetStore("", nil)
	suite.Require().NoError(err)

	suite.clock = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return suite.clock }

	suite.store = store
	suite.ctx = context.Background()
}

func (suite *DuckDBPresetStoreTestSuite) TearDownTest() {
	suite.Require().NoError(suite.store.Close())
}

func (suite *DuckDBPresetStoreTestSuite) TestSaveAndGet() {
	saved, err := suite.store.Save(suite.ctx, Preset{
		UserID:   "alice",
		Name:     "fast cross",
		Strategy: types.StrategyTypeSMACrossover,
		Params:   strategy.Params{"shortWindow": 5, "longWindow": 20},
	})
	suite.Require().NoError(err)

	suite.NotEmpty(saved.ID)
	suite.Equal("alice", saved.UserID)
	suite.Equal("fast cross", saved.Name)
	suite.Equal(types.StrategyTypeSMACrossover, saved.Strategy)
	suite.Equal(strategy.Params{"shortWindow": 5, "longWindow": 20}, saved.Params)
	suite.Equal(suite.clock, saved.CreatedAt)
	suite.Equal(suite.clock, saved.UpdatedAt)

	got, err := suite.store.Get(suite.ctx, "alice", "fast cross")
	suite.Require().NoError(err)
	suite.Equal(saved, got)
}

func (suite *DuckDBPresetStoreTestSuite) TestSaveUpsertsOnUserAndName() {
	first, err := suite.store.Save(suite.ctx, Preset{
		UserID:   "alice",
		Name:     "mine",
		Strategy: types.StrategyTypeRSIReversal,
		Params:   strategy.Params{"rsiPeriod": 14},
	})
	suite.Require().NoError(err)

	suite.clock = suite.clock.Add(time.Hour)

	second, err := suite.store.Save(suite.ctx, Preset{
		UserID:   "alice",
		Name:     "mine",
		Strategy: types.StrategyTypeMACD,
		Params:   strategy.Params{"fastPeriod": 8},
	})
	suite.Require().NoError(err)

	suite.Equal(first.ID, second.ID)
	suite.Equal(first.CreatedAt, second.CreatedAt)
	suite.Equal(suite.clock, second.UpdatedAt)
	suite.Equal(types.StrategyTypeMACD, second.Strategy)
	suite.Equal(strategy.Params{"fastPeriod": 8}, second.Params)

	presets, err := suite.store.List(suite.ctx, "alice")
	suite.Require().NoError(err)
	suite.Len(presets, 1)
}

func (suite *DuckDBPresetStoreTestSuite) TestSameNameForDifferentUsers() {
	_, err := suite.store.Save(suite.ctx, Preset{UserID: "alice", Name: "default", Strategy: types.StrategyTypeTurtle})
	suite.Require().NoError(err)

	_, err = suite.store.Save(suite.ctx, Preset{UserID: "bob", Name: "default", Strategy: types.StrategyTypeKeltner})
	suite.Require().NoError(err)

	alice, err := suite.store.Get(suite.ctx, "alice", "default")
	suite.Require().NoError(err)
	suite.Equal(types.StrategyTypeTurtle, alice.Strategy)
	suite.Equal(strategy.Params{}, alice.Params)

	bob, err := suite.store.Get(suite.ctx, "bob", "default")
	suite.Require().NoError(err)
	suite.Equal(types.StrategyTypeKeltner, bob.Strategy)
	suite.NotEqual(alice.ID, bob.ID)
}

func (suite *DuckDBPresetStoreTestSuite) TestListOrderedByName() {
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := suite.store.Save(suite.ctx, Preset{UserID: "alice", Name: name, Strategy: types.StrategyTypeMomentum})
		suite.Require().NoError(err)
	}

	presets, err := suite.store.List(suite.ctx, "alice")
	suite.Require().NoError(err)
	suite.Require().Len(presets, 3)
	suite.Equal("alpha", presets[0].Name)
	suite.Equal("mid", presets[1].Name)
	suite.Equal("zeta", presets[2].Name)

	empty, err := suite.store.List(suite.ctx, "nobody")
	suite.Require().NoError(err)
	suite.NotNil(empty)
	suite.Empty(empty)
}

func (suite *DuckDBPresetStoreTestSuite) TestDelete() {
	_, err := suite.store.Save(suite.ctx, Preset{UserID: "alice", Name: "gone", Strategy: types.StrategyTypeMomentum})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.store.Delete(suite.ctx, "alice", "gone"))

	_, err = suite.store.Get(suite.ctx, "alice", "gone")
	suite.True(errors.HasCode(err, errors.ErrCodePresetNotFound))

	err = suite.store.Delete(suite.ctx, "alice", "gone")
	suite.True(errors.HasCode(err, errors.ErrCodePresetNotFound))
}

func (suite *DuckDBPresetStoreTestSuite) TestGetMissing() {
	_, err := suite.store.Get(suite.ctx, "alice", "missing")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodePresetNotFound))
}

func (suite *DuckDBPresetStoreTestSuite) TestSaveValidation() {
	testCases := []struct {
		name   string
		preset Preset
		code   errors.ErrorCode
	}{
		{
			name:   "missing user",
			preset: Preset{Name: "x", Strategy: types.StrategyTypeMACD},
			code:   errors.ErrCodeInvalidParameter,
		},
		{
			name:   "missing name",
			preset: Preset{UserID: "alice", Strategy: types.StrategyTypeMACD},
			code:   errors.ErrCodeInvalidParameter,
		},
		{
			name:   "missing strategy",
			preset: Preset{UserID: "alice", Name: "x"},
			code:   errors.ErrCodeInvalidParameter,
		},
		{
			name:   "unknown strategy",
			preset: Preset{UserID: "alice", Name: "x", Strategy: "ICHIMOKU"},
			code:   errors.ErrCodeUnsupportedStrategy,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.store.Save(suite.ctx, tc.preset)
			suite.Error(err)
			suite.True(errors.HasCode(err, tc.code))
		})
	}
}

func (suite *DuckDBPresetStoreTestSuite) TestPersistsToFile() {
	path := filepath.Join(suite.T().TempDir(), "presets.duckdb")

	store, err := NewDuckDBPresetStore(path, nil)
	suite.Require().NoError(err)

	_, err = store.Save(suite.ctx, Preset{UserID: "alice", Name: "kept", Strategy: types.StrategyTypeBollingerBands})
	suite.Require().NoError(err)
	suite.Require().NoError(store.Close())

	reopened, err := NewDuckDBPresetStore(path, nil)
	suite.Require().NoError(err)
	defer reopened.Close()

	preset, err := reopened.Get(suite.ctx, "alice", "kept")
	suite.Require().NoError(err)
	suite.Equal(types.StrategyTypeBollingerBands, preset.Strategy)
}

func (suite *DuckDBPresetStoreTestSuite) TestImplementsPresetStore() {
	var _ PresetStore = suite.store
}
