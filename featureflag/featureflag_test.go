package featureflag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeatureFlag(t *testing.T) {
	f := New([]string{string(FlagForceOutsideQuery)})

	t.Run("is set", func(t *testing.T) {
		require.True(t, f.IsSet(FlagForceOutsideQuery))
		require.False(t, f.IsSet(FlagDisableSummaryLog))
		require.False(t, FeatureFlag(nil).IsSet(FlagDisableSummaryLog))
	})

	t.Run("run if disabled", func(t *testing.T) {
		var runOutsideQuery bool
		f.IfNotSet(FlagForceOutsideQuery, func() {
			runOutsideQuery = true
		})
		require.False(t, runOutsideQuery)

		var runFeed bool
		f.IfNotSet(FlagDisableCollisionFeed, func() {
			runFeed = true
		})
		require.True(t, runFeed)
	})
}
