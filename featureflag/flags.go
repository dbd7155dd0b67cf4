package featureflag

type Flag string

const (
	// FlagForceOutsideQuery makes the simulation walk the whole tree for
	// every collision query instead of using the cells cached for a body.
	FlagForceOutsideQuery Flag = "FORCE_OUTSIDE_QUERY"

	FlagDisableCollisionFeed Flag = "DISABLE_COLLISION_FEED"
	FlagDisableSummaryLog    Flag = "DISABLE_SUMMARY_LOG"
)
