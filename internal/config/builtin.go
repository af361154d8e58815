package config

// DefaultBuiltinLayout is used when tiling.default_layout is not set.
const DefaultBuiltinLayout = "grid"

// BuiltinLayouts returns the layouts available without any configuration.
// Layouts in the config file either replace one of these by name or inherit
// from one with "inherits: builtin:<name>".
func BuiltinLayouts() map[string]Layout {
	full := TileRegion{Type: RegionFull}
	return map[string]Layout{
		"grid": {
			Mode:            LayoutModeAuto,
			TileRegion:      full,
			FlexibleLastRow: true,
		},
		"columns": {
			Mode:       LayoutModeHorizontal,
			TileRegion: full,
		},
		"rows": {
			Mode:       LayoutModeVertical,
			TileRegion: full,
		},
		"master-stack": {
			Mode:       LayoutModeMasterStack,
			TileRegion: full,
			MasterStack: MasterStack{
				MasterWidthPercent: 50,
				MaxStackRows:       3,
				MaxStackCols:       2,
			},
		},
		"right-half": {
			Mode:            LayoutModeAuto,
			TileRegion:      TileRegion{Type: RegionRightHalf},
			FlexibleLastRow: true,
		},
	}
}
