package domain

// AppMetadata describes an installed package for the info footer.
type AppMetadata struct {
	VersionName        *string `json:"version_name,omitempty"`
	PackageName        string  `json:"package_name"`
	VersionCode        int64   `json:"version_code"`
	TargetSdk          *int    `json:"target_sdk,omitempty"`
	MinSdk             *int    `json:"min_sdk,omitempty"`
	FirstInstallTimeMs int64   `json:"first_install_time_ms"`
	LastUpdateTimeMs   int64   `json:"last_update_time_ms"`
}
