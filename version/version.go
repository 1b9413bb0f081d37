package version

var (
	// GitCommit is the current HEAD set using ldflags.
	GitCommit string

	// Version is the built software's version.
	Version string = LMSemVer
)

func init() {
	if GitCommit != "" {
		Version += "-" + GitCommit
	}
}

// LMSemVer is the current semantic version of the ledgermint daemon.
const LMSemVer = "0.1.0"
