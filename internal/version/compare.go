package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/Simon666Z/quantforge/pkg/errors"
)

// CheckResultCompatibility reports whether a backtest result written by
// resultVersion can be read by an engine at engineVersion.
//
// Rules:
//   - "main" (development build) on either side skips the check
//   - an empty result version is a result written before versions were recorded and is accepted
//   - major and minor versions must match, patch versions may differ
func CheckResultCompatibility(engineVersion, resultVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	resultVersion = strings.TrimPrefix(resultVersion, "v")

	if engineVersion == "main" || resultVersion == "main" || resultVersion == "" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeIncompatibleResult, err, "invalid engine version '%s'", engineVersion)
	}

	resultSemver, err := semver.NewVersion(resultVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeIncompatibleResult, err, "invalid result version '%s'", resultVersion)
	}

	if engineSemver.Major() != resultSemver.Major() {
		return errors.Newf(errors.ErrCodeIncompatibleResult,
			"major version mismatch: engine is %d.x.x but result was written by %d.x.x",
			engineSemver.Major(), resultSemver.Major())
	}

	if engineSemver.Minor() != resultSemver.Minor() {
		return errors.Newf(errors.ErrCodeIncompatibleResult,
			"minor version mismatch: engine is %d.%d.x but result was written by %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			resultSemver.Major(), resultSemver.Minor())
	}

	return nil
}
