package dependency

import (
	"slices"
	"strings"

	"github.com/zbentley/pulsar/pkg/dockerfile"
)

// AptInstall formats a single RUN that refreshes the package index, installs
// the given packages and prunes the index cache. Package names are sorted so
// that the rendered plan text is reproducible regardless of argument order.
func AptInstall(packages ...string) dockerfile.Run {
	return dockerfile.MustRun(
		"apt update",
		"apt install "+strings.Join(sorted(packages), " ")+" -y",
		"rm -rf /var/lib/apt/lists/*",
	)
}

// AptUninstall formats a single RUN that purges the given packages along with
// now-unneeded transitive dependencies. Sorted for the same reason as
// AptInstall.
func AptUninstall(packages ...string) dockerfile.Run {
	return dockerfile.MustRun(
		"apt update",
		"apt purge -y "+strings.Join(sorted(packages), " "),
		"apt autoremove --purge -y",
		"rm -rf /var/lib/apt/lists/*",
	)
}

// Download fetches a release tarball and unpacks it into the current
// directory, dropping the top-level archive directory.
func Download(url string) string {
	return "wget -c " + url + " -O - | tar -xzC . --strip-components=1"
}

func sorted(packages []string) []string {
	out := slices.Clone(packages)
	slices.Sort(out)
	return out
}
