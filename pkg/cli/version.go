package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/ui"
)

// RunVersion prints version and build information.
func RunVersion(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %s (commit %s, built %s, %s %s/%s)\n",
		defaults.ToolName, ui.Version, ui.Commit, ui.BuildDate,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return err
}
