/*
Package cgraph holds the configuration shared by the cgraph command line
tools: the options for a single annotate-and-export run and the batch
configuration that groups several runs.
*/
package cgraph

// BuildRevision stores the commit in the git repository at build time and is
// specified with -ldflags at build time.
var BuildRevision = ""

const (
	// DefaultWorkers is the number of batch runs executed concurrently.
	DefaultWorkers = 2
)
